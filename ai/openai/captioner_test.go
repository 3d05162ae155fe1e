package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/core"
)

var testImage = ai.Image{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff, 0xe0}}

func TestCaptioner_Caption(t *testing.T) {
	model := &fakeModel{responses: []string{
		"```json\n{\"items\": [\"Fitted White Women's T-shirt\", \" White Canvas  Sneakers \", \"\", \"white canvas sneakers\"], \"category\": \"Jackets\", \"gender\": \"women\"}\n```",
	}}
	c := newCaptionerWithClient(model)

	got, err := c.Caption(context.Background(), testImage, []string{"Jackets", "Jeans"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Fitted White Women's T-shirt", "White Canvas Sneakers"}, got.Items)
	assert.Equal(t, "Jackets", got.Category)
	assert.Equal(t, core.GenderWomen, got.Gender)

	require.Len(t, model.messages, 1)
	parts := model.messages[0][0].Parts
	require.Len(t, parts, 2)
	prompt, ok := parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Contains(t, prompt.Text, "Jackets, Jeans")
	assert.Contains(t, prompt.Text, "Men, Women, Boys, Girls, Unisex")
	img, ok := parts[1].(llms.ImageURLContent)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(img.URL, "data:image/jpeg;base64,"))
	assert.True(t, model.options[0].JSONMode)
}

func TestCaptioner_RetriesMalformedJSON(t *testing.T) {
	model := &fakeModel{responses: []string{
		"sorry, here you go",
		`{"items": ["Black Jeans"], "category": "Shirts", "gender": "Men"}`,
	}}
	c := newCaptionerWithClient(model)

	got, err := c.Caption(context.Background(), testImage, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Black Jeans"}, got.Items)
	assert.Equal(t, 2, model.calls)
}

func TestCaptioner_GivesUpAfterThreeAttempts(t *testing.T) {
	model := &fakeModel{responses: []string{"nope", "nope", "nope", "unused"}}
	c := newCaptionerWithClient(model)

	_, err := c.Caption(context.Background(), testImage, nil)
	require.Error(t, err)
	assert.Equal(t, maxParseAttempts, model.calls)
}

func TestCaptioner_InvalidGender(t *testing.T) {
	model := &fakeModel{responses: []string{`{"items": [], "category": "Jackets", "gender": "Adults"}`}}
	c := newCaptionerWithClient(model)

	_, err := c.Caption(context.Background(), testImage, nil)
	assert.ErrorIs(t, err, core.ErrInvalidGender)
}

func TestCaptioner_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	c := newCaptionerWithClient(&fakeModel{err: boom})

	_, err := c.Caption(context.Background(), testImage, nil)
	assert.ErrorIs(t, err, boom)
}

func TestCaptioner_EmptyImage(t *testing.T) {
	model := &fakeModel{}
	c := newCaptionerWithClient(model)

	_, err := c.Caption(context.Background(), ai.Image{}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, model.messages)
}
