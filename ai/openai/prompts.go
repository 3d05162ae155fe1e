package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/stylematch/core"
)

const captionResponseSchema = `{
  "type": "object",
  "properties": {
    "items": {"type": "array", "items": {"type": "string"}},
    "category": {"type": "string"},
    "gender": {"type": "string", "enum": [%s]}
  },
  "required": ["items", "category", "gender"],
  "additionalProperties": false
}`

const captionPromptTemplate = `Given an image of an item of clothing, analyze the item and generate a JSON output with the following fields: "items", "category", and "gender".
Use your understanding of fashion trends, styles, and gender preferences to provide accurate and relevant suggestions for how to complete the outfit.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble or a markdown code fence.

%s

Rules:
- "items" is a list of items that would go well with the item in the picture. Each entry is the title of an item of clothing that names its style, color and gender.
- "category" must be chosen from this list: [%s].
- "gender" must be chosen from this list: [%s].
- Do not include the description of the item in the picture.

Example Input: An image representing a black leather jacket.

Example Output: {"items": ["Fitted White Women's T-shirt", "White Canvas Sneakers", "Women's Black Skinny Jeans"], "category": "Jackets", "gender": "Women"}`

const matchPrompt = `You will be given two images of two different items of clothing.
Your goal is to decide if the items in the images would work in an outfit together.
The first image is the reference item (the item that the user is trying to match with another item).
You need to decide if the second item would work well with the reference item.
Your response must be a JSON output with the following fields: "answer", "reason".
The "answer" field must be either "yes" or "no", depending on whether you think the items would work well together.
The "reason" field must be a short explanation of your reasoning for your decision. Do not include the descriptions of the 2 images.
Output ONLY the JSON object, without a markdown code fence.`

// buildCaptionPrompt creates the captioning prompt with the category and gender vocabularies embedded.
func buildCaptionPrompt(categories []string) string {
	genders := make([]string, len(core.Genders))
	quoted := make([]string, len(core.Genders))
	for i, g := range core.Genders {
		genders[i] = string(g)
		quoted[i] = `"` + string(g) + `"`
	}
	return fmt.Sprintf(captionPromptTemplate,
		fmt.Sprintf(captionResponseSchema, strings.Join(quoted, ", ")),
		strings.Join(categories, ", "),
		strings.Join(genders, ", "))
}
