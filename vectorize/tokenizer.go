package vectorize

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/poiesic/stylematch/core"
)

// DefaultEncoding is the tokenizer vocabulary used by the text-embedding-3 models.
const DefaultEncoding = "cl100k_base"

// DefaultMaxTokens is the input limit of the text-embedding-3 models.
const DefaultMaxTokens = 8191

// Tokenizer maps text to model tokens and back.
// Implementations must be deterministic and safe for concurrent use.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// TiktokenTokenizer implements Tokenizer with a tiktoken BPE vocabulary.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding. The BPE ranks are fetched
// on first use and cached by tiktoken-go (see TIKTOKEN_CACHE_DIR).
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: loading tokenizer %q: %w", core.ErrConfiguration, encoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

// Encode tokenizes text. Special tokens are treated as ordinary text.
func (t *TiktokenTokenizer) Encode(text string) []int {
	return t.enc.EncodeOrdinary(text)
}

// Decode turns tokens back into text.
func (t *TiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Truncate keeps at most maxTokens leading tokens of text. Text within the
// budget is returned unchanged. A multi-byte character split by the cut is dropped.
func Truncate(tok Tokenizer, text string, maxTokens int) string {
	tokens := tok.Encode(text)
	if len(tokens) <= maxTokens {
		return text
	}
	return strings.ToValidUTF8(tok.Decode(tokens[:maxTokens]), "")
}

// CountTokens returns the total number of tokens across texts. When
// maxTokens is positive each text counts for at most maxTokens, matching
// what Truncate would send.
func CountTokens(tok Tokenizer, texts []string, maxTokens int) int {
	total := 0
	for _, text := range texts {
		n := len(tok.Encode(text))
		if maxTokens > 0 && n > maxTokens {
			n = maxTokens
		}
		total += n
	}
	return total
}
