package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/truthguard/truthguard/internal/extract"
)

const recognizePrompt = `Extract every piece of visible text from this image. ` +
	`Respond with a JSON array of objects, each with "text" and "confidence" (0..1) fields, ` +
	`ordered top to bottom. Respond with [] if the image contains no text. No other output.`

// Recognizer reads text out of images via a vision-capable chat model.
type Recognizer struct {
	client *openai.Client
	model  string
}

// NewRecognizer creates a vision-backed text recognizer.
func NewRecognizer(cfg *Config, model string) *Recognizer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Recognizer{client: newClient(cfg), model: model}
}

// Recognize implements extract.Recognizer.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) ([]extract.Block, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: recognizePrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL(image),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty recognition response")
	}

	return parseBlocks(resp.Choices[0].Message.Content), nil
}

// parseBlocks decodes the model's JSON block list. A response that is
// not valid JSON is kept verbatim as one fully confident block.
func parseBlocks(content string) []extract.Block {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		if content == "" || content == "[]" {
			return nil
		}
		return []extract.Block{{Text: content, Confidence: 1.0}}
	}

	blocks := make([]extract.Block, 0, len(raw))
	for _, b := range raw {
		blocks = append(blocks, extract.Block{Text: b.Text, Confidence: b.Confidence})
	}
	return blocks
}

// dataURL inlines image bytes as a base64 data URL.
func dataURL(image []byte) string {
	mime := http.DetectContentType(image)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}
