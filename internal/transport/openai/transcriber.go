package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts audio to text via the Whisper transcription API.
type Transcriber struct {
	client *openai.Client
	model  string
}

// NewTranscriber creates a Whisper-backed transcriber. An empty model
// defaults to whisper-1.
func NewTranscriber(cfg *Config, model string) *Transcriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &Transcriber{client: newClient(cfg), model: model}
}

// Transcribe implements extract.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("create transcription: %w", err)
	}
	return resp.Text, nil
}
