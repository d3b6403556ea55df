// Package extract pulls text out of claim media so the analyzer can see
// what an image shows or a video says. Extraction is strictly best
// effort: any failure yields empty text, never a claim failure.
package extract

import (
	"context"
	"errors"
)

// Kind labels an extraction strategy for logs and metrics.
type Kind string

const (
	// KindNone means the content type carries no extractable media.
	KindNone Kind = "none"
	// KindOCR is text recognition on an image.
	KindOCR Kind = "ocr"
	// KindTranscription is speech-to-text on a video's audio track.
	KindTranscription Kind = "transcription"
)

// Result is the outcome of an extraction attempt. Empty Text is a valid
// outcome: unreadable media and absent audio both produce it.
type Result struct {
	Kind Kind
	Text string
}

// Block is a recognized text fragment with its confidence.
type Block struct {
	Text       string
	Confidence float64
}

// Recognizer performs text recognition on raw image bytes.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]Block, error)
}

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// AudioExtractor splits the audio track out of a video file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// NoAudioTranscript is the fixed transcript produced for a video
// without an audio track. The pipeline records it verbatim so the
// analyzer knows the video was examined but had nothing to hear.
const NoAudioTranscript = "no audio found"

// ErrNoAudio signals a video without an audio track. Surfaces to
// callers as NoAudioTranscript, not a failure.
var ErrNoAudio = errors.New("no audio found")
