package extract

import (
	"context"
	"crypto/md5" //nolint:gosec // content fingerprint, not security
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// cannedTranscripts are the deterministic transcripts the simulated
// transcriber cycles through. The same file always maps to the same
// transcript.
var cannedTranscripts = []string{
	"The speaker claims that a new government policy will reduce taxes for all citizens starting next month.",
	"In this video someone asserts that a recent scientific study proves a popular health supplement cures chronic illness.",
	"The narrator states that a major city has banned all private vehicles from its downtown area.",
	"A person in the recording alleges that election results in a neighboring district were altered after polls closed.",
	"The video features a claim that an extinct animal species has been sighted alive in a remote region.",
}

// SimulatedTranscriber produces deterministic transcripts keyed by file
// content hash. It stands in for a speech-to-text provider in
// environments without one.
type SimulatedTranscriber struct{}

// NewSimulatedTranscriber creates a simulated transcriber.
func NewSimulatedTranscriber() *SimulatedTranscriber {
	return &SimulatedTranscriber{}
}

// Transcribe hashes the audio file and returns the canned transcript
// selected by the hash.
func (t *SimulatedTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // content fingerprint, not security
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash audio: %w", err)
	}

	sum := h.Sum(nil)
	idx := binary.BigEndian.Uint64(sum[:8]) % uint64(len(cannedTranscripts))
	return cannedTranscripts[idx], nil
}
