package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// FFmpeg extracts audio tracks by shelling out to the ffmpeg binary.
type FFmpeg struct {
	bin string
}

// NewFFmpeg creates an ffmpeg-backed audio extractor. bin is the
// ffmpeg executable path or name.
func NewFFmpeg(bin string) *FFmpeg {
	return &FFmpeg{bin: bin}
}

// ExtractAudio writes the video's audio track to audioPath as mp3.
// Returns ErrNoAudio when the container has no audio stream.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	cmd := exec.CommandContext(ctx, f.bin,
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-y",
		audioPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if isNoAudioStream(stderr.String()) {
			return ErrNoAudio
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}

	// ffmpeg can exit zero without producing output on some containers
	info, err := os.Stat(audioPath)
	if err != nil || info.Size() == 0 {
		return ErrNoAudio
	}
	return nil
}

func isNoAudioStream(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "does not contain any stream") ||
		strings.Contains(lower, "output file does not contain any stream") ||
		strings.Contains(lower, "no audio")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
