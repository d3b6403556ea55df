package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// transcribeVideo downloads a video, splits out its audio track and
// transcribes it. Both temp files are removed on every path. A video
// without audio yields NoAudioTranscript without invoking the
// transcriber.
func (s *Service) transcribeVideo(ctx context.Context, url string) (string, error) {
	videoPath, err := s.tempPath("claim-video-*" + mediaExt(url, ".mp4"))
	if err != nil {
		return "", err
	}
	defer os.Remove(videoPath)

	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
	defer os.Remove(audioPath)

	if err := s.videoFetcher.fetchToFile(ctx, url, videoPath); err != nil {
		return "", fmt.Errorf("fetch video: %w", err)
	}

	if err := s.audio.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		if errors.Is(err, ErrNoAudio) {
			return NoAudioTranscript, nil
		}
		return "", fmt.Errorf("extract audio: %w", err)
	}

	text, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// tempPath reserves a unique file path in the temp dir without leaving
// the file open.
func (s *Service) tempPath(pattern string) (string, error) {
	f, err := os.CreateTemp(s.tmpDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	f.Close()
	return path, nil
}

// mediaExt returns the URL's file extension or a fallback.
func mediaExt(url, fallback string) string {
	ext := filepath.Ext(url)
	if ext == "" || len(ext) > 5 || strings.ContainsAny(ext, "?&=") {
		return fallback
	}
	return ext
}
