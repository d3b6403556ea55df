package extract

import (
	"context"
	"fmt"
	"strings"
)

// ocrImage fetches an image and recognizes its text, keeping only
// blocks above the confidence floor. Fragments are joined with single
// spaces into one line.
func (s *Service) ocrImage(ctx context.Context, url string) (string, error) {
	data, err := s.imageFetcher.fetchBytes(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}

	blocks, err := s.recognizer.Recognize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("recognize image: %w", err)
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Confidence <= s.minConfidence {
			continue
		}
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, " "), nil
}
