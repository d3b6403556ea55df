package extract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/truthguard/truthguard/internal/domain"
	"github.com/truthguard/truthguard/internal/logger"
	"github.com/truthguard/truthguard/internal/metrics"
)

// Config tunes media fetching and recognition.
type Config struct {
	OCRFetchTimeout   time.Duration
	VideoFetchTimeout time.Duration
	MinConfidence     float64
	TmpDir            string
}

// Service picks and runs the extraction strategy for a claim's media.
type Service struct {
	recognizer    Recognizer
	transcriber   Transcriber
	audio         AudioExtractor
	imageFetcher  *fetcher
	videoFetcher  *fetcher
	minConfidence float64
	tmpDir        string
}

// New creates an extraction service.
func New(recognizer Recognizer, transcriber Transcriber, audio AudioExtractor, cfg Config) *Service {
	return &Service{
		recognizer:    recognizer,
		transcriber:   transcriber,
		audio:         audio,
		imageFetcher:  newFetcher(cfg.OCRFetchTimeout),
		videoFetcher:  newFetcher(cfg.VideoFetchTimeout),
		minConfidence: cfg.MinConfidence,
		tmpDir:        cfg.TmpDir,
	}
}

// FromClaim extracts text from the claim's media at fileURL. Text and
// url claims carry no media and return an empty result immediately.
// Extraction failures are logged and swallowed: the claim proceeds to
// analysis with whatever text was recovered, possibly none.
func (s *Service) FromClaim(ctx context.Context, c *domain.Claim, fileURL string) Result {
	log := logger.FromContext(ctx).With(
		zap.String("claim_id", c.ID),
		zap.String("content_type", string(c.ContentType)),
	)

	var kind Kind
	switch c.ContentType {
	case domain.ContentText, domain.ContentURL:
		return Result{Kind: KindNone}
	case domain.ContentImage:
		kind = KindOCR
	case domain.ContentVideo:
		kind = KindTranscription
	default:
		log.Warn("unknown content type, skipping extraction")
		return Result{Kind: KindNone}
	}

	if fileURL == "" {
		log.Debug("claim has no media url, skipping extraction")
		return Result{Kind: kind}
	}

	if (kind == KindOCR && s.recognizer == nil) ||
		(kind == KindTranscription && (s.transcriber == nil || s.audio == nil)) {
		log.Warn("no extractor configured for media kind", zap.String("kind", string(kind)))
		return Result{Kind: kind}
	}

	start := time.Now()
	var text string
	var err error
	switch kind {
	case KindOCR:
		text, err = s.ocrImage(ctx, fileURL)
	case KindTranscription:
		text, err = s.transcribeVideo(ctx, fileURL)
	}
	metrics.ExtractionDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Warn("media extraction failed, continuing without extracted text", zap.Error(err))
		return Result{Kind: kind}
	}

	log.Debug("media extraction finished", zap.Int("text_len", len(text)))
	return Result{Kind: kind, Text: text}
}
