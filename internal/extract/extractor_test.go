package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/truthguard/truthguard/internal/domain"
)

// Fakes for the recognition and transcription ports.

type fakeRecognizer struct {
	blocks []Block
	err    error
	called bool
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) ([]Block, error) {
	f.called = true
	return f.blocks, f.err
}

type fakeTranscriber struct {
	text   string
	err    error
	called bool
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.called = true
	return f.text, f.err
}

type fakeAudioExtractor struct {
	err    error
	called bool
}

func (f *fakeAudioExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	f.called = true
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(audioPath, []byte("audio"), 0o600)
}

func newTestService(t *testing.T, rec *fakeRecognizer, tr *fakeTranscriber, au *fakeAudioExtractor) *Service {
	t.Helper()
	return New(rec, tr, au, Config{
		OCRFetchTimeout:   5 * time.Second,
		VideoFetchTimeout: 5 * time.Second,
		MinConfidence:     0.4,
		TmpDir:            t.TempDir(),
	})
}

func mediaServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func textClaim(ct domain.ContentType) domain.Claim {
	return domain.Claim{ID: "claim-1", UserID: "user-1", Content: "c", ContentType: ct}
}

func TestFromClaim_TextAndURLSkipExtraction(t *testing.T) {
	rec := &fakeRecognizer{}
	tr := &fakeTranscriber{}
	svc := newTestService(t, rec, tr, &fakeAudioExtractor{})

	for _, ct := range []domain.ContentType{domain.ContentText, domain.ContentURL} {
		c := textClaim(ct)
		res := svc.FromClaim(context.Background(), &c, "http://example.com/file")
		if res.Kind != KindNone || res.Text != "" {
			t.Errorf("%s: expected empty none result, got %+v", ct, res)
		}
	}

	if rec.called || tr.called {
		t.Error("no recognizer or transcriber call expected for text/url claims")
	}
}

func TestFromClaim_ImageOCRFiltersLowConfidence(t *testing.T) {
	srv := mediaServer(t, []byte("fake-image-bytes"))

	rec := &fakeRecognizer{blocks: []Block{
		{Text: "BREAKING", Confidence: 0.95},
		{Text: "noise", Confidence: 0.2},
		{Text: "NEWS", Confidence: 0.8},
		{Text: "   ", Confidence: 0.9},
	}}
	svc := newTestService(t, rec, &fakeTranscriber{}, &fakeAudioExtractor{})

	c := textClaim(domain.ContentImage)
	res := svc.FromClaim(context.Background(), &c, srv.URL+"/img.png")

	if res.Kind != KindOCR {
		t.Errorf("expected ocr kind, got %s", res.Kind)
	}
	if res.Text != "BREAKING NEWS" {
		t.Errorf("expected filtered joined text, got %q", res.Text)
	}
}

func TestFromClaim_ImageFetchErrorYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	rec := &fakeRecognizer{}
	svc := newTestService(t, rec, &fakeTranscriber{}, &fakeAudioExtractor{})

	c := textClaim(domain.ContentImage)
	res := svc.FromClaim(context.Background(), &c, srv.URL+"/missing.png")

	if res.Text != "" {
		t.Errorf("expected empty text on fetch failure, got %q", res.Text)
	}
	if rec.called {
		t.Error("recognizer must not run when the fetch fails")
	}
}

func TestFromClaim_RecognizerErrorYieldsEmpty(t *testing.T) {
	srv := mediaServer(t, []byte("fake-image-bytes"))

	rec := &fakeRecognizer{err: errors.New("provider down")}
	svc := newTestService(t, rec, &fakeTranscriber{}, &fakeAudioExtractor{})

	c := textClaim(domain.ContentImage)
	res := svc.FromClaim(context.Background(), &c, srv.URL+"/img.png")

	if res.Text != "" {
		t.Errorf("expected empty text on recognizer failure, got %q", res.Text)
	}
}

func TestFromClaim_VideoTranscription(t *testing.T) {
	srv := mediaServer(t, []byte("fake-video-bytes"))

	tr := &fakeTranscriber{text: "  the speaker claims something  "}
	au := &fakeAudioExtractor{}
	svc := newTestService(t, &fakeRecognizer{}, tr, au)

	c := textClaim(domain.ContentVideo)
	res := svc.FromClaim(context.Background(), &c, srv.URL+"/clip.mp4")

	if res.Kind != KindTranscription {
		t.Errorf("expected transcription kind, got %s", res.Kind)
	}
	if res.Text != "the speaker claims something" {
		t.Errorf("expected trimmed transcript, got %q", res.Text)
	}
	if !au.called || !tr.called {
		t.Error("expected audio extraction and transcription to run")
	}
}

func TestFromClaim_VideoWithoutAudioYieldsSentinel(t *testing.T) {
	srv := mediaServer(t, []byte("fake-video-bytes"))

	tr := &fakeTranscriber{text: "should not be used"}
	au := &fakeAudioExtractor{err: ErrNoAudio}
	svc := newTestService(t, &fakeRecognizer{}, tr, au)

	c := textClaim(domain.ContentVideo)
	res := svc.FromClaim(context.Background(), &c, srv.URL+"/silent.mp4")

	if res.Text != NoAudioTranscript {
		t.Errorf("expected %q for silent video, got %q", NoAudioTranscript, res.Text)
	}
	if tr.called {
		t.Error("transcriber must not run when there is no audio track")
	}
}

func TestFromClaim_VideoTempFilesRemoved(t *testing.T) {
	srv := mediaServer(t, []byte("fake-video-bytes"))

	tmpDir := t.TempDir()
	svc := New(&fakeRecognizer{}, &fakeTranscriber{text: "x"}, &fakeAudioExtractor{}, Config{
		OCRFetchTimeout:   5 * time.Second,
		VideoFetchTimeout: 5 * time.Second,
		MinConfidence:     0.4,
		TmpDir:            tmpDir,
	})

	c := textClaim(domain.ContentVideo)
	svc.FromClaim(context.Background(), &c, srv.URL+"/clip.mp4")

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read tmp dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected temp files to be removed, found %v", names)
	}
}

func TestFromClaim_VideoTempFilesRemovedOnTranscribeError(t *testing.T) {
	srv := mediaServer(t, []byte("fake-video-bytes"))

	tmpDir := t.TempDir()
	svc := New(&fakeRecognizer{}, &fakeTranscriber{err: errors.New("whisper down")}, &fakeAudioExtractor{}, Config{
		OCRFetchTimeout:   5 * time.Second,
		VideoFetchTimeout: 5 * time.Second,
		MinConfidence:     0.4,
		TmpDir:            tmpDir,
	})

	c := textClaim(domain.ContentVideo)
	res := svc.FromClaim(context.Background(), &c, srv.URL+"/clip.mp4")

	if res.Text != "" {
		t.Errorf("expected empty text on transcriber failure, got %q", res.Text)
	}
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read tmp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected temp files to be removed after failure, found %d entries", len(entries))
	}
}

func TestFromClaim_MissingFileURLSkips(t *testing.T) {
	rec := &fakeRecognizer{}
	svc := newTestService(t, rec, &fakeTranscriber{}, &fakeAudioExtractor{})

	c := textClaim(domain.ContentImage)
	res := svc.FromClaim(context.Background(), &c, "")

	if res.Kind != KindOCR || res.Text != "" {
		t.Errorf("expected empty ocr result, got %+v", res)
	}
	if rec.called {
		t.Error("recognizer must not run without a media url")
	}
}

func TestFromClaim_MissingCapabilitySkips(t *testing.T) {
	svc := New(nil, nil, nil, Config{TmpDir: t.TempDir()})

	for _, ct := range []domain.ContentType{domain.ContentImage, domain.ContentVideo} {
		c := textClaim(ct)
		res := svc.FromClaim(context.Background(), &c, "http://example.com/file")
		if res.Text != "" {
			t.Errorf("%s: expected empty result without extractors, got %+v", ct, res)
		}
	}
}

func TestSimulatedTranscriber_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(path, []byte("audio-payload"), 0o600); err != nil {
		t.Fatal(err)
	}

	tr := NewSimulatedTranscriber()

	first, err := tr.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := tr.Transcribe(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("expected deterministic transcript, got %q then %q", first, second)
	}
	found := false
	for _, canned := range cannedTranscripts {
		if first == canned {
			found = true
		}
	}
	if !found {
		t.Errorf("transcript %q is not one of the canned transcripts", first)
	}
}

func TestMediaExt(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"http://x/clip.mp4", ".mp4"},
		{"http://x/clip.webm", ".webm"},
		{"http://x/clip", ".mp4"},
		{"http://x/clip.mp4?token=abc", ".mp4"},
	}
	for _, tc := range tests {
		if got := mediaExt(tc.url, ".mp4"); got != tc.expected {
			t.Errorf("mediaExt(%q) = %q, want %q", tc.url, got, tc.expected)
		}
	}
}
