package docsift

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/docsift/docsift/chunker"
	"github.com/docsift/docsift/extract"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func buildTestDocx(t *testing.T) []byte {
	t.Helper()
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Intro</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Body text.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	if _, err := f.Write([]byte(document)); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

// stubExtractor lets routing tests control exactly what extraction yields.
type stubExtractor struct {
	res *extract.Result
	err error
}

func (s *stubExtractor) Extract(ctx context.Context, data []byte) (*extract.Result, error) {
	return s.res, s.err
}

func (s *stubExtractor) Formats() []string { return []string{"stub"} }

func newService(t *testing.T, cfg Config) *Service {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

// ---------------------------------------------------------------------------
// Construction tests
// ---------------------------------------------------------------------------

func TestNewDefaults(t *testing.T) {
	s, err := New(Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if s.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
	if s.engine == nil {
		t.Error("engine should be constructed")
	}
}

func TestNewKeepsCustomLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(Config{Logger: logger})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if s.logger != logger {
		t.Error("custom logger not kept")
	}
}

func TestNewRejectsInvalidOverlap(t *testing.T) {
	tests := []struct {
		name string
		cfg  chunker.Config
	}{
		{"equal_to_max", chunker.Config{MaxCharacters: 100, Overlap: 100}},
		{"above_max", chunker.Config{MaxCharacters: 100, Overlap: 150}},
		{"negative", chunker.Config{MaxCharacters: 100, Overlap: -1}},
		{"equal_to_defaulted_max", chunker.Config{Overlap: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Config{Chunking: tt.cfg})
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
			if s != nil {
				t.Error("service should be nil on invalid config")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Extraction tests
// ---------------------------------------------------------------------------

func TestServiceExtract(t *testing.T) {
	s := newService(t, DefaultConfig())

	res, err := s.Extract(context.Background(), buildTestDocx(t), "docx")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Text != "Intro\nBody text." {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Markdown != "## Intro\n\nBody text." {
		t.Errorf("Markdown = %q", res.Markdown)
	}
}

func TestServiceExtractUnsupportedFormat(t *testing.T) {
	s := newService(t, DefaultConfig())

	_, err := s.Extract(context.Background(), []byte("x"), "zip")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestServiceExtractEmptyInput(t *testing.T) {
	s := newService(t, DefaultConfig())

	for _, data := range [][]byte{nil, {}} {
		_, err := s.Extract(context.Background(), data, "docx")
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("err = %v, want ErrEmptyInput", err)
		}
	}

	// An unknown format still reports the routing problem first.
	_, err := s.Extract(context.Background(), nil, "zip")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestServiceExtractLegacyFormat(t *testing.T) {
	s := newService(t, DefaultConfig())

	// Legacy binary formats resolve to an extractor that refuses them;
	// the sentinel still surfaces through the wrapping.
	_, err := s.Extract(context.Background(), []byte{0xd0, 0xcf}, "doc")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

// ---------------------------------------------------------------------------
// Extract-and-chunk tests
// ---------------------------------------------------------------------------

func TestExtractAndChunk(t *testing.T) {
	s := newService(t, DefaultConfig())

	out, err := s.ExtractAndChunk(context.Background(), buildTestDocx(t), "docx")
	if err != nil {
		t.Fatalf("ExtractAndChunk returned error: %v", err)
	}

	if out.Text != "Intro\nBody text." {
		t.Errorf("Text = %q", out.Text)
	}
	if out.Markdown != "## Intro\n\nBody text." {
		t.Errorf("Markdown = %q", out.Markdown)
	}
	if len(out.Chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(out.Chunks))
	}
	c := out.Chunks[0]
	if c.Content != out.Text {
		t.Errorf("chunk content = %q, want full text", c.Content)
	}
	if c.Metadata.TotalChunks != 1 || c.Metadata.ChunkIndex != 0 {
		t.Errorf("metadata = %+v", c.Metadata)
	}
}

func TestExtractAndChunkMarkdownSplitter(t *testing.T) {
	s := newService(t, DefaultConfig())
	s.RegisterExtractor("stub", &stubExtractor{res: &extract.Result{
		Text:     "plain text",
		Markdown: "# heading\n\nbody",
		Pages:    []chunker.PageBoundary{{CharStart: 0, CharEnd: 10, Page: 3}},
	}})

	md := chunker.Config{MaxCharacters: 1000, Trim: true, Splitter: chunker.SplitMarkdown}
	out, err := s.ExtractAndChunk(context.Background(), []byte("raw"), "stub", WithChunking(md))
	if err != nil {
		t.Fatalf("ExtractAndChunk returned error: %v", err)
	}

	if len(out.Chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(out.Chunks))
	}
	c := out.Chunks[0]
	if c.Content != "# heading\n\nbody" {
		t.Errorf("chunk content = %q, want the markdown rendition", c.Content)
	}
	// Page boundaries index the plain text, so they cannot attach to
	// chunks cut from a diverging markdown rendition.
	if c.Metadata.FirstPage != nil {
		t.Errorf("FirstPage = %v, want nil", *c.Metadata.FirstPage)
	}
	// The extraction keeps reporting the extractor's boundaries.
	if len(out.Pages) != 1 || out.Pages[0].Page != 3 {
		t.Errorf("Pages = %+v", out.Pages)
	}
}

func TestExtractAndChunkTextSplitterKeepsPages(t *testing.T) {
	s := newService(t, DefaultConfig())
	s.RegisterExtractor("stub", &stubExtractor{res: &extract.Result{
		Text:     "plain text",
		Markdown: "# heading\n\nbody",
		Pages:    []chunker.PageBoundary{{CharStart: 0, CharEnd: 10, Page: 3}},
	}})

	out, err := s.ExtractAndChunk(context.Background(), []byte("raw"), "stub")
	if err != nil {
		t.Fatalf("ExtractAndChunk returned error: %v", err)
	}
	c := out.Chunks[0]
	if c.Content != "plain text" {
		t.Errorf("chunk content = %q, want the plain text", c.Content)
	}
	if c.Metadata.FirstPage == nil || *c.Metadata.FirstPage != 3 {
		t.Errorf("FirstPage = %v, want 3", c.Metadata.FirstPage)
	}
}

func TestExtractAndChunkPageOverride(t *testing.T) {
	s := newService(t, DefaultConfig())
	s.RegisterExtractor("stub", &stubExtractor{res: &extract.Result{
		Text:  "plain text",
		Pages: []chunker.PageBoundary{{CharStart: 0, CharEnd: 10, Page: 3}},
	}})

	override := []chunker.PageBoundary{{CharStart: 0, CharEnd: 5, Page: 42}}
	out, err := s.ExtractAndChunk(context.Background(), []byte("raw"), "stub", WithPageBoundaries(override))
	if err != nil {
		t.Fatalf("ExtractAndChunk returned error: %v", err)
	}
	if got := out.Chunks[0].Metadata.FirstPage; got == nil || *got != 42 {
		t.Errorf("FirstPage = %v, want 42", got)
	}
}

// ---------------------------------------------------------------------------
// ChunkText tests
// ---------------------------------------------------------------------------

func TestChunkText(t *testing.T) {
	s := newService(t, DefaultConfig())

	res, err := s.ChunkText("alpha beta gamma")
	if err != nil {
		t.Fatalf("ChunkText returned error: %v", err)
	}
	if res.ChunkCount != 1 || res.Chunks[0].Content != "alpha beta gamma" {
		t.Errorf("got %d chunks, first %q", res.ChunkCount, res.Chunks[0].Content)
	}
}

func TestChunkTextOverride(t *testing.T) {
	s := newService(t, DefaultConfig())

	res, err := s.ChunkText("alpha beta gamma delta epsilon",
		WithChunking(chunker.Config{MaxCharacters: 10, Trim: true}))
	if err != nil {
		t.Fatalf("ChunkText returned error: %v", err)
	}
	if res.ChunkCount < 2 {
		t.Fatalf("got %d chunks, want several under the 10-byte cap", res.ChunkCount)
	}
	for _, c := range res.Chunks {
		if len(c.Content) > 10 {
			t.Errorf("chunk %q exceeds the cap", c.Content)
		}
	}
}

func TestChunkTextOverrideValidatedAtCall(t *testing.T) {
	s := newService(t, DefaultConfig())

	_, err := s.ChunkText("text", WithChunking(chunker.Config{MaxCharacters: 10, Overlap: 10}))
	if !errors.Is(err, chunker.ErrInvalidOverlap) {
		t.Errorf("err = %v, want chunker.ErrInvalidOverlap", err)
	}
}

func TestChunkTextWithPages(t *testing.T) {
	s := newService(t, DefaultConfig())

	text := "alpha beta gamma"
	pages := []chunker.PageBoundary{{CharStart: 0, CharEnd: len(text), Page: 1}}
	res, err := s.ChunkText(text, WithPageBoundaries(pages))
	if err != nil {
		t.Fatalf("ChunkText returned error: %v", err)
	}
	m := res.Chunks[0].Metadata
	if m.FirstPage == nil || *m.FirstPage != 1 || m.LastPage == nil || *m.LastPage != 1 {
		t.Errorf("page range = (%v, %v), want (1, 1)", m.FirstPage, m.LastPage)
	}
}

// ---------------------------------------------------------------------------
// File entry point tests
// ---------------------------------------------------------------------------

func TestExtractFile(t *testing.T) {
	s := newService(t, DefaultConfig())

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello world\r\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	out, err := s.ExtractFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractFile returned error: %v", err)
	}
	if out.Text != "hello world\n" {
		t.Errorf("Text = %q, want newline-normalized content", out.Text)
	}
	if len(out.Chunks) != 1 || out.Chunks[0].Content != "hello world" {
		t.Errorf("chunks = %+v", out.Chunks)
	}
}

func TestExtractFileUnknownExtension(t *testing.T) {
	s := newService(t, DefaultConfig())

	path := filepath.Join(t.TempDir(), "archive.zip")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	_, err := s.ExtractFile(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractFileMissing(t *testing.T) {
	s := newService(t, DefaultConfig())

	_, err := s.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

// ---------------------------------------------------------------------------
// Registry surface tests
// ---------------------------------------------------------------------------

func TestServiceFormats(t *testing.T) {
	s := newService(t, DefaultConfig())

	formats := s.Formats()
	found := map[string]bool{}
	for _, f := range formats {
		found[f] = true
	}
	for _, want := range []string{"docx", "pdf", "xlsx", "pptx", "html", "txt", "md"} {
		if !found[want] {
			t.Errorf("Formats() missing %q", want)
		}
	}

	s.RegisterExtractor("custom", &stubExtractor{res: &extract.Result{Text: "x"}})
	if _, err := s.Extract(context.Background(), []byte("raw"), "custom"); err != nil {
		t.Errorf("registered extractor not routed: %v", err)
	}
}
