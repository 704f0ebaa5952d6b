// Package docsift extracts text, Markdown, and page geometry from
// document bytes and splits the results into bounded, traceable chunks.
//
// The Service facade wires a format registry (DOCX, PDF, XLSX, PPTX,
// HTML, plain text) to the chunk engine. Everything operates on
// in-memory bytes; only ExtractFile touches the filesystem.
package docsift

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docsift/docsift/chunker"
	"github.com/docsift/docsift/extract"
)

// Extraction bundles an extraction result with the chunks cut from it.
type Extraction struct {
	Text     string                 `json:"text"`
	Markdown string                 `json:"markdown,omitempty"`
	Pages    []chunker.PageBoundary `json:"pages,omitempty"`
	Metadata map[string]string      `json:"metadata,omitempty"`
	Chunks   []chunker.Chunk        `json:"chunks,omitempty"`
}

// ChunkOption configures a single chunking call.
type ChunkOption func(*chunkOptions)

type chunkOptions struct {
	cfg   *chunker.Config
	pages []chunker.PageBoundary
}

// WithChunking overrides the service chunking configuration for this call.
func WithChunking(cfg chunker.Config) ChunkOption {
	return func(o *chunkOptions) { o.cfg = &cfg }
}

// WithPageBoundaries attaches page boundaries to the text being chunked,
// replacing any boundaries the extractor produced.
func WithPageBoundaries(pages []chunker.PageBoundary) ChunkOption {
	return func(o *chunkOptions) { o.pages = pages }
}

// Service is the main entry point. It is safe for concurrent use once
// constructed, provided RegisterExtractor is not called concurrently
// with extraction.
type Service struct {
	cfg        Config
	extractors *extract.Registry
	engine     *chunker.Engine
	logger     *slog.Logger
}

// New creates a Service with the given configuration.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// Validate against the same defaults the chunk engine applies, so a
	// bad overlap fails here instead of on the first Chunk call.
	maxChars := cfg.Chunking.MaxCharacters
	if maxChars <= 0 {
		maxChars = chunker.DefaultConfig().MaxCharacters
	}
	if cfg.Chunking.Overlap < 0 || cfg.Chunking.Overlap >= maxChars {
		return nil, fmt.Errorf("%w: overlap %d with max_characters %d", ErrInvalidConfig, cfg.Chunking.Overlap, maxChars)
	}

	return &Service{
		cfg:        cfg,
		extractors: extract.NewRegistry(),
		engine:     chunker.New(cfg.Chunking),
		logger:     cfg.Logger,
	}, nil
}

// Extract runs the matching extractor over in-memory document bytes.
func (s *Service) Extract(ctx context.Context, data []byte, format string) (*extract.Result, error) {
	ex, err := s.extractors.Get(format)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s document", ErrEmptyInput, format)
	}

	start := time.Now()
	res, err := ex.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", format, err)
	}

	s.logger.Debug("extract: document extracted",
		"format", format, "bytes", len(data),
		"text_len", len(res.Text), "pages", len(res.Pages),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// ExtractAndChunk extracts a document and chunks the extracted content.
// The text splitter chunks the plain text with the extractor's page
// boundaries attached; the markdown splitter chunks the Markdown
// rendition instead.
func (s *Service) ExtractAndChunk(ctx context.Context, data []byte, format string, opts ...ChunkOption) (*Extraction, error) {
	res, err := s.Extract(ctx, data, format)
	if err != nil {
		return nil, err
	}

	options := &chunkOptions{}
	for _, o := range opts {
		o(options)
	}
	engine, cfg := s.engineFor(options)

	content := res.Text
	pages := res.Pages
	if cfg.Splitter == chunker.SplitMarkdown {
		content = res.Markdown
		// Page boundaries are offsets into the plain text; they only
		// carry over when the Markdown rendition is that same text.
		if content != res.Text {
			pages = nil
		}
	}
	if options.pages != nil {
		pages = options.pages
	}

	chunked, err := engine.Chunk(content, pages)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("chunk: document chunked",
		"format", format, "chunks", chunked.ChunkCount)

	return &Extraction{
		Text:     res.Text,
		Markdown: res.Markdown,
		Pages:    res.Pages,
		Metadata: res.Metadata,
		Chunks:   chunked.Chunks,
	}, nil
}

// ChunkText splits already-extracted text without going through an
// extractor.
func (s *Service) ChunkText(text string, opts ...ChunkOption) (*chunker.Result, error) {
	options := &chunkOptions{}
	for _, o := range opts {
		o(options)
	}
	engine, _ := s.engineFor(options)
	return engine.Chunk(text, options.pages)
}

// ExtractFile reads a file and extracts and chunks it. The format is
// taken from the file extension.
func (s *Service) ExtractFile(ctx context.Context, path string, opts ...ChunkOption) (*Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return s.ExtractAndChunk(ctx, data, format, opts...)
}

// Formats returns every format the service can extract, sorted.
func (s *Service) Formats() []string {
	return s.extractors.Formats()
}

// RegisterExtractor adds or replaces the extractor for a format.
func (s *Service) RegisterExtractor(format string, e extract.Extractor) {
	s.extractors.Register(format, e)
}

// engineFor returns the chunk engine for one call, building a fresh one
// when the call overrides the service configuration.
func (s *Service) engineFor(options *chunkOptions) (*chunker.Engine, chunker.Config) {
	if options.cfg != nil {
		return chunker.New(*options.cfg), *options.cfg
	}
	return s.engine, s.cfg.Chunking
}
