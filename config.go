package docsift

import (
	"log/slog"

	"github.com/docsift/docsift/chunker"
)

// Config holds all configuration for the docsift service.
type Config struct {
	// Chunking controls how ExtractAndChunk and ChunkText split text.
	// Zero-value fields fall back to the chunker defaults.
	Chunking chunker.Config `json:"chunking" yaml:"chunking"`

	// Logger receives debug output around extraction and chunking.
	// Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with the library default chunking
// behaviour.
func DefaultConfig() Config {
	return Config{
		Chunking: chunker.DefaultConfig(),
	}
}
