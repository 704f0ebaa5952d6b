// Command docsift extracts text, Markdown, and chunks from document files.
//
// Usage:
//
//	docsift report.docx
//	docsift -markdown report.docx
//	docsift -chunks -max-chars 512 -overlap 64 manual.pdf
//	docsift -json -splitter markdown notes.md
//
// The format is taken from the file extension unless -format is given.
// Extracted output goes to stdout, logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/docsift/docsift"
	"github.com/docsift/docsift/chunker"
)

func main() {
	format := flag.String("format", "", "Document format override (default: the file extension)")
	markdown := flag.Bool("markdown", false, "Print the Markdown rendition instead of plain text")
	chunks := flag.Bool("chunks", false, "Print chunks with their offsets and pages")
	jsonOut := flag.Bool("json", false, "Print the full extraction as JSON")
	maxChars := flag.Int("max-chars", 0, "Chunk size cap in bytes (default 1000)")
	overlap := flag.Int("overlap", -1, "Chunk overlap in bytes (default 100)")
	splitter := flag.String("splitter", "text", "Chunk splitter: text or markdown")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: docsift [flags] <file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := docsift.DefaultConfig()
	if *maxChars > 0 {
		cfg.Chunking.MaxCharacters = *maxChars
	}
	if *overlap >= 0 {
		cfg.Chunking.Overlap = *overlap
	}
	switch *splitter {
	case "text":
		cfg.Chunking.Splitter = chunker.SplitText
	case "markdown":
		cfg.Chunking.Splitter = chunker.SplitMarkdown
	default:
		slog.Error("unknown splitter", "splitter", *splitter)
		os.Exit(2)
	}

	svc, err := docsift.New(cfg)
	if err != nil {
		slog.Error("creating service", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var out *docsift.Extraction
	if *format != "" {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			slog.Error("reading file", "file", path, "error", readErr)
			os.Exit(1)
		}
		out, err = svc.ExtractAndChunk(ctx, data, *format)
	} else {
		out, err = svc.ExtractFile(ctx, path)
	}
	if err != nil {
		slog.Error("extracting", "file", path, "error", err)
		os.Exit(1)
	}

	switch {
	case *jsonOut:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			slog.Error("encoding output", "error", err)
			os.Exit(1)
		}
	case *chunks:
		for _, c := range out.Chunks {
			m := c.Metadata
			fmt.Printf("-- chunk %d/%d [%d:%d)", m.ChunkIndex+1, m.TotalChunks, m.CharStart, m.CharEnd)
			if m.FirstPage != nil && m.LastPage != nil {
				if *m.FirstPage == *m.LastPage {
					fmt.Printf(" page %d", *m.FirstPage)
				} else {
					fmt.Printf(" pages %d-%d", *m.FirstPage, *m.LastPage)
				}
			}
			fmt.Println()
			fmt.Println(c.Content)
		}
	case *markdown:
		fmt.Println(out.Markdown)
	default:
		fmt.Println(out.Text)
	}
}
