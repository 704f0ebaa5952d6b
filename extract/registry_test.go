package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubExtractor returns canned values for registry and routing tests.
type stubExtractor struct {
	result  *Result
	err     error
	formats []string
}

func (s *stubExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	return s.result, s.err
}

func (s *stubExtractor) Formats() []string { return s.formats }

// ---------------------------------------------------------------------------
// Lookup tests
// ---------------------------------------------------------------------------

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		format string
		want   any
	}{
		{"docx", &DOCXExtractor{}},
		{".docx", &DOCXExtractor{}},
		{"DOCX", &DOCXExtractor{}},
		{" pdf ", &PDFExtractor{}},
		{"xlsm", &XLSXExtractor{}},
		{"htm", &HTMLExtractor{}},
		{"markdown", &TextExtractor{}},
		{"doc", &LegacyExtractor{}},
	}
	for _, tt := range tests {
		e, err := r.Get(tt.format)
		if err != nil {
			t.Errorf("Get(%q) returned error: %v", tt.format, err)
			continue
		}
		if reflect.TypeOf(e) != reflect.TypeOf(tt.want) {
			t.Errorf("Get(%q) = %T, want %T", tt.format, e, tt.want)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	e, err := r.Get("zip")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if e != nil {
		t.Error("extractor should be nil for unknown format")
	}
}

func TestRegistryFormats(t *testing.T) {
	want := []string{
		"doc", "docx", "htm", "html", "markdown", "md",
		"pdf", "ppt", "pptx", "txt", "xls", "xlsm", "xlsx",
	}
	got := NewRegistry().Formats()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	stub := &stubExtractor{result: &Result{Text: "stubbed"}, formats: []string{"custom"}}

	r.Register(".CUSTOM", stub)
	e, err := r.Get("custom")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if e != stub {
		t.Error("registered extractor not returned")
	}

	// Registration replaces an existing binding.
	r.Register("docx", stub)
	e, err = r.Get("docx")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if e != stub {
		t.Error("override did not replace the built-in extractor")
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := []struct{ in, want string }{
		{"docx", "docx"},
		{".docx", "docx"},
		{"  .PDF ", "pdf"},
		{"Md", "md"},
	}
	for _, tt := range tests {
		if got := normalizeFormat(tt.in); got != tt.want {
			t.Errorf("normalizeFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
