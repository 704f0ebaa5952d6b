package extract

import (
	"context"
	"reflect"
	"testing"
)

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	res, err := (&PDFExtractor{}).Extract(context.Background(), []byte("plain text, no PDF header"))
	if err == nil {
		t.Fatal("expected error for non-PDF input")
	}
	if res != nil {
		t.Error("result should be nil on failure")
	}
}

func TestPDFExtractorFormats(t *testing.T) {
	if got := (&PDFExtractor{}).Formats(); !reflect.DeepEqual(got, []string{"pdf"}) {
		t.Errorf("Formats() = %v, want [pdf]", got)
	}
}
