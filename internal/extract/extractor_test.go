package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"quizbank_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTextFromDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>What is the capital of France?</w:t></w:r></w:p>
    <w:p><w:r><w:t>A. Paris</w:t><w:tab/><w:t>B. Lyon</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := Text("quiz.docx", buildDOCX(t, doc))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}

	if !strings.Contains(text, "What is the capital of France?") {
		t.Errorf("missing paragraph text, got %q", text)
	}
	if !strings.Contains(text, "A. Paris\tB. Lyon") {
		t.Errorf("tab run not preserved, got %q", text)
	}
	if !strings.Contains(text, "France?\n") {
		t.Errorf("paragraph boundary not a newline, got %q", text)
	}
}

func TestTextFromDOCXNoDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("other.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	_, err := Text("quiz.docx", buf.Bytes())
	if err == nil {
		t.Fatal("expected error for zip without word/document.xml")
	}
}

func TestTextLegacyDocRejected(t *testing.T) {
	// Legacy .doc is an OLE binary, not a zip.
	_, err := Text("quiz.doc", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1})
	if !errors.Is(err, util.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTextFromXLSX(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Question")
	f.SetCellValue("Sheet1", "B1", "Answer")
	f.SetCellValue("Sheet1", "A2", "2+2=?")
	// B2 left empty; D2 holds the answer with a gap in between.
	f.SetCellValue("Sheet1", "D2", "4")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	text, err := Text("quiz.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Text: %v", err)
	}

	if !strings.Contains(text, "Question Answer") {
		t.Errorf("header row missing, got %q", text)
	}
	if !strings.Contains(text, "2+2=? 4") {
		t.Errorf("empty cells must be dropped from the joined row, got %q", text)
	}
}

func TestTextFromTXTStripsBOM(t *testing.T) {
	text, err := Text("quiz.txt", []byte("\xef\xbb\xbfhello"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "hello" {
		t.Errorf("got %q, want %q", text, "hello")
	}
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text("malware.exe", []byte("MZ"))
	if !errors.Is(err, util.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
