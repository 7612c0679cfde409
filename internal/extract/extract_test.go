package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesDocx(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>Backend Engineer</w:t></w:r></w:p><w:p><w:r><w:t>Go, SQL</w:t></w:r></w:p></w:body></w:document>`)

	text, err := TextFromBytes(data, "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(text, "Backend Engineer") {
		t.Fatalf("expected extracted text to contain title, got %q", text)
	}
	if !strings.Contains(text, "Go, SQL") {
		t.Fatalf("expected extracted text to contain skills, got %q", text)
	}
}

func TestTextFromBytesSniffsMimeType(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`)

	// No declared mime type; the payload sniffs as zip and the docx
	// structure decides.
	if _, err := TextFromBytes(data, "", "cv.docx"); err != nil {
		t.Fatalf("expected sniffed docx to extract, got error: %v", err)
	}
}

func TestTextFromBytesPlainZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := TextFromBytes(buf.Bytes(), "application/zip", "notes.zip"); err == nil {
		t.Fatal("expected unsupported mime error for plain zip")
	}
}

func TestTextFromBytesEmpty(t *testing.T) {
	if _, err := TextFromBytes(nil, "application/pdf", "cv.pdf"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
