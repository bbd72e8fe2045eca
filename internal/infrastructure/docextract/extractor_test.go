package docextract

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	e := New()
	doc, err := e.Extract(context.Background(), []byte("Grading policy: homework counts for 40 percent."), "syllabus.txt")
	require.NoError(t, err)
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, "Grading policy: homework counts for 40 percent.", doc.Text)
}

func TestExtractNoExtensionDefaultsToText(t *testing.T) {
	e := New()
	doc, err := e.Extract(context.Background(), []byte("notes"), "README")
	require.NoError(t, err)
	assert.Equal(t, "txt", doc.FileType)
}

func TestExtractDOCX(t *testing.T) {
	content := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Week one covers variables.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Week two covers </w:t></w:r><w:r><w:t>maps.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	e := New()
	doc, err := e.Extract(context.Background(), content, "outline.docx")
	require.NoError(t, err)
	assert.Equal(t, "docx", doc.FileType)
	assert.Contains(t, doc.Text, "Week one covers variables.")
	assert.Contains(t, doc.Text, "Week two covers maps.")
}

func TestExtractDOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := New()
	_, err = e.Extract(context.Background(), buf.Bytes(), "broken.docx")
	assert.Error(t, err)
}

func TestExtractEmptyFile(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), nil, "empty.txt")
	assert.Error(t, err)
}

func TestExtractBlankText(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), []byte("   \n  "), "blank.txt")
	assert.Error(t, err)
}

func TestExtractBinaryAsText(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), []byte{0xff, 0xfe, 0x00, 0x80}, "blob.bin")
	assert.Error(t, err)
}
