package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizContent = `BT /F1 12 Tf 72 700 Td (1. What is X?) Tj 0 -20 Td (a\) Foo) Tj 0 -20 Td (b\) Bar) Tj ET`

// writePDF writes a single-page US Letter document using Helvetica with fixed widths.
func writePDF(t *testing.T, content string, annots ...string) string {
	t.Helper()

	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding" +
		" /FirstChar 32 /LastChar 126 /Widths [" + strings.TrimSpace(strings.Repeat("500 ", 95)) + "] >>"
	page := "<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R"
	if len(annots) > 0 {
		refs := make([]string, len(annots))
		for i := range annots {
			refs[i] = fmt.Sprintf("%d 0 R", 6+i)
		}
		page += " /Annots [" + strings.Join(refs, " ") + "]"
	}
	page += " >>"

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		page,
		font,
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}
	objects = append(objects, annots...)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "quiz.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func extractPDF(t *testing.T, path string) *PDFDocument {
	t.Helper()
	doc, err := OpenDocument(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = doc.Close() })
	return doc
}

func TestPDFDocument_GlyphPositions(t *testing.T) {
	doc := extractPDF(t, writePDF(t, quizContent))

	require.Equal(t, 1, doc.NumPages())
	page, err := doc.Page(1)
	require.NoError(t, err)
	require.NotEmpty(t, page.Glyphs)

	first := page.Glyphs[0]
	assert.Equal(t, "1", first.Text)
	assert.InDelta(t, 72, first.Box.X0, 0.01)
	assert.InDelta(t, 78, first.Box.X1, 0.01)
	assert.InDelta(t, 80, first.Box.Top, 0.01)
	assert.InDelta(t, 92, first.Box.Bottom, 0.01)
	assert.Empty(t, page.Highlights)
}

func TestPDFDocument_PaintedHighlight(t *testing.T) {
	content := "1 1 0 rg 70 658 120 16 re f\n0 g\n" + quizContent
	doc := extractPDF(t, writePDF(t, content))

	page, err := doc.Page(1)
	require.NoError(t, err)
	require.Len(t, page.Highlights, 1)
	assert.Equal(t, ColorYellow, page.Highlights[0].Class)
	assert.Equal(t, Box{X0: 70, Top: 118, X1: 190, Bottom: 134}, page.Highlights[0].Box)

	questions, err := New(DefaultOptions()).Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "What is X?", questions[0].Text)
	assert.Equal(t, map[string]string{"a": "Foo", "b": "Bar"}, questions[0].Options)
	assert.Equal(t, []string{"b"}, questions[0].CorrectAnswers)
}

func TestPDFDocument_TransformedAndUnmarkedRects(t *testing.T) {
	content := "q 1 0 0 1 0 20 cm 0 1 0 rg 70 658 120 16 re f Q\n" +
		"1 0 0 rg 70 658 120 16 re f\n" +
		"0 1 0 rg 70 640 120 16 re n\n" + quizContent
	doc := extractPDF(t, writePDF(t, content))

	page, err := doc.Page(1)
	require.NoError(t, err)
	require.Len(t, page.Highlights, 1, "red fills and unpainted paths are ignored")
	assert.Equal(t, ColorGreen, page.Highlights[0].Class)
	assert.Equal(t, Box{X0: 70, Top: 98, X1: 190, Bottom: 114}, page.Highlights[0].Box)

	questions, err := New(DefaultOptions()).Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, []string{"a"}, questions[0].CorrectAnswers)
}

func TestPDFDocument_HighlightAnnotation(t *testing.T) {
	annot := "<< /Type /Annot /Subtype /Highlight /Rect [70 678 200 694] /C [0 1 0] >>"
	ignored := "<< /Type /Annot /Subtype /Text /Rect [70 658 200 674] /C [1 1 0] >>"
	doc := extractPDF(t, writePDF(t, quizContent, annot, ignored))

	page, err := doc.Page(1)
	require.NoError(t, err)
	require.Len(t, page.Highlights, 1)
	assert.Equal(t, ColorGreen, page.Highlights[0].Class)

	questions, err := New(DefaultOptions()).Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, []string{"a"}, questions[0].CorrectAnswers)
}

func TestPDFDocument_InvalidPage(t *testing.T) {
	doc := extractPDF(t, writePDF(t, quizContent))

	_, err := doc.Page(2)

	assert.Error(t, err)
}

func TestOpenDocument_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a pdf ", 20)), 0o644))

	_, err := OpenDocument(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open PDF")
}
