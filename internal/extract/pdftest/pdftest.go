// Package pdftest builds small, well-formed PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Build returns a PDF with one page per element of pages. Every string in a
// page becomes its own text object, so extracted text has one line per entry.
// Text is encoded with WinAnsi so Spanish accents survive extraction.
func Build(pages ...[]string) []byte {
	return build(pages, true)
}

// BuildImageOnly returns a PDF whose pages only contain vector drawing
// operations, mimicking a scanned document without a text layer.
func BuildImageOnly(pageCount int) []byte {
	pages := make([][]string, pageCount)
	return build(pages, false)
}

func build(pages [][]string, withText bool) []byte {
	if len(pages) == 0 {
		pages = [][]string{nil}
	}

	// Object layout: 1 catalog, 2 pages tree, 3 font, then (page, content) pairs.
	objects := make([]string, 0, 3+2*len(pages))
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, lines := range pages {
		contentID := 5 + 2*i
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentID,
		))
		stream := contentStream(lines, withText)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefAt)
	return buf.Bytes()
}

func contentStream(lines []string, withText bool) string {
	if !withText {
		return "q 0.2 0.2 0.2 rg 72 72 468 648 re f Q"
	}
	var b strings.Builder
	y := 740
	for _, line := range lines {
		fmt.Fprintf(&b, "BT /F1 11 Tf 72 %d Td (%s) Tj ET\n", y, escape(encode(line)))
		y -= 14
	}
	return strings.TrimRight(b.String(), "\n")
}

func encode(s string) string {
	out, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return out
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
