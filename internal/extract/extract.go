package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var errNoDocumentXML = errors.New("document.xml file not found")

// Extract pulls text from an uploaded payload, dispatching on its MIME type.
// Libraries used: github.com/ledongthuc/pdf (PDF); DOCX is read from word/document.xml.
func Extract(ctx context.Context, data []byte, mimeType string, fileName string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusCanceled, MimeType: mimeType, Err: err}
	}
	if len(data) == 0 {
		return Result{Status: StatusEmpty, MimeType: mimeType}
	}
	normalized := normalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case MimePDF:
		return ExtractPDF(ctx, data)
	case MimeDOCX:
		return extractDOCX(data)
	default:
		return Result{
			Status:   StatusUnsupported,
			MimeType: normalized,
			Err:      fmt.Errorf("unsupported mime type: %s", normalized),
		}
	}
}

// ExtractPDF reads every page of a PDF in order and joins the page texts
// with a newline. Parser failures, including panics inside the PDF library,
// are reported as StatusCorrupt. A done ctx yields StatusCanceled.
func ExtractPDF(ctx context.Context, data []byte) (res Result) {
	res.MimeType = MimePDF
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusCanceled, MimeType: MimePDF, Err: err}
	}
	if len(data) == 0 {
		res.Status = StatusEmpty
		return res
	}

	defer func() {
		if rec := recover(); rec != nil {
			res = Result{Status: StatusCorrupt, MimeType: MimePDF, Err: fmt.Errorf("pdf parser panic: %v", rec)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{Status: StatusCorrupt, MimeType: MimePDF, Err: err}
	}

	total := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return Result{Status: StatusCanceled, MimeType: MimePDF, Pages: total, Err: err}
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return Result{Status: StatusCorrupt, MimeType: MimePDF, Pages: total, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		pages = append(pages, text)
	}

	text := strings.Join(pages, "\n")
	res.Pages = total
	if strings.TrimSpace(text) == "" {
		res.Status = StatusNoTextLayer
		return res
	}
	res.Status = StatusOK
	res.Text = text
	return res
}

func extractDOCX(data []byte) Result {
	text, err := readDOCX(data)
	if err != nil {
		return Result{Status: StatusCorrupt, MimeType: MimeDOCX, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Status: StatusNoTextLayer, MimeType: MimeDOCX}
	}
	return Result{Status: StatusOK, MimeType: MimeDOCX, Text: text, Pages: 1}
}

func readDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errNoDocumentXML
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(raw)
}

func stripDocxXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean == "" || clean == "application/octet-stream" {
		clean = strings.ToLower(strings.Split(http.DetectContentType(data), ";")[0])
	}
	if clean == MimePDF || clean == MimeDOCX {
		return clean
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return MimePDF
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		if isDOCXArchive(data) {
			return MimeDOCX
		}
	}
	if clean == "application/zip" && isDOCXArchive(data) {
		return MimeDOCX
	}
	return clean
}

func isDOCXArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
