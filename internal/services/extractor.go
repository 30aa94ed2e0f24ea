package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// MinExtractedChars is the smallest amount of trimmed PDF text accepted as a resume.
const MinExtractedChars = 50

type TextExtractor interface {
	ExtractText(file models.UploadedFile) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// ExtractText implements TextExtractor.
func (t *textExtractor) ExtractText(file models.UploadedFile) (string, error) {
	switch file.BaseMimeType() {
	case models.MimeMSWord, models.MimeDocx:
		return "", &ExtractionError{Kind: KindUnsupportedWord, Message: MsgWordNotSupported}

	case models.MimeTextPlain:
		return strings.ToValidUTF8(string(file.Data), "�"), nil

	case models.MimePDF:
		return extractPDFText(file.Data)

	default:
		// Some browsers report PDFs as octet-stream or nothing at all.
		text, err := extractPDFText(file.Data)
		if err != nil {
			return "", &ExtractionError{Kind: KindUnsupportedType, Message: MsgUnsupportedType, Cause: err}
		}
		return text, nil
	}
}

func extractPDFText(data []byte) (string, error) {
	pages, err := readPDFPages(data)
	if err != nil {
		return "", &ExtractionError{Kind: KindUnreadable, Message: MsgUnreadableFile, Cause: err}
	}

	text := strings.Join(pages, "\n")
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinExtractedChars {
		return "", &ExtractionError{Kind: KindNoReadableText, Message: MsgNoReadableText}
	}

	return text, nil
}

// readPDFPages returns the text of every page in page order.
func readPDFPages(data []byte) (pages []string, err error) {
	// The pdf package panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPage := r.NumPage()
	pages = make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		pages = append(pages, pageText(r.Page(pageIndex)))
	}

	return pages, nil
}

// pageText joins the positioned text fragments of one page with single spaces.
func pageText(page pdf.Page) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	if page.V.IsNull() {
		return ""
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var fragments []string
	for _, row := range rows {
		for _, word := range row.Content {
			// State changes such as Td and Tf come back as empty fragments.
			if word.S == "" {
				continue
			}
			fragments = append(fragments, word.S)
		}
	}

	return strings.Join(fragments, " ")
}
