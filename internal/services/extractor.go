package services

import (
	"bytes"
	"fmt"
	"strings"

	"document-analyzer/internal/logger"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// minDirectTextLen is the threshold below which a PDF is treated as
// image-only and handed to OCR, when an engine is configured.
const minDirectTextLen = 100

// Extractor turns raw PDF bytes into plain text. Direct extraction runs
// first; OCR is a fallback for scanned documents and is optional.
type Extractor struct {
	ocr OCREngine
}

func NewExtractor(ocr OCREngine) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract returns the plain text of the document. The result may be empty
// for image-only PDFs with no OCR engine configured; that is not an error.
// Unparseable input yields an *ExtractionError.
func (e *Extractor) Extract(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Err: fmt.Errorf("pdf parser panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	var builder strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i,
				"error": err.Error(),
			}).Warn("Failed to extract text from page")
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	directText := builder.String()
	if len(strings.TrimSpace(directText)) >= minDirectTextLen || e.ocr == nil {
		return directText, nil
	}

	logger.WithFields(logrus.Fields{
		"directTextLength": len(strings.TrimSpace(directText)),
	}).Info("Little direct text extracted, running OCR")

	ocrText, ocrErr := ocrPDF(data, e.ocr)
	if ocrErr != nil {
		logger.WithFields(logrus.Fields{
			"error": ocrErr.Error(),
		}).Warn("OCR failed, keeping direct extraction result")
		return directText, nil
	}

	return longerText(directText, ocrText), nil
}

// longerText keeps the direct extraction result unless OCR recovered
// strictly more text.
func longerText(direct, ocr string) string {
	if len(strings.TrimSpace(ocr)) > len(strings.TrimSpace(direct)) {
		return ocr
	}
	return direct
}
