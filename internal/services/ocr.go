package services

import (
	"bytes"
	"fmt"
	"strings"

	"document-analyzer/internal/logger"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
)

// OCREngine recognizes text in a PNG-encoded page image.
type OCREngine interface {
	Recognize(png []byte) (string, error)
}

// TesseractEngine runs OCR through the system tesseract installation.
type TesseractEngine struct{}

func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{}
}

func (e *TesseractEngine) Recognize(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to load image into tesseract: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognition failed: %w", err)
	}
	return text, nil
}

// ocrPDF renders every page, preprocesses it for recognition quality and
// concatenates the per-page OCR results. Pages that fail to render or
// produce almost no text are skipped.
func ocrPDF(data []byte, engine OCREngine) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i + 1,
				"error": err.Error(),
			}).Warn("Failed to render PDF page for OCR")
			continue
		}

		// Upscale and flatten to grayscale before recognition.
		prepared := imaging.Sharpen(imaging.Grayscale(imaging.Resize(img, 0, 2000, imaging.Lanczos)), 1.0)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, prepared, imaging.PNG); err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i + 1,
				"error": err.Error(),
			}).Warn("Failed to encode page image for OCR")
			continue
		}

		text, err := engine.Recognize(buf.Bytes())
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i + 1,
				"error": err.Error(),
			}).Warn("OCR failed for page")
			continue
		}

		if clean := strings.TrimSpace(text); len(clean) > 10 {
			pages = append(pages, clean)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text recognized on any page")
	}
	return strings.Join(pages, "\n\n"), nil
}
