package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lu4p/cat"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

// Extractor turns raw document bytes into plain text. A nil recognizer means
// no optical fallback is configured - that is a configuration fact, not an
// error path.
type Extractor struct {
	recognizer Recognizer
	logger     *logger_i.Logger
}

func NewExtractor(recognizer Recognizer) *Extractor {
	return &Extractor{
		recognizer: recognizer,
		logger:     logger_i.NewLogger("Text Extraction"),
	}
}

// ExtractText never fails: malformed input degrades to empty text so every
// downstream stage stays a total function.
func (e *Extractor) ExtractText(ctx context.Context, doc docModel.RawDocument) docModel.ExtractedText {
	ext := strings.ToLower(filepath.Ext(doc.Filename))

	if isImageExt(ext) {
		return e.recognizeImage(ctx, doc, ext)
	}

	direct := strings.TrimSpace(e.direct(doc, ext))

	if len(direct) >= config.MinDirectYield || e.recognizer == nil {
		return docModel.ExtractedText{
			Text:   direct,
			Method: docModel.MethodDirect,
			Length: len(direct),
		}
	}

	e.logger.Debug("Direct yield below threshold, trying recognizer", "filename", doc.Filename, "directLength", len(direct))
	recognized, err := e.recognizer.RecognizePDF(ctx, doc.Content)
	if err != nil {
		e.logger.Warn("Recognizer failed, returning degraded direct text", "filename", doc.Filename, "error", err)
		return docModel.ExtractedText{
			Text:     direct,
			Method:   docModel.MethodDirect,
			Degraded: true,
			Length:   len(direct),
		}
	}

	recognized = strings.TrimSpace(recognized)
	return docModel.ExtractedText{
		Text:   recognized,
		Method: docModel.MethodOCRFallback,
		Length: len(recognized),
	}
}

func (e *Extractor) direct(doc docModel.RawDocument, ext string) string {
	switch ext {
	case ".pdf":
		text, err := e.extractPDF(doc.Content)
		if err != nil {
			e.logger.Warn("Direct pdf extraction failed", "filename", doc.Filename, "error", err)
			return ""
		}
		return text
	case ".docx", ".odt", ".rtf", ".txt":
		return e.extractWithCat(doc, ext)
	default:
		// No structured reader for this type; usable only if it is already text.
		if utf8.Valid(doc.Content) {
			return string(doc.Content)
		}
		return ""
	}
}

// cat wants a path, so the bytes take a brief detour through a temp file.
func (e *Extractor) extractWithCat(doc docModel.RawDocument, ext string) string {
	tmp, err := os.CreateTemp("", "convey-doc-*"+ext)
	if err != nil {
		e.logger.Error("Temp file for document extraction failed", "error", err)
		return ""
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			e.logger.Warn("Failed to remove temp document", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := tmp.Write(doc.Content); err != nil {
		_ = tmp.Close()
		e.logger.Error("Writing temp document failed", "error", err)
		return ""
	}
	if err := tmp.Close(); err != nil {
		e.logger.Error("Closing temp document failed", "error", err)
		return ""
	}

	text, err := cat.File(tmp.Name())
	if err != nil {
		e.logger.Warn("Document content extraction failed", "filename", doc.Filename, "error", err)
		return ""
	}
	return text
}

// Image inputs have no content streams to read; the recognizer is the only
// possible source of text.
func (e *Extractor) recognizeImage(ctx context.Context, doc docModel.RawDocument, ext string) docModel.ExtractedText {
	if e.recognizer == nil {
		return docModel.ExtractedText{Method: docModel.MethodDirect}
	}
	text, err := e.recognizer.RecognizeImage(ctx, doc.Content, ext)
	if err != nil {
		e.logger.Warn("Image recognition failed", "filename", doc.Filename, "error", err)
		return docModel.ExtractedText{Method: docModel.MethodDirect, Degraded: true}
	}
	text = strings.TrimSpace(text)
	return docModel.ExtractedText{
		Text:   text,
		Method: docModel.MethodOCRFallback,
		Length: len(text),
	}
}

func isImageExt(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return true
	}
	return false
}
