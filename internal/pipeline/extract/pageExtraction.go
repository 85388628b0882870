package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/akolanti/ConveyAPI/internal/config"
)

// extractPDF reads every page's content streams layout-free and joins pages
// with a blank line. The pdf library panics on some malformed files, so the
// whole walk runs behind a recover.
func (e *Extractor) extractPDF(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var parts []string
	numPages := reader.NumPage()
	e.logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := protectExtract(page)
		if err != nil {
			// Keep going; a single bad page should not void the document.
			e.logger.Warn("Error parsing page content", "page", i, "error", err)
			continue
		}
		parts = append(parts, pageText)
	}
	return strings.Join(parts, "\n\n"), nil
}

// protectExtract guards GetPlainText, which can hang or panic on damaged
// content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractionTimeout):
		return "", errors.New("timeout")
	}
}
