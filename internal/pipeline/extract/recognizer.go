package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

// Recognizer is the optical fallback contract. Implementations are expected
// to be slow (seconds per page) and may fail; the extractor treats failure as
// a degraded result, never as a crash.
type Recognizer interface {
	RecognizePDF(ctx context.Context, content []byte) (string, error)
	RecognizeImage(ctx context.Context, content []byte, ext string) (string, error)
}

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// TesseractRecognizer shells out to poppler's pdftoppm for rasterization and
// to tesseract for recognition.
type TesseractRecognizer struct {
	pdftoppm  string
	tesseract string
	dpi       int
	language  string
	runner    Runner
	logger    *logger_i.Logger
}

func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{
		pdftoppm:  config.PdftoppmBinary,
		tesseract: config.TesseractBinary,
		dpi:       config.OCRResolutionDPI,
		language:  config.OCRLanguage,
		runner:    execRunner{},
		logger:    logger_i.NewLogger("Recognizer"),
	}
}

// DetectRecognizer probes the PATH for the required binaries. A nil return
// means recognition stays unconfigured and extraction is direct-only.
func DetectRecognizer() Recognizer {
	logger := logger_i.NewLogger("Recognizer")
	for _, bin := range []string{config.PdftoppmBinary, config.TesseractBinary} {
		if _, err := exec.LookPath(bin); err != nil {
			logger.Warn("Recognizer binary not found, optical fallback disabled", "binary", bin)
			return nil
		}
	}
	logger.Info("Optical recognizer available")
	return NewTesseractRecognizer()
}

func (r *TesseractRecognizer) RecognizePDF(ctx context.Context, content []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "convey-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("Failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	src := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(src, content, 0600); err != nil {
		return "", err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.pdftoppm, "-r", fmt.Sprintf("%d", r.dpi), "-png", src, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, strings.TrimSpace(string(errb)))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	for _, img := range matches {
		pageText, err := r.tesseractFile(ctx, img)
		if err != nil {
			r.logger.Warn("Recognition failed for page image", "image", img, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

func (r *TesseractRecognizer) RecognizeImage(ctx context.Context, content []byte, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "convey-ocr-*"+ext)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			r.logger.Warn("Failed to remove temp image", "path", tmp.Name(), "error", err)
		}
	}()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return r.tesseractFile(ctx, tmp.Name())
}

func (r *TesseractRecognizer) tesseractFile(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := r.runner.Run(ctx, r.tesseract, path, "stdout", "-l", r.language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}
