package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

// FakeRecognizer records calls and returns canned text.
type FakeRecognizer struct {
	PDFCalls   int
	ImageCalls int
	Text       string
	Err        error
}

func (f *FakeRecognizer) RecognizePDF(ctx context.Context, content []byte) (string, error) {
	f.PDFCalls++
	return f.Text, f.Err
}

func (f *FakeRecognizer) RecognizeImage(ctx context.Context, content []byte, ext string) (string, error) {
	f.ImageCalls++
	return f.Text, f.Err
}

func longText() string {
	return strings.Repeat("Conveyancing search result line. ", 20)
}

func TestExtractText_RichTxtStaysDirect(t *testing.T) {
	fake := &FakeRecognizer{Text: "should never be used"}
	e := NewExtractor(fake)

	text := longText()
	got := e.ExtractText(context.Background(), docModel.RawDocument{
		Content:  []byte(text),
		Filename: "search.txt",
	})

	if got.Method != docModel.MethodDirect {
		t.Errorf("Method = %s, want direct", got.Method)
	}
	if got.Degraded {
		t.Error("rich direct yield must not be degraded")
	}
	if got.Length < config.MinDirectYield {
		t.Errorf("Length = %d, want >= %d", got.Length, config.MinDirectYield)
	}
	if fake.PDFCalls != 0 || fake.ImageCalls != 0 {
		t.Error("recognizer must not be consulted when direct yield is sufficient")
	}
}

func TestExtractText_ThinYieldTriggersRecognizer(t *testing.T) {
	fake := &FakeRecognizer{Text: "  recognized page text  "}
	e := NewExtractor(fake)

	got := e.ExtractText(context.Background(), docModel.RawDocument{
		Content:  []byte("short scan stub"),
		Filename: "scan.pdf",
	})

	if fake.PDFCalls != 1 {
		t.Fatalf("PDFCalls = %d, want 1", fake.PDFCalls)
	}
	if got.Method != docModel.MethodOCRFallback {
		t.Errorf("Method = %s, want ocr-fallback", got.Method)
	}
	if got.Text != "recognized page text" {
		t.Errorf("Text = %q, want trimmed recognizer output", got.Text)
	}
	if got.Degraded {
		t.Error("successful recognition is not degraded")
	}
}

func TestExtractText_RecognizerFailureDegrades(t *testing.T) {
	fake := &FakeRecognizer{Err: errors.New("tesseract exploded")}
	e := NewExtractor(fake)

	got := e.ExtractText(context.Background(), docModel.RawDocument{
		Content:  []byte("thin text"),
		Filename: "scan.pdf",
	})

	if got.Method != docModel.MethodDirect {
		t.Errorf("Method = %s, want direct", got.Method)
	}
	if !got.Degraded {
		t.Error("recognizer failure must mark the result degraded")
	}
}

func TestExtractText_NoRecognizerConfigured(t *testing.T) {
	e := NewExtractor(nil)

	got := e.ExtractText(context.Background(), docModel.RawDocument{
		Content:  []byte("thin text"),
		Filename: "scan.txt",
	})

	if got.Method != docModel.MethodDirect {
		t.Errorf("Method = %s, want direct", got.Method)
	}
	// absence of a recognizer is a configuration fact, not a degradation
	if got.Degraded {
		t.Error("no-recognizer result must not be degraded")
	}
}

func TestExtractText_ImageGoesToRecognizer(t *testing.T) {
	fake := &FakeRecognizer{Text: "text on a photographed page"}
	e := NewExtractor(fake)

	got := e.ExtractText(context.Background(), docModel.RawDocument{
		Content:  []byte{0x89, 0x50, 0x4e, 0x47},
		Filename: "page.png",
	})

	if fake.ImageCalls != 1 {
		t.Fatalf("ImageCalls = %d, want 1", fake.ImageCalls)
	}
	if got.Method != docModel.MethodOCRFallback {
		t.Errorf("Method = %s, want ocr-fallback", got.Method)
	}
}

func TestExtractText_NeverPanicsOnJunk(t *testing.T) {
	e := NewExtractor(nil)

	junk := [][]byte{
		nil,
		{},
		{0x00, 0xff, 0xfe, 0x01},
		[]byte("%PDF-1.7 truncated garbage"),
	}
	names := []string{"a.pdf", "b.docx", "c.bin", "d"}

	for _, name := range names {
		for _, content := range junk {
			got := e.ExtractText(context.Background(), docModel.RawDocument{
				Content:  content,
				Filename: name,
			})
			if got.Length != len(got.Text) {
				t.Errorf("%s: Length = %d, text len = %d", name, got.Length, len(got.Text))
			}
		}
	}
}

// stubRunner scripts the external commands without touching the PATH.
type stubRunner struct {
	calls  []string
	stdout []byte
	err    error
	onRun  func(name string, args []string)
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	if s.onRun != nil {
		s.onRun(name, args)
	}
	return s.stdout, nil, s.err
}

func TestTesseractRecognizer_CommandFailure(t *testing.T) {
	r := &TesseractRecognizer{
		pdftoppm:  "pdftoppm",
		tesseract: "tesseract",
		dpi:       config.OCRResolutionDPI,
		language:  config.OCRLanguage,
		runner:    &stubRunner{err: errors.New("exit status 1")},
		logger:    logger_i.NewLogger("TestRecognizer"),
	}

	_, err := r.RecognizePDF(context.Background(), []byte("%PDF-"))
	if err == nil {
		t.Fatal("expected an error when pdftoppm fails")
	}
	if !strings.Contains(err.Error(), "pdftoppm") {
		t.Errorf("error = %v, want pdftoppm mentioned", err)
	}
}

func TestTesseractRecognizer_NoImagesProduced(t *testing.T) {
	// pdftoppm "succeeds" but writes nothing
	r := &TesseractRecognizer{
		pdftoppm:  "pdftoppm",
		tesseract: "tesseract",
		dpi:       config.OCRResolutionDPI,
		language:  config.OCRLanguage,
		runner:    &stubRunner{},
		logger:    logger_i.NewLogger("TestRecognizer"),
	}

	_, err := r.RecognizePDF(context.Background(), []byte("%PDF-"))
	if err == nil || !strings.Contains(err.Error(), "no images") {
		t.Errorf("error = %v, want no images produced", err)
	}
}
