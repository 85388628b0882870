package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/ConveyAPI/internal/data/store"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/internal/domain/jobModel"
	"github.com/akolanti/ConveyAPI/internal/pipeline/extract"
	"github.com/akolanti/ConveyAPI/internal/pipeline/pack"
)

func stageDocument(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("staging %s: %v", name, err)
	}
	return path
}

func newTestService(cache jobModel.ExtractionCache) Service {
	return NewService(extract.NewExtractor(nil), cache, pack.NewBuilder())
}

func sampleCertificate() string {
	base := `Local Authority: Riverdale Borough Council
The site lies within Flood Zone 3.
Agreement under Section 106 applies. Conservation Area: Old Town.
`
	// padding keeps the direct yield above the fallback threshold
	return base + strings.Repeat("Register entry continued. ", 30)
}

func TestProcessDocument_FullFlow(t *testing.T) {
	cache := store.InitInMemoryExtractionCache()
	svc := newTestService(cache)

	content := sampleCertificate()
	path := stageDocument(t, "llc1.txt", content)

	job := jobModel.Job{
		Id:      "job-1",
		TraceId: "trace-1",
		JobType: jobModel.JobTypeProcess,
		JobPayload: jobModel.JobPayload{
			DocumentName: "llc1.txt",
			DocumentPath: path,
			KindHint:     docModel.KindUnknown,
		},
	}

	done := svc.ProcessDocument(context.Background(), job)

	if done.Status != jobModel.JobStatusComplete {
		t.Fatalf("Status = %s, error = %+v", done.Status, done.Error)
	}
	if done.JobPayload.Extraction == nil || done.JobPayload.Extraction.Method != docModel.MethodDirect {
		t.Errorf("Extraction = %+v, want direct", done.JobPayload.Extraction)
	}
	if done.JobPayload.Findings == nil || !done.JobPayload.Findings.LandCharge.S106.IsPresent() {
		t.Error("S106 not found in findings")
	}
	if done.JobPayload.Risk == nil || done.JobPayload.Risk.Summary != docModel.BandHigh {
		t.Errorf("Risk = %+v, want High band", done.JobPayload.Risk)
	}

	// staged upload is removed once processed
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("staged document should be removed after processing")
	}

	// extraction landed in the content-hash cache
	sum := sha256.Sum256([]byte(content))
	if _, found := cache.GetExtraction(context.Background(), hex.EncodeToString(sum[:])); !found {
		t.Error("extraction missing from cache")
	}
}

func TestProcessDocument_CacheHitSkipsExtraction(t *testing.T) {
	cache := store.InitInMemoryExtractionCache()
	svc := newTestService(cache)

	content := sampleCertificate()
	sum := sha256.Sum256([]byte(content))
	planted := docModel.ExtractedText{Text: "planted cache text", Method: docModel.MethodOCRFallback, Length: 18}
	if err := cache.SaveExtraction(context.Background(), hex.EncodeToString(sum[:]), planted); err != nil {
		t.Fatalf("planting cache entry: %v", err)
	}

	path := stageDocument(t, "llc1.txt", content)
	job := jobModel.Job{
		Id:         "job-2",
		JobType:    jobModel.JobTypeProcess,
		JobPayload: jobModel.JobPayload{DocumentName: "llc1.txt", DocumentPath: path},
	}

	done := svc.ProcessDocument(context.Background(), job)

	if done.JobPayload.Extraction == nil || done.JobPayload.Extraction.Text != planted.Text {
		t.Errorf("Extraction = %+v, want the planted cache entry", done.JobPayload.Extraction)
	}
}

func TestProcessDocument_MissingFile(t *testing.T) {
	svc := newTestService(nil)

	job := jobModel.Job{
		Id:         "job-3",
		JobType:    jobModel.JobTypeProcess,
		JobPayload: jobModel.JobPayload{DocumentPath: filepath.Join(t.TempDir(), "absent.pdf")},
	}

	done := svc.ProcessDocument(context.Background(), job)

	if done.Status != jobModel.JobStatusError {
		t.Fatalf("Status = %s, want Error", done.Status)
	}
	if done.Error.Message != "DOCUMENT_READ_FAILURE" {
		t.Errorf("Error.Message = %s", done.Error.Message)
	}
}

func TestBuildPack_FullFlow(t *testing.T) {
	svc := newTestService(nil)

	dir := t.TempDir()
	src := stageDocument(t, "search.pdf", "certificate bytes")
	packPath := filepath.Join(dir, "out.zip")

	job := jobModel.Job{
		Id:      "job-4",
		JobType: jobModel.JobTypePack,
		JobPayload: jobModel.JobPayload{
			PackTitle:  "14 Mill Lane",
			PackFiles:  []string{src},
			PackExtras: map[string][]byte{"risk.json": []byte(`{"risk_score":0}`)},
			PackPath:   packPath,
		},
	}

	done := svc.BuildPack(context.Background(), job)

	if done.Status != jobModel.JobStatusComplete {
		t.Fatalf("Status = %s, error = %+v", done.Status, done.Error)
	}
	if done.JobPayload.Manifest == nil {
		t.Fatal("Manifest missing from payload")
	}
	if done.JobPayload.ArchiveSHA256 == "" {
		t.Error("ArchiveSHA256 missing")
	}
	if done.JobPayload.PackExtras != nil {
		t.Error("PackExtras should be dropped once archived")
	}

	archive, err := os.ReadFile(packPath)
	if err != nil {
		t.Fatalf("archive not written: %v", err)
	}
	report := pack.Verify(archive)
	if !report.PackValid {
		t.Errorf("built pack failed verification: %v", report.Errors)
	}
}

func TestBuildPack_MissingInput(t *testing.T) {
	svc := newTestService(nil)

	job := jobModel.Job{
		Id:      "job-5",
		JobType: jobModel.JobTypePack,
		JobPayload: jobModel.JobPayload{
			PackTitle: "t",
			PackFiles: []string{filepath.Join(t.TempDir(), "absent.pdf")},
		},
	}

	done := svc.BuildPack(context.Background(), job)

	if done.Status != jobModel.JobStatusError {
		t.Fatalf("Status = %s, want Error", done.Status)
	}
	if done.Error.Message != "PACK_BUILD_FAILURE" {
		t.Errorf("Error.Message = %s", done.Error.Message)
	}
}

func TestMarshalDerived(t *testing.T) {
	payload := jobModel.JobPayload{
		Findings: &docModel.StructuredFindings{RawLength: 42},
		Risk:     &docModel.RiskReport{Summary: docModel.BandLow},
	}

	extras := MarshalDerived("job-9", payload)
	if len(extras) != 2 {
		t.Fatalf("extras = %v, want findings and risk entries", extras)
	}
	if _, ok := extras["job-9-extracted.json"]; !ok {
		t.Error("job-9-extracted.json missing")
	}
	if _, ok := extras["job-9-risk.json"]; !ok {
		t.Error("job-9-risk.json missing")
	}

	if got := MarshalDerived("job-10", jobModel.JobPayload{}); len(got) != 0 {
		t.Errorf("empty payload should yield no extras, got %v", got)
	}
}
