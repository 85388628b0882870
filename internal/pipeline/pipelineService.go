package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/internal/domain/jobModel"
	"github.com/akolanti/ConveyAPI/internal/metrics"
	"github.com/akolanti/ConveyAPI/internal/pipeline/extract"
	"github.com/akolanti/ConveyAPI/internal/pipeline/fields"
	"github.com/akolanti/ConveyAPI/internal/pipeline/pack"
	"github.com/akolanti/ConveyAPI/internal/pipeline/risk"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

// Service is the only surface the worker sees; it doesn't need to know the
// extractor, the rule catalogue or the pack builder.
type Service interface {
	ProcessDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	BuildPack(ctx context.Context, job jobModel.Job) jobModel.Job
	ExtractText(ctx context.Context, doc docModel.RawDocument) docModel.ExtractedText
}

type service struct {
	extractor *extract.Extractor
	cache     jobModel.ExtractionCache
	builder   *pack.Builder
	logger    *logger_i.Logger
}

// NewService constructor. cache may be nil; extraction then always recomputes.
func NewService(extractor *extract.Extractor, cache jobModel.ExtractionCache, builder *pack.Builder) Service {
	return &service{
		extractor: extractor,
		cache:     cache,
		builder:   builder,
		logger:    logger_i.NewLogger("Pipeline Service"),
	}
}

// ProcessDocument runs one document through extract -> fields -> risk. Each
// job fails or succeeds on its own; nothing here can abort a sibling.
func (s *service) ProcessDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)

	content, err := os.ReadFile(job.JobPayload.DocumentPath)
	if err != nil {
		return s.jobError(job, err, "DOCUMENT_READ_FAILURE", false)
	}

	doc := docModel.RawDocument{
		Content:   content,
		Filename:  job.JobPayload.DocumentName,
		MediaType: "application/octet-stream",
		Kind:      job.JobPayload.KindHint,
	}

	job.CurrentStep = jobModel.CacheCall
	extracted := s.extractCached(ctx, inMethodLogger, &job, doc)

	job.CurrentStep = jobModel.FieldExtraction
	findings := fields.Extract(extracted.Text, doc.Kind)

	job.CurrentStep = jobModel.RiskAssessment
	report := risk.Assess(findings)
	metrics.CountRiskBand(string(report.Summary))

	job.JobPayload.Extraction = &extracted
	job.JobPayload.Findings = &findings
	job.JobPayload.Risk = &report

	// Uploads are staged in a scratch dir; the job record keeps the results.
	if err := os.Remove(job.JobPayload.DocumentPath); err != nil {
		inMethodLogger.Warn("Error removing staged document", "path", job.JobPayload.DocumentPath, "error", err)
	}

	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

// extractCached consults the content-hash keyed cache first. The functions
// are pure, so a miss or a racing double-compute is always safe.
func (s *service) extractCached(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, doc docModel.RawDocument) docModel.ExtractedText {
	key := contentHash(doc.Content)

	if s.cache != nil {
		if cached, found := s.cache.GetExtraction(ctx, key); found {
			log.Debug("Extraction cache hit", "contentHash", key)
			return cached
		}
	}

	job.CurrentStep = jobModel.TextExtraction
	start := time.Now()
	extracted := s.extractor.ExtractText(ctx, doc)
	metrics.CaptureExecutionMetrics("Text_extraction", time.Since(start))
	metrics.CountExtractionMethod(string(extracted.Method), extracted.Degraded)

	if s.cache != nil {
		if err := s.cache.SaveExtraction(ctx, key, extracted); err != nil {
			log.Error("Failed to save extraction to cache", "error", err)
		}
	}
	return extracted
}

func (s *service) BuildPack(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Pack_build", time.Since(start)) }()

	job.CurrentStep = jobModel.PackBuilding
	result, err := s.builder.Build(job.JobPayload.PackFiles, job.JobPayload.PackExtras, pack.Metadata{
		ID:    job.Id,
		Title: job.JobPayload.PackTitle,
	})
	if err != nil {
		metrics.CountPackBuild("error")
		return s.jobError(job, err, "PACK_BUILD_FAILURE", false)
	}

	if job.JobPayload.PackPath != "" {
		if err := os.WriteFile(job.JobPayload.PackPath, result.Archive, 0600); err != nil {
			metrics.CountPackBuild("error")
			return s.jobError(job, err, "PACK_WRITE_FAILURE", true)
		}
	}

	metrics.CountPackBuild("ok")
	inMethodLogger.Info("Pack build finished", "files", len(result.Manifest.Files), "archiveChecksum", result.ArchiveSHA256)

	job.JobPayload.Manifest = &result.Manifest
	job.JobPayload.ArchiveSHA256 = result.ArchiveSHA256
	job.JobPayload.PackExtras = nil //can be large; the archive owns them now
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) ExtractText(ctx context.Context, doc docModel.RawDocument) docModel.ExtractedText {
	return s.extractor.ExtractText(ctx, doc)
}

func (s *service) jobError(job jobModel.Job, err error, code string, retry bool) jobModel.Job {
	s.logger.Error("Pipeline step failed", "JobId", job.Id, "step", job.CurrentStep, "code", code, "error", err)
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	job.Error = jobModel.JobError{Code: 500, Message: code, Retry: retry}
	return job
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// MarshalDerived renders a processing job's findings and risk output the way
// packs bundle them. Names carry the job id so the outputs of several source
// jobs can sit side by side in one archive.
func MarshalDerived(jobId string, payload jobModel.JobPayload) map[string][]byte {
	extras := make(map[string][]byte)
	if payload.Findings != nil {
		if data, err := json.MarshalIndent(payload.Findings, "", "  "); err == nil {
			extras[jobId+"-extracted.json"] = data
		}
	}
	if payload.Risk != nil {
		if data, err := json.MarshalIndent(payload.Risk, "", "  "); err == nil {
			extras[jobId+"-risk.json"] = data
		}
	}
	return extras
}
