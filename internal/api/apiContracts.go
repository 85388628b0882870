package api

import (
	"time"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	MatterId  string            `json:"matter_id" example:"matter_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// DocumentResult carries the pipeline output for one processed document.
type DocumentResult struct {
	Extraction *docModel.ExtractedText      `json:"extraction,omitempty"`
	Findings   *docModel.StructuredFindings `json:"findings,omitempty"`
	Risk       *docModel.RiskReport         `json:"risk,omitempty"`
}

// PackResult carries the output of a pack-build job.
type PackResult struct {
	Manifest      *docModel.SubmissionManifest `json:"manifest,omitempty"`
	ArchivePath   string                       `json:"archive_path,omitempty"`
	ArchiveSHA256 string                       `json:"archive_sha256,omitempty"`
}

type Result struct {
	Status   string          `json:"status"`
	Document *DocumentResult `json:"document,omitempty"`
	Pack     *PackResult     `json:"pack,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type ExtractResponse struct {
	Text     string `json:"text"`
	Method   string `json:"method"`
	Degraded bool   `json:"degraded"`
	Length   int    `json:"length"`
}

// requests---------------------

type BuildPackRequest struct {
	Title        string   `json:"title" validate:"required"`
	Files        []string `json:"files" validate:"required"`
	MatterID     string   `json:"matter_id,omitempty"`
	SourceJobIDs []string `json:"source_job_ids,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
