package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	ProcessInit     InternalStatus = "Init"
	CacheCall       InternalStatus = "CacheCall"
	TextExtraction  InternalStatus = "TextExtraction"
	FieldExtraction InternalStatus = "FieldExtraction"
	RiskAssessment  InternalStatus = "RiskAssessment"
	RedisCall       InternalStatus = "Redis"

	PackInit     InternalStatus = "PackInit"
	PackBuilding InternalStatus = "PackBuilding"
	Error        InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeProcess JobType = "Process"
	JobTypePack    JobType = "Pack"
)

type Job struct {
	Id          string         `json:"id"`
	MatterId    string         `json:"matter_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	//document processing
	DocumentName string                       `json:"document_name,omitempty"`
	DocumentPath string                       `json:"document_path,omitempty"`
	KindHint     docModel.DocumentKind        `json:"kind_hint,omitempty"`
	Extraction   *docModel.ExtractedText      `json:"extraction,omitempty"`
	Findings     *docModel.StructuredFindings `json:"findings,omitempty"`
	Risk         *docModel.RiskReport         `json:"risk,omitempty"`

	//pack building
	PackTitle     string                       `json:"pack_title,omitempty"`
	PackFiles     []string                     `json:"pack_files,omitempty"`
	PackExtras    map[string][]byte            `json:"pack_extras,omitempty"`
	PackPath      string                       `json:"pack_path,omitempty"`
	Manifest      *docModel.SubmissionManifest `json:"manifest,omitempty"`
	ArchiveSHA256 string                       `json:"archive_sha256,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type ExtractionCache interface {
	GetExtraction(ctx context.Context, contentHash string) (docModel.ExtractedText, bool)
	SaveExtraction(ctx context.Context, contentHash string, text docModel.ExtractedText) error
}
