package adapter

import (
	"testing"
	"time"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/internal/domain/jobModel"
)

func TestToAPIResponse_DocumentJob(t *testing.T) {
	job := jobModel.Job{
		Id:          "job-1",
		MatterId:    "matter-9",
		JobType:     jobModel.JobTypeProcess,
		Status:      jobModel.JobStatusComplete,
		CreatedTime: time.Now(),
		JobPayload: jobModel.JobPayload{
			Extraction: &docModel.ExtractedText{Text: "t", Method: docModel.MethodDirect, Length: 1},
			Findings:   &docModel.StructuredFindings{RawLength: 1},
			Risk:       &docModel.RiskReport{Summary: docModel.BandLow},
		},
	}

	res := ToAPIResponse(job)

	if res.Id != "job-1" || res.MatterId != "matter-9" {
		t.Errorf("ids not mapped: %+v", res)
	}
	if res.Result.Document == nil {
		t.Fatal("document result missing")
	}
	if res.Result.Pack != nil {
		t.Error("process job must not carry a pack result")
	}
	if res.Error != nil {
		t.Errorf("unexpected error payload: %+v", res.Error)
	}
}

func TestToAPIResponse_PackJob(t *testing.T) {
	job := jobModel.Job{
		Id:      "job-2",
		JobType: jobModel.JobTypePack,
		Status:  jobModel.JobStatusComplete,
		JobPayload: jobModel.JobPayload{
			Manifest:      &docModel.SubmissionManifest{},
			PackPath:      "/tmp/job-2.zip",
			ArchiveSHA256: "abc",
		},
	}

	res := ToAPIResponse(job)

	if res.Result.Pack == nil {
		t.Fatal("pack result missing")
	}
	if res.Result.Pack.ArchivePath != "/tmp/job-2.zip" || res.Result.Pack.ArchiveSHA256 != "abc" {
		t.Errorf("pack result not mapped: %+v", res.Result.Pack)
	}
	if res.Result.Document != nil {
		t.Error("pack job must not carry a document result")
	}
}

func TestToAPIResponse_ErrorMapped(t *testing.T) {
	job := jobModel.Job{
		Id:      "job-3",
		JobType: jobModel.JobTypeProcess,
		Status:  jobModel.JobStatusError,
		Error:   jobModel.JobError{Code: 500, Message: "DOCUMENT_READ_FAILURE", Retry: false},
	}

	res := ToAPIResponse(job)

	if res.Error == nil {
		t.Fatal("error payload missing")
	}
	if res.Error.Message != "DOCUMENT_READ_FAILURE" {
		t.Errorf("Message = %s", res.Error.Message)
	}
	if res.Result.Document != nil {
		t.Error("failed job carries no document result")
	}
}

func TestToInitJobResponse(t *testing.T) {
	res := ToInitJobResponse("job-4")
	if res.Id != "job-4" || res.StatusURL != "status/job-4" {
		t.Errorf("got %+v", res)
	}
}
