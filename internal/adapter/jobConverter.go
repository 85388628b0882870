package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/ConveyAPI/internal/api"
	"github.com/akolanti/ConveyAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:   string(job.Status),
		Document: toDocumentResult(job),
		Pack:     toPackResult(job),
	}

	return api.JobResponse{
		Id:        job.Id,
		MatterId:  job.MatterId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toDocumentResult(job jobModel.Job) *api.DocumentResult {
	if job.JobType != jobModel.JobTypeProcess {
		return nil
	}
	payload := job.JobPayload
	if payload.Extraction == nil && payload.Findings == nil && payload.Risk == nil {
		return nil
	}
	return &api.DocumentResult{
		Extraction: payload.Extraction,
		Findings:   payload.Findings,
		Risk:       payload.Risk,
	}
}

func toPackResult(job jobModel.Job) *api.PackResult {
	if job.JobType != jobModel.JobTypePack || job.JobPayload.Manifest == nil {
		return nil
	}
	return &api.PackResult{
		Manifest:      job.JobPayload.Manifest,
		ArchivePath:   job.JobPayload.PackPath,
		ArchiveSHA256: job.JobPayload.ArchiveSHA256,
	}
}

func BadRequest(id string, errMessage string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		MatterId:  "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: errMessage,
			Retry:   false,
		},
	}
}
