package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/ConveyAPI/internal/config"
	jobmodel "github.com/akolanti/ConveyAPI/internal/domain/jobModel"
	"github.com/akolanti/ConveyAPI/internal/metrics"
)

// executeJob runs one unit of work in isolation. A failing document or pack
// marks its own job as errored; siblings in the same batch are untouched.
func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctx, cancel := context.WithTimeout(context.Background(), config.JobExecutionTimeout)
	defer cancel()
	logger.Debug("Processing job:", "job Id:", job.Id, "type", job.JobType)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	if job.JobType == jobmodel.JobTypePack {
		job.CurrentStep = jobmodel.PackBuilding
		job = _pipelineService.BuildPack(ctx, job)

	} else {
		job.CurrentStep = jobmodel.TextExtraction
		job = _pipelineService.ProcessDocument(ctx, job)
	}

	job.EndTime = time.Now()
	// the pipeline already set Complete or Error; persist whatever it decided
	saveJobState(ctx, job, job.Status)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
