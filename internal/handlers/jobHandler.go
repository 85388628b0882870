package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/ConveyAPI/internal/api"
	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/internal/domain/jobModel"
	"github.com/akolanti/ConveyAPI/internal/job"
	"github.com/akolanti/ConveyAPI/internal/metrics"
	"github.com/akolanti/ConveyAPI/internal/pipeline"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service  *job.Service
	pipeline pipeline.Service
}

func InitJobHandler(jobService *job.Service, pipelineService pipeline.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, pipeline: pipelineService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func ValidatePackRequest(packReq api.BuildPackRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if packReq.Title == "" || len(packReq.Files) == 0 {
		return false
	}
	return true
}

// ResolveDerivedOutputs collects the findings and risk JSON of completed
// processing jobs so a pack can bundle them next to the source files.
// Unknown or unfinished job ids are skipped, not fatal.
func ResolveDerivedOutputs(sourceJobIDs []string, traceId string) map[string][]byte {
	extras := make(map[string][]byte)
	for _, sourceId := range sourceJobIDs {
		sourceJob, isFound := GetJobStatus(sourceId, traceId)
		if !isFound || sourceJob.Status != jobModel.JobStatusComplete {
			logJH.Warn("Pack source job not usable, skipping", "sourceJobId", sourceId)
			continue
		}
		for name, data := range pipeline.MarshalDerived(sourceJob.Id, sourceJob.JobPayload) {
			extras[name] = data
		}
	}
	return extras
}

// SyncExtract runs text extraction inline, outside the worker pool.
func SyncExtract(ctx context.Context, doc docModel.RawDocument) docModel.ExtractedText {
	return handlerInstance.pipeline.ExtractText(ctx, doc)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.MatterId = newJob.matterId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued

	if newJob.isPack {
		_job.JobType = jobModel.JobTypePack
		_job.CurrentStep = jobModel.PackInit
		_job.JobPayload.PackTitle = newJob.packTitle
		_job.JobPayload.PackFiles = newJob.packFiles
		_job.JobPayload.PackExtras = newJob.packExtras
		_job.JobPayload.PackPath = newJob.packPath
	} else {
		_job.JobType = jobModel.JobTypeProcess
		_job.CurrentStep = jobModel.ProcessInit
		_job.JobPayload.DocumentName = newJob.documentName
		_job.JobPayload.DocumentPath = newJob.documentPath
		_job.JobPayload.KindHint = docModel.KindFromString(newJob.kindHint)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we will start a new worker every 10 requests - can also be configured
	// or
	//for performance - a new worker is added for a pack build type job
	//pack building hashes and archives every file which might take time for large matters
	//worker will be removed if it has idle time - so it should be ok
	//this also allows us to only keep 1 worker running at most times therefore cutting resource spend

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypePack {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
