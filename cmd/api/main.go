// @title           Conveyancing Document API
// @version         1.0
// @description     This API extracts, grades and packages conveyancing search documents
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/data/store"
	jobmodel "github.com/akolanti/ConveyAPI/internal/domain/jobModel"
	"github.com/akolanti/ConveyAPI/internal/handlers"
	"github.com/akolanti/ConveyAPI/internal/job"
	"github.com/akolanti/ConveyAPI/internal/pipeline"
	"github.com/akolanti/ConveyAPI/internal/pipeline/extract"
	"github.com/akolanti/ConveyAPI/internal/pipeline/pack"
	"github.com/akolanti/ConveyAPI/internal/server"
	"github.com/akolanti/ConveyAPI/internal/worker"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		serviceConfig.JobStore = redisJobStore
	} else {
		logger.Error("Redis job store is offline, falling back to in-memory")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	var extractionCache jobmodel.ExtractionCache
	if redisCache := store.GetRedisExtractionCache(serviceContext); redisCache != nil {
		extractionCache = redisCache
	} else {
		logger.Error("Redis extraction cache is offline, falling back to in-memory")
		extractionCache = store.InitInMemoryExtractionCache()
	}

	recognizer := extract.DetectRecognizer()
	if recognizer == nil {
		logger.Warn("pdftoppm or tesseract not on PATH, OCR fallback disabled")
	}

	pipelineService := pipeline.NewService(
		extract.NewExtractor(recognizer),
		extractionCache,
		pack.NewBuilder(),
	)

	handlers.InitJobHandler(service, pipelineService)

	//init worker pool
	worker.InitServices(service, pipelineService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
