package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = false //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//auth - flip NoAuthBypass and set a real token outside local dev
	NoAuthBypass = true
	AuthToken    = "local-dev-token"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//text extraction
	//a scanned search certificate usually yields almost nothing from the
	//content streams; short direct output is the signal to try recognition
	MinDirectYield        = 400
	OCRResolutionDPI      = 300
	OCRLanguage           = "eng"
	PageExtractionTimeout = 10 * time.Second
	JobExecutionTimeout   = 120 * time.Second

	//recognizer binaries (poppler + tesseract must be on PATH)
	PdftoppmBinary  = "pdftoppm"
	TesseractBinary = "tesseract"

	//risk weights - empirically chosen defaults, tune here not in the engine
	WeightFloodZone3       = 0.60
	WeightFloodZone2       = 0.35
	WeightSurfaceWater     = 0.15
	WeightTPO              = 0.15
	WeightConservationArea = 0.20
	WeightS106             = 0.20
	WeightCIL              = 0.05

	//summary band breakpoints
	BandHigh     = 0.75
	BandElevated = 0.50
	BandModerate = 0.20

	//a lease under this many years gets flagged for lender attention
	ShortLeaseYears = 80

	//submission packs
	ManifestFilename = "manifest.json"
	ManifestVersion  = "2.1.0"
	PackVersion      = "1.0"
	ModelVersionTag  = "convey-docs-v2.1.0"
	HashChunkSize    = 4096

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore        = 0
	RedisExtractionCache = 1

	//redis timeouts
	RedisJobStoreTTL        = 24 * time.Hour
	RedisExtractionCacheTTL = 24 * time.Hour
)
