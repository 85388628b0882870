package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/ConveyAPI/internal/adapter"
	"github.com/akolanti/ConveyAPI/internal/adapter/utils"
	"github.com/akolanti/ConveyAPI/internal/api"
	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/internal/metrics"
	"github.com/akolanti/ConveyAPI/internal/pipeline/pack"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id           string
	matterId     string
	traceId      string
	isPack       bool
	documentName string
	documentPath string
	kindHint     string
	packTitle    string
	packFiles    []string
	packExtras   map[string][]byte
	packPath     string
}

const maxUploadSize = 32 << 20 //32mb

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// DocumentHandler godoc
// @Summary      Upload a document for processing
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues a processing job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file    true   "The document to analyse"
// @Param        kind      formData  string  false  "Kind hint: land-charge, highways-report or title-register"
// @Param        matter_id formData  string  false  "Conveyancing matter this document belongs to"
// @Success      202  {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400  {object}  api.JobResponse      "Missing file or file too large"
// @Failure      500  {object}  api.JobResponse      "Storage or Write Error"
// @Router       /documents [post]
func DocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Write error")
			return
		}

		newData := newJobData{
			id:           utils.GetNewUUID(),
			matterId:     r.FormValue("matter_id"),
			traceId:      r.Context().Value(config.TRACE_ID_KEY).(string),
			documentName: fileMetadata.Filename,
			documentPath: tempFilePath,
			kindHint:     r.FormValue("kind"),
		}
		CreateNewJob(newData)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newData.id))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// ExtractHandler godoc
// @Summary      Extract text from a document
// @Description  Runs text extraction inline and returns the text without queueing a job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "The document to extract"
// @Success      200  {object}  api.ExtractResponse
// @Failure      400  {object}  api.JobResponse  "Missing file or file too large"
// @Router       /extract [post]
func ExtractHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		content, err := io.ReadAll(fileReader)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "Could not read file")
			return
		}

		extracted := SyncExtract(r.Context(), docModel.RawDocument{
			Content:  content,
			Filename: fileMetadata.Filename,
		})
		writeJsonResponse(w, http.StatusOK, api.ExtractResponse{
			Text:     extracted.Text,
			Method:   string(extracted.Method),
			Degraded: extracted.Degraded,
			Length:   extracted.Length,
		})
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// PackHandler godoc
// @Summary      Build a submission pack
// @Description  Accepts a title and file list, queues a pack build job, and returns a job ID to track status.
// @Tags         Packs
// @Accept       json
// @Produce      json
// @Param        request  body      api.BuildPackRequest  true  "Pack title, files and optional source job IDs"
// @Success      202      {object}  api.InitJobResponse   "Job successfully created"
// @Failure      400      {object}  api.JobResponse       "Invalid request data"
// @Router       /packs [post]
func PackHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.BuildPackRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Pack handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidatePackRequest(requestData) {
			logRH.Warn("Bad Pack Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		traceId := request.Context().Value(config.TRACE_ID_KEY).(string)
		newData := newJobData{
			id:         utils.GetNewUUID(),
			matterId:   requestData.MatterID,
			traceId:    traceId,
			isPack:     true,
			packTitle:  requestData.Title,
			packFiles:  requestData.Files,
			packExtras: ResolveDerivedOutputs(requestData.SourceJobIDs, traceId),
		}
		newData.packPath = filepath.Join(targetDir, newData.id+".zip")
		logRH.Debug(" Trace ID : ", "trace:", newData.traceId)
		CreateNewJob(newData)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newData.id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// VerifyPackHandler godoc
// @Summary      Verify a submission pack
// @Description  Re-hashes every file in an uploaded pack archive against its manifest and reports per-file status.
// @Tags         Packs
// @Accept       multipart/form-data
// @Produce      json
// @Param        pack  formData  file  true  "The pack archive (.zip)"
// @Success      200  {object}  docModel.VerificationReport
// @Failure      400  {object}  api.JobResponse  "Missing file or file too large"
// @Router       /packs/verify [post]
func VerifyPackHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("pack")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		archive, err := io.ReadAll(fileReader)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "Could not read file")
			return
		}

		report := pack.Verify(archive)
		metrics.CountPackVerification(report.PackValid)
		writeJsonResponse(w, http.StatusOK, report)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
