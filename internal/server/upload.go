package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/f-sync/followback/internal/exportparser"
	"github.com/f-sync/followback/internal/ingest"
	"github.com/f-sync/followback/internal/relationship"
)

const (
	formFieldFormat    = "format"
	formFieldFiles     = "files"
	formFieldFollowers = "followers"
	formFieldFollowing = "following"

	errorMessageInvalidUpload   = "request must be a multipart form"
	errorMessageUploadTooLarge  = "upload exceeds the size limit"
	errorMessageMissingFiles    = "no export files were uploaded"
	errorMessageIncompletePair  = "both a followers file and a following file are required"
	errorMessageUnreadableFile  = "could not read uploaded file"
	errorMessageExportRejected  = "could not read %s: %v"
	errorMessageAnalysisFailure = "analysis failed"

	logMessageAnalysisStored  = "analysis stored"
	logMessageAnalysisFailure = "analysis failure"
	logFieldFollowers         = "followers"
	logFieldFollowing         = "following"
	logFieldIgnoredFiles      = "ignored_files"
)

type analyzeResponse struct {
	ID     string                      `json:"id"`
	Result relationship.AnalysisResult `json:"result"`
}

// multipartSource adapts an uploaded form file to an ingest.Source.
type multipartSource struct {
	header *multipart.FileHeader
}

func (source multipartSource) Name() string {
	return source.header.Filename
}

func (source multipartSource) Open() (io.ReadCloser, error) {
	return source.header.Open()
}

func (handler analysisHandler) analyzeUpload(ginContext *gin.Context) {
	ginContext.Request.Body = http.MaxBytesReader(ginContext.Writer, ginContext.Request.Body, handler.maxUploadBytes)
	form, err := ginContext.MultipartForm()
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			respondError(ginContext, http.StatusRequestEntityTooLarge, errorMessageUploadTooLarge)
			return
		}
		respondError(ginContext, http.StatusBadRequest, errorMessageInvalidUpload)
		return
	}

	followerHeaders := form.File[formFieldFollowers]
	followingHeaders := form.File[formFieldFollowing]
	fileHeaders := form.File[formFieldFiles]
	allHeaders := make([]*multipart.FileHeader, 0, len(followerHeaders)+len(followingHeaders)+len(fileHeaders))
	allHeaders = append(allHeaders, followerHeaders...)
	allHeaders = append(allHeaders, followingHeaders...)
	allHeaders = append(allHeaders, fileHeaders...)
	if len(allHeaders) == 0 {
		respondError(ginContext, http.StatusBadRequest, errorMessageMissingFiles)
		return
	}

	format, err := uploadFormat(ginContext.PostForm(formFieldFormat), allHeaders)
	if err != nil {
		respondError(ginContext, http.StatusBadRequest, err.Error())
		return
	}

	request := ingest.PairRequest{
		Format:      format,
		Diagnostics: exportparser.NewZapDiagnosticSink(handler.logger),
	}
	var ignoredFiles []string
	if len(followerHeaders) > 0 && len(followingHeaders) > 0 {
		request.Followers = multipartSource{header: followerHeaders[0]}
		request.Following = multipartSource{header: followingHeaders[0]}
	} else {
		sources := make([]ingest.Source, 0, len(allHeaders))
		for _, header := range allHeaders {
			sources = append(sources, multipartSource{header: header})
		}
		assignment, assignErr := ingest.AssignSlots(sources, format)
		if assignErr != nil {
			respondError(ginContext, http.StatusBadRequest, errorMessageIncompletePair)
			return
		}
		request.Followers = assignment.Followers
		request.Following = assignment.Following
		ignoredFiles = assignment.Ignored
	}

	result, err := ingest.Analyze(ginContext.Request.Context(), request)
	if err != nil {
		handler.respondAnalysisError(ginContext, err)
		return
	}

	analysisID := handler.store.Save(result)
	handler.logger.Info(logMessageAnalysisStored,
		zap.String(logFieldAnalysisID, analysisID),
		zap.Int(logFieldFollowers, result.Stats.TotalFollowers),
		zap.Int(logFieldFollowing, result.Stats.TotalFollowing),
		zap.Strings(logFieldIgnoredFiles, ignoredFiles),
	)
	ginContext.JSON(http.StatusCreated, analyzeResponse{ID: analysisID, Result: result})
}

// respondAnalysisError maps a failed pair load to a single summarizing message.
func (handler analysisHandler) respondAnalysisError(ginContext *gin.Context, err error) {
	var slotError *ingest.SlotError
	switch {
	case errors.Is(err, ingest.ErrIncompletePair):
		respondError(ginContext, http.StatusBadRequest, errorMessageIncompletePair)
	case errors.Is(err, exportparser.ErrSyntax), errors.Is(err, exportparser.ErrFormat):
		respondError(ginContext, http.StatusUnprocessableEntity, formatExportRejection(err))
	case errors.As(err, &slotError):
		handler.logger.Warn(logMessageAnalysisFailure, zap.Error(err))
		respondError(ginContext, http.StatusBadRequest, errorMessageUnreadableFile)
	default:
		handler.logger.Error(logMessageAnalysisFailure, zap.Error(err))
		respondError(ginContext, http.StatusInternalServerError, errorMessageAnalysisFailure)
	}
}

func formatExportRejection(err error) string {
	var slotError *ingest.SlotError
	if errors.As(err, &slotError) {
		return fmt.Sprintf(errorMessageExportRejected, slotError.Name, slotError.Err)
	}
	return err.Error()
}

// uploadFormat resolves the declared export format, inferring it from file extensions when the form
// leaves it blank.
func uploadFormat(declared string, headers []*multipart.FileHeader) (exportparser.FormatKind, error) {
	if strings.TrimSpace(declared) != "" {
		return exportparser.ParseFormatKind(declared)
	}
	for _, header := range headers {
		if exportparser.FormatMarkup.MatchesFileName(header.Filename) {
			return exportparser.FormatMarkup, nil
		}
	}
	return exportparser.FormatStructuredData, nil
}
