package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/f-sync/followback/internal/relationship"
	"github.com/f-sync/followback/internal/report"
)

const (
	uploadPageRoutePath      = "/"
	healthRoutePath          = "/healthz"
	statusRoutePath          = "/api/status"
	analyzeRoutePath         = "/api/analyze"
	analysisRoutePath        = "/api/analyses/:id"
	analysisListRoutePath    = "/api/analyses/:id/lists/:list"
	analysisReportRoutePath  = "/analyses/:id"
	routeParameterAnalysisID = "id"
	routeParameterList       = "list"
	queryParameterFilter     = "q"
	queryParameterPage       = "page"
	queryParameterPageSize   = "pageSize"
	htmlContentType          = "text/html; charset=utf-8"
	healthStatusKey          = "status"
	healthStatusOK           = "ok"
	statusMessageKey         = "message"
	statusMessageRunning     = "Server is running"
	errorResponseKey         = "error"
	ginModeRelease           = "release"

	// DefaultMaxUploadBytes bounds the size of one analyze request body.
	DefaultMaxUploadBytes int64 = 32 << 20

	errorMessageAnalysisNotFound = "analysis not found"
	errorMessageRenderFailure    = "report page rendering failed"
	errorMessageInvalidPage      = "page and pageSize must be integers"

	logMessageRenderFailure = "report render failure"
	logFieldAnalysisID      = "analysis_id"
)

// RouterConfig configures the HTTP routing for analysis requests.
type RouterConfig struct {
	Logger *zap.Logger
	// Store holds completed analyses. Nil selects a store of DefaultAnalysisCacheSize entries.
	Store *AnalysisStore
	// MaxUploadBytes bounds an analyze request body. Zero or negative selects DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// NewRouter constructs a Gin engine configured with the analysis, report and health handlers.
func NewRouter(configuration RouterConfig) (*gin.Engine, error) {
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := configuration.Store
	if store == nil {
		defaultStore, err := NewAnalysisStore(DefaultAnalysisCacheSize)
		if err != nil {
			return nil, err
		}
		store = defaultStore
	}
	maxUploadBytes := configuration.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}

	gin.SetMode(ginModeRelease)
	engine := gin.New()
	engine.Use(gin.Recovery())

	handler := analysisHandler{
		store:          store,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}

	engine.GET(healthRoutePath, handler.healthStatus)
	engine.GET(statusRoutePath, handler.serverStatus)
	engine.GET(uploadPageRoutePath, handler.serveUploadPage)
	engine.POST(analyzeRoutePath, handler.analyzeUpload)
	engine.GET(analysisRoutePath, handler.serveAnalysis)
	engine.GET(analysisListRoutePath, handler.serveAnalysisList)
	engine.GET(analysisReportRoutePath, handler.serveAnalysisReport)

	return engine, nil
}

type analysisHandler struct {
	store          *AnalysisStore
	logger         *zap.Logger
	maxUploadBytes int64
}

func (handler analysisHandler) healthStatus(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, map[string]string{healthStatusKey: healthStatusOK})
}

func (handler analysisHandler) serverStatus(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, map[string]string{
		healthStatusKey:  healthStatusOK,
		statusMessageKey: statusMessageRunning,
	})
}

func (handler analysisHandler) serveUploadPage(ginContext *gin.Context) {
	handler.renderPage(ginContext, report.PageData{})
}

func (handler analysisHandler) serveAnalysis(ginContext *gin.Context) {
	result, found := handler.lookupAnalysis(ginContext)
	if !found {
		return
	}
	ginContext.JSON(http.StatusOK, result)
}

func (handler analysisHandler) serveAnalysisList(ginContext *gin.Context) {
	result, found := handler.lookupAnalysis(ginContext)
	if !found {
		return
	}
	kind, err := relationship.ParseListKind(ginContext.Param(routeParameterList))
	if err != nil {
		respondError(ginContext, http.StatusBadRequest, err.Error())
		return
	}
	page, pageErr := optionalIntegerQuery(ginContext, queryParameterPage)
	pageSize, pageSizeErr := optionalIntegerQuery(ginContext, queryParameterPageSize)
	if pageErr != nil || pageSizeErr != nil {
		respondError(ginContext, http.StatusBadRequest, errorMessageInvalidPage)
		return
	}
	listPage := report.Page(result.List(kind), ginContext.Query(queryParameterFilter), page, pageSize)
	ginContext.JSON(http.StatusOK, listPage)
}

func (handler analysisHandler) serveAnalysisReport(ginContext *gin.Context) {
	analysisID := ginContext.Param(routeParameterAnalysisID)
	result, found := handler.store.Load(analysisID)
	if !found {
		ginContext.Status(http.StatusNotFound)
		handler.renderPage(ginContext, report.PageData{Errors: []string{errorMessageAnalysisNotFound}})
		return
	}
	handler.renderPage(ginContext, report.PageData{Result: &result, AnalysisID: analysisID})
}

func (handler analysisHandler) lookupAnalysis(ginContext *gin.Context) (relationship.AnalysisResult, bool) {
	result, found := handler.store.Load(ginContext.Param(routeParameterAnalysisID))
	if !found {
		respondError(ginContext, http.StatusNotFound, errorMessageAnalysisNotFound)
		return relationship.AnalysisResult{}, false
	}
	return result, true
}

// renderPage writes the report page using the status already set on the response, defaulting to 200.
func (handler analysisHandler) renderPage(ginContext *gin.Context, pageData report.PageData) {
	pageHTML, err := report.RenderPage(pageData)
	if err != nil {
		handler.logger.Error(logMessageRenderFailure, zap.String(logFieldAnalysisID, pageData.AnalysisID), zap.Error(err))
		ginContext.String(http.StatusInternalServerError, errorMessageRenderFailure)
		return
	}
	ginContext.Data(ginContext.Writer.Status(), htmlContentType, []byte(pageHTML))
}

func optionalIntegerQuery(ginContext *gin.Context, name string) (int, error) {
	rawValue := ginContext.Query(name)
	if rawValue == "" {
		return 0, nil
	}
	return strconv.Atoi(rawValue)
}

func respondError(ginContext *gin.Context, status int, message string) {
	ginContext.JSON(status, map[string]string{errorResponseKey: message})
}
