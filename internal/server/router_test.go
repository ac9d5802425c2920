package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/f-sync/followback/internal/relationship"
	"github.com/f-sync/followback/internal/report"
	"github.com/f-sync/followback/internal/server"
)

const (
	followersExportJSON = `[{"string_list_data":[{"value":"bob"}]},{"string_list_data":[{"value":"carol"}]},{"string_list_data":[{"value":"dave"}]}]`
	followingExportJSON = `{"relationships_following":[{"title":"alice"},{"title":"bob"},{"title":"carol"}]}`
	followersExportHTML = `<html><body><a href="https://instagram.com/bob">bob</a><a href="https://instagram.com/erin">Profile</a></body></html>`
	followingExportHTML = `<html><body><a href="https://instagram.com/bob">bob</a><a href="https://instagram.com/frank">frank</a></body></html>`
)

type uploadPart struct {
	field    string
	fileName string
	content  string
}

type analyzeResponse struct {
	ID     string                      `json:"id"`
	Result relationship.AnalysisResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func TestHealthAndStatusEndpoints(t *testing.T) {
	router := newTestRouter(t)

	testCases := []struct {
		path             string
		expectedSnippets []string
	}{
		{path: "/healthz", expectedSnippets: []string{`"status":"ok"`}},
		{path: "/api/status", expectedSnippets: []string{`"status":"ok"`, `"message":"Server is running"`}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.path, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, testCase.path, nil))
			if recorder.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
			}
			for _, snippet := range testCase.expectedSnippets {
				if !strings.Contains(recorder.Body.String(), snippet) {
					t.Fatalf("expected body to contain %q, got %s", snippet, recorder.Body.String())
				}
			}
		})
	}
}

func TestUploadPageServed(t *testing.T) {
	router := newTestRouter(t)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `action="/api/analyze"`) {
		t.Fatalf("expected upload form in page")
	}
}

func TestAnalyzeUploadSucceeds(t *testing.T) {
	testCases := []struct {
		name                     string
		format                   string
		parts                    []uploadPart
		expectedNotFollowingBack []string
		expectedFans             []string
		expectedMutual           []string
	}{
		{
			name:   "explicit fields",
			format: "json",
			parts: []uploadPart{
				{field: "followers", fileName: "a.json", content: followersExportJSON},
				{field: "following", fileName: "b.json", content: followingExportJSON},
			},
			expectedNotFollowingBack: []string{"alice"},
			expectedFans:             []string{"dave"},
			expectedMutual:           []string{"bob", "carol"},
		},
		{
			name: "files paired by name with inferred format",
			parts: []uploadPart{
				{field: "files", fileName: "following.html", content: followingExportHTML},
				{field: "files", fileName: "followers_1.html", content: followersExportHTML},
			},
			expectedNotFollowingBack: []string{"frank"},
			expectedFans:             []string{"erin"},
			expectedMutual:           []string{"bob"},
		},
		{
			name:   "unmatched extensions are ignored",
			format: "structured-data",
			parts: []uploadPart{
				{field: "files", fileName: "followers_1.json", content: followersExportJSON},
				{field: "files", fileName: "notes.txt", content: "ignored"},
				{field: "files", fileName: "following.json", content: followingExportJSON},
			},
			expectedNotFollowingBack: []string{"alice"},
			expectedFans:             []string{"dave"},
			expectedMutual:           []string{"bob", "carol"},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			router := newTestRouter(t)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, newAnalyzeRequest(t, testCase.format, testCase.parts))
			if recorder.Code != http.StatusCreated {
				t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
			}
			var response analyzeResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.ID == "" {
				t.Fatalf("expected analysis identifier")
			}
			assertList(t, "notFollowingBack", testCase.expectedNotFollowingBack, response.Result.NotFollowingBack)
			assertList(t, "fans", testCase.expectedFans, response.Result.Fans)
			assertList(t, "mutual", testCase.expectedMutual, response.Result.Mutual)

			storedRecorder := httptest.NewRecorder()
			router.ServeHTTP(storedRecorder, httptest.NewRequest(http.MethodGet, "/api/analyses/"+response.ID, nil))
			if storedRecorder.Code != http.StatusOK {
				t.Fatalf("expected stored analysis, got status %d", storedRecorder.Code)
			}
			var stored relationship.AnalysisResult
			if err := json.Unmarshal(storedRecorder.Body.Bytes(), &stored); err != nil {
				t.Fatalf("failed to decode stored analysis: %v", err)
			}
			if stored.Stats != response.Result.Stats {
				t.Fatalf("expected stored stats %+v, got %+v", response.Result.Stats, stored.Stats)
			}
		})
	}
}

func TestAnalyzeUploadFailures(t *testing.T) {
	testCases := []struct {
		name            string
		format          string
		parts           []uploadPart
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "no files",
			format:          "json",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "no export files were uploaded",
		},
		{
			name:   "unknown format",
			format: "csv",
			parts: []uploadPart{
				{field: "followers", fileName: "followers.csv", content: "bob"},
				{field: "following", fileName: "following.csv", content: "bob"},
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "unknown export format",
		},
		{
			name:   "single file",
			format: "json",
			parts: []uploadPart{
				{field: "files", fileName: "followers.json", content: followersExportJSON},
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "both a followers file and a following file are required",
		},
		{
			name:   "malformed export",
			format: "json",
			parts: []uploadPart{
				{field: "followers", fileName: "followers.json", content: `{"followers":[`},
				{field: "following", fileName: "following.json", content: followingExportJSON},
			},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "could not read followers.json",
		},
		{
			name:   "scalar export",
			format: "json",
			parts: []uploadPart{
				{field: "followers", fileName: "followers.json", content: followersExportJSON},
				{field: "following", fileName: "following.json", content: `"bob"`},
			},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "could not read following.json",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			router := newTestRouter(t)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, newAnalyzeRequest(t, testCase.format, testCase.parts))
			if recorder.Code != testCase.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", testCase.expectedStatus, recorder.Code, recorder.Body.String())
			}
			var response errorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !strings.Contains(response.Error, testCase.expectedMessage) {
				t.Fatalf("expected error to contain %q, got %q", testCase.expectedMessage, response.Error)
			}
		})
	}
}

func TestAnalyzeRejectsNonMultipartBody(t *testing.T) {
	router := newTestRouter(t)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestAnalysisListEndpoint(t *testing.T) {
	store, err := server.NewAnalysisStore(4)
	if err != nil {
		t.Fatalf("NewAnalysisStore returned error: %v", err)
	}
	analysisID := store.Save(relationship.Analyze(nil, []string{"anna", "bert", "annika", "carl"}))
	router, err := server.NewRouter(server.RouterConfig{Store: store})
	if err != nil {
		t.Fatalf("NewRouter returned error: %v", err)
	}

	testCases := []struct {
		name                string
		path                string
		expectedStatus      int
		expectedIdentifiers []string
		expectedTotalPages  int
	}{
		{
			name:                "filtered and paginated",
			path:                "/api/analyses/" + analysisID + "/lists/not-following-back?q=ANN&page=2&pageSize=1",
			expectedStatus:      http.StatusOK,
			expectedIdentifiers: []string{"annika"},
			expectedTotalPages:  2,
		},
		{
			name:                "defaults",
			path:                "/api/analyses/" + analysisID + "/lists/notFollowingBack",
			expectedStatus:      http.StatusOK,
			expectedIdentifiers: []string{"anna", "bert", "annika", "carl"},
			expectedTotalPages:  1,
		},
		{
			name:                "empty list",
			path:                "/api/analyses/" + analysisID + "/lists/fans",
			expectedStatus:      http.StatusOK,
			expectedIdentifiers: []string{},
			expectedTotalPages:  1,
		},
		{name: "unknown list", path: "/api/analyses/" + analysisID + "/lists/blocked", expectedStatus: http.StatusBadRequest},
		{name: "invalid page", path: "/api/analyses/" + analysisID + "/lists/fans?page=two", expectedStatus: http.StatusBadRequest},
		{name: "unknown analysis", path: "/api/analyses/missing/lists/fans", expectedStatus: http.StatusNotFound},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, testCase.path, nil))
			if recorder.Code != testCase.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", testCase.expectedStatus, recorder.Code, recorder.Body.String())
			}
			if testCase.expectedStatus != http.StatusOK {
				return
			}
			var listPage report.ListPage
			if err := json.Unmarshal(recorder.Body.Bytes(), &listPage); err != nil {
				t.Fatalf("failed to decode list page: %v", err)
			}
			assertList(t, "identifiers", testCase.expectedIdentifiers, listPage.Identifiers)
			if listPage.TotalPages != testCase.expectedTotalPages {
				t.Fatalf("expected %d total pages, got %d", testCase.expectedTotalPages, listPage.TotalPages)
			}
		})
	}
}

func TestAnalysisReportPage(t *testing.T) {
	store, err := server.NewAnalysisStore(4)
	if err != nil {
		t.Fatalf("NewAnalysisStore returned error: %v", err)
	}
	analysisID := store.Save(relationship.Analyze([]string{"zoe"}, []string{"yann"}))
	router, err := server.NewRouter(server.RouterConfig{Store: store})
	if err != nil {
		t.Fatalf("NewRouter returned error: %v", err)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/analyses/"+analysisID, nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	body := recorder.Body.String()
	for _, snippet := range []string{analysisID, "https://instagram.com/yann", "https://instagram.com/zoe"} {
		if !strings.Contains(body, snippet) {
			t.Fatalf("expected report page to contain %q", snippet)
		}
	}

	missingRecorder := httptest.NewRecorder()
	router.ServeHTTP(missingRecorder, httptest.NewRequest(http.MethodGet, "/analyses/missing", nil))
	if missingRecorder.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, missingRecorder.Code)
	}
	if !strings.Contains(missingRecorder.Body.String(), "analysis not found") {
		t.Fatalf("expected not found message in page")
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	router, err := server.NewRouter(server.RouterConfig{})
	if err != nil {
		t.Fatalf("NewRouter returned error: %v", err)
	}
	return router
}

func newAnalyzeRequest(t *testing.T, format string, parts []uploadPart) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if format != "" {
		if err := writer.WriteField("format", format); err != nil {
			t.Fatalf("write format field: %v", err)
		}
	}
	for _, part := range parts {
		formFile, err := writer.CreateFormFile(part.field, part.fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := formFile.Write([]byte(part.content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

func assertList(t *testing.T, label string, expected []string, actual []string) {
	t.Helper()
	if strings.Join(expected, ",") != strings.Join(actual, ",") {
		t.Fatalf("expected %s %v, got %v", label, expected, actual)
	}
}
