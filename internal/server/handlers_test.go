// internal/server/handlers_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permitcheck/internal/common/config"
	apperrors "permitcheck/internal/common/errors"
	"permitcheck/internal/common/logger"
	"permitcheck/internal/models"
	"permitcheck/internal/services/zoning"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- stub services ---

type stubZoning struct {
	info models.ZoningInfo
}

func (s *stubZoning) Resolve(_ context.Context, _, _ string) models.ZoningInfo {
	return s.info
}

type stubAI struct {
	feasibility    *models.FeasibilityResults
	feasibilityErr error
	narrative      *models.NarrativeResults
	narrativeErr   error
	review         *models.ReviewResults
	reviewErr      error
	visual         *models.VisualResults

	lastProject       models.ProjectData
	lastReviewText    string
	lastVisualRequest models.VisualRequest
}

func (s *stubAI) AnalyzeFeasibility(_ context.Context, project models.ProjectData, _ models.ZoningInfo) (*models.FeasibilityResults, error) {
	s.lastProject = project
	if s.feasibilityErr != nil {
		return nil, s.feasibilityErr
	}
	return s.feasibility, nil
}

func (s *stubAI) GenerateNarrative(_ context.Context, project models.ProjectData) (*models.NarrativeResults, error) {
	s.lastProject = project
	if s.narrativeErr != nil {
		return nil, s.narrativeErr
	}
	return s.narrative, nil
}

func (s *stubAI) ReviewPermitApplication(_ context.Context, documentText string, project models.ProjectData) (*models.ReviewResults, error) {
	s.lastReviewText = documentText
	s.lastProject = project
	if s.reviewErr != nil {
		return nil, s.reviewErr
	}
	return s.review, nil
}

func (s *stubAI) GenerateVisual(_ context.Context, request models.VisualRequest) *models.VisualResults {
	s.lastVisualRequest = request
	return s.visual
}

type stubExtractor struct {
	text     string
	err      error
	lastPath string
}

func (s *stubExtractor) ExtractText(path string) (string, error) {
	s.lastPath = path
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubExporter struct {
	err        error
	lastType   string
	lastBundle models.ExportBundle
}

func (s *stubExporter) CreateDocument(bundle models.ExportBundle, exportType string) (string, error) {
	s.lastBundle = bundle
	s.lastType = exportType
	if s.err != nil {
		return "", s.err
	}
	tmp, err := os.CreateTemp("", "export-test-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString("%PDF-stub"); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return tmp.Name(), nil
}

// --- helpers ---

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "permitcheck"
	cfg.App.Environment = "test"
	cfg.Upload.MaxFileSizeMB = 10
	cfg.Upload.AllowedExtensions = []string{".pdf", ".docx", ".doc", ".jpg", ".jpeg", ".png"}
	return cfg
}

type testServer struct {
	server    *Server
	ai        *stubAI
	extractor *stubExtractor
	exporter  *stubExporter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ai := &stubAI{
		feasibility: &models.FeasibilityResults{
			Verdict:           models.VerdictFeasible,
			ComplianceSummary: "ok",
			Issues:            []string{},
			Recommendations:   []string{},
			RequiredPermits:   []string{"Building Permit"},
		},
		narrative: &models.NarrativeResults{Narrative: "scope", WordCount: 1, GeneratedAt: "2026-08-28T00:00:00Z"},
		review:    &models.ReviewResults{RejectionRisk: models.RiskLow},
		visual:    &models.VisualResults{Status: models.VisualStatusSuccess, VisualType: models.Visual3DRendering},
	}
	extractor := &stubExtractor{text: "extracted permit text"}
	exporter := &stubExporter{}

	resolver, err := zoning.NewResolver(&zoning.Config{}, logger.NewTestLogger(t))
	require.NoError(t, err)

	srv := New(testConfig(), logger.NewTestLogger(t), resolver, ai, extractor, exporter)
	return &testServer{server: srv, ai: ai, extractor: extractor, exporter: exporter}
}

func (ts *testServer) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	ts.server.Engine().ServeHTTP(w, req)
	return w
}

func (ts *testServer) postJSON(t *testing.T, path string, payload string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodPost, path, bytes.NewBufferString(payload), "application/json")
}

func multipartBody(t *testing.T, filename string, fileContent []byte, projectData string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("document", filename)
	require.NoError(t, err)
	_, err = part.Write(fileContent)
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("project_data", projectData))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func errorDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

// --- liveness and health ---

func TestRootEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "PermitCheck AI API is running"}`, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/health", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "online", resp.Services["ai_service"])
	assert.Len(t, resp.Services, 4)
}

// --- feasibility ---

func TestFeasibilityCheckReflectsResolvedZoning(t *testing.T) {
	ts := newTestServer(t)

	// No address or parcel: the resolver answers with the default district
	// and the response must carry it, not whatever the model echoed.
	w := ts.postJSON(t, "/api/feasibility-check", `{"description": "Build a detached garage"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.FeasibilityResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.ZoningInfo)
	assert.Equal(t, "R-2", resp.ZoningInfo.District)
	assert.Equal(t, "residential", resp.ZoningInfo.Classification)
	assert.Equal(t, "default", resp.ZoningInfo.Source)
	assert.Contains(t, resp.ZoningInfo.Restrictions, "Maximum height: 30 feet")
	assert.Contains(t, resp.ZoningInfo.Restrictions, "Front setback: minimum 20 feet")
	assert.Equal(t, models.VerdictFeasible, resp.Verdict)
}

func TestFeasibilityCheckAppliesProjectDefaults(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/feasibility-check", `{"description": "A shed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "garage", ts.ai.lastProject.StructureType)
	assert.Equal(t, "residential", ts.ai.lastProject.PropertyType)
}

func TestFeasibilityCheckAcceptsNumericDimensions(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/feasibility-check", `{"description": "garage", "dimensions": {"length": 24, "width": "30"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "24", ts.ai.lastProject.Dimensions.Length.String())
	assert.Equal(t, "30", ts.ai.lastProject.Dimensions.Width.String())
}

func TestFeasibilityCheckRejectsMissingDescription(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/feasibility-check", `{"structure_type": "garage"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeasibilityCheckRejectsMalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/feasibility-check", `{"description": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeasibilityCheckModelFailureIs500(t *testing.T) {
	ts := newTestServer(t)
	ts.ai.feasibilityErr = apperrors.NewAIAnalysisFailedError("feasibility", assert.AnError)

	w := ts.postJSON(t, "/api/feasibility-check", `{"description": "garage"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(errorDetail(t, w), "Feasibility check failed: "))
}

// --- narrative ---

func TestGenerateNarrative(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/generate-narrative", `{"description": "garage"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.NarrativeResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "scope", resp.Narrative)
}

// --- review ---

func TestReviewPermitHappyPath(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, "application.pdf", []byte("%PDF-1.4 fake"), `{"description": "garage"}`)
	w := ts.do(t, http.MethodPost, "/api/review-permit", body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ReviewResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RiskLow, resp.RejectionRisk)
	assert.Equal(t, "extracted permit text", ts.ai.lastReviewText)

	// The temp upload must be gone once the request completes.
	_, statErr := os.Stat(ts.extractor.lastPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReviewPermitRejectsDisallowedExtension(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, "malware.exe", []byte("MZ"), `{"description": "garage"}`)
	w := ts.do(t, http.MethodPost, "/api/review-permit", body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file type or size", errorDetail(t, w))
	assert.Empty(t, ts.extractor.lastPath, "nothing may touch disk for a rejected upload")
}

func TestReviewPermitRejectsOversizedFile(t *testing.T) {
	ts := newTestServer(t)

	oversized := bytes.Repeat([]byte("a"), 11*1024*1024)
	body, contentType := multipartBody(t, "big.pdf", oversized, `{"description": "garage"}`)
	w := ts.do(t, http.MethodPost, "/api/review-permit", body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file type or size", errorDetail(t, w))
}

func TestReviewPermitAcceptsImageUnderLimit(t *testing.T) {
	ts := newTestServer(t)

	content := bytes.Repeat([]byte("p"), 5*1024*1024)
	body, contentType := multipartBody(t, "scan.PNG", content, `{"description": "garage"}`)
	w := ts.do(t, http.MethodPost, "/api/review-permit", body, contentType)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasSuffix(ts.extractor.lastPath, ".png"))
}

func TestReviewPermitRejectsMalformedProjectData(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, "application.pdf", []byte("%PDF"), `not json`)
	w := ts.do(t, http.MethodPost, "/api/review-permit", body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid project data format", errorDetail(t, w))
}

func TestReviewPermitRequiresDocument(t *testing.T) {
	ts := newTestServer(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("project_data", `{"description": "garage"}`))
	require.NoError(t, writer.Close())

	w := ts.do(t, http.MethodPost, "/api/review-permit", body, writer.FormDataContentType())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewPermitExtractionFailureIs500(t *testing.T) {
	ts := newTestServer(t)
	ts.extractor.err = apperrors.NewDocumentExtractionFailedError(assert.AnError)

	body, contentType := multipartBody(t, "application.pdf", []byte("%PDF"), `{"description": "garage"}`)
	w := ts.do(t, http.MethodPost, "/api/review-permit", body, contentType)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(errorDetail(t, w), "Document review failed: "))
}

// --- visual ---

func TestGenerateVisualDefaultsVisualType(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/generate-visual", `{"structure_type": "garage"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Visual3DRendering, ts.ai.lastVisualRequest.VisualType)
}

func TestGenerateVisualRejectsMissingStructureType(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/generate-visual", `{"visual_type": "site_plan"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateVisualErrorStatusStillHTTP200(t *testing.T) {
	ts := newTestServer(t)
	ts.ai.visual = &models.VisualResults{
		Status:     models.VisualStatusError,
		Error:      "Failed to generate visual: upstream down",
		VisualType: models.VisualSitePlan,
	}

	w := ts.postJSON(t, "/api/generate-visual", `{"structure_type": "garage", "visual_type": "site_plan"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.VisualResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.VisualStatusError, resp.Status)
	assert.Nil(t, resp.ImageURL)
}

// --- export ---

func TestExportDocumentDefaultsToPDF(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/export-document", `{"project_data": {"description": "garage"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ExportTypePDF, ts.exporter.lastType)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="permit-package.pdf"`)
	assert.Equal(t, "%PDF-stub", w.Body.String())
}

func TestExportDocumentChecklistFilenameUsesExportType(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/export-document", `{"type": "checklist", "review_results": {"rejection_risk": "Low"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="permit-package.checklist"`)
}

func TestExportDocumentRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/export-document", `{"type": "xml"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid export type", errorDetail(t, w))
	assert.Empty(t, ts.exporter.lastType, "nothing may be rendered for an invalid type")
}

func TestExportDocumentRendererFailureIs500(t *testing.T) {
	ts := newTestServer(t)
	ts.exporter.err = apperrors.NewExportFailedError(models.ExportTypePDF, assert.AnError)

	w := ts.postJSON(t, "/api/export-document", `{"type": "pdf"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(errorDetail(t, w), "Document export failed: "))
}

func TestExportDocumentParsesReviewItemVariants(t *testing.T) {
	ts := newTestServer(t)

	w := ts.postJSON(t, "/api/export-document", `{
		"type": "pdf",
		"review_results": {
			"rejection_risk": "Medium",
			"issues": ["plain issue", {"category": "Dates", "description": "no date", "severity": "Minor"}],
			"fixes": [{"category": "Dates", "description": "add a date", "priority": "Low"}]
		}
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	review := ts.exporter.lastBundle.ReviewResults
	require.NotNil(t, review)
	require.Len(t, review.Issues, 2)
	assert.False(t, review.Issues[0].IsStructured())
	assert.True(t, review.Issues[1].IsStructured())
}
