// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "permitcheck/internal/common/errors"
	"permitcheck/internal/common/validation"
	"permitcheck/internal/models"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "PermitCheck AI API is running"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"services": gin.H{
			"ai_service":       "online",
			"document_service": "online",
			"export_service":   "online",
			"zoning_service":   "online",
		},
	})
}

// handleFeasibilityCheck resolves zoning for the project location, asks the
// model for an assessment, then overwrites the answer's zoning echo with the
// resolver's authoritative result.
func (s *Server) handleFeasibilityCheck(c *gin.Context) {
	project, ok := s.bindProjectData(c)
	if !ok {
		return
	}

	zoningInfo := s.zoning.Resolve(c.Request.Context(), project.Address, project.ParcelID)

	results, err := s.ai.AnalyzeFeasibility(c.Request.Context(), project, zoningInfo)
	if err != nil {
		s.respondError(c, "Feasibility check failed", err)
		return
	}

	results.ZoningInfo = &zoningInfo
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleGenerateNarrative(c *gin.Context) {
	project, ok := s.bindProjectData(c)
	if !ok {
		return
	}

	results, err := s.ai.GenerateNarrative(c.Request.Context(), project)
	if err != nil {
		s.respondError(c, "Narrative generation failed", err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// handleReviewPermit accepts a multipart upload: the permit document under
// "document" and the project JSON under "project_data". Upload validation
// happens before any disk write.
func (s *Server) handleReviewPermit(c *gin.Context) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		s.respondError(c, "Document review failed", apperrors.NewInvalidRequestBodyError("missing document upload"))
		return
	}

	var project models.ProjectData
	if err := json.Unmarshal([]byte(c.PostForm("project_data")), &project); err != nil {
		s.respondError(c, "Document review failed", apperrors.NewInvalidProjectDataError(err.Error()))
		return
	}
	project.ApplyDefaults()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if fileHeader.Filename == "" || !s.extensionAllowed(ext) {
		s.respondError(c, "Document review failed", apperrors.NewInvalidFileTypeError(ext))
		return
	}
	if fileHeader.Size > s.config.Upload.MaxFileSizeBytes() {
		s.respondError(c, "Document review failed", apperrors.NewFileTooLargeError(fileHeader.Size, s.config.Upload.MaxFileSizeBytes()))
		return
	}

	tempPath, err := saveUpload(fileHeader, ext)
	if err != nil {
		s.respondError(c, "Document review failed", apperrors.NewUploadSaveFailedError(err))
		return
	}
	defer os.Remove(tempPath)

	text, err := s.documents.ExtractText(tempPath)
	if err != nil {
		s.respondError(c, "Document review failed", err)
		return
	}

	results, err := s.ai.ReviewPermitApplication(c.Request.Context(), text, project)
	if err != nil {
		s.respondError(c, "Document review failed", err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleGenerateVisual(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.respondError(c, "Visual generation failed", apperrors.NewInvalidRequestBodyError(err.Error()))
		return
	}

	if result := validation.ValidateVisualRequest(raw); !result.Valid {
		s.respondError(c, "Visual generation failed", apperrors.NewInvalidRequestBodyError(result.ErrorSummary()))
		return
	}

	var request models.VisualRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		s.respondError(c, "Visual generation failed", apperrors.NewInvalidRequestBodyError(err.Error()))
		return
	}
	if request.VisualType == "" {
		request.VisualType = models.Visual3DRendering
	}

	// Generation failures come back inside the result with error status.
	c.JSON(http.StatusOK, s.ai.GenerateVisual(c.Request.Context(), request))
}

// handleExportDocument renders the posted result bundle and streams the file
// back as a download. The temp file is deleted once the response is written.
func (s *Server) handleExportDocument(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.respondError(c, "Document export failed", apperrors.NewInvalidRequestBodyError(err.Error()))
		return
	}

	var bundle models.ExportBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		s.respondError(c, "Document export failed", apperrors.NewInvalidRequestBodyError(err.Error()))
		return
	}

	exportType := bundle.Type
	if exportType == "" {
		exportType = models.ExportTypePDF
	}
	mediaType, ok := models.ExportMediaTypes[exportType]
	if !ok {
		s.respondError(c, "Document export failed", apperrors.NewInvalidExportTypeError(exportType))
		return
	}

	path, err := s.exports.CreateDocument(bundle, exportType)
	if err != nil {
		s.respondError(c, "Document export failed", err)
		return
	}
	defer os.Remove(path)

	// The filename extension follows the export type, checklist included.
	filename := fmt.Sprintf("permit-package.%s", exportType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", mediaType)
	c.File(path)
}

// bindProjectData validates and decodes a ProjectData request body, replying
// with the validation failure itself when the body does not conform.
func (s *Server) bindProjectData(c *gin.Context) (models.ProjectData, bool) {
	var project models.ProjectData

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.respondError(c, "Request decoding failed", apperrors.NewInvalidRequestBodyError(err.Error()))
		return project, false
	}

	if result := validation.ValidateProjectData(raw); !result.Valid {
		s.respondError(c, "Request decoding failed", apperrors.NewInvalidRequestBodyError(result.ErrorSummary()))
		return project, false
	}

	if err := json.Unmarshal(raw, &project); err != nil {
		s.respondError(c, "Request decoding failed", apperrors.NewInvalidRequestBodyError(err.Error()))
		return project, false
	}

	project.ApplyDefaults()
	return project, true
}

func (s *Server) extensionAllowed(ext string) bool {
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// saveUpload copies the multipart file to a temp file keeping the original
// extension so extraction can dispatch on it.
func saveUpload(fileHeader *multipart.FileHeader, ext string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "permit-upload-*"+ext)
	if err != nil {
		return "", err
	}
	path := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// respondError maps the error to its HTTP status. Client errors reply with
// the stable validation message; everything else is prefixed with the failed
// operation the way the API has always reported it.
func (s *Server) respondError(c *gin.Context, operation string, err error) {
	status := apperrors.HTTPStatus(err)

	detail := operation + ": " + err.Error()
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) && apperrors.IsClientError(err) {
		detail = stdErr.Message
	}

	logFields := map[string]interface{}{
		"requestId": c.GetString(requestIDKey),
		"operation": operation,
		"status":    status,
		"error":     err.Error(),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logFields)
	} else {
		s.logger.Warn("request rejected", logFields)
	}

	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
