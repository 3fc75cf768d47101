// internal/services/export/exporter.go
package export

import (
	"os"

	apperrors "permitcheck/internal/common/errors"
	"permitcheck/internal/common/logger"
	"permitcheck/internal/common/metrics"
	"permitcheck/internal/models"
)

// Exporter renders result bundles into downloadable documents. Files are
// written to the OS temp dir; the caller owns deletion after the download.
type Exporter struct {
	logger logger.Logger
}

func NewExporter(log logger.Logger) *Exporter {
	return &Exporter{
		logger: log.WithFields(map[string]interface{}{"service": "export"}),
	}
}

// CreateDocument renders the bundle as the requested export type and returns
// the path of the generated temp file.
func (e *Exporter) CreateDocument(bundle models.ExportBundle, exportType string) (string, error) {
	var path string
	var err error

	switch exportType {
	case models.ExportTypePDF:
		path, err = e.createPDF(bundle)
	case models.ExportTypeDOCX:
		path, err = e.createDOCX(bundle)
	case models.ExportTypeChecklist:
		path, err = e.createChecklistPDF(bundle)
	default:
		return "", apperrors.NewInvalidExportTypeError(exportType)
	}

	if err != nil {
		return "", apperrors.NewExportFailedError(exportType, err)
	}

	metrics.DocumentExportsTotal.WithLabelValues(exportType).Inc()
	e.logger.Info("document exported", map[string]interface{}{
		"type": exportType,
		"path": path,
	})
	return path, nil
}

// tempFilePath reserves a uniquely named temp file and returns its path.
func tempFilePath(pattern string) (string, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
