package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/complianceops/case-management-api/internal/models"
	appErrors "github.com/complianceops/case-management-api/pkg/errors"
	"github.com/complianceops/case-management-api/pkg/export"
)

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ExportResult bundles a rendered roster artifact.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the case roster to CSV or PDF.
type ExportService struct {
	repo    caseRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage exportStorage
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(repo caseRepository, storage exportStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: storage,
		logger:  logger,
	}
}

// Export renders every case into the requested format ("csv" or "pdf"),
// persists the artifact when storage is configured, and returns it.
func (s *ExportService) Export(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	cases, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cases for export")
	}
	dataset := buildCaseDataset(cases)

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "pdf":
		data, err = s.pdf.Render(dataset, "Case Roster")
		contentType = "application/pdf"
	default:
		data, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("cases_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	if s.storage != nil {
		if _, err := s.storage.Save(filename, data); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist export")
		}
	}
	s.logger.Info("case roster exported", zap.String("filename", filename), zap.Int("cases", len(cases)))
	return &ExportResult{Filename: filename, ContentType: contentType, Data: data}, nil
}

func buildCaseDataset(cases []models.Case) export.Dataset {
	headers := []string{"Case ID", "Type", "Status", "Owner", "Bank", "Fine Amount", "Created", "Updated"}
	rows := make([]map[string]string, 0, len(cases))
	for _, c := range cases {
		fine := ""
		if c.FineAmount != nil {
			fine = c.FineAmount.StringFixed(2)
		}
		rows = append(rows, map[string]string{
			"Case ID":     c.CaseID,
			"Type":        c.Type,
			"Status":      string(c.Status),
			"Owner":       c.Owner,
			"Bank":        c.Bank,
			"Fine Amount": fine,
			"Created":     c.CreatedAt.UTC().Format(time.RFC3339),
			"Updated":     c.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
