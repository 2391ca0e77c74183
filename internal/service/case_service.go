package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/complianceops/case-management-api/internal/dto"
	"github.com/complianceops/case-management-api/internal/models"
	"github.com/complianceops/case-management-api/internal/repository"
	appErrors "github.com/complianceops/case-management-api/pkg/errors"
)

const listCacheKey = "cases:all"

type caseRepository interface {
	List(ctx context.Context) ([]models.Case, error)
	FindByCaseID(ctx context.Context, caseID string) (*models.Case, error)
	ExistsByCaseID(ctx context.Context, caseID string) (bool, error)
	Create(ctx context.Context, c *models.Case) error
	Update(ctx context.Context, caseID string, upd models.CaseUpdate) (*models.Case, error)
	AppendAttachment(ctx context.Context, caseID, filename string) error
	Filter(ctx context.Context, filter models.CaseFilter) ([]models.Case, error)
}

type evidenceStorage interface {
	Save(filename string, data []byte) (string, error)
}

// CreateCaseRequest holds the payload for creating cases. Internal ID
// and timestamps are never client-supplied.
type CreateCaseRequest struct {
	CaseID             string            `json:"caseId" validate:"required"`
	Type               string            `json:"type" validate:"required"`
	Status             models.CaseStatus `json:"status" validate:"required"`
	Owner              string            `json:"owner" validate:"required"`
	Bank               string            `json:"bank" validate:"required"`
	Description        *string           `json:"description"`
	Attachments        []string          `json:"attachments"`
	FineAmount         *decimal.Decimal  `json:"fineAmount"`
	Notes              *string           `json:"notes"`
	ComplainantType    *string           `json:"complainantType"`
	ComplainantCompany *string           `json:"complainantCompany"`
	ComplainantICA     *string           `json:"complainantIca"`
	ComplainantCountry *string           `json:"complainantCountry"`
	ComplainantRegion  *string           `json:"complainantRegion"`
	AcquirerPrimaryICA *string           `json:"acquirerPrimaryIca"`
	AcquirerCountry    *string           `json:"acquirerCountry"`
	AcquirerRegion     *string           `json:"acquirerRegion"`
	SubProgram         *string           `json:"subProgram"`
	OverallCaseLead    *string           `json:"overallCaseLead"`
}

// CaseServiceConfig tunes the simulated workflow operations.
type CaseServiceConfig struct {
	EmailDelay        time.Duration
	AlertAllowedMIMEs []string
}

// CaseService handles case use-cases: CRUD, criteria search and the
// simulated workflow operations.
type CaseService struct {
	repo      caseRepository
	storage   evidenceStorage
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CaseServiceConfig
	mimeSet   map[string]struct{}
}

// NewCaseService constructs the case service with defaults.
func NewCaseService(repo caseRepository, storage evidenceStorage, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg CaseServiceConfig) *CaseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.EmailDelay <= 0 {
		cfg.EmailDelay = 2 * time.Second
	}
	if len(cfg.AlertAllowedMIMEs) == 0 {
		cfg.AlertAllowedMIMEs = []string{
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.ms-excel",
			"text/csv",
		}
	}
	mimeSet := make(map[string]struct{}, len(cfg.AlertAllowedMIMEs))
	for _, mt := range cfg.AlertAllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &CaseService{
		repo:      repo,
		storage:   storage,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		mimeSet:   mimeSet,
	}
}

// List returns cases matching the filter, or every case when the filter
// is empty. The unfiltered listing is served from cache when possible.
func (s *CaseService) List(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	if filter.Empty() {
		var cached []models.Case
		if s.cache.Get(ctx, listCacheKey, &cached) {
			return cached, nil
		}
		cases, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cases")
		}
		s.cache.Set(ctx, listCacheKey, cases)
		return cases, nil
	}
	cases, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to filter cases")
	}
	return cases, nil
}

// Search evaluates the criteria list against the full case collection.
// An empty criteria list returns every case.
func (s *CaseService) Search(ctx context.Context, criteria []dto.SearchCriterion) ([]models.Case, error) {
	cases, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search cases")
	}
	return applyCriteria(cases, criteria), nil
}

// Get returns a single case by its business identifier.
func (s *CaseService) Get(ctx context.Context, caseID string) (*models.Case, error) {
	c, err := s.repo.FindByCaseID(ctx, caseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
	}
	return c, nil
}

// Create registers a new case, rejecting duplicate business identifiers.
func (s *CaseService) Create(ctx context.Context, req CreateCaseRequest) (*models.Case, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid case payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", req.Status))
	}
	exists, err := s.repo.ExistsByCaseID(ctx, req.CaseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate case id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateCase, fmt.Sprintf("Case with ID %s already exists", req.CaseID))
	}

	attachments := req.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	c := &models.Case{
		CaseID:             req.CaseID,
		Type:               req.Type,
		Status:             req.Status,
		Owner:              req.Owner,
		Bank:               req.Bank,
		Description:        req.Description,
		Attachments:        attachments,
		FineAmount:         req.FineAmount,
		Notes:              req.Notes,
		ComplainantType:    req.ComplainantType,
		ComplainantCompany: req.ComplainantCompany,
		ComplainantICA:     req.ComplainantICA,
		ComplainantCountry: req.ComplainantCountry,
		ComplainantRegion:  req.ComplainantRegion,
		AcquirerPrimaryICA: req.AcquirerPrimaryICA,
		AcquirerCountry:    req.AcquirerCountry,
		AcquirerRegion:     req.AcquirerRegion,
		SubProgram:         req.SubProgram,
		OverallCaseLead:    req.OverallCaseLead,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateCaseID) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateCase, fmt.Sprintf("Case with ID %s already exists", req.CaseID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create case")
	}
	s.cache.InvalidatePattern(ctx, "cases:*")
	s.logger.Info("case created", zap.String("case_id", c.CaseID))
	return c, nil
}

// Update applies a partial update: only non-nil fields overwrite stored
// values.
func (s *CaseService) Update(ctx context.Context, caseID string, upd models.CaseUpdate) (*models.Case, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", *upd.Status))
	}
	c, err := s.repo.Update(ctx, caseID, upd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update case")
	}
	s.cache.InvalidatePattern(ctx, "cases:*")
	s.logger.Info("case updated", zap.String("case_id", caseID))
	return c, nil
}

// EmailBank simulates notifying the bank tied to a case. The fixed delay
// models network latency; it blocks only this call and never takes a
// store lock. Existence is deliberately not checked first.
func (s *CaseService) EmailBank(ctx context.Context, caseID string) (string, error) {
	select {
	case <-time.After(s.cfg.EmailDelay):
	case <-ctx.Done():
		return "", appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "email simulation interrupted")
	}
	s.logger.Info("email sent to bank", zap.String("case_id", caseID))
	return fmt.Sprintf("Email sent successfully to bank for case %s", caseID), nil
}

// UploadEvidence stores the uploaded file under a synthesized name and
// appends it to the case's attachments. When the case does not exist the
// store is left untouched and no error is raised; the synthesized
// filename is still returned.
func (s *CaseService) UploadEvidence(ctx context.Context, caseID string, content []byte, originalName string) (string, error) {
	filename := fmt.Sprintf("evidence_%d_%s", time.Now().UnixMilli(), originalName)
	if s.storage != nil {
		if _, err := s.storage.Save(filename, content); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store evidence")
		}
	}
	if err := s.repo.AppendAttachment(ctx, caseID, filename); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("evidence uploaded for unknown case", zap.String("case_id", caseID), zap.String("filename", filename))
			return filename, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach evidence")
	}
	s.cache.InvalidatePattern(ctx, "cases:*")
	s.logger.Info("evidence uploaded", zap.String("case_id", caseID), zap.String("filename", filename))
	return filename, nil
}

// ProcessAlertFile validates the uploaded alert file and synthesizes new
// cases from its metadata. The file content itself is never parsed; the
// generated records are deterministic placeholders scaled by file size.
func (s *CaseService) ProcessAlertFile(ctx context.Context, filename string, size int64, contentType string) ([]models.Case, error) {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if _, allowed := s.mimeSet[mime]; !allowed {
		return nil, appErrors.Clone(appErrors.ErrInvalidFileType, "")
	}
	if size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyFile, "")
	}

	count := int(size / 10000)
	if count < 1 {
		count = 1
	}
	if count > 5 {
		count = 5
	}

	created := make([]models.Case, 0, count)
	ts := timestampSuffix(time.Now())
	for i := 1; i <= count; i++ {
		c := s.generateAlertCase(ts, i, filename)
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create case from alert file")
		}
		s.logger.Info("case created from alert file", zap.String("case_id", c.CaseID), zap.String("filename", filename))
		created = append(created, *c)
	}
	s.cache.InvalidatePattern(ctx, "cases:*")
	return created, nil
}

// generateAlertCase builds one placeholder case for a bulk import.
// Downstream consumers key on these fixed values, keep them stable.
func (s *CaseService) generateAlertCase(ts string, index int, filename string) *models.Case {
	subPrograms := []string{"RECOVERY", "PROACTIVE", "REACTIVE"}

	fine := decimal.NewFromInt(int64(10000 + index*2000))
	description := fmt.Sprintf("Case created from uploaded alert file: %s", filename)
	notes := "Automatically generated from file upload"
	bank := fmt.Sprintf("Uploaded Bank %d", index)
	complainantType := "Acquirer"
	complainantCompany := fmt.Sprintf("Uploaded Bank %d (%d)", index, 100000+index)
	ica := fmt.Sprintf("%d", 1000+index)
	country := "BRAZIL"
	region := "Latin America and the Caribbean"
	subProgram := subPrograms[index%len(subPrograms)]
	lead := "MCCANALYST MCCANALYST"

	return &models.Case{
		CaseID:             fmt.Sprintf("MCC-CS-UPL-%s-%d", ts, index),
		Type:               "MCC",
		Status:             models.StatusNew,
		Owner:              lead,
		Description:        &description,
		Attachments:        []string{filename},
		Bank:               bank,
		FineAmount:         &fine,
		Notes:              &notes,
		ComplainantType:    &complainantType,
		ComplainantCompany: &complainantCompany,
		ComplainantICA:     &ica,
		ComplainantCountry: &country,
		ComplainantRegion:  &region,
		AcquirerPrimaryICA: &ica,
		AcquirerCountry:    &country,
		AcquirerRegion:     &region,
		SubProgram:         &subProgram,
		OverallCaseLead:    &lead,
	}
}

// timestampSuffix keeps the last five digits of the millisecond clock,
// enough to make concurrent imports unlikely to collide while keeping
// generated ids short.
func timestampSuffix(t time.Time) string {
	millis := fmt.Sprintf("%d", t.UnixMilli())
	if len(millis) > 8 {
		return millis[8:]
	}
	return millis
}
