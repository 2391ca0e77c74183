package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complianceops/case-management-api/internal/models"
	appErrors "github.com/complianceops/case-management-api/pkg/errors"
)

type caseRepoStub struct {
	cases      []*models.Case
	lastFilter models.CaseFilter
	listErr    error
}

func newCaseRepoStub() *caseRepoStub {
	return &caseRepoStub{}
}

func (r *caseRepoStub) find(caseID string) *models.Case {
	for _, c := range r.cases {
		if c.CaseID == caseID {
			return c
		}
	}
	return nil
}

func (r *caseRepoStub) List(ctx context.Context) ([]models.Case, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]models.Case, 0, len(r.cases))
	for _, c := range r.cases {
		result = append(result, *c)
	}
	return result, nil
}

func (r *caseRepoStub) FindByCaseID(ctx context.Context, caseID string) (*models.Case, error) {
	if c := r.find(caseID); c != nil {
		copy := *c
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *caseRepoStub) ExistsByCaseID(ctx context.Context, caseID string) (bool, error) {
	return r.find(caseID) != nil, nil
}

func (r *caseRepoStub) Create(ctx context.Context, c *models.Case) error {
	c.ID = fmt.Sprintf("case-%d", len(r.cases)+1)
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := *c
	r.cases = append(r.cases, &stored)
	return nil
}

func (r *caseRepoStub) Update(ctx context.Context, caseID string, upd models.CaseUpdate) (*models.Case, error) {
	c := r.find(caseID)
	if c == nil {
		return nil, sql.ErrNoRows
	}
	upd.ApplyTo(c)
	c.UpdatedAt = time.Now().UTC()
	copy := *c
	return &copy, nil
}

func (r *caseRepoStub) AppendAttachment(ctx context.Context, caseID, filename string) error {
	c := r.find(caseID)
	if c == nil {
		return sql.ErrNoRows
	}
	c.Attachments = append(c.Attachments, filename)
	return nil
}

func (r *caseRepoStub) Filter(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	r.lastFilter = filter
	result := make([]models.Case, 0, len(r.cases))
	for _, c := range r.cases {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

type evidenceStorageStub struct {
	saved map[string][]byte
}

func newEvidenceStorageStub() *evidenceStorageStub {
	return &evidenceStorageStub{saved: make(map[string][]byte)}
}

func (s *evidenceStorageStub) Save(filename string, data []byte) (string, error) {
	s.saved[filename] = data
	return filename, nil
}

func newTestCaseService(repo *caseRepoStub, storage *evidenceStorageStub) *CaseService {
	return NewCaseService(repo, storage, nil, nil, nil, CaseServiceConfig{EmailDelay: 10 * time.Millisecond})
}

func validCreateRequest(caseID string) CreateCaseRequest {
	return CreateCaseRequest{
		CaseID: caseID,
		Type:   "MCC",
		Status: models.StatusNew,
		Owner:  "MCCANALYST MCCANALYST",
		Bank:   "First National",
	}
}

func TestCaseServiceCreateAndGetRoundTrip(t *testing.T) {
	repo := newCaseRepoStub()
	svc := newTestCaseService(repo, newEvidenceStorageStub())

	created, err := svc.Create(context.Background(), validCreateRequest("MCC-CS-001"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.NotNil(t, created.Attachments)
	assert.Empty(t, created.Attachments)

	got, err := svc.Get(context.Background(), "MCC-CS-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.StatusNew, got.Status)
}

func TestCaseServiceCreateRejectsDuplicateCaseID(t *testing.T) {
	repo := newCaseRepoStub()
	svc := newTestCaseService(repo, newEvidenceStorageStub())

	_, err := svc.Create(context.Background(), validCreateRequest("MCC-CS-001"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCreateRequest("MCC-CS-001"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateCase.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Case with ID MCC-CS-001 already exists", appErr.Message)
	assert.Len(t, repo.cases, 1)
}

func TestCaseServiceCreateValidatesPayload(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	req := validCreateRequest("MCC-CS-002")
	req.Bank = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCaseServiceCreateRejectsUnknownStatus(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	req := validCreateRequest("MCC-CS-003")
	req.Status = "ARCHIVED"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCaseServiceGetNotFound(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	_, err := svc.Get(context.Background(), "MCC-CS-404")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCaseServiceUpdatePartial(t *testing.T) {
	repo := newCaseRepoStub()
	svc := newTestCaseService(repo, newEvidenceStorageStub())

	created, err := svc.Create(context.Background(), validCreateRequest("MCC-CS-001"))
	require.NoError(t, err)

	status := models.StatusClosed
	notes := "resolved after review"
	updated, err := svc.Update(context.Background(), "MCC-CS-001", models.CaseUpdate{
		Status: &status,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	// untouched fields keep their stored values
	assert.Equal(t, created.Owner, updated.Owner)
	assert.Equal(t, created.Bank, updated.Bank)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
}

func TestCaseServiceUpdateNotFound(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	owner := "Someone Else"
	_, err := svc.Update(context.Background(), "MCC-CS-404", models.CaseUpdate{Owner: &owner})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestCaseServiceUpdateRejectsUnknownStatus(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	bad := models.CaseStatus("ARCHIVED")
	_, err := svc.Update(context.Background(), "MCC-CS-001", models.CaseUpdate{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCaseServiceListDelegatesFilter(t *testing.T) {
	repo := newCaseRepoStub()
	svc := newTestCaseService(repo, newEvidenceStorageStub())

	_, err := svc.Create(context.Background(), validCreateRequest("MCC-CS-001"))
	require.NoError(t, err)
	closed := validCreateRequest("MCC-CS-002")
	closed.Status = models.StatusClosed
	_, err = svc.Create(context.Background(), closed)
	require.NoError(t, err)

	got, err := svc.List(context.Background(), models.CaseFilter{Status: models.StatusClosed})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MCC-CS-002", got[0].CaseID)
	assert.Equal(t, models.StatusClosed, repo.lastFilter.Status)
}

func TestCaseServiceEmailBankMessageAndDelay(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	start := time.Now()
	message, err := svc.EmailBank(context.Background(), "MCC-CS-001")
	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully to bank for case MCC-CS-001", message)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestCaseServiceEmailBankDoesNotCheckExistence(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	message, err := svc.EmailBank(context.Background(), "MCC-CS-GHOST")
	require.NoError(t, err)
	assert.Contains(t, message, "MCC-CS-GHOST")
}

func TestCaseServiceEmailBankHonorsContextCancellation(t *testing.T) {
	svc := NewCaseService(newCaseRepoStub(), nil, nil, nil, nil, CaseServiceConfig{EmailDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.EmailBank(ctx, "MCC-CS-001")
	require.Error(t, err)
}

func TestCaseServiceUploadEvidence(t *testing.T) {
	repo := newCaseRepoStub()
	storage := newEvidenceStorageStub()
	svc := newTestCaseService(repo, storage)

	_, err := svc.Create(context.Background(), validCreateRequest("MCC-CS-001"))
	require.NoError(t, err)

	filename, err := svc.UploadEvidence(context.Background(), "MCC-CS-001", []byte("payload"), "report.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "evidence_"))
	assert.True(t, strings.HasSuffix(filename, "_report.pdf"))
	assert.Equal(t, []byte("payload"), storage.saved[filename])

	got, err := svc.Get(context.Background(), "MCC-CS-001")
	require.NoError(t, err)
	assert.Equal(t, []string{filename}, got.Attachments)
}

func TestCaseServiceUploadEvidenceUnknownCaseIsSilent(t *testing.T) {
	storage := newEvidenceStorageStub()
	svc := newTestCaseService(newCaseRepoStub(), storage)

	filename, err := svc.UploadEvidence(context.Background(), "MCC-CS-GHOST", []byte("payload"), "report.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, filename)
	assert.Contains(t, storage.saved, filename)
}

func TestProcessAlertFileScalesCountWithSize(t *testing.T) {
	repo := newCaseRepoStub()
	svc := newTestCaseService(repo, newEvidenceStorageStub())

	created, err := svc.ProcessAlertFile(context.Background(), "alerts.csv", 45000, "text/csv")
	require.NoError(t, err)
	require.Len(t, created, 4)

	first := created[0]
	assert.True(t, strings.HasPrefix(first.CaseID, "MCC-CS-UPL-"))
	assert.True(t, strings.HasSuffix(first.CaseID, "-1"))
	assert.Equal(t, "MCC", first.Type)
	assert.Equal(t, models.StatusNew, first.Status)
	assert.Equal(t, "MCCANALYST MCCANALYST", first.Owner)
	assert.Equal(t, "Uploaded Bank 1", first.Bank)
	require.NotNil(t, first.FineAmount)
	assert.Equal(t, "12000", first.FineAmount.String())
	require.NotNil(t, first.ComplainantCompany)
	assert.Equal(t, "Uploaded Bank 1 (100001)", *first.ComplainantCompany)
	require.NotNil(t, first.ComplainantICA)
	assert.Equal(t, "1001", *first.ComplainantICA)
	require.NotNil(t, first.ComplainantCountry)
	assert.Equal(t, "BRAZIL", *first.ComplainantCountry)
	require.NotNil(t, first.SubProgram)
	assert.Equal(t, "PROACTIVE", *first.SubProgram)
	assert.Equal(t, []string{"alerts.csv"}, first.Attachments)

	require.NotNil(t, created[1].SubProgram)
	assert.Equal(t, "REACTIVE", *created[1].SubProgram)
	require.NotNil(t, created[2].SubProgram)
	assert.Equal(t, "RECOVERY", *created[2].SubProgram)
	require.NotNil(t, created[3].FineAmount)
	assert.Equal(t, "18000", created[3].FineAmount.String())
}

func TestProcessAlertFileCountBounds(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	small, err := svc.ProcessAlertFile(context.Background(), "tiny.csv", 500, "text/csv")
	require.NoError(t, err)
	assert.Len(t, small, 1)

	svc = newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())
	large, err := svc.ProcessAlertFile(context.Background(), "huge.csv", 10_000_000, "text/csv")
	require.NoError(t, err)
	assert.Len(t, large, 5)
}

func TestProcessAlertFileRejectsEmptyFile(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	_, err := svc.ProcessAlertFile(context.Background(), "empty.csv", 0, "text/csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyFile.Code, appErrors.FromError(err).Code)
}

func TestProcessAlertFileRejectsUnsupportedType(t *testing.T) {
	repo := newCaseRepoStub()
	svc := newTestCaseService(repo, newEvidenceStorageStub())

	_, err := svc.ProcessAlertFile(context.Background(), "notes.pdf", 45000, "application/pdf")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidFileType.Code, appErr.Code)
	assert.Equal(t, "Invalid file type. Please upload Excel (.xlsx, .xls) or CSV files only.", appErr.Message)
	assert.Empty(t, repo.cases)
}

func TestProcessAlertFileIgnoresContentTypeParameters(t *testing.T) {
	svc := newTestCaseService(newCaseRepoStub(), newEvidenceStorageStub())

	created, err := svc.ProcessAlertFile(context.Background(), "alerts.csv", 500, "text/csv; charset=utf-8")
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestTimestampSuffixKeepsTrailingDigits(t *testing.T) {
	ts := time.UnixMilli(1735689600123)
	assert.Equal(t, "00123", timestampSuffix(ts))
}
