package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/complianceops/case-management-api/internal/models"
)

// ErrDuplicateCaseID signals a case_id collision detected by the unique
// constraint when two creates race past the existence check.
var ErrDuplicateCaseID = errors.New("cases: duplicate case_id")

const caseColumns = `id, case_id, type, status, created_at, updated_at, owner, description, bank,
        fine_amount, notes, complainant_type, complainant_company, complainant_ica,
        complainant_country, complainant_region, acquirer_primary_ica, acquirer_country,
        acquirer_region, sub_program, overall_case_lead`

// CaseRepository manages persistence for case records and their
// attachment sub-collection.
type CaseRepository struct {
	db *sqlx.DB
}

// NewCaseRepository constructs a CaseRepository.
func NewCaseRepository(db *sqlx.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// List returns every case in stable insertion order.
func (r *CaseRepository) List(ctx context.Context) ([]models.Case, error) {
	query := fmt.Sprintf("SELECT %s FROM cases ORDER BY created_at, id", caseColumns)
	var cases []models.Case
	if err := r.db.SelectContext(ctx, &cases, query); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	if err := r.attachAll(ctx, cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// FindByCaseID fetches a case by its business identifier. Absence is
// reported as sql.ErrNoRows, not an error of its own.
func (r *CaseRepository) FindByCaseID(ctx context.Context, caseID string) (*models.Case, error) {
	query := fmt.Sprintf("SELECT %s FROM cases WHERE case_id = $1", caseColumns)
	var c models.Case
	if err := r.db.GetContext(ctx, &c, query, caseID); err != nil {
		return nil, err
	}
	attachments, err := r.attachmentsFor(ctx, r.db, c.ID)
	if err != nil {
		return nil, err
	}
	c.Attachments = attachments
	return &c, nil
}

// ExistsByCaseID checks whether the business identifier is already used.
func (r *CaseRepository) ExistsByCaseID(ctx context.Context, caseID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM cases WHERE case_id = $1 LIMIT 1", caseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check case_id: %w", err)
	}
	return true, nil
}

// Create inserts a new case together with any initial attachments.
// Internal ID and timestamps are assigned here; client-supplied values
// are ignored.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create case: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO cases (id, case_id, type, status, created_at, updated_at, owner, description, bank,
        fine_amount, notes, complainant_type, complainant_company, complainant_ica,
        complainant_country, complainant_region, acquirer_primary_ica, acquirer_country,
        acquirer_region, sub_program, overall_case_lead)
        VALUES (:id, :case_id, :type, :status, :created_at, :updated_at, :owner, :description, :bank,
        :fine_amount, :notes, :complainant_type, :complainant_company, :complainant_ica,
        :complainant_country, :complainant_region, :acquirer_primary_ica, :acquirer_country,
        :acquirer_region, :sub_program, :overall_case_lead)`
	if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCaseID
		}
		return fmt.Errorf("create case: %w", err)
	}
	for i, filename := range c.Attachments {
		if err := insertAttachment(ctx, tx, c.ID, i+1, filename); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create case: %w", err)
	}
	return nil
}

// Update applies a partial update to the case identified by caseID and
// returns the merged record. The row lock taken by FOR UPDATE serializes
// concurrent partial updates to the same case. Absence is reported as
// sql.ErrNoRows.
func (r *CaseRepository) Update(ctx context.Context, caseID string, upd models.CaseUpdate) (*models.Case, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update case: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := fmt.Sprintf("SELECT %s FROM cases WHERE case_id = $1 FOR UPDATE", caseColumns)
	var c models.Case
	if err := tx.GetContext(ctx, &c, query, caseID); err != nil {
		return nil, err
	}

	upd.ApplyTo(&c)
	c.UpdatedAt = time.Now().UTC()

	const write = `UPDATE cases SET type = :type, status = :status, updated_at = :updated_at, owner = :owner,
        description = :description, bank = :bank, fine_amount = :fine_amount, notes = :notes,
        complainant_type = :complainant_type, complainant_company = :complainant_company,
        complainant_ica = :complainant_ica, complainant_country = :complainant_country,
        complainant_region = :complainant_region, acquirer_primary_ica = :acquirer_primary_ica,
        acquirer_country = :acquirer_country, acquirer_region = :acquirer_region,
        sub_program = :sub_program, overall_case_lead = :overall_case_lead
        WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, write, &c); err != nil {
		return nil, fmt.Errorf("update case: %w", err)
	}

	attachments, err := r.attachmentsFor(ctx, tx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Attachments = attachments

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update case: %w", err)
	}
	return &c, nil
}

// AppendAttachment adds a filename to the case's attachment list and
// refreshes updated_at. Attachments only grow; there is no removal path.
// Absence is reported as sql.ErrNoRows.
func (r *CaseRepository) AppendAttachment(ctx context.Context, caseID, filename string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append attachment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id string
	if err := tx.GetContext(ctx, &id, "SELECT id FROM cases WHERE case_id = $1 FOR UPDATE", caseID); err != nil {
		return err
	}

	var next int
	if err := tx.GetContext(ctx, &next, "SELECT COALESCE(MAX(position), 0) + 1 FROM case_attachments WHERE case_ref = $1", id); err != nil {
		return fmt.Errorf("next attachment position: %w", err)
	}
	if err := insertAttachment(ctx, tx, id, next, filename); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE cases SET updated_at = $2 WHERE id = $1", id, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch case: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append attachment: %w", err)
	}
	return nil
}

// Filter returns cases matching every supplied predicate; absent
// predicates always match. DateFrom/DateTo bound created_at inclusively.
func (r *CaseRepository) Filter(ctx context.Context, filter models.CaseFilter) ([]models.Case, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Owner != "" {
		conditions = append(conditions, fmt.Sprintf("owner = $%d", len(args)+1))
		args = append(args, filter.Owner)
	}
	if filter.Bank != "" {
		conditions = append(conditions, fmt.Sprintf("bank = $%d", len(args)+1))
		args = append(args, filter.Bank)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf("SELECT %s FROM cases WHERE %s ORDER BY created_at, id",
		caseColumns, strings.Join(conditions, " AND "))
	var cases []models.Case
	if err := r.db.SelectContext(ctx, &cases, query, args...); err != nil {
		return nil, fmt.Errorf("filter cases: %w", err)
	}
	if err := r.attachAll(ctx, cases); err != nil {
		return nil, err
	}
	return cases, nil
}

type attachmentRow struct {
	CaseRef  string `db:"case_ref"`
	Filename string `db:"filename"`
}

func (r *CaseRepository) attachAll(ctx context.Context, cases []models.Case) error {
	if len(cases) == 0 {
		return nil
	}
	var rows []attachmentRow
	const query = "SELECT case_ref, filename FROM case_attachments ORDER BY case_ref, position"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	byCase := make(map[string][]string, len(cases))
	for _, row := range rows {
		byCase[row.CaseRef] = append(byCase[row.CaseRef], row.Filename)
	}
	for i := range cases {
		if files, ok := byCase[cases[i].ID]; ok {
			cases[i].Attachments = files
		} else {
			cases[i].Attachments = []string{}
		}
	}
	return nil
}

func (r *CaseRepository) attachmentsFor(ctx context.Context, q sqlx.QueryerContext, id string) ([]string, error) {
	attachments := []string{}
	const query = "SELECT filename FROM case_attachments WHERE case_ref = $1 ORDER BY position"
	if err := sqlx.SelectContext(ctx, q, &attachments, query, id); err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	return attachments, nil
}

func insertAttachment(ctx context.Context, tx *sqlx.Tx, caseRef string, position int, filename string) error {
	const query = "INSERT INTO case_attachments (case_ref, position, filename) VALUES ($1, $2, $3)"
	if _, err := tx.ExecContext(ctx, query, caseRef, position, filename); err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}
