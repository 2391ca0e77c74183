package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CaseStatus enumerates the lifecycle states a case can be in. There is
// no state machine; any status can be set on create or update.
type CaseStatus string

const (
	StatusNew        CaseStatus = "NEW"
	StatusOpen       CaseStatus = "OPEN"
	StatusPending    CaseStatus = "PENDING"
	StatusAssessment CaseStatus = "ASSESSMENT"
	StatusHold       CaseStatus = "HOLD"
	StatusClosed     CaseStatus = "CLOSED"
)

// Valid reports whether the status is one of the known values.
func (s CaseStatus) Valid() bool {
	switch s {
	case StatusNew, StatusOpen, StatusPending, StatusAssessment, StatusHold, StatusClosed:
		return true
	}
	return false
}

// Case represents a compliance/dispute investigation tracked by the system.
// ID, CreatedAt and UpdatedAt are always server-assigned.
type Case struct {
	ID                 string           `db:"id" json:"id"`
	CaseID             string           `db:"case_id" json:"caseId"`
	Type               string           `db:"type" json:"type"`
	Status             CaseStatus       `db:"status" json:"status"`
	CreatedAt          time.Time        `db:"created_at" json:"createdDate"`
	UpdatedAt          time.Time        `db:"updated_at" json:"lastUpdatedDate"`
	Owner              string           `db:"owner" json:"owner"`
	Description        *string          `db:"description" json:"description,omitempty"`
	Attachments        []string         `db:"-" json:"attachments"`
	Bank               string           `db:"bank" json:"bank"`
	FineAmount         *decimal.Decimal `db:"fine_amount" json:"fineAmount,omitempty"`
	Notes              *string          `db:"notes" json:"notes,omitempty"`
	ComplainantType    *string          `db:"complainant_type" json:"complainantType,omitempty"`
	ComplainantCompany *string          `db:"complainant_company" json:"complainantCompany,omitempty"`
	ComplainantICA     *string          `db:"complainant_ica" json:"complainantIca,omitempty"`
	ComplainantCountry *string          `db:"complainant_country" json:"complainantCountry,omitempty"`
	ComplainantRegion  *string          `db:"complainant_region" json:"complainantRegion,omitempty"`
	AcquirerPrimaryICA *string          `db:"acquirer_primary_ica" json:"acquirerPrimaryIca,omitempty"`
	AcquirerCountry    *string          `db:"acquirer_country" json:"acquirerCountry,omitempty"`
	AcquirerRegion     *string          `db:"acquirer_region" json:"acquirerRegion,omitempty"`
	SubProgram         *string          `db:"sub_program" json:"subProgram,omitempty"`
	OverallCaseLead    *string          `db:"overall_case_lead" json:"overallCaseLead,omitempty"`
}

// CaseUpdate carries a partial update: nil fields keep the stored value.
// The business identifier and server timestamps are not updatable.
type CaseUpdate struct {
	Type               *string          `json:"type"`
	Status             *CaseStatus      `json:"status"`
	Owner              *string          `json:"owner"`
	Description        *string          `json:"description"`
	Bank               *string          `json:"bank"`
	FineAmount         *decimal.Decimal `json:"fineAmount"`
	Notes              *string          `json:"notes"`
	ComplainantType    *string          `json:"complainantType"`
	ComplainantCompany *string          `json:"complainantCompany"`
	ComplainantICA     *string          `json:"complainantIca"`
	ComplainantCountry *string          `json:"complainantCountry"`
	ComplainantRegion  *string          `json:"complainantRegion"`
	AcquirerPrimaryICA *string          `json:"acquirerPrimaryIca"`
	AcquirerCountry    *string          `json:"acquirerCountry"`
	AcquirerRegion     *string          `json:"acquirerRegion"`
	SubProgram         *string          `json:"subProgram"`
	OverallCaseLead    *string          `json:"overallCaseLead"`
}

// ApplyTo overwrites the non-nil fields onto the target case.
func (u CaseUpdate) ApplyTo(c *Case) {
	if u.Type != nil {
		c.Type = *u.Type
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.Owner != nil {
		c.Owner = *u.Owner
	}
	if u.Description != nil {
		c.Description = u.Description
	}
	if u.Bank != nil {
		c.Bank = *u.Bank
	}
	if u.FineAmount != nil {
		c.FineAmount = u.FineAmount
	}
	if u.Notes != nil {
		c.Notes = u.Notes
	}
	if u.ComplainantType != nil {
		c.ComplainantType = u.ComplainantType
	}
	if u.ComplainantCompany != nil {
		c.ComplainantCompany = u.ComplainantCompany
	}
	if u.ComplainantICA != nil {
		c.ComplainantICA = u.ComplainantICA
	}
	if u.ComplainantCountry != nil {
		c.ComplainantCountry = u.ComplainantCountry
	}
	if u.ComplainantRegion != nil {
		c.ComplainantRegion = u.ComplainantRegion
	}
	if u.AcquirerPrimaryICA != nil {
		c.AcquirerPrimaryICA = u.AcquirerPrimaryICA
	}
	if u.AcquirerCountry != nil {
		c.AcquirerCountry = u.AcquirerCountry
	}
	if u.AcquirerRegion != nil {
		c.AcquirerRegion = u.AcquirerRegion
	}
	if u.SubProgram != nil {
		c.SubProgram = u.SubProgram
	}
	if u.OverallCaseLead != nil {
		c.OverallCaseLead = u.OverallCaseLead
	}
}

// CaseFilter encapsulates the query-parameter filter path. Supplied
// predicates match exactly; DateFrom/DateTo bound created_at inclusively.
type CaseFilter struct {
	Status   CaseStatus
	Type     string
	Owner    string
	Bank     string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Empty reports whether no predicate was supplied.
func (f CaseFilter) Empty() bool {
	return f.Status == "" && f.Type == "" && f.Owner == "" && f.Bank == "" && f.DateFrom == nil && f.DateTo == nil
}
