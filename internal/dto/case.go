package dto

import "github.com/complianceops/case-management-api/internal/models"

// SearchCriterion is a single (field, operator, value) predicate. Fields
// and operators outside the recognized sets fall through to documented
// defaults in the search engine.
type SearchCriterion struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// SearchCasesRequest mirrors the upstream search body. Only Criteria is
// evaluated; the paging and sort fields are accepted for compatibility.
type SearchCasesRequest struct {
	PageLength int               `json:"pageLength"`
	PageOffset int               `json:"pageOffset"`
	SortField  string            `json:"sortField"`
	ExportFlag bool              `json:"exportFlag"`
	CaseType   string            `json:"caseType"`
	Criteria   []SearchCriterion `json:"criteria"`
}

// EmailResponse confirms a simulated bank notification.
type EmailResponse struct {
	Message string `json:"message"`
}

// UploadEvidenceResponse reports the synthesized evidence filename.
type UploadEvidenceResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// AlertUploadResponse summarizes a processed alert file.
type AlertUploadResponse struct {
	Message      string        `json:"message"`
	CasesCreated int           `json:"casesCreated"`
	Cases        []models.Case `json:"cases"`
	Filename     string        `json:"filename"`
}
