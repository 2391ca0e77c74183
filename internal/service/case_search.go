package service

import (
	"strings"

	"github.com/complianceops/case-management-api/internal/dto"
	"github.com/complianceops/case-management-api/internal/models"
)

// Criterion fields form a closed set. Anything else resolves to an empty
// target string: a CONTAINS criterion with an empty value then matches
// every record, NOT_CONTAINS with an empty value matches none. That
// fallthrough is observable behavior and must not be "fixed".
const (
	FieldCaseID          = "CASEID"
	FieldCaseStatus      = "CASESTATUS"
	FieldAssignTo        = "ASSIGNTONAME"
	FieldComplainantName = "COMPLAINANTCOMPANYNAME"
)

// Recognized operators. Any other operator, including an explicit
// CONTAINS or none at all, behaves as a case-insensitive substring match.
const (
	OperatorEqualTo     = "EQUAL_TO"
	OperatorNotContains = "NOT_CONTAINS"
)

// applyCriteria narrows the case set criterion by criterion (logical
// AND). Each criterion is evaluated against the current survivor set so
// later criteria scan fewer records.
func applyCriteria(cases []models.Case, criteria []dto.SearchCriterion) []models.Case {
	survivors := cases
	for _, criterion := range criteria {
		next := make([]models.Case, 0, len(survivors))
		for _, c := range survivors {
			if matchesCriterion(c, criterion) {
				next = append(next, c)
			}
		}
		survivors = next
	}
	return survivors
}

func matchesCriterion(c models.Case, criterion dto.SearchCriterion) bool {
	var target string
	switch criterion.Field {
	case FieldCaseID:
		target = c.CaseID
	case FieldCaseStatus:
		target = string(c.Status)
	case FieldAssignTo:
		target = c.Owner
	case FieldComplainantName:
		target = c.Bank
	default:
		target = ""
	}

	target = strings.ToLower(target)
	value := strings.ToLower(criterion.Value)

	switch criterion.Operator {
	case OperatorEqualTo:
		return target == value
	case OperatorNotContains:
		return !strings.Contains(target, value)
	default:
		return strings.Contains(target, value)
	}
}
