package models

import (
	"fmt"

	"absences/pkg/domain"
	dErrors "absences/pkg/domain-errors"
)

// AbsenceCategorisationError is returned on write paths that need a
// definitive reason category when the link graph offers none or several.
type AbsenceCategorisationError struct {
	// Previous is the item whose parent category could not be determined.
	Previous ReferenceData
	// OptionCount is the number of candidate categories found.
	OptionCount int
}

func (e *AbsenceCategorisationError) Error() string {
	return fmt.Sprintf("cannot determine %s for %s %s: %d options",
		domain.DomainAbsenceReasonCategory, e.Previous.Domain, e.Previous.Code, e.OptionCount)
}

// ErrorCode lets the transport layer map the error without a type switch.
func (e *AbsenceCategorisationError) ErrorCode() string {
	return string(dErrors.CodeAbsenceCategorisation)
}

// Details adds the candidate count and the previous value to error responses.
func (e *AbsenceCategorisationError) Details() map[string]any {
	return map[string]any{
		"option_count": e.OptionCount,
		"previous": map[string]any{
			"domainCode": e.Previous.Domain,
			"code":       e.Previous.Code,
		},
	}
}
