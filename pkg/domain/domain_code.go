package domain

import dErrors "absences/pkg/domain-errors"

// DomainCode names a reference-data domain.
// Invariant: the value must be one of the supported domains.
//
// Usage: construct via ParseDomainCode at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type DomainCode string

// Categorisation hierarchy domains, in chain order.
const (
	DomainAbsenceType           DomainCode = "ABSENCE_TYPE"
	DomainAbsenceSubType        DomainCode = "ABSENCE_SUB_TYPE"
	DomainAbsenceReasonCategory DomainCode = "ABSENCE_REASON_CATEGORY"
	DomainAbsenceReason         DomainCode = "ABSENCE_REASON"
)

// Domains sharing the reference-data shape that never take part in
// hierarchy resolution.
const (
	DomainAccompaniedBy       DomainCode = "ACCOMPANIED_BY"
	DomainTransport           DomainCode = "TRANSPORT"
	DomainLocationType        DomainCode = "LOCATION_TYPE"
	DomainAuthorisationStatus DomainCode = "TAP_AUTHORISATION_STATUS"
	DomainOccurrenceStatus    DomainCode = "TAP_OCCURRENCE_STATUS"
	DomainMovementStatus      DomainCode = "TAP_MOVEMENT_STATUS"
)

// HierarchyDomains is the fixed chain order used by reason paths.
var HierarchyDomains = []DomainCode{
	DomainAbsenceType,
	DomainAbsenceSubType,
	DomainAbsenceReasonCategory,
	DomainAbsenceReason,
}

// validDomainCodes is the single source of truth for valid domains.
var validDomainCodes = map[DomainCode]bool{
	DomainAbsenceType:           true,
	DomainAbsenceSubType:        true,
	DomainAbsenceReasonCategory: true,
	DomainAbsenceReason:         true,
	DomainAccompaniedBy:         true,
	DomainTransport:             true,
	DomainLocationType:          true,
	DomainAuthorisationStatus:   true,
	DomainOccurrenceStatus:      true,
	DomainMovementStatus:        true,
}

// ParseDomainCode constructs a DomainCode from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParseDomainCode(s string) (DomainCode, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "domain cannot be empty")
	}
	d := DomainCode(s)
	if !d.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown domain "+s)
	}
	return d, nil
}

// IsValid checks if the domain is one of the supported enum values.
func (d DomainCode) IsValid() bool {
	return validDomainCodes[d]
}

// IsHierarchy reports whether the domain takes part in the categorisation chain.
func (d DomainCode) IsHierarchy() bool {
	return d.Rank() >= 0
}

// IsDomainLinked reports whether items of this domain may declare the
// domain that follows them. Reasons are always terminal.
func (d DomainCode) IsDomainLinked() bool {
	switch d {
	case DomainAbsenceType, DomainAbsenceSubType, DomainAbsenceReasonCategory:
		return true
	}
	return false
}

// Rank is the position of the domain in the hierarchy chain, or -1.
func (d DomainCode) Rank() int {
	for i, h := range HierarchyDomains {
		if h == d {
			return i
		}
	}
	return -1
}

// AllDomains lists every supported domain, hierarchy chain first.
func AllDomains() []DomainCode {
	return []DomainCode{
		DomainAbsenceType,
		DomainAbsenceSubType,
		DomainAbsenceReasonCategory,
		DomainAbsenceReason,
		DomainAccompaniedBy,
		DomainTransport,
		DomainLocationType,
		DomainAuthorisationStatus,
		DomainOccurrenceStatus,
		DomainMovementStatus,
	}
}

// String returns the string representation of the domain.
func (d DomainCode) String() string {
	return string(d)
}
