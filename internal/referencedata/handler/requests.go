package handler

import (
	"absences/internal/referencedata/models"
	dErrors "absences/pkg/domain-errors"
	"absences/pkg/platform/strings"
)

const maxCodeLength = 64

// CategorisationRequest is the body of POST /absence-categorisation/reason-path
// and POST /absence-categorisation/validate.
type CategorisationRequest struct {
	AbsenceTypeCode           string `json:"absenceTypeCode"`
	AbsenceSubTypeCode        string `json:"absenceSubTypeCode"`
	AbsenceReasonCategoryCode string `json:"absenceReasonCategoryCode"`
	AbsenceReasonCode         string `json:"absenceReasonCode"`
}

// Normalize trims and upper-cases the codes.
func (r *CategorisationRequest) Normalize() {
	if r == nil {
		return
	}
	r.AbsenceTypeCode = strings.NormalizeCode(r.AbsenceTypeCode)
	r.AbsenceSubTypeCode = strings.NormalizeCode(r.AbsenceSubTypeCode)
	r.AbsenceReasonCategoryCode = strings.NormalizeCode(r.AbsenceReasonCategoryCode)
	r.AbsenceReasonCode = strings.NormalizeCode(r.AbsenceReasonCode)
}

// Validate requires at least one code and bounds their length.
func (r *CategorisationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	codes := r.Codes()
	keys := codes.Keys()
	if len(keys) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one code is required")
	}
	for _, k := range keys {
		if len(k.Code) > maxCodeLength {
			return dErrors.New(dErrors.CodeValidation, k.Domain.String()+" code is too long")
		}
	}
	return nil
}

// Codes converts the request for the service.
func (r *CategorisationRequest) Codes() models.Codes {
	return models.Codes{
		Type:     r.AbsenceTypeCode,
		SubType:  r.AbsenceSubTypeCode,
		Category: r.AbsenceReasonCategoryCode,
		Reason:   r.AbsenceReasonCode,
	}
}
