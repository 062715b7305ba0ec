// Package reasonpath computes which levels of a categorisation are shown for
// a record.
//
// Resolve is the tolerant read path: it never fails and omits a level it
// cannot determine. RequireCategory is the strict write path counterpart that
// reports an ambiguous category as an error.
package reasonpath

import (
	"encoding/json"
	"fmt"
	"slices"

	"absences/internal/referencedata/models"
	"absences/pkg/domain"
)

// ParentLookup returns the items of targetDomain that link into id.
type ParentLookup func(id domain.ReferenceDataID, targetDomain domain.DomainCode) []models.ReferenceData

// Step is one level of a reason path.
type Step struct {
	Domain domain.DomainCode `json:"domainCode"`
	Code   string            `json:"code"`
}

// ReasonPath is the ordered, sparse list of displayed levels. Steps are
// always in chain order and each domain appears at most once.
type ReasonPath struct {
	steps []Step
}

// Has reports whether the domain is part of the path.
func (p ReasonPath) Has(d domain.DomainCode) bool {
	_, ok := p.Code(d)
	return ok
}

// Code returns the code shown for d.
func (p ReasonPath) Code(d domain.DomainCode) (string, bool) {
	for _, s := range p.steps {
		if s.Domain == d {
			return s.Code, true
		}
	}
	return "", false
}

// Steps returns a copy of the steps.
func (p ReasonPath) Steps() []Step {
	return slices.Clone(p.steps)
}

// Domains lists the domains in path order.
func (p ReasonPath) Domains() []domain.DomainCode {
	out := make([]domain.DomainCode, 0, len(p.steps))
	for _, s := range p.steps {
		out = append(out, s.Domain)
	}
	return out
}

func (p ReasonPath) Len() int { return len(p.steps) }

func (p ReasonPath) MarshalJSON() ([]byte, error) {
	steps := p.steps
	if steps == nil {
		steps = []Step{}
	}
	return json.Marshal(steps)
}

// UnmarshalJSON accepts the step list produced by MarshalJSON. Steps must be
// hierarchy domains in strictly increasing chain order.
func (p *ReasonPath) UnmarshalJSON(data []byte) error {
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return err
	}
	last := -1
	for _, step := range steps {
		rank := step.Domain.Rank()
		if rank < 0 {
			return fmt.Errorf("reason path: %q is not a hierarchy domain", step.Domain)
		}
		if rank <= last {
			return fmt.Errorf("reason path: %s is out of chain order", step.Domain)
		}
		last = rank
	}
	p.steps = steps
	return nil
}

func (p *ReasonPath) add(item *models.ReferenceData) {
	if item != nil {
		p.steps = append(p.steps, Step{Domain: item.Domain, Code: item.Code})
	}
}

// Resolution is a resolved path together with the selection it was computed
// from, including any category inferred from the reason.
type Resolution struct {
	Path      ReasonPath
	Selection models.Selection
}

// Resolve computes the reason path for a sparse selection.
//
// A sub-type is shown only under a type declaring SUB_TYPE as its next
// domain. A missing category is inferred from the reason when exactly one
// category links to it. The reason is shown when one of the shown levels
// declares REASON as its next domain, or when nothing above it is shown.
func Resolve(sel models.Selection, parentOf ParentLookup) Resolution {
	typ, subType, category, reason := sel.Type, sel.SubType, sel.Category, sel.Reason

	if subType != nil && (typ == nil || !typ.DeclaresNext(domain.DomainAbsenceSubType)) {
		subType = nil
	}

	if category == nil && reason != nil && parentOf != nil {
		if candidates := parentOf(reason.ID, domain.DomainAbsenceReasonCategory); len(candidates) == 1 {
			inferred := candidates[0]
			category = &inferred
			sel = sel.With(inferred)
		}
	}

	var hierarchy []*models.ReferenceData
	for _, item := range []*models.ReferenceData{typ, subType, category} {
		if item != nil {
			hierarchy = append(hierarchy, item)
		}
	}

	reasonIsNext := len(hierarchy) == 0
	for _, item := range hierarchy {
		if item.DeclaresNext(domain.DomainAbsenceReason) {
			reasonIsNext = true
			break
		}
	}

	var path ReasonPath
	for _, item := range hierarchy {
		path.add(item)
	}
	if reasonIsNext {
		path.add(reason)
	}
	return Resolution{Path: path, Selection: sel}
}

// RequireCategory returns the single category linking into reason, or an
// *models.AbsenceCategorisationError carrying the number of candidates.
func RequireCategory(reason models.ReferenceData, parentOf ParentLookup) (models.ReferenceData, error) {
	candidates := parentOf(reason.ID, domain.DomainAbsenceReasonCategory)
	if len(candidates) != 1 {
		return models.ReferenceData{}, &models.AbsenceCategorisationError{
			Previous:    reason,
			OptionCount: len(candidates),
		}
	}
	return candidates[0], nil
}
