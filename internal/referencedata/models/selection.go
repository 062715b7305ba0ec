package models

import (
	"absences/pkg/domain"
	dErrors "absences/pkg/domain-errors"
)

// Selection is a sparse categorisation: at most one item per hierarchy
// domain.
type Selection struct {
	Type     *ReferenceData
	SubType  *ReferenceData
	Category *ReferenceData
	Reason   *ReferenceData
}

// NewSelection builds a selection from items in any order. Items outside the
// hierarchy domains are ignored; two items of the same hierarchy domain are
// rejected.
func NewSelection(items ...ReferenceData) (Selection, error) {
	var sel Selection
	for _, item := range items {
		slot := sel.slot(item.Domain)
		if slot == nil {
			continue
		}
		if *slot != nil {
			return Selection{}, dErrors.New(dErrors.CodeInvalidInput,
				"more than one item selected for "+item.Domain.String())
		}
		*slot = &item
	}
	return sel, nil
}

func (s *Selection) slot(d domain.DomainCode) **ReferenceData {
	switch d {
	case domain.DomainAbsenceType:
		return &s.Type
	case domain.DomainAbsenceSubType:
		return &s.SubType
	case domain.DomainAbsenceReasonCategory:
		return &s.Category
	case domain.DomainAbsenceReason:
		return &s.Reason
	}
	return nil
}

// Get returns the selected item of domain d.
func (s Selection) Get(d domain.DomainCode) (ReferenceData, bool) {
	slot := s.slot(d)
	if slot == nil || *slot == nil {
		return ReferenceData{}, false
	}
	return **slot, true
}

// With returns a copy of s with item placed in its domain's slot, replacing
// any previous choice. Non-hierarchy items leave s unchanged.
func (s Selection) With(item ReferenceData) Selection {
	if slot := s.slot(item.Domain); slot != nil {
		*slot = &item
	}
	return s
}

// Without returns a copy of s with domain d cleared.
func (s Selection) Without(d domain.DomainCode) Selection {
	if slot := s.slot(d); slot != nil {
		*slot = nil
	}
	return s
}

// Items lists the selected items in chain order.
func (s Selection) Items() []ReferenceData {
	var out []ReferenceData
	for _, d := range domain.HierarchyDomains {
		if item, ok := s.Get(d); ok {
			out = append(out, item)
		}
	}
	return out
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.Type == nil && s.SubType == nil && s.Category == nil && s.Reason == nil
}

// Key is the natural key of an item.
type Key struct {
	Domain domain.DomainCode
	Code   string
}

// Codes names a categorisation by code, one per hierarchy domain. Empty
// codes are not selected.
type Codes struct {
	Type     string
	SubType  string
	Category string
	Reason   string
}

// Keys lists the selected codes in chain order.
func (c Codes) Keys() []Key {
	var keys []Key
	for _, k := range []Key{
		{domain.DomainAbsenceType, c.Type},
		{domain.DomainAbsenceSubType, c.SubType},
		{domain.DomainAbsenceReasonCategory, c.Category},
		{domain.DomainAbsenceReason, c.Reason},
	} {
		if k.Code != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
