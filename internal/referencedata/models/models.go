// Package models holds the reference-data shapes shared by the
// categorisation packages: catalogue items, link edges, selections and the
// display-ready options served to clients.
package models

import (
	"strings"
	"time"

	"absences/pkg/domain"
)

// Work-type label prefixes carried by the PW and UW reason categories.
const (
	CodePaidWork   = "PW"
	CodeUnpaidWork = "UW"

	PrefixPaidWork   = "Paid work"
	PrefixUnpaidWork = "Unpaid work"
)

// ReferenceData is one catalogue item. (Domain, Code) is the natural key; ID
// is the key used by link edges.
type ReferenceData struct {
	ID             domain.ReferenceDataID `json:"id"`
	Domain         domain.DomainCode      `json:"domainCode"`
	Code           string                 `json:"code"`
	Description    string                 `json:"description"`
	HintText       *string                `json:"hintText,omitempty"`
	SequenceNumber int                    `json:"sequenceNumber"`
	Active         bool                   `json:"active"`
	// Next is the domain that may follow this item. Only read through
	// NextDomain, which ignores it outside domain-linked domains.
	Next *domain.DomainCode `json:"nextDomain,omitempty"`
}

// DomainLinked is the capability of items that declare which domain may
// follow them in a categorisation.
type DomainLinked interface {
	NextDomain() (domain.DomainCode, bool)
}

var _ DomainLinked = ReferenceData{}

// NextDomain reports the declared next domain. Items outside the
// domain-linked domains (reasons and the non-hierarchy domains) never
// declare one.
func (r ReferenceData) NextDomain() (domain.DomainCode, bool) {
	if !r.Domain.IsDomainLinked() || r.Next == nil {
		return "", false
	}
	return *r.Next, true
}

// DeclaresNext reports whether the item declares d as its next domain.
func (r ReferenceData) DeclaresNext(d domain.DomainCode) bool {
	next, ok := r.NextDomain()
	return ok && next == d
}

// LabelPrefix is the work-type prefix this item hands down to its
// descendants, or "".
func (r ReferenceData) LabelPrefix() string {
	if r.Domain != domain.DomainAbsenceReasonCategory {
		return ""
	}
	switch r.Code {
	case CodePaidWork:
		return PrefixPaidWork
	case CodeUnpaidWork:
		return PrefixUnpaidWork
	}
	return ""
}

// IsYouth reports whether the item belongs to the youth estate, which is
// marked by a Y code prefix below the type level.
func (r ReferenceData) IsYouth() bool {
	return r.Domain != domain.DomainAbsenceType && strings.HasPrefix(r.Code, "Y")
}

// CategorisationLink is a directed edge between two concrete items.
// SequenceNumber orders siblings.
type CategorisationLink struct {
	ID             domain.LinkID          `json:"id"`
	FromDomain     domain.DomainCode      `json:"fromDomain"`
	FromID         domain.ReferenceDataID `json:"fromId"`
	ToDomain       domain.DomainCode      `json:"toDomain"`
	ToID           domain.ReferenceDataID `json:"toId"`
	SequenceNumber int                    `json:"sequenceNumber"`
}

// Catalogue is the cacheable snapshot of all reference data and link edges.
// Version identifies one load from the store; empty means unversioned.
type Catalogue struct {
	Items    []ReferenceData      `json:"items"`
	Links    []CategorisationLink `json:"links"`
	LoadedAt time.Time            `json:"loadedAt"`
	Version  string               `json:"version,omitempty"`
}

// Option is the display-ready form of a hierarchy entry.
type Option struct {
	DomainCode  domain.DomainCode `json:"domainCode"`
	Code        string            `json:"code"`
	Description string            `json:"description"`
}

// CategorisationFilters drives the UI filter dropdowns.
type CategorisationFilters struct {
	Types     []Option `json:"types"`
	SubTypes  []Option `json:"subTypes"`
	Reasons   []Option `json:"reasons"`
	WorkTypes []Option `json:"workTypes"`
}

// DomainOption is an item offered for selection together with the domain
// the UI should ask for next, if any.
type DomainOption struct {
	DomainCode  domain.DomainCode  `json:"domainCode"`
	Code        string             `json:"code"`
	Description string             `json:"description"`
	HintText    *string            `json:"hintText,omitempty"`
	NextDomain  *domain.DomainCode `json:"nextDomain,omitempty"`
}

// NewDomainOption converts an item for selection lists.
func NewDomainOption(item ReferenceData) DomainOption {
	opt := DomainOption{
		DomainCode:  item.Domain,
		Code:        item.Code,
		Description: item.Description,
		HintText:    item.HintText,
	}
	if next, ok := item.NextDomain(); ok {
		opt.NextDomain = &next
	}
	return opt
}
