package hierarchy

import (
	"cmp"
	"slices"
	"strings"

	"absences/internal/referencedata/format"
	"absences/internal/referencedata/models"
	"absences/pkg/domain"
)

// Filters flattens a built forest into the filter lists.
//
// Types are the roots. Sub-types are the SUB_TYPE children of root Nodes.
// Reasons merge the children of sub-type Nodes (categories) with the
// non-SUB_TYPE children of type and sub-type Nodes. Work types are the
// children of category Nodes in that merged list.
func Filters(roots []Hierarchy) models.CategorisationFilters {
	var subTypes []Hierarchy
	for _, n := range nodes(roots) {
		for _, child := range n.Children {
			if child.DomainCode() == domain.DomainAbsenceSubType {
				subTypes = append(subTypes, child)
			}
		}
	}

	var categories []Hierarchy
	for _, n := range nodes(subTypes) {
		categories = append(categories, n.Children...)
	}

	var reasons []Hierarchy
	for _, n := range nodes(slices.Concat(roots, subTypes)) {
		for _, child := range n.Children {
			if child.DomainCode() != domain.DomainAbsenceSubType {
				reasons = append(reasons, child)
			}
		}
	}
	merged := slices.Concat(categories, reasons)

	var workTypes []Hierarchy
	for _, n := range nodes(merged) {
		if n.Domain == domain.DomainAbsenceReasonCategory {
			workTypes = append(workTypes, n.Children...)
		}
	}

	return models.CategorisationFilters{
		Types:     options(roots),
		SubTypes:  options(subTypes),
		Reasons:   options(merged),
		WorkTypes: options(workTypes),
	}
}

func nodes(entries []Hierarchy) []Node {
	var out []Node
	for _, e := range entries {
		if n, ok := e.(Node); ok {
			out = append(out, n)
		}
	}
	return out
}

type optionKey struct {
	domain domain.DomainCode
	code   string
}

// options converts, de-duplicates on (domain, code) keeping the first
// occurrence, and sorts by lower-cased description then code. The result is
// never nil so it encodes as [].
func options(entries []Hierarchy) []models.Option {
	out := make([]models.Option, 0, len(entries))
	seen := make(map[optionKey]struct{}, len(entries))
	for _, e := range entries {
		opt := format.Option(e)
		key := optionKey{opt.DomainCode, opt.Code}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, opt)
	}
	slices.SortStableFunc(out, func(a, b models.Option) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description)),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.DomainCode, b.DomainCode),
		)
	})
	return out
}
