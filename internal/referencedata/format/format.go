// Package format renders categorisations for people: breadcrumbs for reason
// paths and prefixed labels for filter options.
package format

import (
	"strings"

	"absences/internal/referencedata/models"
	"absences/internal/referencedata/reasonpath"
)

// BreadcrumbSeparator joins breadcrumb levels.
const BreadcrumbSeparator = " > "

// Entry is a labelled hierarchy entry: the item shown and the work-type
// prefix inherited from its ancestors.
type Entry interface {
	Head() models.ReferenceData
	Prefix() string
}

// Breadcrumb joins the descriptions of the path's levels in path order.
// Levels missing from source are skipped.
func Breadcrumb(path reasonpath.ReasonPath, source models.Selection) string {
	parts := make([]string, 0, path.Len())
	for _, d := range path.Domains() {
		if item, ok := source.Get(d); ok {
			parts = append(parts, item.Description)
		}
	}
	return strings.Join(parts, BreadcrumbSeparator)
}

// Label renders an entry's description with its work-type or youth prefix.
func Label(entry Entry) string {
	item := entry.Head()
	switch {
	case entry.Prefix() != "":
		return entry.Prefix() + " - " + item.Description
	case item.IsYouth():
		return "Youth - " + item.Description
	default:
		return item.Description
	}
}

// Option converts an entry to its display-ready form.
func Option(entry Entry) models.Option {
	item := entry.Head()
	return models.Option{
		DomainCode:  item.Domain,
		Code:        item.Code,
		Description: Label(entry),
	}
}
