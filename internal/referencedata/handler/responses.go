package handler

import (
	"absences/internal/referencedata/models"
	"absences/internal/referencedata/reasonpath"
	"absences/internal/referencedata/service"
)

// CategorisationResponse is the HTTP response for the reason-path and
// validate endpoints.
type CategorisationResponse struct {
	Path       reasonpath.ReasonPath `json:"path"`
	Breadcrumb string                `json:"breadcrumb"`
	Items      []models.DomainOption `json:"items"`
}

// FromCategorisation converts a resolved categorisation. Items are the shown
// levels in path order.
func FromCategorisation(c *service.Categorisation) *CategorisationResponse {
	shown := c.Shown()
	items := make([]models.DomainOption, 0, len(shown))
	for _, item := range shown {
		items = append(items, models.NewDomainOption(item))
	}
	return &CategorisationResponse{
		Path:       c.Path,
		Breadcrumb: c.Breadcrumb,
		Items:      items,
	}
}

// DomainOptionsResponse lists the options of a domain.
type DomainOptionsResponse struct {
	DomainCode string                `json:"domainCode"`
	Options    []models.DomainOption `json:"options"`
}

// SelectedOptionsResponse is an item and the options that follow it.
type SelectedOptionsResponse struct {
	Selected models.DomainOption   `json:"selected"`
	Options  []models.DomainOption `json:"options"`
}

// ReferenceDataResponse lists the active items of a domain.
type ReferenceDataResponse struct {
	DomainCode string                 `json:"domainCode"`
	Items      []models.ReferenceData `json:"items"`
}
