package service

import (
	"context"
	"errors"

	"absences/internal/referencedata/format"
	"absences/internal/referencedata/graph"
	"absences/internal/referencedata/models"
	"absences/internal/referencedata/reasonpath"
	"absences/pkg/domain"
	dErrors "absences/pkg/domain-errors"
	"absences/pkg/requestcontext"
)

// Resolution outcomes recorded in metrics.
const (
	outcomeResolved  = "resolved"
	outcomeAmbiguous = "ambiguous"
	outcomeNotFound  = "not_found"
	outcomeFailed    = "failed"
)

// Categorisation is a resolved categorisation ready for display.
type Categorisation struct {
	Path       reasonpath.ReasonPath
	Breadcrumb string
	// Selection includes a category inferred from the reason.
	Selection models.Selection
}

// Shown lists the selected items that are part of the path, in path order.
func (c *Categorisation) Shown() []models.ReferenceData {
	shown := make([]models.ReferenceData, 0, c.Path.Len())
	for _, d := range c.Path.Domains() {
		if item, ok := c.Selection.Get(d); ok {
			shown = append(shown, item)
		}
	}
	return shown
}

// DomainOptions is an item together with the options that follow it.
type DomainOptions struct {
	Selected models.DomainOption
	Options  []models.DomainOption
}

// Filters returns the filter dropdown options from the collapsed hierarchy.
// They are built once per loaded catalogue.
func (s *Service) Filters(ctx context.Context) (*models.CategorisationFilters, error) {
	v, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	filters, err := v.Filters()
	if err != nil {
		return nil, s.malformed(ctx, err)
	}
	return &filters, nil
}

// ResolveReasonPath computes the displayed path for a stored categorisation.
// It only fails for unknown codes.
func (s *Service) ResolveReasonPath(ctx context.Context, codes models.Codes) (*Categorisation, error) {
	g, err := s.snapshotGraph(ctx)
	if err != nil {
		return nil, err
	}
	sel, err := s.selection(g, codes)
	if err != nil {
		s.metrics.IncResolution("resolve", outcomeNotFound)
		return nil, err
	}

	res := reasonpath.Resolve(sel, g.ParentOf)
	s.metrics.IncResolution("resolve", outcomeResolved)
	return newCategorisation(res), nil
}

// ValidateCategorisation checks a categorisation about to be written. Where
// the levels above the reason lead to a category, or nothing above it is
// selected and the reason sits under categories, the category must be
// determinable: either supplied or the only category linking to the reason.
// Otherwise it returns *models.AbsenceCategorisationError.
func (s *Service) ValidateCategorisation(ctx context.Context, codes models.Codes) (*Categorisation, error) {
	g, err := s.snapshotGraph(ctx)
	if err != nil {
		return nil, err
	}
	sel, err := s.selection(g, codes)
	if err != nil {
		s.metrics.IncResolution("validate", outcomeNotFound)
		return nil, err
	}

	if sel.Reason != nil && sel.Category == nil && categoryRequired(sel, g) {
		category, err := reasonpath.RequireCategory(*sel.Reason, g.ParentOf)
		if err != nil {
			var catErr *models.AbsenceCategorisationError
			if errors.As(err, &catErr) {
				s.metrics.IncResolution("validate", outcomeAmbiguous)
				s.logger.InfoContext(ctx, "absence categorisation needs a category",
					"request_id", requestcontext.RequestID(ctx),
					"reason_code", catErr.Previous.Code,
					"option_count", catErr.OptionCount,
				)
				return nil, err
			}
			s.metrics.IncResolution("validate", outcomeFailed)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to determine reason category")
		}
		sel = sel.With(category)
	}

	res := reasonpath.Resolve(sel, g.ParentOf)
	s.metrics.IncResolution("validate", outcomeResolved)
	return newCategorisation(res), nil
}

// categoryRequired reports whether the nearest selected level above the
// reason leads to categories. With nothing above the reason, any category
// linking to it makes the category required.
func categoryRequired(sel models.Selection, g *graph.Graph) bool {
	upper := sel.Type
	if sel.SubType != nil && sel.Type != nil && sel.Type.DeclaresNext(domain.DomainAbsenceSubType) {
		upper = sel.SubType
	}
	if upper != nil {
		return upper.DeclaresNext(domain.DomainAbsenceReasonCategory)
	}
	return len(g.ParentOf(sel.Reason.ID, domain.DomainAbsenceReasonCategory)) > 0
}

func newCategorisation(res reasonpath.Resolution) *Categorisation {
	return &Categorisation{
		Path:       res.Path,
		Breadcrumb: format.Breadcrumb(res.Path, res.Selection),
		Selection:  res.Selection,
	}
}

// selection looks up each code in its domain.
func (s *Service) selection(g *graph.Graph, codes models.Codes) (models.Selection, error) {
	items := make([]models.ReferenceData, 0, 4)
	for _, key := range codes.Keys() {
		item, ok := g.Find(key.Domain, key.Code)
		if !ok {
			return models.Selection{}, dErrors.New(dErrors.CodeNotFound,
				"unknown "+key.Domain.String()+" code "+key.Code)
		}
		items = append(items, item)
	}
	return models.NewSelection(items...)
}

// HierarchyOptions lists the active items of a hierarchy domain in sequence
// order.
func (s *Service) HierarchyOptions(ctx context.Context, d domain.DomainCode) ([]models.DomainOption, error) {
	if !d.IsHierarchy() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, d.String()+" is not a categorisation domain")
	}
	g, err := s.snapshotGraph(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainOptions(g.ByDomain(d)), nil
}

// Options returns the item (d, code) and the live items it links to, in
// link sequence order.
func (s *Service) Options(ctx context.Context, d domain.DomainCode, code string) (*DomainOptions, error) {
	g, err := s.snapshotGraph(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := g.Find(d, code)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown "+d.String()+" code "+code)
	}
	return &DomainOptions{
		Selected: models.NewDomainOption(item),
		Options:  toDomainOptions(g.Children(item.ID)),
	}, nil
}

// ListDomain returns all active items of any domain in sequence order.
func (s *Service) ListDomain(ctx context.Context, d domain.DomainCode) ([]models.ReferenceData, error) {
	g, err := s.snapshotGraph(ctx)
	if err != nil {
		return nil, err
	}
	items := g.ByDomain(d)
	if items == nil {
		items = []models.ReferenceData{}
	}
	return items, nil
}

func toDomainOptions(items []models.ReferenceData) []models.DomainOption {
	out := make([]models.DomainOption, 0, len(items))
	for _, item := range items {
		out = append(out, models.NewDomainOption(item))
	}
	return out
}

func (s *Service) snapshotGraph(ctx context.Context) (*graph.Graph, error) {
	v, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return v.graph, nil
}

func (s *Service) malformed(ctx context.Context, err error) error {
	s.logger.ErrorContext(ctx, "categorisation graph is malformed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "categorisation graph is malformed")
}
