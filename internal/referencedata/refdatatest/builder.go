// Package refdatatest builds small reference-data catalogues for tests.
package refdatatest

import (
	"time"

	"github.com/google/uuid"

	"absences/internal/referencedata/models"
	"absences/pkg/domain"
)

var namespace = uuid.MustParse("6f1f6d4e-3f7a-4c55-9a43-2f3c8d1e0b71")

// ItemOption adjusts an item before it is added.
type ItemOption func(*models.ReferenceData)

// Next declares the item's next domain.
func Next(d domain.DomainCode) ItemOption {
	return func(r *models.ReferenceData) { r.Next = &d }
}

// Inactive marks the item inactive.
func Inactive() ItemOption {
	return func(r *models.ReferenceData) { r.Active = false }
}

// Sequence overrides the automatically assigned sequence number.
func Sequence(n int) ItemOption {
	return func(r *models.ReferenceData) { r.SequenceNumber = n }
}

// Hint sets hint text.
func Hint(text string) ItemOption {
	return func(r *models.ReferenceData) { r.HintText = &text }
}

// Builder accumulates items and links. IDs are derived from (domain, code)
// so they are stable across runs.
type Builder struct {
	items []models.ReferenceData
	links []models.CategorisationLink
	seq   int
}

func New() *Builder {
	return &Builder{}
}

// ItemID is the ID the builder assigns to (d, code).
func ItemID(d domain.DomainCode, code string) domain.ReferenceDataID {
	return domain.ReferenceDataID(uuid.NewSHA1(namespace, []byte(string(d)+":"+code)))
}

// Item adds an active item and returns it.
func (b *Builder) Item(d domain.DomainCode, code, description string, opts ...ItemOption) models.ReferenceData {
	b.seq++
	item := models.ReferenceData{
		ID:             ItemID(d, code),
		Domain:         d,
		Code:           code,
		Description:    description,
		SequenceNumber: b.seq,
		Active:         true,
	}
	for _, opt := range opts {
		opt(&item)
	}
	b.items = append(b.items, item)
	return item
}

// Link adds edges from parent to each child, sequenced in argument order.
func (b *Builder) Link(parent models.ReferenceData, children ...models.ReferenceData) *Builder {
	for i, child := range children {
		b.links = append(b.links, models.CategorisationLink{
			ID:             domain.LinkID(uuid.NewSHA1(namespace, []byte(parent.ID.String()+">"+child.ID.String()))),
			FromDomain:     parent.Domain,
			FromID:         parent.ID,
			ToDomain:       child.Domain,
			ToID:           child.ID,
			SequenceNumber: i + 1,
		})
	}
	return b
}

// Catalogue returns the accumulated snapshot.
func (b *Builder) Catalogue() models.Catalogue {
	return models.Catalogue{
		Items:    append([]models.ReferenceData(nil), b.items...),
		Links:    append([]models.CategorisationLink(nil), b.links...),
		LoadedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
