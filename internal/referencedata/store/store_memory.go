package store

import (
	"context"
	"slices"
	"sync"

	"absences/internal/referencedata/models"
	"absences/pkg/domain"
)

// InMemory serves a fixed catalogue. It backs local runs without a database
// and service tests.
type InMemory struct {
	mu    sync.RWMutex
	items []models.ReferenceData
	links []models.CategorisationLink
}

// NewInMemory copies the catalogue's items and links.
func NewInMemory(c models.Catalogue) *InMemory {
	return &InMemory{
		items: slices.Clone(c.Items),
		links: slices.Clone(c.Links),
	}
}

// ListActive returns active items of the given domains, or of every domain
// when none are given.
func (s *InMemory) ListActive(_ context.Context, domains ...domain.DomainCode) ([]models.ReferenceData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ReferenceData, 0, len(s.items))
	for _, item := range s.items {
		if !item.Active {
			continue
		}
		if len(domains) > 0 && !slices.Contains(domains, item.Domain) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *InMemory) ListLinks(_ context.Context) ([]models.CategorisationLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.links), nil
}

// Replace swaps the served catalogue, standing in for an upstream change.
func (s *InMemory) Replace(c models.Catalogue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(c.Items)
	s.links = slices.Clone(c.Links)
}

// Ping always succeeds.
func (s *InMemory) Ping(context.Context) error {
	return nil
}
