package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"absences/internal/referencedata/refdatatest"
	"absences/internal/referencedata/store"
	"absences/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *store.InMemory
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	b := refdatatest.New()
	typ := b.Item(domain.DomainAbsenceType, "SR", "Standard ROTL", refdatatest.Next(domain.DomainAbsenceReason))
	r1 := b.Item(domain.DomainAbsenceReason, "R1", "Visit")
	b.Item(domain.DomainAbsenceReason, "R2", "Retired", refdatatest.Inactive())
	b.Item(domain.DomainTransport, "CAR", "Car")
	b.Link(typ, r1)
	s.store = store.NewInMemory(b.Catalogue())
}

func (s *InMemoryStoreSuite) TestListActive() {
	ctx := context.Background()

	s.Run("all domains", func() {
		items, err := s.store.ListActive(ctx)
		s.Require().NoError(err)
		s.Len(items, 3, "inactive items are excluded")
	})

	s.Run("filtered by domain", func() {
		items, err := s.store.ListActive(ctx, domain.DomainTransport, domain.DomainLocationType)
		s.Require().NoError(err)
		s.Require().Len(items, 1)
		s.Equal("CAR", items[0].Code)
	})
}

func (s *InMemoryStoreSuite) TestListLinks() {
	links, err := s.store.ListLinks(context.Background())
	s.Require().NoError(err)
	s.Len(links, 1)
}

func (s *InMemoryStoreSuite) TestReplace() {
	ctx := context.Background()
	b := refdatatest.New()
	b.Item(domain.DomainAbsenceType, "PP", "Police production")

	s.store.Replace(b.Catalogue())

	items, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("PP", items[0].Code)
	links, err := s.store.ListLinks(ctx)
	s.Require().NoError(err)
	s.Empty(links)
	s.NoError(s.store.Ping(ctx))
}
