//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"absences/internal/referencedata/models"
	"absences/internal/referencedata/refdatatest"
	"absences/internal/referencedata/store"
	"absences/pkg/domain"
	"absences/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "categorisation_links", "reference_data")
	s.Require().NoError(err)
}

func insertCatalogue(ctx context.Context, db *sql.DB, c models.Catalogue) error {
	for _, item := range c.Items {
		var next *string
		if item.Next != nil {
			n := item.Next.String()
			next = &n
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO reference_data (id, domain, code, description, hint_text, sequence_number, active, next_domain)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID.String(), item.Domain.String(), item.Code, item.Description, item.HintText,
			item.SequenceNumber, item.Active, next)
		if err != nil {
			return err
		}
	}
	for _, link := range c.Links {
		_, err := db.ExecContext(ctx, `
			INSERT INTO categorisation_links (id, from_domain, from_id, to_domain, to_id, sequence_number)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			link.ID.String(), link.FromDomain.String(), link.FromID.String(),
			link.ToDomain.String(), link.ToID.String(), link.SequenceNumber)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStoreSuite) TestRoundTripsTheSeededCatalogue() {
	ctx := context.Background()
	seed := store.Seed()
	s.Require().NoError(insertCatalogue(ctx, s.postgres.DB, seed))

	items, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	active := 0
	for _, item := range seed.Items {
		if item.Active {
			active++
		}
	}
	s.Len(items, active)

	links, err := s.store.ListLinks(ctx)
	s.Require().NoError(err)
	s.Len(links, len(seed.Links))
}

func (s *PostgresStoreSuite) TestListActiveFiltersAndMapsColumns() {
	ctx := context.Background()
	b := refdatatest.New()
	typ := b.Item(domain.DomainAbsenceType, "SR", "Standard ROTL",
		refdatatest.Next(domain.DomainAbsenceSubType), refdatatest.Hint("Most common"))
	b.Item(domain.DomainAbsenceType, "OLD", "Retired", refdatatest.Inactive())
	b.Item(domain.DomainTransport, "CAR", "Car")
	s.Require().NoError(insertCatalogue(ctx, s.postgres.DB, b.Catalogue()))

	s.Run("domain filter", func() {
		items, err := s.store.ListActive(ctx, domain.DomainAbsenceType)
		s.Require().NoError(err)
		s.Require().Len(items, 1)

		got := items[0]
		s.Equal(typ.ID, got.ID)
		s.Equal("SR", got.Code)
		s.Require().NotNil(got.HintText)
		s.Equal("Most common", *got.HintText)
		next, ok := got.NextDomain()
		s.True(ok)
		s.Equal(domain.DomainAbsenceSubType, next)
	})

	s.Run("no filter returns every active domain", func() {
		items, err := s.store.ListActive(ctx)
		s.Require().NoError(err)
		s.Len(items, 2)
	})
}

func (s *PostgresStoreSuite) TestLinksAreOrderedBySequence() {
	ctx := context.Background()
	b := refdatatest.New()
	typ := b.Item(domain.DomainAbsenceType, "SE", "Security escort", refdatatest.Next(domain.DomainAbsenceReason))
	first := b.Item(domain.DomainAbsenceReason, "FUNERAL", "Funeral")
	second := b.Item(domain.DomainAbsenceReason, "MEDICAL", "Medical")
	b.Link(typ, first, second)
	s.Require().NoError(insertCatalogue(ctx, s.postgres.DB, b.Catalogue()))

	links, err := s.store.ListLinks(ctx)
	s.Require().NoError(err)
	s.Require().Len(links, 2)
	s.Equal(first.ID, links[0].ToID)
	s.Equal(second.ID, links[1].ToID)
	s.Equal(domain.DomainAbsenceType, links[0].FromDomain)
}

func (s *PostgresStoreSuite) TestPing() {
	s.NoError(s.store.Ping(context.Background()))
}
