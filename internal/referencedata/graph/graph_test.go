package graph_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"absences/internal/referencedata/graph"
	"absences/internal/referencedata/models"
	"absences/internal/referencedata/refdatatest"
	"absences/pkg/domain"
)

type GraphSuite struct {
	suite.Suite
	g *graph.Graph

	typ      models.ReferenceData
	pw       models.ReferenceData
	uw       models.ReferenceData
	shared   models.ReferenceData
	only     models.ReferenceData
	retired  models.ReferenceData
	railcard models.ReferenceData
}

func TestGraphSuite(t *testing.T) {
	suite.Run(t, new(GraphSuite))
}

func (s *GraphSuite) SetupTest() {
	b := refdatatest.New()
	s.typ = b.Item(domain.DomainAbsenceType, "SR", "Standard ROTL", refdatatest.Next(domain.DomainAbsenceReasonCategory))
	s.uw = b.Item(domain.DomainAbsenceReasonCategory, "UW", "Unpaid work", refdatatest.Sequence(20))
	s.pw = b.Item(domain.DomainAbsenceReasonCategory, "PW", "Paid work", refdatatest.Sequence(10))
	s.shared = b.Item(domain.DomainAbsenceReason, "R3", "Community")
	s.only = b.Item(domain.DomainAbsenceReason, "R1", "Agriculture")
	s.retired = b.Item(domain.DomainAbsenceReason, "R9", "Retired", refdatatest.Inactive())
	s.railcard = b.Item(domain.DomainTransport, "RAIL", "Rail")
	b.Link(s.typ, s.pw, s.uw)
	b.Link(s.pw, s.only, s.shared, s.retired)
	b.Link(s.uw, s.shared)
	s.g = graph.New(b.Catalogue())
}

func (s *GraphSuite) TestLookups() {
	s.Run("Find by natural key", func() {
		got, ok := s.g.Find(domain.DomainAbsenceReasonCategory, "PW")
		s.True(ok)
		s.Equal(s.pw, got)

		_, ok = s.g.Find(domain.DomainAbsenceReason, "PW")
		s.False(ok, "codes are scoped to their domain")
	})

	s.Run("inactive items are not indexed", func() {
		_, ok := s.g.Find(domain.DomainAbsenceReason, "R9")
		s.False(ok)
		_, ok = s.g.Item(s.retired.ID)
		s.False(ok)
		s.Equal(6, s.g.Len())
	})

	s.Run("ByDomain is in sequence order", func() {
		cats := s.g.ByDomain(domain.DomainAbsenceReasonCategory)
		s.Require().Len(cats, 2)
		s.Equal("PW", cats[0].Code)
		s.Equal("UW", cats[1].Code)
	})

	s.Run("ByDomain returns a copy", func() {
		cats := s.g.ByDomain(domain.DomainAbsenceReasonCategory)
		cats[0].Code = "changed"
		s.Equal("PW", s.g.ByDomain(domain.DomainAbsenceReasonCategory)[0].Code)
	})
}

func (s *GraphSuite) TestEdges() {
	s.Run("LinksFrom keeps edges to inactive targets", func() {
		s.Len(s.g.LinksFrom(s.pw.ID), 3)
	})

	s.Run("Children drops inactive targets", func() {
		children := s.g.Children(s.pw.ID)
		s.Require().Len(children, 2)
		s.Equal("R1", children[0].Code)
		s.Equal("R3", children[1].Code)
	})

	s.Run("ParentOf finds a single category", func() {
		parents := s.g.ParentOf(s.only.ID, domain.DomainAbsenceReasonCategory)
		s.Require().Len(parents, 1)
		s.Equal("PW", parents[0].Code)
	})

	s.Run("ParentOf reports every candidate", func() {
		parents := s.g.ParentOf(s.shared.ID, domain.DomainAbsenceReasonCategory)
		s.Len(parents, 2)
	})

	s.Run("ParentOf filters by domain", func() {
		s.Empty(s.g.ParentOf(s.pw.ID, domain.DomainAbsenceSubType))
		s.Len(s.g.ParentOf(s.pw.ID, domain.DomainAbsenceType), 1)
	})

	s.Run("unknown id has no edges", func() {
		unknown := domain.NewReferenceDataID()
		s.Empty(s.g.LinksFrom(unknown))
		s.Empty(s.g.ParentOf(unknown, domain.DomainAbsenceReasonCategory))
	})
}
