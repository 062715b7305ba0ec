// Package graph indexes a reference-data catalogue for traversal: items by
// id and by natural key, outgoing and incoming link edges. A Graph is built
// once per catalogue and never mutated, so it is safe for concurrent use.
package graph

import (
	"cmp"
	"slices"

	"absences/internal/referencedata/models"
	"absences/pkg/domain"
)

type naturalKey struct {
	domain domain.DomainCode
	code   string
}

// Graph is an immutable adjacency view over the active items of a catalogue.
// Inactive items are not indexed, so edges pointing at them resolve to
// nothing.
type Graph struct {
	byID     map[domain.ReferenceDataID]models.ReferenceData
	byKey    map[naturalKey]models.ReferenceData
	byDomain map[domain.DomainCode][]models.ReferenceData
	out      map[domain.ReferenceDataID][]models.CategorisationLink
	in       map[domain.ReferenceDataID][]models.CategorisationLink
}

// New indexes the catalogue. Items are ordered by sequence number then code;
// edges by sequence number.
func New(c models.Catalogue) *Graph {
	g := &Graph{
		byID:     make(map[domain.ReferenceDataID]models.ReferenceData, len(c.Items)),
		byKey:    make(map[naturalKey]models.ReferenceData, len(c.Items)),
		byDomain: make(map[domain.DomainCode][]models.ReferenceData),
		out:      make(map[domain.ReferenceDataID][]models.CategorisationLink),
		in:       make(map[domain.ReferenceDataID][]models.CategorisationLink),
	}

	for _, item := range c.Items {
		if !item.Active {
			continue
		}
		g.byID[item.ID] = item
		g.byKey[naturalKey{item.Domain, item.Code}] = item
		g.byDomain[item.Domain] = append(g.byDomain[item.Domain], item)
	}
	for d := range g.byDomain {
		slices.SortStableFunc(g.byDomain[d], compareItems)
	}

	for _, link := range c.Links {
		g.out[link.FromID] = append(g.out[link.FromID], link)
		g.in[link.ToID] = append(g.in[link.ToID], link)
	}
	for id := range g.out {
		slices.SortStableFunc(g.out[id], compareLinks)
	}
	for id := range g.in {
		slices.SortStableFunc(g.in[id], compareLinks)
	}

	return g
}

func compareItems(a, b models.ReferenceData) int {
	return cmp.Or(
		cmp.Compare(a.SequenceNumber, b.SequenceNumber),
		cmp.Compare(a.Code, b.Code),
	)
}

func compareLinks(a, b models.CategorisationLink) int {
	return cmp.Compare(a.SequenceNumber, b.SequenceNumber)
}

// Item returns the active item with the given id.
func (g *Graph) Item(id domain.ReferenceDataID) (models.ReferenceData, bool) {
	item, ok := g.byID[id]
	return item, ok
}

// Find returns the active item with the natural key (d, code).
func (g *Graph) Find(d domain.DomainCode, code string) (models.ReferenceData, bool) {
	item, ok := g.byKey[naturalKey{d, code}]
	return item, ok
}

// ByDomain lists the active items of d in sequence order.
func (g *Graph) ByDomain(d domain.DomainCode) []models.ReferenceData {
	return slices.Clone(g.byDomain[d])
}

// LinksFrom lists the edges leaving id in sequence order, including edges
// whose target is inactive or unknown.
func (g *Graph) LinksFrom(id domain.ReferenceDataID) []models.CategorisationLink {
	return slices.Clone(g.out[id])
}

// Children resolves the live targets of the edges leaving id, in edge order.
func (g *Graph) Children(id domain.ReferenceDataID) []models.ReferenceData {
	var children []models.ReferenceData
	for _, link := range g.out[id] {
		if child, ok := g.byID[link.ToID]; ok {
			children = append(children, child)
		}
	}
	return children
}

// ParentOf returns the active items of domain target that link into id. It
// is the reverse lookup used to infer a reason's category.
func (g *Graph) ParentOf(id domain.ReferenceDataID, target domain.DomainCode) []models.ReferenceData {
	var parents []models.ReferenceData
	seen := make(map[domain.ReferenceDataID]struct{})
	for _, link := range g.in[id] {
		if link.FromDomain != target {
			continue
		}
		parent, ok := g.byID[link.FromID]
		if !ok || parent.Domain != target {
			continue
		}
		if _, dup := seen[parent.ID]; dup {
			continue
		}
		seen[parent.ID] = struct{}{}
		parents = append(parents, parent)
	}
	return parents
}

// Len is the number of active items.
func (g *Graph) Len() int {
	return len(g.byID)
}
