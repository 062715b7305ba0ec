// Package hierarchy collapses the reference-data link graph into the
// decision tree used to populate categorisation filters.
//
// An item with a single live child is not a decision point, so it is
// replaced by that child's own tree. Only domain-linked items that declare a
// next domain and offer two or more choices become Nodes.
package hierarchy

import (
	"errors"
	"fmt"

	"absences/internal/referencedata/format"
	"absences/internal/referencedata/graph"
	"absences/internal/referencedata/models"
	"absences/pkg/domain"
)

// MaxDepth bounds recursion; real trees are four levels deep.
const MaxDepth = 16

// ErrMalformedGraph is returned when the links contain a cycle or run deeper
// than MaxDepth.
var ErrMalformedGraph = errors.New("malformed categorisation graph")

// Hierarchy is a Node or a Leaf.
type Hierarchy interface {
	format.Entry
	DomainCode() domain.DomainCode
	isHierarchy()
}

// Node is a genuine decision point with at least two children.
type Node struct {
	Domain      domain.DomainCode
	Item        models.ReferenceData
	Children    []Hierarchy
	LabelPrefix string
}

// Leaf is a terminal entry.
type Leaf struct {
	Domain      domain.DomainCode
	Item        models.ReferenceData
	LabelPrefix string
}

func (n Node) Head() models.ReferenceData    { return n.Item }
func (n Node) Prefix() string                { return n.LabelPrefix }
func (n Node) DomainCode() domain.DomainCode { return n.Domain }
func (Node) isHierarchy()                    {}

func (l Leaf) Head() models.ReferenceData    { return l.Item }
func (l Leaf) Prefix() string                { return l.LabelPrefix }
func (l Leaf) DomainCode() domain.DomainCode { return l.Domain }
func (Leaf) isHierarchy()                    {}

// Build returns one tree per active type, in sequence order.
func Build(g *graph.Graph) ([]Hierarchy, error) {
	b := builder{g: g, onPath: make(map[domain.ReferenceDataID]struct{})}

	types := g.ByDomain(domain.DomainAbsenceType)
	roots := make([]Hierarchy, 0, len(types))
	for _, t := range types {
		root, err := b.of(domain.DomainAbsenceType, t, "", 0)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

type builder struct {
	g      *graph.Graph
	onPath map[domain.ReferenceDataID]struct{}
}

// of builds the tree under head. prefix is the label prefix inherited from
// head's ancestors; head's own prefix applies to its descendants only.
func (b *builder) of(d domain.DomainCode, head models.ReferenceData, prefix string, depth int) (Hierarchy, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: deeper than %d levels at %s %s", ErrMalformedGraph, MaxDepth, head.Domain, head.Code)
	}
	if _, seen := b.onPath[head.ID]; seen {
		return nil, fmt.Errorf("%w: cycle through %s %s", ErrMalformedGraph, head.Domain, head.Code)
	}
	b.onPath[head.ID] = struct{}{}
	defer delete(b.onPath, head.ID)

	childPrefix := head.LabelPrefix()
	if childPrefix == "" {
		childPrefix = prefix
	}

	var children []Hierarchy
	for _, link := range b.g.LinksFrom(head.ID) {
		target, ok := b.g.Item(link.ToID)
		if !ok {
			continue
		}
		child, err := b.of(link.ToDomain, target, childPrefix, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	_, declaresNext := head.NextDomain()
	switch {
	case declaresNext && len(children) > 1:
		return Node{Domain: d, Item: head, Children: children, LabelPrefix: prefix}, nil
	case len(children) == 1:
		return children[0], nil
	default:
		return Leaf{Domain: d, Item: head, LabelPrefix: prefix}, nil
	}
}
