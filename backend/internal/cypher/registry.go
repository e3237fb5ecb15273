package cypher

import (
	"fmt"
	"strings"
)

// Relationship is the logical name of a registry-governed edge.
type Relationship string

const (
	HasEmail      Relationship = "hasEmail"
	Knows         Relationship = "knows"
	Follows       Relationship = "follows"
	Thinks        Relationship = "thinks"
	Opines        Relationship = "opines"
	Addresses     Relationship = "addresses"
	ConstituentOf Relationship = "constituentOf"
	Country       Relationship = "country"
	City          Relationship = "city"
	PostalCode    Relationship = "postalCode"
)

// Traversal names a bounded variable-length walk over a relationship.
type Traversal string

const (
	// NearestReach bounds the FOLLOWS walk used by Nearest.
	NearestReach Traversal = "nearest"
	// ConnectedReach bounds the FOLLOWS walk used by Connected.
	ConnectedReach Traversal = "connected"
)

// Literal edges that are operation specific and never configurable.
const (
	qualifiesEdge   = "QUALIFIES"
	discussedByEdge = "DISCUSSED_BY"
	authoredPrefix  = "AUTHORED_"
)

// Edge is the wire form of a relationship.
type Edge struct {
	Token string
}

// PathBound is an inclusive hop range for a variable-length pattern.
type PathBound struct {
	Min int
	Max int
}

func (b PathBound) String() string {
	return fmt.Sprintf("*%d..%d", b.Min, b.Max)
}

// Registry maps logical relationship names to edge tokens. A Registry is
// immutable once built; lookups of names it does not hold panic.
type Registry struct {
	edges     map[Relationship]Edge
	bounds    map[Traversal]PathBound
	delegates []Relationship
}

// DefaultRegistry returns the production relationship table.
func DefaultRegistry() Registry {
	return NewRegistry(
		map[Relationship]Edge{
			HasEmail:      {Token: "HAS_EMAIL"},
			Knows:         {Token: "KNOWS"},
			Follows:       {Token: "FOLLOWS"},
			Thinks:        {Token: "THINKS"},
			Opines:        {Token: "OPINES"},
			Addresses:     {Token: "ADDRESSES"},
			ConstituentOf: {Token: "CONSTITUENT_OF"},
			Country:       {Token: "COUNTRY"},
			City:          {Token: "CITY"},
			PostalCode:    {Token: "POSTAL"},
		},
		map[Traversal]PathBound{
			NearestReach:   {Min: 0, Max: 2},
			ConnectedReach: {Min: 0, Max: 3},
		},
		[]Relationship{Knows, Follows},
	)
}

// NewRegistry copies its inputs so later mutation by the caller has no effect.
// delegates lists the relationships a caller may name in AddDelegate.
func NewRegistry(edges map[Relationship]Edge, bounds map[Traversal]PathBound, delegates []Relationship) Registry {
	r := Registry{
		edges:     make(map[Relationship]Edge, len(edges)),
		bounds:    make(map[Traversal]PathBound, len(bounds)),
		delegates: append([]Relationship(nil), delegates...),
	}
	for k, v := range edges {
		r.edges[k] = v
	}
	for k, v := range bounds {
		r.bounds[k] = v
	}
	for _, d := range r.delegates {
		r.edge(d)
	}
	return r
}

func (r Registry) edge(rel Relationship) Edge {
	e, ok := r.edges[rel]
	if !ok {
		panic(fmt.Sprintf("cypher: relationship %q is not registered", rel))
	}
	return e
}

// Token returns the bare edge type, e.g. HAS_EMAIL.
func (r Registry) Token(rel Relationship) string {
	return r.edge(rel).Token
}

// Type returns the edge type as it appears inside a pattern, e.g. :HAS_EMAIL.
func (r Registry) Type(rel Relationship) string {
	return ":" + r.Token(rel)
}

// Bound returns the hop range registered for a traversal.
func (r Registry) Bound(t Traversal) PathBound {
	b, ok := r.bounds[t]
	if !ok {
		panic(fmt.Sprintf("cypher: traversal %q is not registered", t))
	}
	return b
}

// Path returns a variable-length pattern, e.g. :FOLLOWS*0..2.
func (r Registry) Path(rel Relationship, t Traversal) string {
	return r.Type(rel) + r.Bound(t).String()
}

// DelegateEdge resolves a caller-supplied relationship kind against the
// delegate allow-list. Both the logical name and the token are accepted.
func (r Registry) DelegateEdge(kind string) (string, error) {
	kind = strings.TrimSpace(kind)
	for _, rel := range r.delegates {
		token := r.Token(rel)
		if strings.EqualFold(kind, string(rel)) || kind == token {
			return token, nil
		}
	}
	return "", ErrUnknownRelationship{Kind: kind}
}

// DelegateKinds lists the logical names accepted by DelegateEdge.
func (r Registry) DelegateKinds() []string {
	out := make([]string, 0, len(r.delegates))
	for _, rel := range r.delegates {
		out = append(out, string(rel))
	}
	return out
}

// ErrUnknownRelationship is returned when a delegate kind is not allow-listed.
type ErrUnknownRelationship struct {
	Kind string
}

func (e ErrUnknownRelationship) Error() string {
	return fmt.Sprintf("unknown delegate relationship: %q", e.Kind)
}
