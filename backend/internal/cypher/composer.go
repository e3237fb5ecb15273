// Package cypher composes the parameterized Cypher statements behind every
// graph operation. Nothing here talks to a database: each Composer method
// returns a Query whose text only ever embeds registry tokens, and whose
// caller-supplied values travel as bound parameters.
package cypher

import (
	"strconv"
)

// Query is a composed statement ready to hand to a driver.
type Query struct {
	// Name identifies the operation that produced the query.
	Name   string
	Text   string
	Params map[string]any
	// Write is set when the statement mutates the graph.
	Write bool
}

// Composer turns domain operations into queries using a fixed Registry.
// It is stateless and safe for concurrent use.
type Composer struct {
	rel Registry
}

// NewComposer creates a Composer bound to reg.
func NewComposer(reg Registry) *Composer {
	return &Composer{rel: reg}
}

// Registry returns the relationship table the composer was built with.
func (c *Composer) Registry() Registry {
	return c.rel
}

func read(name, text string, params map[string]any) Query {
	if params == nil {
		params = map[string]any{}
	}
	return Query{Name: name, Text: text, Params: params}
}

func write(name, text string, params map[string]any) Query {
	q := read(name, text, params)
	q.Write = true
	return q
}

// authoredEdge is the per-topic authorship edge. The topic id is an integer,
// so the token cannot carry caller text.
func authoredEdge(topicID int64) string {
	return authoredPrefix + strconv.FormatInt(topicID, 10)
}

// idList normalizes a nil slice to an empty list so the bound parameter is
// always a list and `IN $ids` matches nothing instead of failing.
func idList(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func stringList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Person is the identity payload written onto Person nodes.
type Person struct {
	ID       int64
	Name     string
	FbUserID *int64
	// GaUserID is kept as a string; Google ids overflow safe integers.
	GaUserID string
}

// Properties renders the payload as a Cypher property map.
func (p Person) Properties() map[string]any {
	props := map[string]any{"id": p.ID}
	if p.Name != "" {
		props["name"] = p.Name
	}
	if p.FbUserID != nil {
		props["fbUserId"] = *p.FbUserID
	}
	if p.GaUserID != "" {
		props["gaUserId"] = p.GaUserID
	}
	return props
}

// OpinionDraft is the body of a new opinion. Fields is free-form.
type OpinionDraft struct {
	ID     int64
	Fields map[string]any
}

// Properties renders the draft as a property map. A caller-supplied
// "created" is dropped: the creation time is assigned by the server.
func (d OpinionDraft) Properties() map[string]any {
	props := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		if k == "created" || k == "id" {
			continue
		}
		props[k] = v
	}
	props["id"] = d.ID
	return props
}

// Qualifications is the free-form payload of the node attached to an opinion.
type Qualifications map[string]any

func (q Qualifications) Properties() map[string]any {
	props := make(map[string]any, len(q))
	for k, v := range q {
		props[k] = v
	}
	return props
}
