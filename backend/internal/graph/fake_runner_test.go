package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"trustocracy/backend/internal/cypher"
)

// fakeRunner records every query and answers from a queue of canned results.
type fakeRunner struct {
	queries []cypher.Query
	results []*Result
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, q cypher.Query) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) == 0 {
		return &Result{}, nil
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

func (f *fakeRunner) last() cypher.Query {
	return f.queries[len(f.queries)-1]
}

func newTestRepository(results ...*Result) (*Repository, *fakeRunner) {
	runner := &fakeRunner{results: results}
	return NewRepositoryWithRunner(runner, cypher.NewComposer(cypher.DefaultRegistry())), runner
}

func record(pairs ...any) *neo4j.Record {
	rec := &neo4j.Record{}
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Keys = append(rec.Keys, pairs[i].(string))
		rec.Values = append(rec.Values, pairs[i+1])
	}
	return rec
}

func rows(records ...*neo4j.Record) *Result {
	return &Result{Records: records}
}

func counted(c Counters, records ...*neo4j.Record) *Result {
	return &Result{Records: records, Counters: c}
}

func personNode(id int64, name string) neo4j.Node {
	return neo4j.Node{Labels: []string{"Person"}, Props: map[string]any{"id": id, "name": name}}
}

func node(label string, props map[string]any) neo4j.Node {
	return neo4j.Node{Labels: []string{label}, Props: props}
}
