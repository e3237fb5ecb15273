package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"trustocracy/backend/internal/cypher"
)

// Counters mirrors the update statistics Neo4j reports for a statement.
// Write operations use them to tell "nothing matched" apart from success.
type Counters struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	LabelsAdded          int
	LabelsRemoved        int
	PropertiesSet        int
}

// Result is the fully consumed outcome of one composed query.
type Result struct {
	Records  []*neo4j.Record
	Counters Counters
}

// Runner executes a composed query as a single unit of work.
type Runner interface {
	Run(ctx context.Context, q cypher.Query) (*Result, error)
}

// DriverRunner runs each query in its own managed transaction, so a
// statement either applies completely or not at all.
type DriverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewDriverRunner creates a runner against the given database. An empty
// database name selects the server default.
func NewDriverRunner(driver neo4j.DriverWithContext, database string) *DriverRunner {
	return &DriverRunner{driver: driver, database: database}
}

func (d *DriverRunner) Run(ctx context.Context, q cypher.Query) (*Result, error) {
	mode := neo4j.AccessModeRead
	if q.Write {
		mode = neo4j.AccessModeWrite
	}
	session := d.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: d.database})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, q.Text, q.Params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return &Result{Records: records, Counters: countersFrom(summary.Counters())}, nil
	}

	var (
		out any
		err error
	)
	if q.Write {
		out, err = session.ExecuteWrite(ctx, work)
	} else {
		out, err = session.ExecuteRead(ctx, work)
	}
	if err != nil {
		return nil, err
	}

	res, ok := out.(*Result)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction result %T", out)
	}
	return res, nil
}

func countersFrom(c neo4j.Counters) Counters {
	return Counters{
		NodesCreated:         c.NodesCreated(),
		NodesDeleted:         c.NodesDeleted(),
		RelationshipsCreated: c.RelationshipsCreated(),
		RelationshipsDeleted: c.RelationshipsDeleted(),
		LabelsAdded:          c.LabelsAdded(),
		LabelsRemoved:        c.LabelsRemoved(),
		PropertiesSet:        c.PropertiesSet(),
	}
}
