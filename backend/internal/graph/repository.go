package graph

import (
	"context"
	"errors"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"trustocracy/backend/internal/cypher"
	apperrors "trustocracy/backend/pkg/errors"
	"trustocracy/backend/pkg/logger"
)

// Repository executes composed queries against the graph and decodes the
// rows into domain types. Lookups that find nothing return nil values and
// writes that match nothing return zero counts; neither is an error.
type Repository struct {
	runner   Runner
	composer *cypher.Composer
	logger   *zap.Logger
}

// NewRepository creates a repository backed by a Neo4j driver and the
// default relationship registry.
func NewRepository(driver neo4j.DriverWithContext, database string) *Repository {
	return NewRepositoryWithRunner(NewDriverRunner(driver, database), cypher.NewComposer(cypher.DefaultRegistry()))
}

// NewRepositoryWithRunner creates a repository over any Runner.
func NewRepositoryWithRunner(runner Runner, composer *cypher.Composer) *Repository {
	return &Repository{
		runner:   runner,
		composer: composer,
		logger:   logger.Named("graph"),
	}
}

// Composer exposes the composer the repository builds queries with.
func (r *Repository) Composer() *cypher.Composer {
	return r.composer
}

func (r *Repository) run(ctx context.Context, q cypher.Query) (*Result, error) {
	start := time.Now()
	res, err := r.runner.Run(ctx, q)
	queryDuration.WithLabelValues(q.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		queriesTotal.WithLabelValues(q.Name, outcomeError).Inc()
		r.logger.Error("Graph query failed",
			zap.String("operation", q.Name),
			zap.Bool("write", q.Write),
			zap.Error(err),
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewContextCancelled(q.Name, err)
		}
		return nil, apperrors.NewGraphQueryFailed(q.Name, err)
	}

	outcome := outcomeOK
	if len(res.Records) == 0 && res.Counters == (Counters{}) {
		outcome = outcomeEmpty
	}
	queriesTotal.WithLabelValues(q.Name, outcome).Inc()

	r.logger.Debug("Graph query executed",
		zap.String("operation", q.Name),
		zap.Int("rows", len(res.Records)),
		zap.Int("nodes_created", res.Counters.NodesCreated),
		zap.Int("relationships_created", res.Counters.RelationshipsCreated),
		zap.Int("relationships_deleted", res.Counters.RelationshipsDeleted),
		zap.Duration("latency", time.Since(start)),
	)
	return res, nil
}

// first returns the first record or nil.
func first(res *Result) *neo4j.Record {
	if len(res.Records) == 0 {
		return nil
	}
	return res.Records[0]
}
