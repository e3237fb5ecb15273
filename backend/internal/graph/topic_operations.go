package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"trustocracy/backend/internal/cypher"
)

// ============================================================================
// Topic Operations
// ============================================================================

// CreateTopic creates a topic. An existing topic with the same id is
// returned unchanged.
func (r *Repository) CreateTopic(ctx context.Context, topicID int64, name string) (*Topic, error) {
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}
	if err := validateName("name", name); err != nil {
		return nil, err
	}

	res, err := r.run(ctx, r.composer.CreateTopic(topicID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}
	record := first(res)
	if record == nil {
		return nil, nil
	}
	if res.Counters.NodesCreated > 0 {
		r.logger.Info("Topic created", zap.Int64("topic_id", topicID))
	}
	topic, ok := topicFromRecord(record)
	if !ok {
		return nil, nil
	}
	return &topic, nil
}

// Topic returns the topic with its published opinion count, or nil.
func (r *Repository) Topic(ctx context.Context, topicID int64) (*Topic, error) {
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}
	topics, err := r.topics(ctx, r.composer.Topic(topicID))
	if err != nil || len(topics) == 0 {
		return nil, err
	}
	return &topics[0], nil
}

// Topics lists every topic ordered by id.
func (r *Repository) Topics(ctx context.Context) ([]Topic, error) {
	return r.topics(ctx, r.composer.Topics())
}

func (r *Repository) topics(ctx context.Context, q cypher.Query) ([]Topic, error) {
	res, err := r.run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", q.Name, err)
	}
	topics := make([]Topic, 0, len(res.Records))
	for _, record := range res.Records {
		if topic, ok := topicFromRecord(record); ok {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

func topicFromRecord(record *neo4j.Record) (Topic, bool) {
	node, ok := getNodeFromRecord(record, "topic")
	if !ok {
		return Topic{}, false
	}
	return Topic{
		ID:           toInt64(node.Props["id"]),
		Name:         getStringFromMap(node.Props, "name", ""),
		OpinionCount: getInt64FromRecord(record, "opinionCount"),
		LastUpdated:  getMillisFromRecord(record, "lastUpdated"),
	}, true
}
