package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"trustocracy/backend/internal/cypher"
)

// ============================================================================
// Opinion Lifecycle
// ============================================================================

// CreateOpinion creates a draft opinion with its qualifications. It returns
// nil when the person or the topic does not exist.
func (r *Repository) CreateOpinion(ctx context.Context, userID, topicID int64, draft cypher.OpinionDraft, q cypher.Qualifications) (*Opinion, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}
	if err := validateID("opinionId", draft.ID); err != nil {
		return nil, err
	}
	if err := validateProperties("fields", draft.Fields); err != nil {
		return nil, err
	}
	if err := validateProperties("qualifications", q); err != nil {
		return nil, err
	}

	opinions, err := r.opinions(ctx, r.composer.CreateOpinion(userID, topicID, draft, q))
	if err != nil {
		return nil, err
	}
	if len(opinions) == 0 {
		return nil, nil
	}
	r.logger.Info("Opinion drafted",
		zap.Int64("user_id", userID),
		zap.Int64("topic_id", topicID),
		zap.Int64("opinion_id", opinions[0].ID),
	)
	return &opinions[0], nil
}

// PublishOpinion makes the author's draft visible. It reports false when the
// author holds no draft edge to the opinion. Publishing again is harmless.
func (r *Repository) PublishOpinion(ctx context.Context, userID, opinionID int64) (bool, error) {
	if err := validateID("userId", userID); err != nil {
		return false, err
	}
	if err := validateID("opinionId", opinionID); err != nil {
		return false, err
	}

	res, err := r.run(ctx, r.composer.PublishOpinion(userID, opinionID))
	if err != nil {
		return false, fmt.Errorf("failed to publish opinion: %w", err)
	}
	published := len(res.Records) > 0
	if published {
		r.logger.Info("Opinion published",
			zap.Int64("user_id", userID),
			zap.Int64("opinion_id", opinionID),
			zap.Bool("new_edge", res.Counters.RelationshipsCreated > 0),
		)
	}
	return published, nil
}

// UnpublishOpinion withdraws a published opinion back to draft and returns
// the number of OPINES edges removed, zero when it was not published.
func (r *Repository) UnpublishOpinion(ctx context.Context, userID, opinionID int64) (int, error) {
	if err := validateID("userId", userID); err != nil {
		return 0, err
	}
	if err := validateID("opinionId", opinionID); err != nil {
		return 0, err
	}

	res, err := r.run(ctx, r.composer.UnpublishOpinion(userID, opinionID))
	if err != nil {
		return 0, fmt.Errorf("failed to unpublish opinion: %w", err)
	}
	return res.Counters.RelationshipsDeleted, nil
}

// ============================================================================
// Opinion Reads
// ============================================================================

func (r *Repository) OpinionByID(ctx context.Context, opinionID int64) (*Opinion, error) {
	if err := validateID("opinionId", opinionID); err != nil {
		return nil, err
	}
	opinions, err := r.opinions(ctx, r.composer.OpinionByID(opinionID))
	if err != nil || len(opinions) == 0 {
		return nil, err
	}
	return &opinions[0], nil
}

func (r *Repository) OpinionsByIDs(ctx context.Context, ids []int64) ([]Opinion, error) {
	if err := validateIDs("ids", ids); err != nil {
		return nil, err
	}
	return r.opinions(ctx, r.composer.OpinionsByIDs(ids))
}

// OpinionsByTopic returns the published opinions on a topic, newest first.
func (r *Repository) OpinionsByTopic(ctx context.Context, topicID int64) ([]Opinion, error) {
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}
	return r.opinions(ctx, r.composer.OpinionsByTopic(topicID))
}

// OpinionDraftByUserTopic returns the author's newest draft on a topic, or nil.
func (r *Repository) OpinionDraftByUserTopic(ctx context.Context, userID, topicID int64) (*Opinion, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}
	opinions, err := r.opinions(ctx, r.composer.OpinionDraftByUserTopic(userID, topicID))
	if err != nil || len(opinions) == 0 {
		return nil, err
	}
	return &opinions[0], nil
}

func (r *Repository) OpinionIDsByTopic(ctx context.Context, topicID int64) ([]int64, error) {
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}
	res, err := r.run(ctx, r.composer.OpinionIDsByTopic(topicID))
	if err != nil {
		return nil, fmt.Errorf("failed to list opinion ids: %w", err)
	}
	ids := make([]int64, 0, len(res.Records))
	for _, record := range res.Records {
		ids = append(ids, getInt64FromRecord(record, "id"))
	}
	return ids, nil
}

func (r *Repository) AuthoredOpinion(ctx context.Context, authorID, topicID int64) (*Opinion, error) {
	if err := validateID("authorId", authorID); err != nil {
		return nil, err
	}
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}
	opinions, err := r.opinions(ctx, r.composer.AuthoredOpinion(authorID, topicID))
	if err != nil || len(opinions) == 0 {
		return nil, err
	}
	return &opinions[0], nil
}

func (r *Repository) opinions(ctx context.Context, q cypher.Query) ([]Opinion, error) {
	res, err := r.run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", q.Name, err)
	}
	opinions := make([]Opinion, 0, len(res.Records))
	for _, record := range res.Records {
		if opinion, ok := r.opinionFromRecord(record); ok {
			opinions = append(opinions, opinion)
		}
	}
	return opinions, nil
}

// opinionFromRecord reads the opinion, author, topic, qualifications and
// authorship columns shared by every opinion query. Missing optional
// columns leave the corresponding fields empty.
func (r *Repository) opinionFromRecord(record *neo4j.Record) (Opinion, bool) {
	node, ok := getNodeFromRecord(record, "opinion")
	if !ok {
		return Opinion{}, false
	}
	opinion := opinionFromNode(node)

	if author, ok := getNodeFromRecord(record, "author"); ok {
		p := personFromNode(author)
		opinion.Author = &p
	}
	if topic, ok := getNodeFromRecord(record, "topic"); ok {
		opinion.TopicID = toInt64(topic.Props["id"])
	}
	opinion.Qualifications = propsFromRecord(record, "qualifications")

	if _, ok := record.Get("authorship"); ok {
		opinion.State = r.composer.StateOf(getStringSliceFromRecord(record, "authorship"))
		opinion.Published = opinion.State == cypher.Published
	}
	return opinion, true
}
