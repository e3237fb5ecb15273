package graph

import (
	"context"
	"fmt"

	"trustocracy/backend/internal/cypher"
)

// ============================================================================
// Influence Traversals
// ============================================================================

// Nearest returns the published opinions on a topic reachable from the user
// through a short FOLLOWS chain, one row per path.
func (r *Repository) Nearest(ctx context.Context, userID, topicID int64) ([]InfluencePath, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}

	res, err := r.run(ctx, r.composer.Nearest(userID, topicID))
	if err != nil {
		return nil, fmt.Errorf("failed to find nearest opinions: %w", err)
	}
	paths := make([]InfluencePath, 0, len(res.Records))
	for _, record := range res.Records {
		friend, ok := getNodeFromRecord(record, "friend")
		if !ok {
			continue
		}
		author, ok := getNodeFromRecord(record, "author")
		if !ok {
			continue
		}
		opinion, ok := getNodeFromRecord(record, "opinion")
		if !ok {
			continue
		}
		relationship, _ := record.Get("relationship")
		rel, _ := relationship.(string)
		paths = append(paths, InfluencePath{
			Relationship: rel,
			Friend:       personFromNode(friend),
			Path:         getStringSliceFromRecord(record, "path"),
			Author:       personFromNode(author),
			Opinion:      opinionFromNode(opinion),
		})
	}
	return paths, nil
}

// Connected groups the reachable published opinions on a topic with every
// route from the user to their authors.
func (r *Repository) Connected(ctx context.Context, userID, topicID int64) ([]ConnectedOpinion, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateID("topicId", topicID); err != nil {
		return nil, err
	}

	res, err := r.run(ctx, r.composer.Connected(userID, topicID))
	if err != nil {
		return nil, fmt.Errorf("failed to find connected opinions: %w", err)
	}
	opinions := make([]ConnectedOpinion, 0, len(res.Records))
	for _, record := range res.Records {
		opinion, ok := getNodeFromRecord(record, "opinion")
		if !ok {
			continue
		}
		author, ok := getNodeFromRecord(record, "author")
		if !ok {
			continue
		}
		connected := ConnectedOpinion{
			Opinion:        opinionFromNode(opinion),
			Author:         personFromNode(author),
			Connections:    []Connection{},
			Qualifications: propsFromRecord(record, "qualifications"),
		}
		connected.Opinion.Published = true
		connected.Opinion.State = cypher.Published
		if raw, ok := record.Get("connections"); ok {
			if list, ok := raw.([]interface{}); ok {
				for _, item := range list {
					m, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					friend, ok := personFromValue(m["friend"])
					if !ok {
						continue
					}
					connected.Connections = append(connected.Connections, Connection{
						Relationship: getStringFromMap(m, "relationship", ""),
						Friend:       friend,
						Path:         toStringSlice(m["path"]),
					})
				}
			}
		}
		opinions = append(opinions, connected)
	}
	return opinions, nil
}

// ============================================================================
// Stored Procedures
// ============================================================================

// The procedures live in the database; their rows are returned as plain maps
// keyed by column name.

func (r *Repository) ConnectedOpinions(ctx context.Context, userID, topicID int64) ([]map[string]any, error) {
	if err := validatePairIDs(userID, topicID); err != nil {
		return nil, err
	}
	return r.procedure(ctx, r.composer.ConnectedOpinions(userID, topicID))
}

func (r *Repository) FriendsAuthors(ctx context.Context, userID, topicID int64) ([]map[string]any, error) {
	if err := validatePairIDs(userID, topicID); err != nil {
		return nil, err
	}
	return r.procedure(ctx, r.composer.FriendsAuthors(userID, topicID))
}

func (r *Repository) Friends(ctx context.Context, userID int64) ([]map[string]any, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	return r.procedure(ctx, r.composer.Friends(userID))
}

func (r *Repository) MeasureInfluence(ctx context.Context, userID, topicID int64) ([]map[string]any, error) {
	if err := validatePairIDs(userID, topicID); err != nil {
		return nil, err
	}
	return r.procedure(ctx, r.composer.MeasureInfluence(userID, topicID))
}

// SetTarget marks targetID as the user's chosen delegate on a topic.
func (r *Repository) SetTarget(ctx context.Context, userID, targetID, topicID int64) error {
	if err := validatePair(userID, targetID); err != nil {
		return err
	}
	if err := validateID("topicId", topicID); err != nil {
		return err
	}
	if _, err := r.procedure(ctx, r.composer.SetTarget(userID, targetID, topicID)); err != nil {
		return err
	}
	return nil
}

func (r *Repository) ClearTarget(ctx context.Context, userID, topicID int64) error {
	if err := validatePairIDs(userID, topicID); err != nil {
		return err
	}
	if _, err := r.procedure(ctx, r.composer.ClearTarget(userID, topicID)); err != nil {
		return err
	}
	return nil
}

func (r *Repository) procedure(ctx context.Context, q cypher.Query) ([]map[string]any, error) {
	res, err := r.run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", q.Name, err)
	}
	rows := make([]map[string]any, 0, len(res.Records))
	for _, record := range res.Records {
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = record.Values[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validatePairIDs(userID, topicID int64) error {
	if err := validateID("userId", userID); err != nil {
		return err
	}
	return validateID("topicId", topicID)
}
