package graph

import (
	"context"
	"errors"
	"fmt"

	"trustocracy/backend/internal/cypher"
	apperrors "trustocracy/backend/pkg/errors"
)

// ============================================================================
// Pool and Delegate Operations
// ============================================================================

// AddToPool returns the number of KNOWS edges created; zero when either
// person is missing or the edge already exists.
func (r *Repository) AddToPool(ctx context.Context, userID, targetID int64) (int, error) {
	if err := validatePair(userID, targetID); err != nil {
		return 0, err
	}
	return r.edgeWrite(ctx, r.composer.AddToPool(userID, targetID))
}

func (r *Repository) RemoveFromPool(ctx context.Context, userID, targetID int64) (int, error) {
	if err := validatePair(userID, targetID); err != nil {
		return 0, err
	}
	return r.edgeWrite(ctx, r.composer.RemoveFromPool(userID, targetID))
}

func (r *Repository) AddDelegate(ctx context.Context, userID int64, d cypher.Delegate) (int, error) {
	if err := validatePair(userID, d.ID); err != nil {
		return 0, err
	}
	q, err := r.composer.AddDelegate(userID, d)
	if err != nil {
		return 0, relationshipError(d.Relationship, err)
	}
	return r.edgeWrite(ctx, q)
}

func (r *Repository) RemoveDelegate(ctx context.Context, userID int64, d cypher.Delegate) (int, error) {
	if err := validatePair(userID, d.ID); err != nil {
		return 0, err
	}
	q, err := r.composer.RemoveDelegate(userID, d)
	if err != nil {
		return 0, relationshipError(d.Relationship, err)
	}
	return r.edgeWrite(ctx, q)
}

// GetPooled returns the people in the user's pool.
func (r *Repository) GetPooled(ctx context.Context, userID int64) ([]Person, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	return r.people(ctx, r.composer.GetPooled(userID))
}

// RankDelegates stores the delegate ranking through the ranking procedure.
func (r *Repository) RankDelegates(ctx context.Context, userID int64, delegateIDs []int64) error {
	if err := validateID("userId", userID); err != nil {
		return err
	}
	if err := validateIDs("delegateIds", delegateIDs); err != nil {
		return err
	}
	if _, err := r.run(ctx, r.composer.RankDelegates(userID, delegateIDs)); err != nil {
		return fmt.Errorf("failed to rank delegates: %w", err)
	}
	return nil
}

// edgeWrite reports created edges for creating queries and deleted edges
// for deleting ones.
func (r *Repository) edgeWrite(ctx context.Context, q cypher.Query) (int, error) {
	res, err := r.run(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", q.Name, err)
	}
	return res.Counters.RelationshipsCreated + res.Counters.RelationshipsDeleted, nil
}

func validatePair(userID, targetID int64) error {
	if err := validateID("userId", userID); err != nil {
		return err
	}
	if err := validateID("targetId", targetID); err != nil {
		return err
	}
	if userID == targetID {
		return apperrors.NewInvalidInput("targetId", "must differ from userId")
	}
	return nil
}

func relationshipError(kind string, err error) error {
	var unknown cypher.ErrUnknownRelationship
	if errors.As(err, &unknown) {
		return apperrors.NewUnknownRelationship(kind, err)
	}
	return err
}
