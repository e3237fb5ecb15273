package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trustocracy/backend/internal/cypher"
)

// ============================================================================
// Location Operations
// ============================================================================

// ConnectUserToLocation creates a location for the user. It returns nil when
// the user does not exist; nothing is written in that case.
func (r *Repository) ConnectUserToLocation(ctx context.Context, userID, locationID int64, addr cypher.Address) (*Location, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateID("locationId", locationID); err != nil {
		return nil, err
	}
	for field, value := range map[string]string{
		"name":    addr.Name,
		"country": addr.Country,
		"city":    addr.City,
		"postal":  addr.Postal,
	} {
		if err := validateName(field, value); err != nil {
			return nil, err
		}
	}

	locations, err := r.locations(ctx, r.composer.ConnectUserToLocation(userID, locationID, addr))
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, nil
	}
	r.logger.Info("Location connected",
		zap.Int64("user_id", userID),
		zap.Int64("location_id", locationID),
	)
	return &locations[0], nil
}

// RemoveLocation deletes a location and its edges. It reports false when no
// location has the id.
func (r *Repository) RemoveLocation(ctx context.Context, locationID int64) (bool, error) {
	if err := validateID("locationId", locationID); err != nil {
		return false, err
	}
	res, err := r.run(ctx, r.composer.RemoveLocation(locationID))
	if err != nil {
		return false, fmt.Errorf("failed to remove location: %w", err)
	}
	removed := res.Counters.NodesDeleted > 0
	if removed {
		r.logger.Info("Location removed",
			zap.Int64("location_id", locationID),
			zap.Int("relationships_deleted", res.Counters.RelationshipsDeleted),
		)
	}
	return removed, nil
}

func (r *Repository) LocationsByUser(ctx context.Context, userID int64) ([]Location, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	return r.locations(ctx, r.composer.LocationsByUser(userID))
}

func (r *Repository) UserByLocation(ctx context.Context, locationID int64) ([]Person, error) {
	if err := validateID("locationId", locationID); err != nil {
		return nil, err
	}
	return r.people(ctx, r.composer.UserByLocation(locationID))
}

func (r *Repository) locations(ctx context.Context, q cypher.Query) ([]Location, error) {
	res, err := r.run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", q.Name, err)
	}
	locations := make([]Location, 0, len(res.Records))
	for _, record := range res.Records {
		node, ok := getNodeFromRecord(record, "location")
		if !ok {
			continue
		}
		locations = append(locations, Location{
			ID:      toInt64(node.Props["id"]),
			Name:    getStringFromMap(node.Props, "name", ""),
			Country: nameOf(record, "country"),
			City:    nameOf(record, "city"),
			Postal:  nameOf(record, "postal"),
		})
	}
	return locations, nil
}
