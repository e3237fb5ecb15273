package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trustocracy/backend/internal/cypher"
)

// ============================================================================
// User Operations
// ============================================================================

// User returns the Person with the given id, or nil.
func (r *Repository) User(ctx context.Context, userID int64) (*Person, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	return r.singlePerson(ctx, r.composer.User(userID))
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*Person, error) {
	if err := validateEmail("email", email); err != nil {
		return nil, err
	}
	return r.singlePerson(ctx, r.composer.UserByEmail(email))
}

func (r *Repository) FacebookUser(ctx context.Context, fbUserID int64) (*Person, error) {
	if err := validateID("fbUserId", fbUserID); err != nil {
		return nil, err
	}
	return r.singlePerson(ctx, r.composer.FacebookUser(fbUserID))
}

func (r *Repository) GoogleUser(ctx context.Context, gaUserID string) (*Person, error) {
	if err := validateExternalID("gaUserId", gaUserID); err != nil {
		return nil, err
	}
	return r.singlePerson(ctx, r.composer.GoogleUser(gaUserID))
}

// UserInfo returns the person with emails and neighbors, or nil.
func (r *Repository) UserInfo(ctx context.Context, userID int64) (*UserInfo, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	res, err := r.run(ctx, r.composer.UserInfo(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	record := first(res)
	if record == nil {
		return nil, nil
	}
	node, ok := getNodeFromRecord(record, "user")
	if !ok {
		return nil, nil
	}

	info := &UserInfo{
		User:      personFromNode(node),
		Emails:    getStringSliceFromRecord(record, "emails"),
		Neighbors: []Neighbor{},
	}
	if raw, ok := record.Get("neighbors"); ok {
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
				info.Neighbors = append(info.Neighbors, Neighbor{
					Person:       friend,
					Relationship: getStringFromMap(m, "relationship", ""),
				})
			}
		}
	}
	return info, nil
}

// UserEmails returns the addresses attached to a person.
func (r *Repository) UserEmails(ctx context.Context, userID int64) ([]string, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	res, err := r.run(ctx, r.composer.UserEmails(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user emails: %w", err)
	}
	record := first(res)
	if record == nil {
		return []string{}, nil
	}
	return getStringSliceFromRecord(record, "emails"), nil
}

// Profile loads user info and locations concurrently.
func (r *Repository) Profile(ctx context.Context, userID int64) (*Profile, error) {
	var (
		info      *UserInfo
		locations []Location
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = r.UserInfo(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = r.LocationsByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	return &Profile{UserInfo: *info, Locations: locations}, nil
}

// CreateUser creates a Person from a full identity payload.
func (r *Repository) CreateUser(ctx context.Context, person cypher.Person) (*Person, error) {
	if err := validatePerson(person); err != nil {
		return nil, err
	}
	return r.createPerson(ctx, r.composer.CreateUser(person))
}

func (r *Repository) CreateFacebookUser(ctx context.Context, userID, fbUserID int64, name string) (*Person, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateID("fbUserId", fbUserID); err != nil {
		return nil, err
	}
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	return r.createPerson(ctx, r.composer.CreateFacebookUser(userID, fbUserID, name))
}

func (r *Repository) CreateGoogleUser(ctx context.Context, userID int64, gaUserID, name string) (*Person, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}
	if err := validateExternalID("gaUserId", gaUserID); err != nil {
		return nil, err
	}
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	return r.createPerson(ctx, r.composer.CreateGoogleUser(userID, gaUserID, name))
}

func (r *Repository) createPerson(ctx context.Context, q cypher.Query) (*Person, error) {
	person, err := r.singlePerson(ctx, q)
	if err != nil {
		return nil, err
	}
	if person != nil {
		r.logger.Info("Person created",
			zap.String("operation", q.Name),
			zap.Int64("user_id", person.ID),
		)
	}
	return person, nil
}

func (r *Repository) singlePerson(ctx context.Context, q cypher.Query) (*Person, error) {
	res, err := r.run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", q.Name, err)
	}
	record := first(res)
	if record == nil {
		return nil, nil
	}
	node, ok := getNodeFromRecord(record, "user")
	if !ok {
		return nil, nil
	}
	person := personFromNode(node)
	return &person, nil
}

func (r *Repository) people(ctx context.Context, q cypher.Query) ([]Person, error) {
	res, err := r.run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", q.Name, err)
	}
	people := make([]Person, 0, len(res.Records))
	for _, record := range res.Records {
		if node, ok := getNodeFromRecord(record, "user"); ok {
			people = append(people, personFromNode(node))
		}
	}
	return people, nil
}

func validatePerson(person cypher.Person) error {
	if err := validateID("id", person.ID); err != nil {
		return err
	}
	if person.Name != "" {
		if err := validateName("name", person.Name); err != nil {
			return err
		}
	}
	if person.FbUserID != nil {
		if err := validateID("fbUserId", *person.FbUserID); err != nil {
			return err
		}
	}
	if person.GaUserID != "" {
		if err := validateExternalID("gaUserId", person.GaUserID); err != nil {
			return err
		}
	}
	return nil
}
