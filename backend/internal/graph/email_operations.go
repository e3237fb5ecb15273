package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trustocracy/backend/internal/cypher"
)

// ============================================================================
// Email and Contact Operations
// ============================================================================

// AddEmailToUser attaches an address to an existing person. It reports false
// when the person does not exist; no Email is created in that case.
func (r *Repository) AddEmailToUser(ctx context.Context, userID int64, email string) (bool, error) {
	if err := validateID("userId", userID); err != nil {
		return false, err
	}
	if err := validateEmail("email", email); err != nil {
		return false, err
	}

	res, err := r.run(ctx, r.composer.AddEmailToUser(userID, email))
	if err != nil {
		return false, fmt.Errorf("failed to add email: %w", err)
	}
	return res.Counters.RelationshipsCreated > 0, nil
}

// AddEmailsToGraph creates a Contact and Email for every address. Addresses
// already in the graph are duplicated; callers filter with EmailsInGraph.
func (r *Repository) AddEmailsToGraph(ctx context.Context, emails []string) (int, error) {
	if err := validateEmails("emails", emails); err != nil {
		return 0, err
	}
	if len(emails) == 0 {
		return 0, nil
	}

	res, err := r.run(ctx, r.composer.AddEmailsToGraph(emails))
	if err != nil {
		return 0, fmt.Errorf("failed to add contacts: %w", err)
	}
	created := res.Counters.RelationshipsCreated
	r.logger.Info("Contacts created", zap.Int("count", created))
	return created, nil
}

// EmailsInGraph returns the Email nodes already present for the addresses.
func (r *Repository) EmailsInGraph(ctx context.Context, emails []string) ([]EmailOwner, error) {
	if err := validateEmails("emails", emails); err != nil {
		return nil, err
	}

	res, err := r.run(ctx, r.composer.EmailsInGraph(emails))
	if err != nil {
		return nil, fmt.Errorf("failed to look up emails: %w", err)
	}
	owners := make([]EmailOwner, 0, len(res.Records))
	for _, record := range res.Records {
		props := propsFromRecord(record, "email")
		if props == nil {
			continue
		}
		owners = append(owners, EmailOwner{
			Email:       getStringFromMap(props, "email", ""),
			OwnerLabels: getStringSliceFromRecord(record, "owner"),
		})
	}
	return owners, nil
}

// KnowAllUnconnectedEmails adds the owners of the addresses to the user's
// pool when the user has no edge to them yet, and returns how many were added.
func (r *Repository) KnowAllUnconnectedEmails(ctx context.Context, userID int64, emails []string) (int, error) {
	if err := validateID("userId", userID); err != nil {
		return 0, err
	}
	if err := validateEmails("emails", emails); err != nil {
		return 0, err
	}

	res, err := r.run(ctx, r.composer.KnowAllUnconnectedEmails(userID, emails))
	if err != nil {
		return 0, fmt.Errorf("failed to connect contacts: %w", err)
	}
	return res.Counters.RelationshipsCreated, nil
}

// ImportContacts adds the addresses not yet in the graph as contacts and
// puts every owner of the addresses in the user's pool.
func (r *Repository) ImportContacts(ctx context.Context, userID int64, emails []string) (int, error) {
	known, err := r.EmailsInGraph(ctx, emails)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(known))
	for _, owner := range known {
		seen[owner.Email] = true
	}
	fresh := make([]string, 0, len(emails))
	for _, email := range emails {
		if !seen[email] {
			seen[email] = true
			fresh = append(fresh, email)
		}
	}
	if _, err := r.AddEmailsToGraph(ctx, fresh); err != nil {
		return 0, err
	}
	return r.KnowAllUnconnectedEmails(ctx, userID, emails)
}

// UpgradeContactToPerson promotes the Contact owning email to a Person with
// the given identity. It returns nil when no Contact owns the address.
func (r *Repository) UpgradeContactToPerson(ctx context.Context, email string, person cypher.Person) (*Person, error) {
	if err := validateEmail("email", email); err != nil {
		return nil, err
	}
	if err := validatePerson(person); err != nil {
		return nil, err
	}

	upgraded, err := r.singlePerson(ctx, r.composer.UpgradeContactToPerson(email, person))
	if err != nil {
		return nil, err
	}
	if upgraded != nil {
		r.logger.Info("Contact upgraded to person", zap.Int64("user_id", upgraded.ID))
	}
	return upgraded, nil
}
