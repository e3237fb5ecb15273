package cypher

import "fmt"

// ============================================================================
// Identity resolution
// ============================================================================

// CreateUser creates a Person from a full identity payload.
func (c *Composer) CreateUser(person Person) Query {
	return c.createPerson("createUser", person)
}

func (c *Composer) CreateFacebookUser(userID, fbUserID int64, name string) Query {
	return c.createPerson("createFacebookUser", Person{ID: userID, Name: name, FbUserID: &fbUserID})
}

func (c *Composer) CreateGoogleUser(userID int64, gaUserID, name string) Query {
	return c.createPerson("createGoogleUser", Person{ID: userID, Name: name, GaUserID: gaUserID})
}

func (c *Composer) createPerson(name string, person Person) Query {
	return write(name, `
		CREATE (p:Person)
		SET p = $person
		RETURN p AS user
	`, map[string]any{"person": person.Properties()})
}

// AddEmailToUser attaches a new Email to an existing Person. When the id
// does not resolve the MATCH yields no row and no Email is created.
func (c *Composer) AddEmailToUser(userID int64, email string) Query {
	text := fmt.Sprintf(`
		MATCH (u:Person {id: $userId})
		CREATE (u)-[%s]->(e:Email {email: $email})
		RETURN e AS email
	`, c.rel.Type(HasEmail))
	return write("addEmailToUser", text, map[string]any{"userId": userID, "email": email})
}

// AddEmailsToGraph creates one Contact and Email pair per address. It does
// not look for existing Email nodes, so repeating an address duplicates it.
func (c *Composer) AddEmailsToGraph(emails []string) Query {
	text := fmt.Sprintf(`
		UNWIND $emails AS address
		CREATE (:Contact)-[%s]->(:Email {email: address})
	`, c.rel.Type(HasEmail))
	return write("addEmailsToGraph", text, map[string]any{"emails": stringList(emails)})
}

// KnowAllUnconnectedEmails adds KNOWS from the user to every owner of the
// given addresses that the user has no edge to yet.
func (c *Composer) KnowAllUnconnectedEmails(userID int64, emails []string) Query {
	text := fmt.Sprintf(`
		MATCH (u:Person {id: $userId})
		MATCH (e:Email)<-[%s]-(n)
		WHERE e.email IN $emails AND n <> u
		WITH DISTINCT u, n
		WHERE NOT EXISTS { (u)-->(n) }
		CREATE (u)-[%s]->(n)
	`, c.rel.Type(HasEmail), c.rel.Type(Knows))
	return write("knowAllUnconnectedEmails", text, map[string]any{
		"userId": userID,
		"emails": stringList(emails),
	})
}

// UpgradeContactToPerson promotes the Contact owning email to a Person.
// The label swap and the property assignment share one statement, and the
// node keeps its identity, so HAS_EMAIL and every other edge survive.
// Imports may leave several Contacts on one address; exactly one of them,
// chosen by element id, is upgraded.
func (c *Composer) UpgradeContactToPerson(email string, person Person) Query {
	text := fmt.Sprintf(`
		MATCH (c:Contact)-[%s]->(e:Email {email: $email})
		WITH DISTINCT c
		ORDER BY elementId(c)
		LIMIT 1
		REMOVE c:Contact
		SET c:Person, c += $person
		RETURN c AS user
	`, c.rel.Type(HasEmail))
	return write("upgradeContactToPerson", text, map[string]any{
		"email":  email,
		"person": person.Properties(),
	})
}
