package cypher

import "fmt"

// ============================================================================
// Person and Email reads
// ============================================================================

func (c *Composer) User(userID int64) Query {
	return read("user", `
		MATCH (u:Person {id: $userId})
		RETURN u AS user
	`, map[string]any{"userId": userID})
}

// UserInfo returns the person, their email addresses and every outgoing
// person-to-person edge. People without an email still produce a row.
func (c *Composer) UserInfo(userID int64) Query {
	text := fmt.Sprintf(`
		MATCH (u:Person {id: $userId})
		OPTIONAL MATCH (u)-[%s]->(e:Email)
		WITH u, collect(e.email) AS emails
		OPTIONAL MATCH (u)-[r]->(f:Person)
		WITH u, emails, collect({friend: f, relationship: type(r)}) AS pairs
		RETURN u AS user, emails, [n IN pairs WHERE n.friend IS NOT NULL] AS neighbors
	`, c.rel.Type(HasEmail))
	return read("userInfo", text, map[string]any{"userId": userID})
}

// UserEmails returns the person and their addresses without neighbors.
func (c *Composer) UserEmails(userID int64) Query {
	text := fmt.Sprintf(`
		MATCH (u:Person {id: $userId})
		OPTIONAL MATCH (u)-[%s]->(e:Email)
		RETURN u AS user, collect(e.email) AS emails
	`, c.rel.Type(HasEmail))
	return read("userEmails", text, map[string]any{"userId": userID})
}

func (c *Composer) UserByEmail(email string) Query {
	text := fmt.Sprintf(`
		MATCH (e:Email)<-[%s]-(u:Person)
		WHERE e.email = $email
		RETURN u AS user
	`, c.rel.Type(HasEmail))
	return read("userByEmail", text, map[string]any{"email": email})
}

// EmailsInGraph finds Email nodes for the given addresses along with the
// labels of the Person or Contact that owns each one.
func (c *Composer) EmailsInGraph(emails []string) Query {
	text := fmt.Sprintf(`
		MATCH (e:Email)<-[%s]-(n)
		WHERE e.email IN $emails
		RETURN e AS email, labels(n) AS owner
	`, c.rel.Type(HasEmail))
	return read("emailsInGraph", text, map[string]any{"emails": stringList(emails)})
}

func (c *Composer) FacebookUser(fbUserID int64) Query {
	return read("fbUser", `
		MATCH (u:Person {fbUserId: $fbUserId})
		RETURN u AS user
	`, map[string]any{"fbUserId": fbUserID})
}

// GoogleUser matches on the string form of the Google id.
func (c *Composer) GoogleUser(gaUserID string) Query {
	return read("gaUser", `
		MATCH (u:Person {gaUserId: $gaUserId})
		RETURN u AS user
	`, map[string]any{"gaUserId": gaUserID})
}

// ============================================================================
// Location reads
// ============================================================================

func (c *Composer) UserByLocation(locationID int64) Query {
	text := fmt.Sprintf(`
		MATCH (l:Location {id: $locationId})<-[%s]-(p:Person)
		RETURN p AS user
	`, c.rel.Type(ConstituentOf))
	return read("userByLocation", text, map[string]any{"locationId": locationID})
}

func (c *Composer) LocationsByUser(userID int64) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person {id: $userId})-[%s]->(l:Location)
		MATCH (l)-[%s]->(country:Country)
		MATCH (l)-[%s]->(city:City)
		MATCH (l)-[%s]->(postal:Postal)
		RETURN l AS location, country, city, postal
		ORDER BY l.id
	`, c.rel.Type(ConstituentOf), c.rel.Type(Country), c.rel.Type(City), c.rel.Type(PostalCode))
	return read("locationsByUser", text, map[string]any{"userId": userID})
}

// ============================================================================
// Topics
// ============================================================================

// Topic returns the topic with the number of published opinions addressing it
// and the newest creation time among them.
func (c *Composer) Topic(topicID int64) Query {
	text := fmt.Sprintf(`
		MATCH (t:Topic {id: $topicId})
		OPTIONAL MATCH (t)<-[%s]-(o:Opinion)<-[%s]-(:Person)
		RETURN t AS topic, count(DISTINCT o) AS opinionCount, max(o.created) AS lastUpdated
	`, c.rel.Type(Addresses), c.rel.Type(Opines))
	return read("topic", text, map[string]any{"topicId": topicID})
}

func (c *Composer) Topics() Query {
	text := fmt.Sprintf(`
		MATCH (t:Topic)
		OPTIONAL MATCH (t)<-[%s]-(o:Opinion)<-[%s]-(:Person)
		RETURN t AS topic, count(DISTINCT o) AS opinionCount, max(o.created) AS lastUpdated
		ORDER BY t.id
	`, c.rel.Type(Addresses), c.rel.Type(Opines))
	return read("topics", text, nil)
}

// CreateTopic is idempotent on the topic id; the name is only set on creation.
func (c *Composer) CreateTopic(topicID int64, name string) Query {
	return write("createTopic", `
		MERGE (t:Topic {id: $topicId})
		ON CREATE SET t.name = $name
		RETURN t AS topic, 0 AS opinionCount, null AS lastUpdated
	`, map[string]any{"topicId": topicID, "name": name})
}
