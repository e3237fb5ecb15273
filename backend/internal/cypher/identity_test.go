package cypher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEmailToUser_MatchesBeforeCreating(t *testing.T) {
	q := newTestComposer().AddEmailToUser(1, "jo@x.com")
	text := compact(q.Text)

	assert.Contains(t, text, "MATCH (u:Person {id: $userId}) CREATE (u)-[:HAS_EMAIL]->(e:Email {email: $email})")
	assert.Equal(t, map[string]any{"userId": int64(1), "email": "jo@x.com"}, q.Params)
}

func TestAddEmailsToGraph_OnePairPerAddress(t *testing.T) {
	q := newTestComposer().AddEmailsToGraph([]string{"a@x.com", "b@x.com"})
	text := compact(q.Text)

	assert.Contains(t, text, "CREATE (:Contact)-[:HAS_EMAIL]->(:Email {email: address})")
	assert.NotContains(t, text, "MERGE")
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, q.Params["emails"])
}

func TestUpgradeContactToPerson_Atomic(t *testing.T) {
	q := newTestComposer().UpgradeContactToPerson("e@x.com", Person{ID: 5, Name: "Jo"})
	text := compact(q.Text)

	assert.Contains(t, text, "MATCH (c:Contact)-[:HAS_EMAIL]->(e:Email {email: $email}) WITH DISTINCT c ORDER BY elementId(c) LIMIT 1 REMOVE c:Contact SET c:Person, c += $person")
	assert.NotContains(t, text, "DELETE")
	assert.Equal(t, map[string]any{"id": int64(5), "name": "Jo"}, q.Params["person"])
}

func TestKnowAllUnconnectedEmails(t *testing.T) {
	q := newTestComposer().KnowAllUnconnectedEmails(1, []string{"a@x.com"})
	text := compact(q.Text)

	assert.Contains(t, text, "NOT EXISTS { (u)-->(n) }")
	assert.Contains(t, text, "CREATE (u)-[:KNOWS]->(n)")
}

func TestConnectUserToLocation(t *testing.T) {
	q := newTestComposer().ConnectUserToLocation(1, 10, Address{Name: "HQ", Country: "USA", City: "NYC", Postal: "10001"})
	text := compact(q.Text)

	assert.True(t, strings.Index(text, "MATCH (p:Person") < strings.Index(text, "MERGE (co:Country"),
		"person must be matched before hierarchy nodes are merged")
	assert.Contains(t, text, "MERGE (co:Country {name: $country}) MERGE (ci:City {name: $city}) MERGE (po:Postal {name: $postal})")
	assert.Contains(t, text, "CREATE (p)-[:CONSTITUENT_OF]->(l:Location {id: $locationId, name: $locationName})")
	assert.Contains(t, text, "CREATE (l)-[:COUNTRY]->(co), (l)-[:CITY]->(ci), (l)-[:POSTAL]->(po)")
	assert.NotContains(t, text, "MERGE (l")
	assert.Equal(t, map[string]any{
		"userId":       int64(1),
		"locationId":   int64(10),
		"locationName": "HQ",
		"country":      "USA",
		"city":         "NYC",
		"postal":       "10001",
	}, q.Params)
}

func TestRemoveLocation(t *testing.T) {
	q := newTestComposer().RemoveLocation(10)
	text := compact(q.Text)

	assert.Contains(t, text, "MATCH (l:Location {id: $locationId})")
	assert.Contains(t, text, "OPTIONAL MATCH (l)<-[cf:CONSTITUENT_OF]-(:Person)")
	assert.Contains(t, text, "OPTIONAL MATCH (l)-[h:COUNTRY|CITY|POSTAL]->()")
	assert.Contains(t, text, "DETACH DELETE l")
	assert.NotContains(t, text, "DELETE co")
	assert.Equal(t, map[string]any{"locationId": int64(10)}, q.Params)
}
