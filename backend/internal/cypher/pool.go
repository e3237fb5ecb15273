package cypher

import "fmt"

// Delegate is a person the user routes trust through, and the kind of
// edge that expresses it.
type Delegate struct {
	ID           int64
	Relationship string
}

func (c *Composer) AddToPool(userID, targetID int64) Query {
	return c.createUserEdge("addToPool", c.rel.Token(Knows), userID, targetID)
}

func (c *Composer) RemoveFromPool(userID, targetID int64) Query {
	return c.deleteUserEdge("removeFromPool", c.rel.Token(Knows), userID, targetID)
}

// AddDelegate creates the delegate edge. The relationship must be one of
// the registry's delegate kinds; nothing is composed otherwise.
func (c *Composer) AddDelegate(userID int64, d Delegate) (Query, error) {
	token, err := c.rel.DelegateEdge(d.Relationship)
	if err != nil {
		return Query{}, err
	}
	return c.createUserEdge("addDelegate", token, userID, d.ID), nil
}

// RemoveDelegate deletes only the edge of the named kind.
func (c *Composer) RemoveDelegate(userID int64, d Delegate) (Query, error) {
	token, err := c.rel.DelegateEdge(d.Relationship)
	if err != nil {
		return Query{}, err
	}
	return c.deleteUserEdge("removeDelegate", token, userID, d.ID), nil
}

func (c *Composer) GetPooled(userID int64) Query {
	text := fmt.Sprintf(`
		MATCH (u:Person {id: $userId})-[%s]->(f:Person)
		RETURN f AS user
		ORDER BY f.id
	`, c.rel.Type(Knows))
	return read("getPooled", text, map[string]any{"userId": userID})
}

// createUserEdge and deleteUserEdge are the only person-to-person edge
// writers. token must come from the registry.
func (c *Composer) createUserEdge(name, token string, fromID, toID int64) Query {
	return write(name, fmt.Sprintf(`
		MATCH (from:Person {id: $fromId}), (to:Person {id: $toId})
		MERGE (from)-[:%s]->(to)
	`, token), map[string]any{"fromId": fromID, "toId": toID})
}

func (c *Composer) deleteUserEdge(name, token string, fromID, toID int64) Query {
	return write(name, fmt.Sprintf(`
		MATCH (from:Person {id: $fromId})-[r:%s]->(to:Person {id: $toId})
		DELETE r
	`, token), map[string]any{"fromId": fromID, "toId": toID})
}
