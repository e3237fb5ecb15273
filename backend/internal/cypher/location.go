package cypher

import "fmt"

// Address names the hierarchy a Location hangs from.
type Address struct {
	Name    string
	Country string
	City    string
	Postal  string
}

// ConnectUserToLocation creates a new Location for the user and links it to
// Country, City and Postal nodes, reusing any that already carry the same
// name. The Person is matched first, so an unknown user creates nothing.
func (c *Composer) ConnectUserToLocation(userID, locationID int64, addr Address) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person {id: $userId})
		MERGE (co:Country {name: $country})
		MERGE (ci:City {name: $city})
		MERGE (po:Postal {name: $postal})
		CREATE (p)-[%s]->(l:Location {id: $locationId, name: $locationName})
		CREATE (l)-[%s]->(co), (l)-[%s]->(ci), (l)-[%s]->(po)
		RETURN l AS location, co AS country, ci AS city, po AS postal
	`, c.rel.Type(ConstituentOf), c.rel.Type(Country), c.rel.Type(City), c.rel.Type(PostalCode))
	return write("connectUserToLocation", text, map[string]any{
		"userId":       userID,
		"locationId":   locationID,
		"locationName": addr.Name,
		"country":      addr.Country,
		"city":         addr.City,
		"postal":       addr.Postal,
	})
}

// RemoveLocation deletes the Location together with its CONSTITUENT_OF and
// hierarchy edges. Country, City and Postal nodes are shared and stay. A
// missing Location matches nothing and deletes nothing.
func (c *Composer) RemoveLocation(locationID int64) Query {
	text := fmt.Sprintf(`
		MATCH (l:Location {id: $locationId})
		OPTIONAL MATCH (l)<-[cf%s]-(:Person)
		OPTIONAL MATCH (l)-[h%s|%s|%s]->()
		DELETE cf, h
		WITH DISTINCT l
		DETACH DELETE l
	`, c.rel.Type(ConstituentOf),
		c.rel.Type(Country), c.rel.Token(City), c.rel.Token(PostalCode))
	return write("removeLocation", text, map[string]any{"locationId": locationID})
}
