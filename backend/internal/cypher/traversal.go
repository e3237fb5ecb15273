package cypher

import "fmt"

// ============================================================================
// Influence traversals
// ============================================================================

// Nearest walks from the user through a FOLLOWS edge and at most two more
// FOLLOWS hops to authors who published on the topic.
func (c *Composer) Nearest(userID, topicID int64) Query {
	follows := c.rel.Type(Follows)
	text := fmt.Sprintf(`
		MATCH (p:Person {id: $userId})-[fr%s]->(f:Person)-[rs%s]->(ff:Person)-[%s]->(o:Opinion)-[%s]->(t:Topic {id: $topicId})
		RETURN type(fr) AS relationship, f AS friend, [r IN rs | type(r)] AS path, ff AS author, o AS opinion
	`, follows, c.rel.Path(Follows, NearestReach), c.rel.Type(Opines), c.rel.Type(Addresses))
	return read("nearest", text, map[string]any{"userId": userID, "topicId": topicID})
}

// Connected returns every published opinion on the topic whose author is
// within three FOLLOWS hops of someone the user follows, with the
// connecting paths collected per opinion.
func (c *Composer) Connected(userID, topicID int64) Query {
	text := fmt.Sprintf(`
		MATCH (author:Person)-[%s]->(o:Opinion)-[%s]->(t:Topic {id: $topicId})
		WITH o, author
		MATCH (u:Person {id: $userId})-[fr%s]->(f:Person)-[rs%s]->(author)
		OPTIONAL MATCH (o)<-[:%s]-(q:Qualifications)
		RETURN o AS opinion, author, collect({relationship: type(fr), friend: f, path: [r IN rs | type(r)]}) AS connections, q AS qualifications
	`, c.rel.Type(Opines), c.rel.Type(Addresses), c.rel.Type(Follows), c.rel.Path(Follows, ConnectedReach), qualifiesEdge)
	return read("connected", text, map[string]any{"userId": userID, "topicId": topicID})
}

// ============================================================================
// Stored procedures
// ============================================================================

func (c *Composer) ConnectedOpinions(userID, topicID int64) Query {
	return read("connectedOpinions", `CALL friend.author.opinion($userId, $topicId)`,
		map[string]any{"userId": userID, "topicId": topicID})
}

func (c *Composer) FriendsAuthors(userID, topicID int64) Query {
	return read("friendsAuthors", `CALL friend.author($userId, $topicId)`,
		map[string]any{"userId": userID, "topicId": topicID})
}

func (c *Composer) Friends(userID int64) Query {
	return read("friends", `CALL friend($userId)`, map[string]any{"userId": userID})
}

func (c *Composer) MeasureInfluence(userID, topicID int64) Query {
	return read("measureInfluence", `CALL measure.influence($userId, $topicId)`,
		map[string]any{"userId": userID, "topicId": topicID})
}

// RankDelegates stores the user's delegate ranking, most trusted first.
func (c *Composer) RankDelegates(userID int64, delegateIDs []int64) Query {
	return write("rankDelegates", `CALL dirty.ranked.set($userId, $targetIds)`,
		map[string]any{"userId": userID, "targetIds": idList(delegateIDs)})
}

func (c *Composer) SetTarget(userID, targetID, topicID int64) Query {
	return write("setTarget", `CALL dirty.target.set($userId, $targetId, $topicId)`,
		map[string]any{"userId": userID, "targetId": targetID, "topicId": topicID})
}

func (c *Composer) ClearTarget(userID, topicID int64) Query {
	return write("clearTarget", `CALL dirty.target.clear($userId, $topicId)`,
		map[string]any{"userId": userID, "topicId": topicID})
}
