package cypher

import (
	"fmt"
	"slices"
)

// State is where an opinion sits in its lifecycle, judged from the edges
// its author holds to it.
type State int

const (
	// Absent means the author holds no authorship edge to the opinion.
	Absent State = iota
	// Draft means THINKS without OPINES. Unpublishing returns here.
	Draft
	// Published means OPINES is present.
	Published
)

func (s State) String() string {
	switch s {
	case Draft:
		return "draft"
	case Published:
		return "published"
	default:
		return "absent"
	}
}

// StateOf classifies the edge types an author holds to an opinion.
func (c *Composer) StateOf(authorship []string) State {
	switch {
	case slices.Contains(authorship, c.rel.Token(Opines)):
		return Published
	case slices.Contains(authorship, c.rel.Token(Thinks)):
		return Draft
	default:
		return Absent
	}
}

// authorship lists the edge types from p to o in a result row.
const authorship = `[(p)-[r]->(o) | type(r)] AS authorship`

// ============================================================================
// Transitions
// ============================================================================

// CreateOpinion creates a draft: the Opinion, its Qualifications, and the
// THINKS, ADDRESSES and QUALIFIES edges in one statement. Nothing is created
// unless both the person and the topic exist.
func (c *Composer) CreateOpinion(userID, topicID int64, draft OpinionDraft, q Qualifications) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person {id: $userId}), (t:Topic {id: $topicId})
		CREATE
			(p)-[%s]->(o:Opinion)-[%s]->(t),
			(q:Qualifications)-[:%s]->(o)
		SET
			o = $opinion,
			o.created = timestamp(),
			q = $qualifications
		RETURN o AS opinion, p AS author, t AS topic, q AS qualifications, %s
	`, c.rel.Type(Thinks), c.rel.Type(Addresses), qualifiesEdge, authorship)
	return write("createOpinion", text, map[string]any{
		"userId":         userID,
		"topicId":        topicID,
		"opinion":        draft.Properties(),
		"qualifications": q.Properties(),
	})
}

// PublishOpinion adds OPINES alongside an existing THINKS edge from the same
// author. Without that draft edge nothing matches. Publishing twice leaves a
// single OPINES edge.
func (c *Composer) PublishOpinion(userID, opinionID int64) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person {id: $userId})-[%s]->(o:Opinion {id: $opinionId})
		MERGE (p)-[%s]->(o)
		RETURN o.id AS id
	`, c.rel.Type(Thinks), c.rel.Type(Opines))
	return write("publishOpinion", text, map[string]any{"userId": userID, "opinionId": opinionID})
}

// UnpublishOpinion deletes only the author's OPINES edge. THINKS and the
// opinion stay, so the opinion is a draft again.
func (c *Composer) UnpublishOpinion(userID, opinionID int64) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person {id: $userId})-[r%s]->(o:Opinion {id: $opinionId})
		DELETE r
	`, c.rel.Type(Opines))
	return write("unpublishOpinion", text, map[string]any{"userId": userID, "opinionId": opinionID})
}

// ============================================================================
// Opinion reads
// ============================================================================

func (c *Composer) OpinionByID(opinionID int64) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person)-[%s]->(o:Opinion {id: $opinionId})
		OPTIONAL MATCH (o)-[%s]->(t:Topic)
		OPTIONAL MATCH (o)<-[:%s]-(q:Qualifications)
		RETURN o AS opinion, p AS author, t AS topic, q AS qualifications, %s
	`, c.rel.Type(Thinks), c.rel.Type(Addresses), qualifiesEdge, authorship)
	return read("opinionById", text, map[string]any{"opinionId": opinionID})
}

func (c *Composer) OpinionsByIDs(ids []int64) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person)-[%s]->(o:Opinion)
		WHERE o.id IN $ids
		OPTIONAL MATCH (o)-[%s]->(t:Topic)
		OPTIONAL MATCH (o)<-[:%s]-(q:Qualifications)
		RETURN o AS opinion, p AS author, t AS topic, q AS qualifications, %s
	`, c.rel.Type(Thinks), c.rel.Type(Addresses), qualifiesEdge, authorship)
	return read("opinionsByIds", text, map[string]any{"ids": idList(ids)})
}

// OpinionsByTopic returns published opinions only.
func (c *Composer) OpinionsByTopic(topicID int64) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person)-[%s]->(o:Opinion)-[%s]->(t:Topic {id: $topicId})
		OPTIONAL MATCH (o)<-[:%s]-(q:Qualifications)
		RETURN o AS opinion, p AS author, t AS topic, q AS qualifications, %s
		ORDER BY o.created DESC
	`, c.rel.Type(Opines), c.rel.Type(Addresses), qualifiesEdge, authorship)
	return read("opinionsByTopic", text, map[string]any{"topicId": topicID})
}

// OpinionIDsByTopic follows the DISCUSSED_BY index edge.
func (c *Composer) OpinionIDsByTopic(topicID int64) Query {
	return read("opinionIdsByTopic", fmt.Sprintf(`
		MATCH (t:Topic {id: $topicId})-[:%s]->(o:Opinion)
		RETURN o.id AS id
	`, discussedByEdge), map[string]any{"topicId": topicID})
}

// AuthoredOpinion follows the per-topic AUTHORED_<topicId> edge.
func (c *Composer) AuthoredOpinion(authorID, topicID int64) Query {
	return read("authoredOpinion", fmt.Sprintf(`
		MATCH (author:Person {id: $authorId})-[:%s]->(o:Opinion)
		RETURN o AS opinion
	`, authoredEdge(topicID)), map[string]any{"authorId": authorID})
}

// OpinionDraftByUserTopic returns the author's newest draft on a topic.
func (c *Composer) OpinionDraftByUserTopic(userID, topicID int64) Query {
	text := fmt.Sprintf(`
		MATCH (p:Person {id: $userId})-[%s]->(o:Opinion)-[%s]->(t:Topic {id: $topicId})
		OPTIONAL MATCH (o)<-[:%s]-(q:Qualifications)
		RETURN o AS opinion, p AS author, t AS topic, q AS qualifications, %s
		ORDER BY o.created DESC
		LIMIT 1
	`, c.rel.Type(Thinks), c.rel.Type(Addresses), qualifiesEdge, authorship)
	return read("opinionDraftByUserTopic", text, map[string]any{"userId": userID, "topicId": topicID})
}
