package graph

import (
	"time"

	"trustocracy/backend/internal/cypher"
)

// ============================================================================
// Graph Types
// ============================================================================

// Person is a Person node, or a Contact when read through an email owner
type Person struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name,omitempty"`
	FbUserID int64    `json:"fbUserId,omitempty"`
	GaUserID string   `json:"gaUserId,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

// Neighbor is a person reached by an outgoing edge of the given type
type Neighbor struct {
	Person       Person `json:"friend"`
	Relationship string `json:"relationship"`
}

// UserInfo aggregates a person with their addresses and direct neighbors
type UserInfo struct {
	User      Person     `json:"user"`
	Emails    []string   `json:"emails"`
	Neighbors []Neighbor `json:"neighbors"`
}

// Profile is the person with their addresses, neighbors and locations
type Profile struct {
	UserInfo
	Locations []Location `json:"locations"`
}

// EmailOwner is an Email node and the labels of the node pointing at it
type EmailOwner struct {
	Email       string   `json:"email"`
	OwnerLabels []string `json:"ownerLabels"`
}

// Location is a Location node with its resolved hierarchy
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city"`
	Postal  string `json:"postal"`
}

// Topic represents a discussion subject
type Topic struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name,omitempty"`
	OpinionCount int64     `json:"opinionCount"`
	LastUpdated  time.Time `json:"lastUpdated,omitempty"`
}

// Opinion is an opinion node with its author, topic and qualifications
type Opinion struct {
	ID             int64          `json:"id"`
	Created        time.Time      `json:"created"`
	Fields         map[string]any `json:"fields,omitempty"`
	Author         *Person        `json:"author,omitempty"`
	TopicID        int64          `json:"topicId,omitempty"`
	Qualifications map[string]any `json:"qualifications,omitempty"`
	State          cypher.State   `json:"-"`
	Published      bool           `json:"published"`
}

// InfluencePath is one row of a Nearest traversal
type InfluencePath struct {
	Relationship string   `json:"relationship"`
	Friend       Person   `json:"friend"`
	Path         []string `json:"path"`
	Author       Person   `json:"author"`
	Opinion      Opinion  `json:"opinion"`
}

// Connection is one route from the user to an author
type Connection struct {
	Relationship string   `json:"relationship"`
	Friend       Person   `json:"friend"`
	Path         []string `json:"path"`
}

// ConnectedOpinion is a published opinion reachable through the user's network
type ConnectedOpinion struct {
	Opinion        Opinion        `json:"opinion"`
	Author         Person         `json:"author"`
	Connections    []Connection   `json:"connections"`
	Qualifications map[string]any `json:"qualifications,omitempty"`
}
