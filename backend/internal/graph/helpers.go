package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Helper Functions
// ============================================================================

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	return toInt64(val)
}

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	return toStringSlice(val)
}

func getNodeFromRecord(record *neo4j.Record, key string) (neo4j.Node, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return neo4j.Node{}, false
	}
	node, ok := val.(neo4j.Node)
	return node, ok
}

func getMillisFromRecord(record *neo4j.Record, key string) time.Time {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	return fromMillis(toInt64(val))
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func toStringSlice(val any) []string {
	slice, ok := val.([]interface{})
	if !ok {
		if typed, ok := val.([]string); ok {
			return typed
		}
		return []string{}
	}
	result := make([]string, 0, len(slice))
	for _, v := range slice {
		if str, ok := v.(string); ok {
			result = append(result, str)
		}
	}
	return result
}

func getStringFromMap(m map[string]interface{}, key, defaultValue string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

// fromMillis converts a Cypher timestamp() value.
func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ============================================================================
// Node decoding
// ============================================================================

func personFromNode(node neo4j.Node) Person {
	return Person{
		ID:       toInt64(node.Props["id"]),
		Name:     getStringFromMap(node.Props, "name", ""),
		FbUserID: toInt64(node.Props["fbUserId"]),
		GaUserID: getStringFromMap(node.Props, "gaUserId", ""),
		Labels:   node.Labels,
	}
}

func personFromValue(val any) (Person, bool) {
	node, ok := val.(neo4j.Node)
	if !ok {
		return Person{}, false
	}
	return personFromNode(node), true
}

// opinionFromNode splits the node's properties into the fixed id and
// created fields and the free-form body.
func opinionFromNode(node neo4j.Node) Opinion {
	fields := make(map[string]any, len(node.Props))
	for k, v := range node.Props {
		if k == "id" || k == "created" {
			continue
		}
		fields[k] = v
	}
	return Opinion{
		ID:      toInt64(node.Props["id"]),
		Created: fromMillis(toInt64(node.Props["created"])),
		Fields:  fields,
	}
}

func propsFromRecord(record *neo4j.Record, key string) map[string]any {
	node, ok := getNodeFromRecord(record, key)
	if !ok {
		return nil
	}
	return node.Props
}

func nameOf(record *neo4j.Record, key string) string {
	node, ok := getNodeFromRecord(record, key)
	if !ok {
		return ""
	}
	return getStringFromMap(node.Props, "name", "")
}
