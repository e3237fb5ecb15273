package relational

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind_Positional(t *testing.T) {
	text, args, err := Bind(CreateAnswer, map[string]any{
		"topicId": int64(1), "opinionId": int64(2), "userId": int64(3),
		"questionId": int64(4), "picked": nil, "rated": int64(5),
	})
	require.NoError(t, err)
	assert.Contains(t, text, "VALUES ($1, $2, $3, $4, $5, $6)")
	assert.Equal(t, []any{int64(1), int64(2), int64(3), int64(4), nil, int64(5)}, args)
	assert.NotContains(t, text, "$topicId")
}

func TestBind_RepeatedNameBindsOnce(t *testing.T) {
	stmt := Statement{Name: "repeat", Text: "SELECT $a, $b, $a"}
	text, args, err := Bind(stmt, map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, "SELECT $1, $2, $1", text)
	assert.Equal(t, []any{1, 2}, args)
}

func TestBind_MissingValue(t *testing.T) {
	_, _, err := Bind(Questions, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$topicId")
}

func TestBind_UnusedValue(t *testing.T) {
	_, _, err := Bind(Questions, map[string]any{"topicId": 1, "topicID": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unused")
}

func TestBind_LeavesNumericDollars(t *testing.T) {
	stmt := Statement{Name: "literal", Text: "SELECT '$5', $name"}
	text, args, err := Bind(stmt, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT '$5', $1", text)
	assert.Equal(t, []any{"x"}, args)
}

func TestStatements_AllBindable(t *testing.T) {
	for _, stmt := range []Statement{Questions, PickQuestions, CreateAnswer, UpdateAnswer, RemoveAnswer, AnswersByUser} {
		t.Run(stmt.Name, func(t *testing.T) {
			params := map[string]any{}
			for _, field := range strings.Fields(strings.NewReplacer("(", " ", ")", " ", ",", " ").Replace(stmt.Text)) {
				if strings.HasPrefix(field, "$") {
					params[field[1:]] = 0
				}
			}
			text, _, err := Bind(stmt, params)
			require.NoError(t, err)
			assert.NotRegexp(t, `\$[a-zA-Z]`, text)
		})
	}
}
