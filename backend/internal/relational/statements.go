// Package relational holds the question and answer statements kept in
// Postgres alongside the graph, and a small store that runs them.
//
// Statements are written with $name placeholders, the same style the Cypher
// composer uses, and bound to lib/pq positional arguments by Bind.
package relational

// Statement is a named SQL text with $name placeholders.
type Statement struct {
	Name string
	Text string
}

var (
	// Questions lists every question attached to a topic.
	Questions = Statement{Name: "questions", Text: `
		SELECT question.id, question.type, question.prompt
		FROM question
		JOIN topic_question ON question.id = topic_question.question_id
		WHERE topic_question.topic_id = $topicId
		ORDER BY question.id`}

	// PickQuestions lists the topic's questions answered by picking.
	PickQuestions = Statement{Name: "pickQuestions", Text: `
		SELECT question.id, question.type, question.prompt
		FROM question
		JOIN topic_question ON question.id = topic_question.question_id
		WHERE topic_question.topic_id = $topicId
		AND question.type = $pickType
		ORDER BY question.id`}

	CreateAnswer = Statement{Name: "answer.create", Text: `
		INSERT INTO answer (topic_id, opinion_id, user_id, question_id, picked, rated)
		VALUES ($topicId, $opinionId, $userId, $questionId, $picked, $rated)
		RETURNING id`}

	UpdateAnswer = Statement{Name: "answer.update", Text: `
		UPDATE answer
		SET picked = $picked, rated = $rated
		WHERE answer.id = $answerId AND answer.user_id = $userId
		RETURNING id`}

	RemoveAnswer = Statement{Name: "answer.remove", Text: `
		DELETE FROM answer
		WHERE answer.id = $answerId AND answer.user_id = $userId`}

	// AnswersByUser returns the user's answers about one opinion.
	AnswersByUser = Statement{Name: "answer.byUser", Text: `
		SELECT id, topic_id, opinion_id, user_id, question_id, picked, rated
		FROM answer
		WHERE answer.topic_id = $topicId
		AND answer.opinion_id = $opinionId
		AND answer.user_id = $userId
		ORDER BY id`}
)

// QuestionTypePick marks questions answered by choosing an option.
const QuestionTypePick = "PICK"
