package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	apperrors "trustocracy/backend/pkg/errors"
	"trustocracy/backend/pkg/logger"
)

// Question is a prompt attached to one or more topics.
type Question struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// Answer is one user's response to a question about an opinion. Picked and
// Rated are both optional; which one is set depends on the question type.
type Answer struct {
	ID         int64  `json:"id"`
	TopicID    int64  `json:"topicId" binding:"required,gt=0"`
	OpinionID  int64  `json:"opinionId" binding:"required,gt=0"`
	UserID     int64  `json:"userId"`
	QuestionID int64  `json:"questionId" binding:"required,gt=0"`
	Picked     *int64 `json:"picked,omitempty"`
	Rated      *int64 `json:"rated,omitempty"`
}

// Store runs the question and answer statements against Postgres.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to Postgres through lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewStore(db), nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, logger: logger.Named("relational")}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Questions returns the questions for a topic.
func (s *Store) Questions(ctx context.Context, topicID int64) ([]Question, error) {
	return s.questions(ctx, Questions, map[string]any{"topicId": topicID})
}

// PickQuestions returns only the topic's pick questions.
func (s *Store) PickQuestions(ctx context.Context, topicID int64) ([]Question, error) {
	return s.questions(ctx, PickQuestions, map[string]any{"topicId": topicID, "pickType": QuestionTypePick})
}

func (s *Store) questions(ctx context.Context, stmt Statement, params map[string]any) ([]Question, error) {
	rows, err := s.query(ctx, stmt, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []Question{}
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Type, &q.Prompt); err != nil {
			return nil, s.fail(stmt, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(stmt, err)
	}
	return questions, nil
}

// CreateAnswer stores a new answer and returns its id.
func (s *Store) CreateAnswer(ctx context.Context, a Answer) (int64, error) {
	id, found, err := s.returningID(ctx, CreateAnswer, map[string]any{
		"topicId":    a.TopicID,
		"opinionId":  a.OpinionID,
		"userId":     a.UserID,
		"questionId": a.QuestionID,
		"picked":     nullable(a.Picked),
		"rated":      nullable(a.Rated),
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, s.fail(CreateAnswer, sql.ErrNoRows)
	}
	s.logger.Info("Answer recorded",
		zap.Int64("answer_id", id),
		zap.Int64("user_id", a.UserID),
		zap.Int64("question_id", a.QuestionID),
	)
	return id, nil
}

// UpdateAnswer changes the user's own answer. It reports false when the
// answer does not exist or belongs to someone else.
func (s *Store) UpdateAnswer(ctx context.Context, userID, answerID int64, picked, rated *int64) (bool, error) {
	_, found, err := s.returningID(ctx, UpdateAnswer, map[string]any{
		"answerId": answerID,
		"userId":   userID,
		"picked":   nullable(picked),
		"rated":    nullable(rated),
	})
	return found, err
}

// RemoveAnswer deletes the user's own answer.
func (s *Store) RemoveAnswer(ctx context.Context, userID, answerID int64) (bool, error) {
	text, args, err := Bind(RemoveAnswer, map[string]any{"answerId": answerID, "userId": userID})
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, text, args...)
	if err != nil {
		return false, s.fail(RemoveAnswer, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, s.fail(RemoveAnswer, err)
	}
	return n > 0, nil
}

// AnswersByUser returns the user's answers about an opinion on a topic.
func (s *Store) AnswersByUser(ctx context.Context, topicID, opinionID, userID int64) ([]Answer, error) {
	rows, err := s.query(ctx, AnswersByUser, map[string]any{
		"topicId":   topicID,
		"opinionId": opinionID,
		"userId":    userID,
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []Answer{}
	for rows.Next() {
		var (
			a             Answer
			picked, rated sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.TopicID, &a.OpinionID, &a.UserID, &a.QuestionID, &picked, &rated); err != nil {
			return nil, s.fail(AnswersByUser, err)
		}
		a.Picked = fromNull(picked)
		a.Rated = fromNull(rated)
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(AnswersByUser, err)
	}
	return answers, nil
}

func (s *Store) query(ctx context.Context, stmt Statement, params map[string]any) (*sql.Rows, error) {
	text, args, err := Bind(stmt, params)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, s.fail(stmt, err)
	}
	return rows, nil
}

func (s *Store) returningID(ctx context.Context, stmt Statement, params map[string]any) (int64, bool, error) {
	text, args, err := Bind(stmt, params)
	if err != nil {
		return 0, false, err
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, text, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, s.fail(stmt, err)
	}
	return id, true, nil
}

// fail classifies a driver error. References to missing topics, opinions
// or questions are the caller's mistake, not a store failure.
func (s *Store) fail(stmt Statement, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "foreign_key_violation":
			return apperrors.NewInvalidInput(stmt.Name, "references an unknown record")
		case "check_violation", "not_null_violation":
			return apperrors.NewInvalidInput(stmt.Name, pqErr.Message)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewContextCancelled(stmt.Name, err)
	}
	s.logger.Error("Relational statement failed", zap.String("statement", stmt.Name), zap.Error(err))
	return apperrors.NewRelationalQueryFailed(stmt.Name, err)
}

func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
