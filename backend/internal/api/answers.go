package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trustocracy/backend/internal/relational"
)

// requireAnswers answers 503 when no relational store is configured.
func (h *Handler) requireAnswers(c *gin.Context) bool {
	if h.answers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Questions are not available"})
		return false
	}
	return true
}

func (h *Handler) listQuestions(c *gin.Context) {
	if !h.requireAnswers(c) {
		return
	}
	topicID, ok := idParam(c, "topicId")
	if !ok {
		return
	}
	questions, err := h.answers.Questions(c.Request.Context(), topicID)
	if err != nil {
		h.fail(c, "list questions", err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) listAnswers(c *gin.Context) {
	if !h.requireAnswers(c) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	topicID, ok := idParam(c, "topicId")
	if !ok {
		return
	}
	opinionID, ok := idParam(c, "opinionId")
	if !ok {
		return
	}
	answers, err := h.answers.AnswersByUser(c.Request.Context(), topicID, opinionID, userID)
	if err != nil {
		h.fail(c, "list answers", err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *Handler) createAnswer(c *gin.Context) {
	if !h.requireAnswers(c) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req relational.Answer
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = 0
	req.UserID = userID

	id, err := h.answers.CreateAnswer(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "record answer", err)
		return
	}
	req.ID = id
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) updateAnswer(c *gin.Context) {
	if !h.requireAnswers(c) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	answerID, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	var req struct {
		Picked *int64 `json:"picked"`
		Rated  *int64 `json:"rated"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.answers.UpdateAnswer(c.Request.Context(), userID, answerID, req.Picked, req.Rated)
	if err != nil {
		h.fail(c, "update answer", err)
		return
	}
	if !updated {
		notFound(c, "Answer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": answerID})
}

func (h *Handler) removeAnswer(c *gin.Context) {
	if !h.requireAnswers(c) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	answerID, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	removed, err := h.answers.RemoveAnswer(c.Request.Context(), userID, answerID)
	if err != nil {
		h.fail(c, "remove answer", err)
		return
	}
	if !removed {
		notFound(c, "Answer")
		return
	}
	c.Status(http.StatusNoContent)
}
