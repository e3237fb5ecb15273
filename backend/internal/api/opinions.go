package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trustocracy/backend/internal/cypher"
)

func (h *Handler) listTopics(c *gin.Context) {
	topics, err := h.graph.Topics(c.Request.Context())
	if err != nil {
		h.fail(c, "list topics", err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (h *Handler) createOpinion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	topicID, ok := idParam(c, "topicId")
	if !ok {
		return
	}
	var req struct {
		Fields         map[string]any `json:"fields" binding:"required"`
		Qualifications map[string]any `json:"qualifications"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := cypher.OpinionDraft{ID: newID(), Fields: req.Fields}
	opinion, err := h.graph.CreateOpinion(c.Request.Context(), userID, topicID, draft, cypher.Qualifications(req.Qualifications))
	if err != nil {
		h.fail(c, "create opinion", err)
		return
	}
	if opinion == nil {
		notFound(c, "Topic")
		return
	}
	c.JSON(http.StatusCreated, opinion)
}

func (h *Handler) topicOpinions(c *gin.Context) {
	topicID, ok := idParam(c, "topicId")
	if !ok {
		return
	}
	opinions, err := h.graph.OpinionsByTopic(c.Request.Context(), topicID)
	if err != nil {
		h.fail(c, "list opinions", err)
		return
	}
	c.JSON(http.StatusOK, opinions)
}

func (h *Handler) getDraft(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	topicID, ok := idParam(c, "topicId")
	if !ok {
		return
	}
	draft, err := h.graph.OpinionDraftByUserTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		h.fail(c, "fetch draft", err)
		return
	}
	if draft == nil {
		notFound(c, "Draft")
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *Handler) connectedOpinions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	topicID, ok := idParam(c, "topicId")
	if !ok {
		return
	}
	opinions, err := h.graph.Connected(c.Request.Context(), userID, topicID)
	if err != nil {
		h.fail(c, "find connected opinions", err)
		return
	}
	c.JSON(http.StatusOK, opinions)
}

func (h *Handler) getOpinion(c *gin.Context) {
	opinionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	opinion, err := h.graph.OpinionByID(c.Request.Context(), opinionID)
	if err != nil {
		h.fail(c, "fetch opinion", err)
		return
	}
	if opinion == nil {
		notFound(c, "Opinion")
		return
	}
	c.JSON(http.StatusOK, opinion)
}

func (h *Handler) publishOpinion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	opinionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	published, err := h.graph.PublishOpinion(c.Request.Context(), userID, opinionID)
	if err != nil {
		h.fail(c, "publish opinion", err)
		return
	}
	if !published {
		notFound(c, "Draft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": opinionID, "published": true})
}

func (h *Handler) unpublishOpinion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	opinionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	removed, err := h.graph.UnpublishOpinion(c.Request.Context(), userID, opinionID)
	if err != nil {
		h.fail(c, "unpublish opinion", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": opinionID, "published": false, "removed": removed})
}
