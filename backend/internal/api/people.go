package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getUser(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.graph.User(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "fetch user", err)
		return
	}
	if user == nil {
		notFound(c, "User")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) getProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := h.graph.Profile(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "fetch profile", err)
		return
	}
	if profile == nil {
		notFound(c, "User")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) addEmail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.graph.AddEmailToUser(c.Request.Context(), userID, req.Email)
	if err != nil {
		h.fail(c, "add email", err)
		return
	}
	if !added {
		notFound(c, "User")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"email": req.Email})
}

func (h *Handler) importContacts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Emails []string `json:"emails" binding:"required,min=1,max=1000,dive,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	connected, err := h.graph.ImportContacts(c.Request.Context(), userID, req.Emails)
	if err != nil {
		h.fail(c, "import contacts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": connected})
}

type locationRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Country string `json:"country" binding:"required,max=200"`
	City    string `json:"city" binding:"required,max=200"`
	Postal  string `json:"postal" binding:"required,max=200"`
}
