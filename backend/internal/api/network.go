package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trustocracy/backend/internal/cypher"
)

func (h *Handler) addLocation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr := cypher.Address{Name: req.Name, Country: req.Country, City: req.City, Postal: req.Postal}
	location, err := h.graph.ConnectUserToLocation(c.Request.Context(), userID, newID(), addr)
	if err != nil {
		h.fail(c, "add location", err)
		return
	}
	if location == nil {
		notFound(c, "User")
		return
	}
	c.JSON(http.StatusCreated, location)
}

// removeLocation only deletes locations the caller is constituent of.
func (h *Handler) removeLocation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	locationID, ok := idParam(c, "locationId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	locations, err := h.graph.LocationsByUser(ctx, userID)
	if err != nil {
		h.fail(c, "remove location", err)
		return
	}
	owned := false
	for _, l := range locations {
		if l.ID == locationID {
			owned = true
			break
		}
	}
	if !owned {
		notFound(c, "Location")
		return
	}

	if _, err := h.graph.RemoveLocation(ctx, locationID); err != nil {
		h.fail(c, "remove location", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getPool(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	pool, err := h.graph.GetPooled(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "fetch pool", err)
		return
	}
	c.JSON(http.StatusOK, pool)
}

func (h *Handler) addToPool(c *gin.Context) {
	h.edgeChange(c, "add to pool", func(userID, targetID int64) (int, error) {
		return h.graph.AddToPool(c.Request.Context(), userID, targetID)
	})
}

func (h *Handler) removeFromPool(c *gin.Context) {
	h.edgeChange(c, "remove from pool", func(userID, targetID int64) (int, error) {
		return h.graph.RemoveFromPool(c.Request.Context(), userID, targetID)
	})
}

// addDelegate and removeDelegate take the edge kind from ?relationship=,
// FOLLOWS when absent.
func (h *Handler) addDelegate(c *gin.Context) {
	h.edgeChange(c, "add delegate", func(userID, targetID int64) (int, error) {
		return h.graph.AddDelegate(c.Request.Context(), userID, delegate(c, targetID))
	})
}

func (h *Handler) removeDelegate(c *gin.Context) {
	h.edgeChange(c, "remove delegate", func(userID, targetID int64) (int, error) {
		return h.graph.RemoveDelegate(c.Request.Context(), userID, delegate(c, targetID))
	})
}

func delegate(c *gin.Context, targetID int64) cypher.Delegate {
	return cypher.Delegate{ID: targetID, Relationship: c.DefaultQuery("relationship", string(cypher.Follows))}
}

func (h *Handler) edgeChange(c *gin.Context, action string, change func(userID, targetID int64) (int, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := idParam(c, "targetId")
	if !ok {
		return
	}
	changed, err := change(userID, targetID)
	if err != nil {
		h.fail(c, action, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targetId": targetID, "changed": changed})
}
