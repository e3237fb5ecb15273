// Package api exposes the graph and answer store over HTTP with gin.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trustocracy/backend/internal/auth"
	"trustocracy/backend/internal/cypher"
	"trustocracy/backend/internal/graph"
	"trustocracy/backend/internal/relational"
)

// Graph is the part of graph.Repository the handlers use.
type Graph interface {
	User(ctx context.Context, userID int64) (*graph.Person, error)
	Profile(ctx context.Context, userID int64) (*graph.Profile, error)
	AddEmailToUser(ctx context.Context, userID int64, email string) (bool, error)
	ImportContacts(ctx context.Context, userID int64, emails []string) (int, error)

	Topics(ctx context.Context) ([]graph.Topic, error)
	CreateOpinion(ctx context.Context, userID, topicID int64, draft cypher.OpinionDraft, q cypher.Qualifications) (*graph.Opinion, error)
	OpinionDraftByUserTopic(ctx context.Context, userID, topicID int64) (*graph.Opinion, error)
	OpinionsByTopic(ctx context.Context, topicID int64) ([]graph.Opinion, error)
	OpinionByID(ctx context.Context, opinionID int64) (*graph.Opinion, error)
	PublishOpinion(ctx context.Context, userID, opinionID int64) (bool, error)
	UnpublishOpinion(ctx context.Context, userID, opinionID int64) (int, error)
	Connected(ctx context.Context, userID, topicID int64) ([]graph.ConnectedOpinion, error)

	ConnectUserToLocation(ctx context.Context, userID, locationID int64, addr cypher.Address) (*graph.Location, error)
	LocationsByUser(ctx context.Context, userID int64) ([]graph.Location, error)
	RemoveLocation(ctx context.Context, locationID int64) (bool, error)

	GetPooled(ctx context.Context, userID int64) ([]graph.Person, error)
	AddToPool(ctx context.Context, userID, targetID int64) (int, error)
	RemoveFromPool(ctx context.Context, userID, targetID int64) (int, error)
	AddDelegate(ctx context.Context, userID int64, d cypher.Delegate) (int, error)
	RemoveDelegate(ctx context.Context, userID int64, d cypher.Delegate) (int, error)
}

// Answers is the part of relational.Store the handlers use.
type Answers interface {
	Questions(ctx context.Context, topicID int64) ([]relational.Question, error)
	CreateAnswer(ctx context.Context, a relational.Answer) (int64, error)
	UpdateAnswer(ctx context.Context, userID, answerID int64, picked, rated *int64) (bool, error)
	RemoveAnswer(ctx context.Context, userID, answerID int64) (bool, error)
	AnswersByUser(ctx context.Context, topicID, opinionID, userID int64) ([]relational.Answer, error)
}

// Handler serves the HTTP API.
type Handler struct {
	graph   Graph
	answers Answers
	log     *zap.Logger
}

// NewRouter wires the routes. answers may be nil, in which case the
// question and answer routes respond 503. allowedOrigins lists the browser
// origins permitted to make credentialed cross-origin calls.
func NewRouter(g Graph, answers Answers, tokens *auth.TokenService, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	h := &Handler{graph: g, answers: answers, log: log}

	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsPolicy(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", auth.Middleware(tokens))
	{
		api.GET("/users/:id", h.getUser)
		api.GET("/me/profile", h.getProfile)
		api.POST("/me/emails", h.addEmail)
		api.POST("/contacts", h.importContacts)

		api.GET("/topics", h.listTopics)
		api.POST("/topics/:topicId/opinions", h.createOpinion)
		api.GET("/topics/:topicId/opinions", h.topicOpinions)
		api.GET("/topics/:topicId/draft", h.getDraft)
		api.GET("/topics/:topicId/connected", h.connectedOpinions)

		api.GET("/opinions/:id", h.getOpinion)
		api.POST("/opinions/:id/publish", h.publishOpinion)
		api.DELETE("/opinions/:id/publish", h.unpublishOpinion)

		api.POST("/me/locations", h.addLocation)
		api.DELETE("/me/locations/:locationId", h.removeLocation)

		api.GET("/me/pool", h.getPool)
		api.PUT("/me/pool/:targetId", h.addToPool)
		api.DELETE("/me/pool/:targetId", h.removeFromPool)
		api.PUT("/me/delegates/:targetId", h.addDelegate)
		api.DELETE("/me/delegates/:targetId", h.removeDelegate)

		api.GET("/topics/:topicId/questions", h.listQuestions)
		api.GET("/topics/:topicId/opinions/:opinionId/answers", h.listAnswers)
		api.POST("/answers", h.createAnswer)
		api.PUT("/answers/:answerId", h.updateAnswer)
		api.DELETE("/answers/:answerId", h.removeAnswer)
	}

	return router
}
