//go:build ignore

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"trustocracy/backend/internal/auth"
	"trustocracy/backend/internal/cypher"
	"trustocracy/backend/internal/graph"
	"trustocracy/backend/pkg/config"
	"trustocracy/backend/pkg/logger"
)

// Seed data: a small FOLLOWS chain so Nearest and Connected have something
// to find, and one published opinion at the end of it.
var (
	seedTopics = []struct {
		id   int64
		name string
	}{
		{1, "Public parks"},
		{2, "School funding"},
		{3, "Bike lanes"},
	}

	seedPeople = []cypher.Person{
		{ID: 1, Name: "Ada"},
		{ID: 2, Name: "Bo"},
		{ID: 3, Name: "Cy"},
		{ID: 4, Name: "Di"},
	}

	seedFollows = [][2]int64{{1, 2}, {2, 3}, {3, 4}}
)

func main() {
	reset := flag.Bool("reset", false, "Delete every node before seeding")
	skipConfirm := flag.Bool("y", false, "Skip confirmation prompt for -reset")
	tokenFor := flag.Int64("token-for", 1, "Print a development token for this person id (0 to skip)")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	if *reset {
		if !*skipConfirm && !confirm(fmt.Sprintf("Delete ALL nodes in %s/%s?", cfg.Neo4jURI, cfg.Neo4jDatabase)) {
			log.Info("Aborted")
			os.Exit(0)
		}
		if err := resetDatabase(ctx, driver, cfg.Neo4jDatabase); err != nil {
			log.Fatal("Failed to reset database", zap.Error(err))
		}
		log.Info("Database reset")
	}

	repo := graph.NewRepository(driver, cfg.Neo4jDatabase)

	for _, t := range seedTopics {
		if _, err := repo.CreateTopic(ctx, t.id, t.name); err != nil {
			log.Fatal("Failed to create topic", zap.Int64("topic_id", t.id), zap.Error(err))
		}
	}

	for _, p := range seedPeople {
		existing, err := repo.User(ctx, p.ID)
		if err != nil {
			log.Fatal("Failed to look up person", zap.Int64("user_id", p.ID), zap.Error(err))
		}
		if existing != nil {
			log.Info("Person already exists", zap.Int64("user_id", p.ID))
			continue
		}
		if _, err := repo.CreateUser(ctx, p); err != nil {
			log.Fatal("Failed to create person", zap.Int64("user_id", p.ID), zap.Error(err))
		}
		email := strings.ToLower(p.Name) + "@example.com"
		if _, err := repo.AddEmailToUser(ctx, p.ID, email); err != nil {
			log.Fatal("Failed to add email", zap.Int64("user_id", p.ID), zap.Error(err))
		}
	}

	for _, pair := range seedFollows {
		if _, err := repo.AddToPool(ctx, pair[0], pair[1]); err != nil {
			log.Fatal("Failed to add to pool", zap.Error(err))
		}
		if _, err := repo.AddDelegate(ctx, pair[0], cypher.Delegate{ID: pair[1], Relationship: string(cypher.Follows)}); err != nil {
			log.Fatal("Failed to add delegate", zap.Error(err))
		}
	}

	if err := seedOpinion(ctx, repo, 4, 1, 1001); err != nil {
		log.Fatal("Failed to seed opinion", zap.Error(err))
	}

	if *tokenFor > 0 {
		tokens, err := auth.NewTokenService(cfg.TrustoSecret, cfg.TokenIssuer, cfg.TokenTTL)
		if err != nil {
			log.Fatal("Failed to create token service", zap.Error(err))
		}
		token, err := tokens.Issue(*tokenFor)
		if err != nil {
			log.Fatal("Failed to issue token", zap.Error(err))
		}
		fmt.Printf("\nDevelopment token for person %d (valid %s):\n%s\n", *tokenFor, cfg.TokenTTL, token)
	}

	log.Info("Database seeding completed successfully!")
}

func seedOpinion(ctx context.Context, repo *graph.Repository, authorID, topicID, opinionID int64) error {
	existing, err := repo.OpinionByID(ctx, opinionID)
	if err != nil {
		return err
	}
	if existing == nil {
		_, err := repo.CreateOpinion(ctx, authorID, topicID,
			cypher.OpinionDraft{ID: opinionID, Fields: map[string]any{"text": "More trees, fewer parking lots."}},
			cypher.Qualifications{"resident": true})
		if err != nil {
			return err
		}
	}
	_, err = repo.PublishOpinion(ctx, authorID, opinionID)
	return err
}

func resetDatabase(ctx context.Context, driver neo4j.DriverWithContext, database string) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	_, err := session.Run(ctx, "MATCH (n) WHERE NOT n:Migration DETACH DELETE n", nil)
	return err
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
