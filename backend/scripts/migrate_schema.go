//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"trustocracy/backend/pkg/config"
	"trustocracy/backend/pkg/logger"
)

const migrationVersion = "trustocracy_schema_v1"

func main() {
	force := flag.Bool("force", false, "Force migration even if already applied")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Neo4j schema migration...")

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

	if !*force {
		applied, err := checkMigrationApplied(ctx, driver, cfg.Neo4jDatabase)
		if err != nil {
			log.Fatal("Failed to check migration status", zap.Error(err))
		}
		if applied {
			log.Info("Migration already applied. Use -force to reapply.")
			os.Exit(0)
		}
	}

	if err := runMigrations(ctx, driver, cfg.Neo4jDatabase, log); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	if err := markMigrationApplied(ctx, driver, cfg.Neo4jDatabase); err != nil {
		log.Warn("Failed to mark migration as applied", zap.Error(err))
	}

	log.Info("Migration completed successfully!")
}

func checkMigrationApplied(ctx context.Context, driver neo4j.DriverWithContext, database string) (bool, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead, DatabaseName: database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (m:Migration {version: $version})
		RETURN m.applied_at AS applied_at
	`, map[string]any{"version": migrationVersion})
	if err != nil {
		return false, err
	}

	return result.Next(ctx), nil
}

func markMigrationApplied(ctx context.Context, driver neo4j.DriverWithContext, database string) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (m:Migration {version: $version})
		SET m.applied_at = datetime(),
		    m.description = 'Identity constraints and lookup indexes for people, opinions and locations'
	`, map[string]any{"version": migrationVersion})
	return err
}

func runMigrations(ctx context.Context, driver neo4j.DriverWithContext, database string, log *zap.Logger) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	migrations := []struct {
		name        string
		description string
		query       string
	}{
		{
			name:        "Create Constraints",
			description: "Unique ids for every node type the API addresses by id",
			query: `
				CREATE CONSTRAINT person_id_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE;
				CREATE CONSTRAINT topic_id_unique IF NOT EXISTS FOR (t:Topic) REQUIRE t.id IS UNIQUE;
				CREATE CONSTRAINT opinion_id_unique IF NOT EXISTS FOR (o:Opinion) REQUIRE o.id IS UNIQUE;
				CREATE CONSTRAINT location_id_unique IF NOT EXISTS FOR (l:Location) REQUIRE l.id IS UNIQUE;

				// Hierarchy nodes are shared by name
				CREATE CONSTRAINT country_name_unique IF NOT EXISTS FOR (c:Country) REQUIRE c.name IS UNIQUE;
				CREATE CONSTRAINT city_name_unique IF NOT EXISTS FOR (c:City) REQUIRE c.name IS UNIQUE;
				CREATE CONSTRAINT postal_name_unique IF NOT EXISTS FOR (p:Postal) REQUIRE p.name IS UNIQUE;
			`,
		},
		{
			name:        "Create Indexes",
			description: "Lookup indexes for identity resolution",
			query: `
				// Email is not unique: contact import may duplicate addresses
				CREATE INDEX email_address IF NOT EXISTS FOR (e:Email) ON (e.email);
				CREATE INDEX person_fb_user IF NOT EXISTS FOR (p:Person) ON (p.fbUserId);
				CREATE INDEX person_ga_user IF NOT EXISTS FOR (p:Person) ON (p.gaUserId);
				CREATE INDEX opinion_created IF NOT EXISTS FOR (o:Opinion) ON (o.created);
			`,
		},
	}

	for i, migration := range migrations {
		log.Info("Running migration",
			zap.Int("step", i+1),
			zap.Int("total", len(migrations)),
			zap.String("name", migration.name),
			zap.String("description", migration.description),
		)

		for j, stmt := range splitStatements(migration.query) {
			if _, err := session.Run(ctx, stmt, nil); err != nil {
				// Constraint and index creation is idempotent; report and go on
				log.Warn("Migration step had an error (may be expected)",
					zap.String("migration", migration.name),
					zap.Int("statement", j+1),
					zap.Error(err),
				)
			}
		}

		log.Info("Migration step completed", zap.String("name", migration.name))
	}

	return nil
}

// splitStatements splits a Cypher script on semicolons after dropping
// line comments.
func splitStatements(script string) []string {
	var cleaned []string
	for _, line := range strings.Split(script, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		cleaned = append(cleaned, line)
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
