package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	// Get command
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	// Connect to database
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS rel_category_book CASCADE`,
		`DROP TABLE IF EXISTS book CASCADE`,
		`DROP TABLE IF EXISTS category CASCADE`,
		`DROP TABLE IF EXISTS address CASCADE`,
		`DROP TABLE IF EXISTS customer CASCADE`,
		`DROP TABLE IF EXISTS user_authority CASCADE`,
		`DROP TABLE IF EXISTS authority CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		// Users synchronized from the identity provider
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(100) PRIMARY KEY,
			login VARCHAR(50) UNIQUE NOT NULL,
			first_name VARCHAR(50),
			last_name VARCHAR(50),
			email VARCHAR(191) UNIQUE,
			activated BOOLEAN NOT NULL DEFAULT false,
			lang_key VARCHAR(10),
			image_url VARCHAR(256),
			created_by VARCHAR(50),
			created_date TIMESTAMP,
			last_modified_by VARCHAR(50),
			last_modified_date TIMESTAMP
		)`,

		// Global role catalogue
		`CREATE TABLE IF NOT EXISTS authority (
			name VARCHAR(50) PRIMARY KEY
		)`,

		// User to role associations
		`CREATE TABLE IF NOT EXISTS user_authority (
			user_id VARCHAR(100) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			authority_name VARCHAR(50) NOT NULL REFERENCES authority(name) ON DELETE CASCADE,
			PRIMARY KEY (user_id, authority_name)
		)`,

		// Book catalogue
		`CREATE TABLE IF NOT EXISTS book (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255),
			keywords VARCHAR(255),
			description TEXT,
			rating INTEGER,
			date_added TIMESTAMP,
			date_modified TIMESTAMP
		)`,

		// Category tree
		`CREATE TABLE IF NOT EXISTS category (
			id BIGSERIAL PRIMARY KEY,
			description VARCHAR(255) NOT NULL,
			sort_order INTEGER,
			date_added TIMESTAMP,
			date_modified TIMESTAMP,
			status VARCHAR(20),
			parent_id BIGINT REFERENCES category(id) ON DELETE SET NULL
		)`,

		// Book to category associations
		`CREATE TABLE IF NOT EXISTS rel_category_book (
			category_id BIGINT NOT NULL REFERENCES category(id) ON DELETE CASCADE,
			book_id BIGINT NOT NULL REFERENCES book(id) ON DELETE CASCADE,
			PRIMARY KEY (category_id, book_id)
		)`,

		// Library patrons
		`CREATE TABLE IF NOT EXISTS customer (
			id BIGSERIAL PRIMARY KEY,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			email VARCHAR(191),
			telephone VARCHAR(30)
		)`,

		// Postal addresses
		`CREATE TABLE IF NOT EXISTS address (
			id BIGSERIAL PRIMARY KEY,
			address_1 VARCHAR(255),
			address_2 VARCHAR(255),
			city VARCHAR(100),
			postcode VARCHAR(20),
			country VARCHAR(100),
			customer_id BIGINT REFERENCES customer(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_user_authority_user_id ON user_authority(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_book_title ON book(title)`,
		`CREATE INDEX IF NOT EXISTS idx_category_parent_id ON category(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_address_customer_id ON address(customer_id)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", getObjectName(query))
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	query := `
		INSERT INTO authority (name) VALUES
		('ROLE_ADMIN'),
		('ROLE_USER')
		ON CONFLICT (name) DO NOTHING
	`

	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to seed authorities: %w", err)
	}

	fmt.Println("  Seeded authorities")
	return nil
}

// getObjectName extracts the created object name for progress output
func getObjectName(query string) string {
	fields := strings.Fields(query)
	for i, field := range fields {
		if strings.EqualFold(field, "EXISTS") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	if len(fields) > 2 {
		return fields[2]
	}
	return query
}
