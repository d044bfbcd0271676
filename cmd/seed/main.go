// seed inserts verified demo accounts into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mafia-game/mafia-backend/internal/infrastructure/postgres"
)

type account struct {
	email    string
	username string
	password string
}

var accounts = []account{
	{"alice@test.local", "alice", "secret1"},
	{"bob@test.local", "bob", "secret1"},
	{"carol@test.local", "carol", "secret1"},
	{"dave@test.local", "dave", "secret1"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	var inserted, skipped int
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}

		// Seeded accounts are pre-verified so login works immediately.
		tag, err := pool.Exec(ctx, `
			INSERT INTO users (email, username, password_hash, is_active, is_verified)
			VALUES ($1, $2, $3, TRUE, TRUE)
			ON CONFLICT (email) DO NOTHING`,
			a.email, a.username, string(hash),
		)
		if err != nil {
			log.Fatalf("insert user %s: %v", a.username, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Accounts created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in as a seeded account:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/auth/login \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"username\":\"alice\",\"password\":\"secret1\"}'")
	fmt.Println("    # → {\"access_token\":\"eyJ...\",\"token_type\":\"bearer\"}")
	fmt.Println()
	fmt.Println("  Step 2 — call a protected endpoint:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/auth/me -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 — cast a placeholder vote:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/actions/vote \\")
	fmt.Println("      -H \"Authorization: Bearer $JWT\" -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"target_player_id\":2}'")
}
