// Seeds the users table with sample data for local development.
//
// Usage:
//
//	go run scripts/seed-users.go -count 10
//	go run scripts/seed-users.go -database-url postgres://... -format json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/userdock/userdock/internal/model"
	"github.com/userdock/userdock/internal/repository"
)

var sampleNames = []string{
	"Alice Nguyen", "Bob Carter", "Carol Diaz", "Dan Okafor", "Eve Lindqvist",
	"Frank Moreau", "Grace Tanaka", "Hugo Fernandez", "Iris Volkov", "Jack O'Shea",
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		count       = flag.Int("count", 5, "Number of users to create (max 10)")
		domain      = flag.String("domain", "example.com", "Email domain for generated addresses")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *count < 1 || *count > len(sampleNames) {
		fmt.Fprintf(os.Stderr, "count must be between 1 and %d\n", len(sampleNames))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ensure schema:", err)
		os.Exit(1)
	}

	created := make([]*model.User, 0, *count)
	for _, name := range sampleNames[:*count] {
		email := emailFor(name, *domain)
		user, err := repo.InsertUser(ctx, name, email)
		if err != nil {
			fmt.Fprintln(os.Stderr, "insert user:", err)
			os.Exit(1)
		}
		created = append(created, user)
	}

	switch strings.ToLower(*format) {
	case "plain":
		for _, user := range created {
			fmt.Printf("%d\t%s\t%s\n", user.ID, user.Name, user.Email)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(created)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func emailFor(name, domain string) string {
	local := strings.ToLower(name)
	local = strings.ReplaceAll(local, "'", "")
	local = strings.ReplaceAll(local, " ", ".")
	return fmt.Sprintf("%s@%s", local, domain)
}
