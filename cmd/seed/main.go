package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"eventcheckin/config"
	authadapter "eventcheckin/internal/adapters/auth"
	"eventcheckin/internal/domain"
	"eventcheckin/internal/repository/postgres"
)

// Seeds the initial admin account (and optionally a first active event) so
// the platform is usable right after deployment. Safe to run repeatedly: an
// existing account with the same email is left untouched.
func main() {
	var (
		name      = flag.String("name", "Admin", "Admin display name")
		email     = flag.String("email", "admin@example.com", "Admin email")
		password  = flag.String("password", "", "Admin password (required)")
		eventName = flag.String("event-name", "", "Optional: name of a sample event to create and activate")
		eventDate = flag.String("event-date", "", "Sample event date, YYYY-MM-DD (required with -event-name)")
		venue     = flag.String("event-venue", "", "Sample event venue")
	)
	flag.Parse()

	if *password == "" {
		log.Fatal("password is required: -password <value>")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	staffRepo := postgres.NewStaffRepository(db)

	var adminID string
	if existing, err := staffRepo.GetByEmail(ctx, *email); err == nil {
		fmt.Printf("Staff account %s already exists (id %s)\n", existing.Email, existing.ID)
		adminID = existing.ID
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Fatalf("Failed to check existing account: %v", err)
	} else {
		hasher := authadapter.NewBcryptHasher(0)
		salt, err := hasher.GenerateSalt()
		if err != nil {
			log.Fatalf("Failed to generate salt: %v", err)
		}
		hash, err := hasher.Hash(salt, *password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		staff := domain.NewStaff(*name, *email, hash, salt, domain.RoleAdmin, nil, time.Now())
		if err := staffRepo.Create(ctx, staff); err != nil {
			log.Fatalf("Failed to create admin account: %v", err)
		}
		fmt.Printf("Created admin account %s (id %s)\n", staff.Email, staff.ID)
		adminID = staff.ID
	}

	if *eventName == "" {
		return
	}
	date, err := time.Parse("2006-01-02", *eventDate)
	if err != nil {
		log.Fatalf("Invalid -event-date %q: expected YYYY-MM-DD", *eventDate)
	}

	eventRepo := postgres.NewEventRepository(db)
	now := time.Now()
	event := domain.NewEvent(*eventName, "", date, "", *venue, "", adminID, now, now)
	if err := eventRepo.Create(ctx, event); err != nil {
		log.Fatalf("Failed to create event: %v", err)
	}
	if err := eventRepo.SetActive(ctx, event.ID); err != nil {
		log.Fatalf("Failed to activate event: %v", err)
	}
	fmt.Printf("Created and activated event %q (id %s)\n", event.Name, event.ID)
}
