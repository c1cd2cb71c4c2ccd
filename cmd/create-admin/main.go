// Command create-admin inserts a moderator account.  Admins have no
// registration flow; this command and the startup default seed are the only
// ways an admin comes into existence.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/sarmin881340/taka-portal/internal/config"
	"github.com/sarmin881340/taka-portal/internal/database"
	"github.com/sarmin881340/taka-portal/internal/repository"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	name := flag.String("name", "Admin", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: create-admin -email admin@example.com -password secret [-name Admin]")
	}

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	id, err := repository.NewAdminRepo(db).Create(ctx, *email, *password, *name, cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			log.Fatalf("admin %s already exists", *email)
		}
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %s (id=%d)", *email, id)
}
