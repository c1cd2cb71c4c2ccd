package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/config"
	"github.com/sarmin881340/taka-portal/internal/database"
	"github.com/sarmin881340/taka-portal/internal/handler"
	"github.com/sarmin881340/taka-portal/internal/queue"
	"github.com/sarmin881340/taka-portal/internal/render"
	"github.com/sarmin881340/taka-portal/internal/repository"
	"github.com/sarmin881340/taka-portal/internal/router"
	"github.com/sarmin881340/taka-portal/internal/session"
	"github.com/sarmin881340/taka-portal/internal/storage"
)

func main() {
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

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: sessions fall back to cookie expiry, login rate limiting disabled")
	}

	ttl := time.Duration(cfg.SessionTTLMin) * time.Minute
	sessions := repository.NewSessionRepo(rdb, ttl)
	userSessions := session.NewUserManager(cfg.SessionSecret, ttl, sessions)
	adminSessions := session.NewAdminManager(cfg.SessionSecret, ttl, sessions)

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)
	payments := repository.NewPaymentRepo(db)
	reviews := repository.NewReviewRepo(db)
	messages := repository.NewMessageRepo(db)

	if err := admins.EnsureDefault(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, cfg.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	shots, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	authH := handler.NewAuthHandler(users, userSessions, cfg.BcryptCost)
	memberH := handler.NewMemberHandler(payments, reviews, shots)
	messageH := handler.NewMessageHandler(users, messages)
	adminH := handler.NewAdminHandler(admins, users, payments, reviews, messages, adminSessions)

	go func() {
		if err := queue.StartModerationConsumer(); err != nil {
			log.Printf("moderation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Renderer = render.New()
	e.HideBanner = true

	router.RegisterPublic(e, authH, adminH, config.LoadRateLimitConfig(), rdb, cfg.UploadDir)
	router.RegisterMember(e, memberH, messageH, authH, userSessions, users)
	router.RegisterAdmin(e, adminH, adminSessions, admins)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
