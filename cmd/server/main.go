package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/GautamRaj-1200/legal-blogs/internal/config"
	"github.com/GautamRaj-1200/legal-blogs/internal/database"
	"github.com/GautamRaj-1200/legal-blogs/internal/handler"
	"github.com/GautamRaj-1200/legal-blogs/internal/queue"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
	"github.com/GautamRaj-1200/legal-blogs/internal/router"
	"github.com/GautamRaj-1200/legal-blogs/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if !cfg.HasTokenSecrets() {
		log.Println("warning: token secrets not configured; auth endpoints will return 500")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("warning: redis unavailable; response cache disabled")
	}
	cacheCfg := config.LoadCacheConfig()

	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)
	notifier := service.NewQueuePublisher(cfg.AMQPURL)

	// Background worker delivering queued OTP mail over SMTP.
	go queue.StartOTPMailConsumer(cfg.AMQPURL, queue.MailSettings{
		From:     cfg.MailFrom,
		Password: cfg.MailPassword,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
	})

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, notifier), users, cfg)
	router.RegisterPosts(e, handler.NewPostHandler(posts), users, cfg, cacheCfg, rdb)
	router.RegisterUsers(e, handler.NewUserHandler(users), users, cfg, cacheCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
