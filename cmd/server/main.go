package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/database"
	"github.com/yukikurage/task-tracker/internal/hub"
	"github.com/yukikurage/task-tracker/internal/mailer"
	"github.com/yukikurage/task-tracker/internal/notify"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/server"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/storage"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	sessionStore, err := server.NewSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Websocket rooms, optionally shared between instances through Redis
	rooms := hub.New(cfg.WSSendBufferSize)
	var publisher hub.Publisher = rooms
	if cfg.NotifyRelay {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
		})
		defer client.Close()

		relay := hub.NewRedisRelay(client, cfg.RelayChannel, rooms)
		publisher = relay
		g.Go(func() error {
			return relay.Run(ctx)
		})
		log.Printf("Notification relay enabled on %s", cfg.RelayChannel)
	}

	// Outbound mail
	var sender mailer.Sender = mailer.LogSender{}
	if cfg.Mail.Host != "" {
		smtpSender, err := mailer.NewSMTPSender(cfg.Mail)
		if err != nil {
			log.Fatalf("Failed to configure SMTP: %v", err)
		}
		sender = smtpSender
	}
	mailQueue := mailer.NewQueue(sender, cfg.Mail.QueueSize)
	g.Go(func() error {
		return mailQueue.Run(ctx)
	})

	// Avatar storage
	var objects storage.ObjectStorage
	if cfg.Minio.Endpoint != "" {
		minioStorage, err := storage.NewMinioStorage(ctx, cfg.Minio)
		if err != nil {
			log.Fatalf("Failed to configure object storage: %v", err)
		}
		objects = minioStorage
	} else {
		log.Println("MINIO_ENDPOINT not set, avatar uploads are disabled")
	}

	// Initialize AI service
	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey)
	}

	bus := notify.NewBus(
		notify.NewWebsocketNotifier(publisher),
		notify.NewMailNotifier(mailQueue),
	)

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	hiringRepo := repository.NewHiringRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	membership := services.NewMembershipService(projectRepo, hiringRepo, userRepo, bus)
	router := server.NewRouter(server.Deps{
		SessionStore:    sessionStore,
		WSAllowedOrigin: cfg.WSAllowedOrigin,
		Auth:            services.NewAuthService(userRepo),
		Tokens:          services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Users:           services.NewUserService(userRepo, hiringRepo, taskRepo, membership, objects),
		Membership:      membership,
		Projects:        services.NewProjectService(projectRepo, userRepo, hiringRepo, membership, bus),
		Tasks:           services.NewTaskService(taskRepo, projectRepo, userRepo, hiringRepo, bus, suggester),
		Comments:        services.NewCommentService(commentRepo, taskRepo, projectRepo, userRepo, bus),
		Hub:             rooms,
		Publisher:       publisher,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Printf("Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Websocket handlers are hijacked and not tracked by Shutdown
		rooms.Close()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server stopped")
}
