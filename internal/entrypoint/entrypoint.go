package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/bookshelf/internal/auth"
	"github.com/shelfwise/bookshelf/internal/config"
	"github.com/shelfwise/bookshelf/internal/database"
	"github.com/shelfwise/bookshelf/internal/database/books"
	"github.com/shelfwise/bookshelf/internal/database/bookshelves"
	"github.com/shelfwise/bookshelf/internal/database/reviews"
	"github.com/shelfwise/bookshelf/internal/database/users"
	http_controllers "github.com/shelfwise/bookshelf/internal/http"
	"github.com/shelfwise/bookshelf/internal/metadata"
	"github.com/shelfwise/bookshelf/internal/scheduler"
	"github.com/shelfwise/bookshelf/internal/tasks"
)

// DefaultAdminPassword is the password the seeded admin account starts
// with. Change it after first login or create a dedicated account with the
// create-admin command.
const DefaultAdminPassword = "123456"

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt, then drains it within the
// configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server exiting")
}

// Run wires the whole application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("starting bookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	hasher := auth.NewHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)

	digest, err := hasher.Hash(DefaultAdminPassword)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	if err := db.SeedAdmin("admin", digest); err != nil {
		log.Fatalf("seed admin account: %v", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("get sql db for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("initialize session manager: %v", err)
	}

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	shelfRepo := bookshelves.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)

	douban := metadata.NewDoubanClient(cfg.Douban.BaseURL, cfg.Douban.Timeout)
	backfiller := metadata.NewBackfiller(bookRepo, douban)

	limiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
	defer limiter.Stop()

	var (
		taskClient        *tasks.Client
		taskCtxCancel     context.CancelFunc
		backfillEnqueuer  *tasks.BackfillEnqueuer
		backfillScheduler *scheduler.BackfillScheduler
	)
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		})
		if err != nil {
			log.Fatalf("initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("close task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewBackfillBookQueue(backfiller),
			tasks.NewBackfillAllQueue(backfiller),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		backfillEnqueuer = tasks.NewBackfillEnqueuer(taskClient)

		backfillScheduler = scheduler.NewBackfillScheduler(cfg.Backfill, backfillEnqueuer)
		if err := backfillScheduler.Start(context.Background()); err != nil {
			log.Fatalf("start backfill scheduler: %v", err)
		}
	}

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		if cfg.Auth.CSRFSecret != "" {
			csrfSecret = []byte(cfg.Auth.CSRFSecret)
		} else {
			csrfSecret, err = auth.GenerateCSRFSecret()
			if err != nil {
				log.Fatalf("generate csrf secret: %v", err)
			}
			log.Printf("generated csrf secret (set AUTH_CSRF_SECRET to persist)")
		}
	}

	// BooksController tolerates a nil enqueuer; the field stays typed.
	var enqueuer http_controllers.BackfillEnqueuer
	if backfillEnqueuer != nil {
		enqueuer = backfillEnqueuer
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		SessionManager: sessionManager,
		Users:          http_controllers.NewUsersController(userRepo, sessionManager, hasher, limiter),
		Books:          http_controllers.NewBooksController(bookRepo, douban, enqueuer),
		Bookshelves:    http_controllers.NewBookshelvesController(shelfRepo),
		Reviews:        http_controllers.NewReviewsController(reviewRepo),
		Health:         http_controllers.NewHealthController(db, version),
		CSRFEnabled:    cfg.Auth.CSRFEnabled,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
	})

	onShutdown := func(ctx context.Context) {
		if backfillScheduler != nil {
			backfillScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
