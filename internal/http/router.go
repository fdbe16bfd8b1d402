package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfwise/bookshelf/internal/auth"
)

// RouterConfig carries every dependency the router wires together.
type RouterConfig struct {
	SessionManager *auth.SessionManager
	Users          *UsersController
	Books          *BooksController
	Bookshelves    *BookshelvesController
	Reviews        *ReviewsController
	Health         *HealthController

	CSRFEnabled   bool
	CSRFSecret    []byte
	SecureCookies bool
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Register and login are the only business routes open to anonymous callers;
// everything else sits behind the login gate, with the user administration
// surface additionally behind the admin gate.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.CSRFEnabled && len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	sm := cfg.SessionManager
	router.Use(sm.SessionLoadSave())

	if cfg.Health != nil {
		router.GET("/health", cfg.Health.Status)
	}

	users := router.Group("/users")
	{
		users.POST("/register", cfg.Users.Register)
		users.POST("/login", cfg.Users.Login)
		users.GET("/logout", sm.RequireLogin(), cfg.Users.Logout)
		users.GET("", sm.RequireLogin(), sm.RequireAdmin(), cfg.Users.List)
		users.GET("/search", sm.RequireLogin(), sm.RequireAdmin(), cfg.Users.Search)
		users.GET("/:id", sm.RequireLogin(), sm.RequireAdmin(), cfg.Users.Get)
		users.POST("", sm.RequireLogin(), sm.RequireAdmin(), cfg.Users.Create)
		users.PUT("/:id", sm.RequireLogin(), cfg.Users.Update)
		users.DELETE("/:id", sm.RequireLogin(), sm.RequireAdmin(), cfg.Users.Delete)
	}

	books := router.Group("/books", sm.RequireLogin())
	{
		books.GET("", cfg.Books.List)
		books.GET("/search", cfg.Books.Search)
		books.GET("/isbn/:isbn", cfg.Books.GetByISBN)
		books.GET("/fetch/:isbn", cfg.Books.Fetch)
		books.GET("/:id", cfg.Books.Get)
		books.POST("", cfg.Books.Create)
		books.PUT("/:id", cfg.Books.Update)
		books.DELETE("/:id", cfg.Books.Delete)
		books.POST("/backfill", sm.RequireAdmin(), cfg.Books.BackfillAll)
		books.POST("/backfill/:id", sm.RequireAdmin(), cfg.Books.Backfill)
	}

	bookshelves := router.Group("/bookshelves", sm.RequireLogin())
	{
		bookshelves.GET("", cfg.Bookshelves.List)
		bookshelves.GET("/:id", cfg.Bookshelves.Get)
		bookshelves.POST("", cfg.Bookshelves.Create)
		bookshelves.PUT("/:id", cfg.Bookshelves.Update)
		bookshelves.DELETE("/:id", cfg.Bookshelves.Delete)
		bookshelves.PATCH("/read_status/:id", cfg.Bookshelves.PatchReadStatus)
		bookshelves.PATCH("/ranking/:id", cfg.Bookshelves.PatchRanking)
	}

	reviews := router.Group("/reviews", sm.RequireLogin())
	{
		reviews.GET("", cfg.Reviews.List)
		reviews.GET("/:id", cfg.Reviews.Get)
		reviews.POST("", cfg.Reviews.Create)
		reviews.PUT("/:id", cfg.Reviews.Update)
		reviews.DELETE("/:id", cfg.Reviews.Delete)
		reviews.PATCH("/useful/:id", cfg.Reviews.PatchUseful)
		reviews.PATCH("/useless/:id", cfg.Reviews.PatchUseless)
	}

	return router
}
