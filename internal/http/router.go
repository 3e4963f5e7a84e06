package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/demo"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Every request passes through identity resolution; routes that need a
// caller wrap their handler with auth.RequireIdentity or auth.RequireUser.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Auditor == nil {
		cfg.Auditor = noopAuditor{}
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.Use(Recovery())
	router.Use(CORS(cfg.AllowedOrigins))
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(demo.NewMiddleware(cfg.DemoMode).Handler())
	router.Use(auth.NewMiddleware(cfg.Tokens).Handler())

	router.NoRoute(func(c *gin.Context) {
		respondStatus(c, http.StatusNotFound, "Not Found")
	})

	health := NewHealthController(cfg.Database, cfg.Cache, cfg.Version)
	usersController := NewUsersController(cfg.Users, cfg.Tokens, cfg.LoginLimiter, cfg.Auditor)
	listsController := NewListsController(cfg.Lists, cfg.Auditor)
	reviewsController := NewReviewsController(cfg.Reviews, cfg.Auditor)
	booksController := NewBooksController(cfg.Books, cfg.Covers)
	searchController := NewSearchController(cfg.Search)
	auditController := NewAuditController(cfg.Auditor)

	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	users := router.Group("/users")
	{
		users.POST("/register", usersController.Register)
		users.POST("/login", usersController.Login)
		users.GET("", auth.RequireIdentity(usersController.List))
		users.GET("/:username", auth.RequireIdentity(usersController.Get))
		users.PATCH("/:username", auth.RequireUser("username", usersController.Update))
		users.DELETE("/:username", auth.RequireUser("username", usersController.Delete))
		users.GET("/:username/audit", auth.RequireUser("username", auditController.Events))
	}

	lists := router.Group("/lists")
	{
		lists.GET("", listsController.GetAll)
		lists.POST("", auth.RequireIdentity(listsController.Create))
		lists.GET("/user/:username", auth.RequireIdentity(listsController.GetByUser))
		lists.GET("/:id", auth.RequireIdentity(listsController.Get))
		lists.PUT("/:id", auth.RequireIdentity(listsController.Update))
		lists.DELETE("/:id", auth.RequireIdentity(listsController.Delete))
		lists.POST("/:id/books/:book_id", auth.RequireIdentity(listsController.AddBook))
		lists.DELETE("/:id/books/:book_id", auth.RequireIdentity(listsController.RemoveBook))
	}

	reviews := router.Group("/reviews")
	{
		reviews.GET("/:list_id", auth.RequireIdentity(reviewsController.GetAll))
		reviews.POST("/:list_id", auth.RequireIdentity(reviewsController.Create))
		reviews.PATCH("/:list_id/:username", auth.RequireUser("username", reviewsController.Edit))
		reviews.DELETE("/:list_id/:username", auth.RequireUser("username", reviewsController.Delete))
	}

	books := router.Group("/books")
	{
		books.GET("", booksController.GetAll)
		books.GET("/:id", booksController.Get)
		books.GET("/:id/cover", booksController.Cover)
		books.POST("", auth.RequireIdentity(booksController.Create))
	}

	router.GET("/search", searchController.Search)

	return router
}
