package handler

import (
	"github.com/bookshelf/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Auth           *service.AuthService
	Books          *service.BookService
	Log            logrus.FieldLogger
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(deps.Log))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(CORSMiddleware(deps.AllowedOrigins, false))
	}

	r.GET("/", Root)
	r.GET("/ping", Ping)
	r.GET("/api-docs/openapi.json", OpenAPIDoc)

	requireAuth := AuthMiddleware(deps.Auth.Tokens(), deps.Log)

	authHandler := NewAuthHandler(deps.Auth, deps.Log)
	users := r.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("/me", requireAuth, authHandler.Me)

	bookHandler := NewBookHandler(deps.Books, deps.Log)
	books := r.Group("/api/books")
	books.GET("", bookHandler.ListBooks)
	books.GET("/:id", bookHandler.GetBook)
	books.POST("", requireAuth, bookHandler.CreateBook)
	books.PUT("/:id", requireAuth, bookHandler.UpdateBook)
	books.DELETE("/:id", requireAuth, bookHandler.DeleteBook)

	return r
}
