package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Adelodunpeter25/url-shortener/config"
	"github.com/Adelodunpeter25/url-shortener/internal/handler"
	"github.com/Adelodunpeter25/url-shortener/internal/middleware"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

type Handlers struct {
	Links *handler.LinkHandler
	Users *handler.UserHandler
	Keys  *handler.APIKeyHandler
	Admin *handler.AdminHandler
}

func Router(cfg *config.Config, h Handlers, users *repository.UserRepository, keys *service.APIKeyService) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RateLimit(cfg.Limits.GlobalPerHour, time.Hour))

	identity := middleware.Identity(&cfg.JWT, keys)

	r.GET("/", h.Links.Home)
	r.GET("/health", h.Links.Health)

	r.POST("/shorten",
		middleware.RateLimit(cfg.Limits.ShortenPerMinute, time.Minute),
		identity, h.Links.Shorten)
	r.POST("/bulk-shorten", identity, h.Links.BulkShorten)
	r.POST("/verify/:code", h.Links.Verify)
	r.GET("/analytics/:code", h.Links.Analytics)
	r.GET("/qr/:code", h.Links.QR)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Users.Register)
			auth.POST("/login", h.Users.Login)
			auth.POST("/refresh", h.Users.Refresh)
			auth.POST("/logout", identity, middleware.RequireAuth(), h.Users.Logout)
			auth.GET("/profile", identity, middleware.RequireAuth(), h.Users.Profile)
		}

		my := api.Group("/my", identity, middleware.RequireAuth())
		{
			my.GET("/urls", h.Users.MyURLs)
			my.DELETE("/urls/:code", h.Users.DeleteMyURL)
			my.GET("/urls/:code/analytics", h.Users.MyURLAnalytics)
			my.GET("/stats", h.Users.MyStats)
		}

		keysGroup := api.Group("/keys", identity, middleware.RequireAuth())
		{
			keysGroup.POST("", h.Keys.Create)
			keysGroup.GET("", h.Keys.List)
			keysGroup.DELETE("/:id", h.Keys.Delete)
			keysGroup.PUT("/:id/toggle", h.Keys.Toggle)
		}

		admin := api.Group("/admin", identity, middleware.RequireAdmin(users))
		{
			admin.GET("/stats", h.Admin.Stats)
			admin.GET("/users", h.Admin.Users)
			admin.PUT("/users/:id/role", h.Admin.UpdateUserRole)
			admin.GET("/urls", h.Admin.URLs)
			admin.DELETE("/urls/:code", h.Admin.DeleteURL)
		}
	}

	// Redirect goes last; static routes above take priority.
	r.GET("/:code", h.Links.Redirect)

	return r
}
