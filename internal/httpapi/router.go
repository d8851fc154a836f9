package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmontoya/eduassist/internal/config"
	"github.com/cmontoya/eduassist/internal/httpapi/handlers"
	"github.com/cmontoya/eduassist/internal/httpapi/middleware"
	"github.com/cmontoya/eduassist/internal/store"
)

func NewRouter(cfg config.Config, st *store.Store) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": 40400, "message": "route not found", "data": nil})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"code": 40500, "message": "method not allowed", "data": nil})
	})

	h := handlers.NewHandler(cfg, st)

	r.GET("/ping", h.Ping)
	r.POST("/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)
	authGroup.PUT("/me", h.UpdateMe)
	authGroup.POST("/logout", h.Logout)

	authGroup.POST("/conversations", h.CreateConversation)
	authGroup.GET("/conversations", h.ListConversations)
	authGroup.GET("/conversations/:id", h.GetConversation)
	authGroup.POST("/conversations/:id/messages", h.SendMessage)
	authGroup.DELETE("/conversations/:id", h.DeleteConversation)
	authGroup.GET("/conversations/:id/export", h.ExportConversation)
	authGroup.PUT("/subject", h.ChangeSubject)

	authGroup.GET("/stats/usage", h.UsageStats)
	authGroup.GET("/stats/conversations", h.ConversationStats)
	authGroup.GET("/suggestions", h.Suggestions)

	authGroup.GET("/settings", h.GetSettings)
	authGroup.PUT("/settings", h.PutSettings)

	authGroup.GET("/backup", h.ExportBackup)
	authGroup.POST("/backup", h.ImportBackup)

	return r
}
