package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/cmontoya/eduassist/internal/auth"
	"github.com/cmontoya/eduassist/internal/config"
	"github.com/cmontoya/eduassist/internal/convo"
	"github.com/cmontoya/eduassist/internal/httpapi/middleware"
	"github.com/cmontoya/eduassist/internal/model"
	"github.com/cmontoya/eduassist/internal/responder"
	"github.com/cmontoya/eduassist/internal/stats"
	"github.com/cmontoya/eduassist/internal/store"
)

type Handler struct {
	Cfg      config.Config
	Store    *store.Store
	Sessions *auth.Sessions
	Resp     *responder.Responder
	Agg      *stats.Aggregator

	mu       sync.Mutex
	managers map[string]*convo.Manager
}

func NewHandler(cfg config.Config, st *store.Store) *Handler {
	return &Handler{
		Cfg:      cfg,
		Store:    st,
		Sessions: auth.NewSessions(st),
		Resp:     responder.New(),
		Agg:      stats.New(st),
		managers: make(map[string]*convo.Manager),
	}
}

// manager returns the conversation manager of a logged-in user, creating it
// lazily on first use after login.
func (h *Handler) manager(ctx context.Context, userID string) (*convo.Manager, bool) {
	user, ok := h.Sessions.Get(userID)
	if !ok {
		return nil, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.managers[userID]; ok {
		return m, true
	}
	m := convo.NewManager(ctx, h.Store, h.Resp, h.Agg, user,
		convo.WithThinkDelay(h.Cfg.ThinkMin, h.Cfg.ThinkMax))
	h.managers[userID] = m
	return m, true
}

func (h *Handler) dropManager(userID string) {
	h.mu.Lock()
	delete(h.managers, userID)
	h.mu.Unlock()
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func respondFail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

func userIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func (h *Handler) Ping(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

// sessionUser resolves the authenticated user or writes the failure response.
func (h *Handler) sessionUser(c *gin.Context) (model.User, bool) {
	uid, ok := userIDFromContext(c)
	if !ok {
		respondFail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return model.User{}, false
	}
	user, ok := h.Sessions.Get(uid)
	if !ok {
		respondFail(c, http.StatusUnauthorized, 40102, "session expired, log in again")
		return model.User{}, false
	}
	return user, true
}
