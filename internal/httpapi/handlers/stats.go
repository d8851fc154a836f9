package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmontoya/eduassist/internal/model"
)

func (h *Handler) UsageStats(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	respondOK(c, h.Agg.Stats(c.Request.Context(), user.ID))
}

func (h *Handler) ConversationStats(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	m, _ := h.manager(c.Request.Context(), user.ID)
	respondOK(c, m.ConversationStats())
}

func (h *Handler) Suggestions(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	m, _ := h.manager(c.Request.Context(), user.ID)
	respondOK(c, gin.H{
		"suggestions": m.Suggestions(),
		"context":     m.LastQuestionContext(),
	})
}

func (h *Handler) GetSettings(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	respondOK(c, h.Store.GetSettings(c.Request.Context(), user.ID))
}

func (h *Handler) PutSettings(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	var set model.Settings
	if err := c.ShouldBindJSON(&set); err != nil {
		respondFail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if err := h.Store.SaveSettings(c.Request.Context(), user.ID, set); err != nil {
		respondFail(c, http.StatusInternalServerError, 50020, "failed to save settings")
		return
	}
	respondOK(c, set)
}

// ExportBackup streams the full-account JSON backup.
func (h *Handler) ExportBackup(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	doc := h.Store.ExportUserData(c.Request.Context(), user.ID)
	if doc == "" {
		respondFail(c, http.StatusInternalServerError, 50021, "failed to export data")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

// ImportBackup replaces storage with an uploaded backup document. Malformed
// documents are rejected wholesale.
func (h *Handler) ImportBackup(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 8<<20))
	if err != nil {
		respondFail(c, http.StatusBadRequest, 10001, "failed to read body")
		return
	}
	if !h.Store.ImportUserData(c.Request.Context(), string(body)) {
		respondFail(c, http.StatusBadRequest, 10020, "invalid backup document")
		return
	}
	// The imported conversations replace the working copies.
	h.dropManager(user.ID)
	respondOK(c, nil)
}
