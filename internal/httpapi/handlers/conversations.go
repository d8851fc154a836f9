package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/convo"
)

type createConversationReq struct {
	Subject catalog.Subject `json:"subject" binding:"required"`
	Title   string          `json:"title"`
}

func (h *Handler) CreateConversation(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	var req createConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	m, _ := h.manager(c.Request.Context(), user.ID)
	conv, err := m.Create(c.Request.Context(), req.Subject, req.Title)
	if err != nil {
		if errors.Is(err, convo.ErrInvalidSubject) {
			respondFail(c, http.StatusBadRequest, 10010, "unknown subject")
			return
		}
		respondFail(c, http.StatusInternalServerError, 50010, "failed to create conversation")
		return
	}
	respondOK(c, conv)
}

// ListConversations returns the user's conversations; ?q= filters by
// case-insensitive substring over titles and message contents.
func (h *Handler) ListConversations(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	m, _ := h.manager(c.Request.Context(), user.ID)
	respondOK(c, m.Search(c.Query("q")))
}

func (h *Handler) GetConversation(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	m, _ := h.manager(c.Request.Context(), user.ID)
	conv, err := m.Load(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusNotFound, 40410, "conversation not found")
		return
	}
	respondOK(c, conv)
}

type sendMessageReq struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	m, _ := h.manager(c.Request.Context(), user.ID)
	conv, err := m.SendTo(c.Request.Context(), c.Param("id"), req.Message)
	switch {
	case errors.Is(err, convo.ErrEmptyMessage):
		respondFail(c, http.StatusBadRequest, 10011, "message is empty")
	case errors.Is(err, convo.ErrBusy):
		respondFail(c, http.StatusConflict, 40910, "a response is already in flight")
	case errors.Is(err, convo.ErrNotFound), errors.Is(err, convo.ErrNoActive):
		respondFail(c, http.StatusNotFound, 40410, "conversation not found")
	case err != nil:
		respondFail(c, http.StatusInternalServerError, 50011, "failed to send message")
	default:
		respondOK(c, conv)
	}
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	m, _ := h.manager(c.Request.Context(), user.ID)
	if err := m.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondFail(c, http.StatusInternalServerError, 50012, "failed to delete conversation")
		return
	}
	respondOK(c, nil)
}

func (h *Handler) ExportConversation(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	m, _ := h.manager(c.Request.Context(), user.ID)
	transcript, err := m.Export(c.Param("id"))
	if err != nil {
		respondFail(c, http.StatusNotFound, 40410, "conversation not found")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(transcript))
}

type changeSubjectReq struct {
	Subject catalog.Subject `json:"subject" binding:"required"`
}

// ChangeSubject moves the selected subject; when the active conversation is
// on another subject a fresh conversation is started and returned.
func (h *Handler) ChangeSubject(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	var req changeSubjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	m, _ := h.manager(c.Request.Context(), user.ID)
	conv, err := m.ChangeSubject(c.Request.Context(), req.Subject)
	if err != nil {
		if errors.Is(err, convo.ErrInvalidSubject) {
			respondFail(c, http.StatusBadRequest, 10010, "unknown subject")
			return
		}
		respondFail(c, http.StatusInternalServerError, 50013, "failed to change subject")
		return
	}
	respondOK(c, gin.H{
		"selectedSubject": m.SelectedSubject(),
		"conversation":    conv,
	})
}
