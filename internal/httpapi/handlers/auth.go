package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cmontoya/eduassist/internal/auth"
	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
)

func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	user, validation, err := h.Sessions.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidUserData) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    10002,
				"message": "validation failed",
				"data":    validation,
			})
			return
		}
		respondFail(c, http.StatusInternalServerError, 50001, "failed to save user")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret)
	if err != nil {
		respondFail(c, http.StatusInternalServerError, 50002, "failed to sign token")
		return
	}

	respondOK(c, gin.H{
		"user":    user,
		"token":   token,
		"welcome": catalog.LoginWelcome(user.Role),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	h.dropManager(user.ID)
	if err := h.Sessions.Logout(c.Request.Context(), user.ID); err != nil {
		respondFail(c, http.StatusInternalServerError, 50003, "failed to clear user record")
		return
	}
	respondOK(c, nil)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	respondOK(c, user)
}

type updateMeReq struct {
	Name     *string            `json:"name"`
	Grade    *string            `json:"grade"`
	Subjects *[]catalog.Subject `json:"subjects"`
}

// UpdateMe edits the mutable user fields; the id and role stay fixed.
func (h *Handler) UpdateMe(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}
	var req updateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Name != nil && len(strings.TrimSpace(*req.Name)) < 2 {
		respondFail(c, http.StatusBadRequest, 10003, "El nombre debe tener al menos 2 caracteres")
		return
	}

	updated, err := h.Sessions.Update(c.Request.Context(), user.ID, func(u *model.User) {
		if req.Name != nil {
			u.Name = strings.TrimSpace(*req.Name)
		}
		if req.Grade != nil {
			u.Grade = strings.TrimSpace(*req.Grade)
		}
		if req.Subjects != nil {
			u.Subjects = *req.Subjects
		}
	})
	if err != nil {
		respondFail(c, http.StatusInternalServerError, 50004, "failed to update user")
		return
	}
	respondOK(c, updated)
}
