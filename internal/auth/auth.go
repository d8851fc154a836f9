// Package auth owns login, logout and user-data validation, plus the JWT
// session tokens consumed by the HTTP layer.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
	"github.com/cmontoya/eduassist/internal/store"
)

var ErrInvalidUserData = errors.New("invalid user data")

// LoginRequest carries the form fields of the login screen.
type LoginRequest struct {
	Name     string            `json:"name"`
	Role     catalog.Role      `json:"role"`
	Grade    string            `json:"grade,omitempty"`
	Subjects []catalog.Subject `json:"subjects,omitempty"`
}

// Validation is the structured outcome of ValidateUserData.
type Validation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateUserData checks the login form: name at least two characters, role
// one of the two known values, and a grade whenever the role is student.
func ValidateUserData(req LoginRequest) Validation {
	var errs []string
	if len(strings.TrimSpace(req.Name)) < 2 {
		errs = append(errs, "El nombre debe tener al menos 2 caracteres")
	}
	if req.Role != catalog.RoleStudent && req.Role != catalog.RoleTeacher {
		errs = append(errs, "Debe seleccionar un rol válido")
	}
	if req.Role == catalog.RoleStudent && strings.TrimSpace(req.Grade) == "" {
		errs = append(errs, "Los estudiantes deben indicar su grado")
	}
	return Validation{IsValid: len(errs) == 0, Errors: errs}
}

// Sessions tracks logged-in users by id.
type Sessions struct {
	st *store.Store

	mu    sync.RWMutex
	users map[string]model.User
}

func NewSessions(st *store.Store) *Sessions {
	return &Sessions{st: st, users: make(map[string]model.User)}
}

// Login validates the request, mints a user with a fresh id, persists it and
// opens a session. Validation failures abort with no state change.
func (s *Sessions) Login(ctx context.Context, req LoginRequest) (model.User, Validation, error) {
	v := ValidateUserData(req)
	if !v.IsValid {
		return model.User{}, v, ErrInvalidUserData
	}

	user := model.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Role:     req.Role,
		Grade:    strings.TrimSpace(req.Grade),
		Subjects: req.Subjects,
	}
	if err := s.st.SaveUser(ctx, user); err != nil {
		return model.User{}, v, err
	}

	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()

	log.Printf("auth: user logged in: %s (%s)", user.Name, user.Role)
	return user, v, nil
}

// Logout closes the session and clears the persisted user record.
func (s *Sessions) Logout(ctx context.Context, userID string) error {
	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
	return s.st.ClearUser(ctx)
}

// Get returns the session user for an id, if logged in.
func (s *Sessions) Get(userID string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	return u, ok
}

// Update edits the mutable fields of a logged-in user, keeping the id fixed,
// and writes the record through.
func (s *Sessions) Update(ctx context.Context, userID string, mutate func(*model.User)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.User{}, errors.New("no active session")
	}
	mutate(&u)
	u.ID = userID
	if err := s.st.SaveUser(ctx, u); err != nil {
		return model.User{}, err
	}
	s.users[userID] = u
	return u, nil
}
