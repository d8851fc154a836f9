// Package convo orchestrates the conversation lifecycle: creation with a
// synchronous welcome message, message exchange through the responder, title
// derivation, search, export and deletion. It keeps a write-through working
// copy of the owner's conversations; the store stays the source of truth.
package convo

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
	"github.com/cmontoya/eduassist/internal/responder"
	"github.com/cmontoya/eduassist/internal/stats"
	"github.com/cmontoya/eduassist/internal/store"
)

var (
	ErrNotFound       = errors.New("conversation not found")
	ErrNoActive       = errors.New("no active conversation")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrBusy           = errors.New("a response is already in flight")
	ErrInvalidSubject = errors.New("unknown subject")
)

// A title is recomputed from the first user message while the conversation
// holds at most this many messages; beyond it the title is frozen.
const titleFreezeAt = 3

type Manager struct {
	st   *store.Store
	resp *responder.Responder
	agg  *stats.Aggregator
	user model.User

	mu       sync.Mutex
	convs    []model.Conversation
	activeID string
	selected catalog.Subject
	sending  bool

	now      func() time.Time
	sleep    func(time.Duration)
	rng      *rand.Rand
	thinkMin time.Duration
	thinkMax time.Duration
}

// Option tweaks a Manager; used by tests to pin time, sleep and randomness.
type Option func(*Manager)

func WithClock(now func() time.Time) Option      { return func(m *Manager) { m.now = now } }
func WithSleep(sleep func(time.Duration)) Option { return func(m *Manager) { m.sleep = sleep } }
func WithRand(rng *rand.Rand) Option             { return func(m *Manager) { m.rng = rng } }
func WithThinkDelay(min, max time.Duration) Option {
	return func(m *Manager) { m.thinkMin, m.thinkMax = min, max }
}

// NewManager builds the session manager for user, loading their conversations
// from the store.
func NewManager(ctx context.Context, st *store.Store, resp *responder.Responder, agg *stats.Aggregator, user model.User, opts ...Option) *Manager {
	m := &Manager{
		st:       st,
		resp:     resp,
		agg:      agg,
		user:     user,
		selected: catalog.Matematicas,
		now:      time.Now,
		sleep:    time.Sleep,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		thinkMin: 1000 * time.Millisecond,
		thinkMax: 3000 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, c := range st.GetConversations(ctx) {
		if c.UserID == user.ID {
			m.convs = append(m.convs, c)
		}
	}
	return m
}

// Create starts a new conversation on subject, injects the welcome message,
// persists it and makes it active. An empty title gets a placeholder that the
// first exchange will overwrite.
func (m *Manager) Create(ctx context.Context, subject catalog.Subject, title string) (model.Conversation, error) {
	if !subject.Valid() {
		return model.Conversation{}, ErrInvalidSubject
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(ctx, subject, title)
}

func (m *Manager) createLocked(ctx context.Context, subject catalog.Subject, title string) (model.Conversation, error) {
	if title == "" {
		title = "Nueva conversación de " + string(subject)
	}
	now := m.now()
	conv := model.Conversation{
		ID:        uuid.NewString(),
		UserID:    m.user.ID,
		Subject:   subject,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	conv.Messages = append(conv.Messages, model.Message{
		ID:        ulid.Make().String(),
		Content:   catalog.ConversationWelcome(m.user.Name, m.user.Role, subject),
		IsBot:     true,
		Timestamp: now,
		Subject:   subject,
		UserID:    m.user.ID,
	})

	if err := m.st.SaveConversation(ctx, conv); err != nil {
		return model.Conversation{}, err
	}
	m.upsertLocked(conv)
	m.activeID = conv.ID
	m.selected = subject
	return cloneConversation(conv), nil
}

// Send appends the trimmed user message to the active conversation, waits the
// simulated thinking delay, resolves the bot reply, persists the result and
// records the exchange in the usage stats. A second Send while one is in
// flight is rejected with ErrBusy. Once started, the delay-then-resolve
// sequence always completes and writes its result.
func (m *Manager) Send(ctx context.Context, text string) (model.Conversation, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return model.Conversation{}, ErrEmptyMessage
	}

	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return model.Conversation{}, ErrBusy
	}
	conv, ok := m.findLocked(m.activeID)
	if !ok {
		m.mu.Unlock()
		return model.Conversation{}, ErrNoActive
	}
	subject := m.selected
	conv.Messages = append(conv.Messages, model.Message{
		ID:        ulid.Make().String(),
		Content:   content,
		IsBot:     false,
		Timestamp: m.now(),
		Subject:   subject,
		UserID:    m.user.ID,
	})
	conv.UpdatedAt = m.now()
	m.upsertLocked(conv)
	m.sending = true
	history := cloneConversation(conv).Messages
	delay := m.thinkMin
	if m.thinkMax > m.thinkMin {
		delay += time.Duration(m.rng.Int63n(int64(m.thinkMax - m.thinkMin)))
	}
	m.mu.Unlock()

	m.sleep(delay)
	reply := m.resp.Resolve(content, subject, history)

	m.mu.Lock()
	defer func() {
		m.sending = false
		m.mu.Unlock()
	}()

	// Re-read the working copy: other operations may have run during the
	// delay. The result is written regardless; last write wins.
	if cur, ok := m.findLocked(conv.ID); ok {
		conv = cur
	}
	conv.Messages = append(conv.Messages, model.Message{
		ID:        ulid.Make().String(),
		Content:   reply,
		IsBot:     true,
		Timestamp: m.now(),
		Subject:   subject,
		UserID:    m.user.ID,
	})
	conv.UpdatedAt = m.now()
	if len(conv.Messages) <= titleFreezeAt {
		conv.Title = deriveTitle(conv)
	}
	m.upsertLocked(conv)

	if err := m.st.SaveConversation(ctx, conv); err != nil {
		return model.Conversation{}, err
	}
	if err := m.agg.Record(ctx, m.user.ID, subject); err != nil {
		return model.Conversation{}, err
	}
	return cloneConversation(conv), nil
}

// SendTo activates the conversation with the given id and sends text to it.
// Rejections happen before activation, so a busy session or an unknown id
// leaves the active conversation and selected subject untouched.
func (m *Manager) SendTo(ctx context.Context, id, text string) (model.Conversation, error) {
	if strings.TrimSpace(text) == "" {
		return model.Conversation{}, ErrEmptyMessage
	}
	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return model.Conversation{}, ErrBusy
	}
	conv, ok := m.findLocked(id)
	if !ok {
		m.mu.Unlock()
		return model.Conversation{}, ErrNotFound
	}
	m.activeID = conv.ID
	m.selected = conv.Subject
	m.mu.Unlock()
	return m.Send(ctx, text)
}

// Load makes the conversation with the given id active.
func (m *Manager) Load(id string) (model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.findLocked(id)
	if !ok {
		return model.Conversation{}, ErrNotFound
	}
	m.activeID = conv.ID
	m.selected = conv.Subject
	return cloneConversation(conv), nil
}

// Delete removes a conversation from the store and the working copy. Deleting
// the active conversation leaves the session with no active conversation.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.st.DeleteConversation(ctx, id); err != nil {
		return err
	}
	kept := m.convs[:0]
	for _, c := range m.convs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.convs = kept
	if m.activeID == id {
		m.activeID = ""
	}
	return nil
}

// ChangeSubject moves the selected-subject pointer and, when the active
// conversation is on a different subject, starts a fresh conversation rather
// than mutating the old one. The returned conversation is nil when no new one
// was created.
func (m *Manager) ChangeSubject(ctx context.Context, subject catalog.Subject) (*model.Conversation, error) {
	if !subject.Valid() {
		return nil, ErrInvalidSubject
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = subject
	active, ok := m.findLocked(m.activeID)
	if !ok || active.Subject == subject {
		return nil, nil
	}
	conv, err := m.createLocked(ctx, subject, "")
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Search returns the conversations whose title or any message content
// contains query, case-insensitively. An empty query returns everything in
// the existing order.
func (m *Manager) Search(query string) []model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Conversation, 0, len(m.convs))
	for _, c := range m.convs {
		if q == "" || matches(c, q) {
			out = append(out, cloneConversation(c))
		}
	}
	return out
}

func matches(c model.Conversation, q string) bool {
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	for _, msg := range c.Messages {
		if strings.Contains(strings.ToLower(msg.Content), q) {
			return true
		}
	}
	return false
}

// Current returns a copy of the active conversation, or nil when none is
// active.
func (m *Manager) Current() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.findLocked(m.activeID)
	if !ok {
		return nil
	}
	c := cloneConversation(conv)
	return &c
}

// SelectedSubject is the subject new conversations and sends will use.
func (m *Manager) SelectedSubject() catalog.Subject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Sending reports whether a send is in flight.
func (m *Manager) Sending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sending
}

// User returns the session owner.
func (m *Manager) User() model.User { return m.user }

func (m *Manager) findLocked(id string) (model.Conversation, bool) {
	if id == "" {
		return model.Conversation{}, false
	}
	for _, c := range m.convs {
		if c.ID == id {
			return c, true
		}
	}
	return model.Conversation{}, false
}

func (m *Manager) upsertLocked(conv model.Conversation) {
	for i := range m.convs {
		if m.convs[i].ID == conv.ID {
			m.convs[i] = conv
			return
		}
	}
	m.convs = append(m.convs, conv)
}

// deriveTitle builds "<abbrev>: <first four words>..." from the first
// user-authored message.
func deriveTitle(conv model.Conversation) string {
	for _, msg := range conv.Messages {
		if msg.IsBot {
			continue
		}
		words := strings.Fields(strings.ToLower(msg.Content))
		if len(words) > 4 {
			words = words[:4]
		}
		return conv.Subject.TitleAbbrev() + ": " + strings.Join(words, " ") + "..."
	}
	return conv.Title
}

func cloneConversation(c model.Conversation) model.Conversation {
	out := c
	out.Messages = append([]model.Message(nil), c.Messages...)
	return out
}
