package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	return openNamedTestStore(t, t.Name())
}

func openNamedTestStore(t *testing.T, name string) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return New(db)
}

func sampleConversation(id string, updatedAt time.Time) model.Conversation {
	created := updatedAt.Add(-time.Hour)
	return model.Conversation{
		ID:      id,
		UserID:  "user-1",
		Subject: catalog.Matematicas,
		Title:   "Mat: cómo resuelvo ecuaciones...",
		Messages: []model.Message{
			{
				ID:        "01HMSGWELCOME0000000000000",
				Content:   "¡Hola Ana!",
				IsBot:     true,
				Timestamp: created,
				Subject:   catalog.Matematicas,
				UserID:    "user-1",
			},
			{
				ID:        "01HMSGUSER0000000000000000",
				Content:   "¿Cómo resuelvo ecuaciones cuadráticas?",
				IsBot:     false,
				Timestamp: updatedAt,
				Subject:   catalog.Matematicas,
				UserID:    "user-1",
			},
		},
		CreatedAt: created,
		UpdatedAt: updatedAt,
	}
}

func TestConversationRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	want := sampleConversation("conv-1", time.Date(2026, 8, 30, 10, 30, 0, 123456789, time.UTC))
	if err := st.SaveConversation(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := st.GetConversations(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(got))
	}
	c := got[0]
	if c.ID != want.ID || c.UserID != want.UserID || c.Subject != want.Subject || c.Title != want.Title {
		t.Fatalf("scalar fields mismatch: %+v", c)
	}
	if !c.CreatedAt.Equal(want.CreatedAt) || !c.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("temporal fields mismatch: %v / %v", c.CreatedAt, c.UpdatedAt)
	}
	if len(c.Messages) != len(want.Messages) {
		t.Fatalf("expected %d messages, got %d", len(want.Messages), len(c.Messages))
	}
	for i := range c.Messages {
		if c.Messages[i].ID != want.Messages[i].ID ||
			c.Messages[i].Content != want.Messages[i].Content ||
			c.Messages[i].IsBot != want.Messages[i].IsBot ||
			!c.Messages[i].Timestamp.Equal(want.Messages[i].Timestamp) {
			t.Fatalf("message %d mismatch: %+v", i, c.Messages[i])
		}
	}
}

func TestSaveConversationUpserts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	conv := sampleConversation("conv-1", time.Now())
	if err := st.SaveConversation(ctx, conv); err != nil {
		t.Fatalf("save: %v", err)
	}
	conv.Title = "nuevo título"
	if err := st.SaveConversation(ctx, conv); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got := st.GetConversations(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation after upsert, got %d", len(got))
	}
	if got[0].Title != "nuevo título" {
		t.Fatalf("expected updated title, got %q", got[0].Title)
	}
}

func TestDeleteConversation(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	a := sampleConversation("conv-a", time.Now())
	b := sampleConversation("conv-b", time.Now())
	if err := st.SaveConversations(ctx, []model.Conversation{a, b}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := st.DeleteConversation(ctx, "conv-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := st.GetConversations(ctx)
	if len(got) != 1 || got[0].ID != "conv-b" {
		t.Fatalf("unexpected survivors: %+v", got)
	}

	// Deleting an unknown id is a no-op.
	if err := st.DeleteConversation(ctx, "conv-missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if got := st.GetConversations(ctx); len(got) != 1 {
		t.Fatalf("delete of unknown id changed the collection: %+v", got)
	}
}

func TestCorruptRecordDegradesToDefault(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rec := Record{Key: keyConversations, Value: "{not json"}
	if err := st.db.Create(&rec).Error; err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}
	if got := st.GetConversations(ctx); got != nil {
		t.Fatalf("expected empty default from corrupt record, got %+v", got)
	}

	bad := Record{Key: keyUsageStats + "_u1", Value: `"wrong shape"`}
	if err := st.db.Create(&bad).Error; err != nil {
		t.Fatalf("seed corrupt stats: %v", err)
	}
	stats := st.GetUsageStats(ctx, "u1")
	if stats.TotalQuestions != 0 || len(stats.SubjectDistribution) != 7 {
		t.Fatalf("expected zeroed stats with 7 seeded subjects, got %+v", stats)
	}
}

func TestBadTimestampDegradesToDefault(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	doc := `[{"id":"c1","userId":"u1","subject":"matematicas","title":"t","messages":[],"createdAt":"yesterday","updatedAt":"now"}]`
	rec := Record{Key: keyConversations, Value: doc}
	if err := st.db.Create(&rec).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if got := st.GetConversations(ctx); got != nil {
		t.Fatalf("unparseable dates must degrade to empty, got %+v", got)
	}
}

func TestUserRoundTripAndClear(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if u := st.GetUser(ctx); u != nil {
		t.Fatalf("expected nil user on empty store, got %+v", u)
	}

	want := model.User{ID: "u1", Name: "Ana", Role: catalog.RoleStudent, Grade: "8º"}
	if err := st.SaveUser(ctx, want); err != nil {
		t.Fatalf("save user: %v", err)
	}
	got := st.GetUser(ctx)
	if got == nil || got.ID != "u1" || got.Name != "Ana" || got.Role != catalog.RoleStudent {
		t.Fatalf("unexpected user: %+v", got)
	}

	if err := st.ClearUser(ctx); err != nil {
		t.Fatalf("clear user: %v", err)
	}
	if u := st.GetUser(ctx); u != nil {
		t.Fatalf("expected nil user after clear, got %+v", u)
	}
}

func TestSettingsDefaults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	set := st.GetSettings(ctx, "u1")
	if set["theme"] != "light" || set["notifications"] != true || set["studyReminders"] != false {
		t.Fatalf("unexpected defaults: %+v", set)
	}

	set["theme"] = "dark"
	if err := st.SaveSettings(ctx, "u1", set); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if got := st.GetSettings(ctx, "u1"); got["theme"] != "dark" {
		t.Fatalf("expected persisted theme, got %+v", got)
	}
	// Another user still sees defaults.
	if got := st.GetSettings(ctx, "u2"); got["theme"] != "light" {
		t.Fatalf("settings leaked across users: %+v", got)
	}
}

func TestCleanupOldDataIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	fresh := sampleConversation("fresh", time.Now().Add(-24*time.Hour))
	stale := sampleConversation("stale", time.Now().AddDate(0, 0, -120))
	if err := st.SaveConversations(ctx, []model.Conversation{fresh, stale}); err != nil {
		t.Fatalf("save: %v", err)
	}

	kept, err := st.CleanupOldData(ctx, 90)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if kept != 1 {
		t.Fatalf("expected 1 kept, got %d", kept)
	}

	keptAgain, err := st.CleanupOldData(ctx, 90)
	if err != nil {
		t.Fatalf("cleanup twice: %v", err)
	}
	if keptAgain != 1 {
		t.Fatalf("cleanup is not idempotent: %d then %d", kept, keptAgain)
	}
	got := st.GetConversations(ctx)
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Fatalf("unexpected survivors: %+v", got)
	}
}
