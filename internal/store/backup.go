package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/cmontoya/eduassist/internal/model"
)

type backupDoc struct {
	User          *model.User       `json:"user"`
	Conversations []conversationDoc `json:"conversations"`
	Stats         *model.UsageStats `json:"stats,omitempty"`
	Settings      model.Settings    `json:"settings,omitempty"`
	ExportDate    string            `json:"exportDate"`
}

// ExportUserData serializes the user, every conversation, and the user's
// stats and settings into one JSON document. Returns "" on failure.
func (s *Store) ExportUserData(ctx context.Context, userID string) string {
	stats := s.GetUsageStats(ctx, userID)
	doc := backupDoc{
		User:          s.GetUser(ctx),
		Conversations: encodeConversations(s.GetConversations(ctx)),
		Stats:         &stats,
		Settings:      s.GetSettings(ctx, userID),
		ExportDate:    time.Now().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Printf("store: export: %v", err)
		return ""
	}
	return string(b)
}

// ImportUserData replaces the current storage with the contents of a backup
// document. The document must carry at least a user and a conversations list;
// anything malformed is rejected wholesale with no partial import.
func (s *Store) ImportUserData(ctx context.Context, data string) bool {
	var doc backupDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		log.Printf("store: import: %v", err)
		return false
	}
	if doc.User == nil || doc.Conversations == nil {
		log.Printf("store: import: missing user or conversations")
		return false
	}
	convs, err := decodeConversations(doc.Conversations)
	if err != nil {
		log.Printf("store: import: %v", err)
		return false
	}

	if err := s.SaveUser(ctx, *doc.User); err != nil {
		log.Printf("store: import user: %v", err)
		return false
	}
	if err := s.SaveConversations(ctx, convs); err != nil {
		log.Printf("store: import conversations: %v", err)
		return false
	}
	if doc.Settings != nil {
		if err := s.SaveSettings(ctx, doc.User.ID, doc.Settings); err != nil {
			log.Printf("store: import settings: %v", err)
		}
	}
	return true
}
