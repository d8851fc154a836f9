// Package store persists the assistant's state as JSON documents in a
// key-value table. Every mutation is a full read-modify-write of the owning
// collection; there are no cross-collection transactions and the last writer
// wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cmontoya/eduassist/internal/model"
)

// Storage namespace keys. The conversations record holds every user's
// conversations in one document; filtering by owner is the caller's job.
const (
	keyUser          = "edu_assistant_user"
	keyConversations = "edu_assistant_conversations"
	keyUsageStats    = "edu_assistant_usage_stats"
	keySettings      = "edu_assistant_settings"
)

// Record is one durable key-value entry.
type Record struct {
	Key       string `gorm:"primaryKey;type:varchar(191)"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "kv_records" }

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) put(ctx context.Context, key string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	rec := Record{Key: key, Value: string(b)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

// get unmarshals the record at key into out. The bool reports whether a
// usable value was found; storage and decode failures both degrade to false.
func (s *Store) get(ctx context.Context, key string, out any) bool {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("store: read %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(rec.Value), out); err != nil {
		log.Printf("store: decode %s: %v", key, err)
		return false
	}
	return true
}

func (s *Store) delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
}

// SaveUser persists the single user record.
func (s *Store) SaveUser(ctx context.Context, u model.User) error {
	return s.put(ctx, keyUser, u)
}

// GetUser returns the stored user, or nil when absent or unreadable.
func (s *Store) GetUser(ctx context.Context) *model.User {
	var u model.User
	if !s.get(ctx, keyUser, &u) {
		return nil
	}
	return &u
}

// ClearUser removes the user record (logout).
func (s *Store) ClearUser(ctx context.Context) error {
	return s.delete(ctx, keyUser)
}

// GetConversations loads every stored conversation, across all users. A
// missing or corrupt record degrades to an empty list.
func (s *Store) GetConversations(ctx context.Context) []model.Conversation {
	var docs []conversationDoc
	if !s.get(ctx, keyConversations, &docs) {
		return nil
	}
	convs, err := decodeConversations(docs)
	if err != nil {
		log.Printf("store: conversations unreadable, starting empty: %v", err)
		return nil
	}
	return convs
}

// SaveConversations overwrites the whole conversation collection.
func (s *Store) SaveConversations(ctx context.Context, convs []model.Conversation) error {
	return s.put(ctx, keyConversations, encodeConversations(convs))
}

// SaveConversation upserts one conversation into the collection by id.
func (s *Store) SaveConversation(ctx context.Context, conv model.Conversation) error {
	convs := s.GetConversations(ctx)
	replaced := false
	for i := range convs {
		if convs[i].ID == conv.ID {
			convs[i] = conv
			replaced = true
			break
		}
	}
	if !replaced {
		convs = append(convs, conv)
	}
	return s.SaveConversations(ctx, convs)
}

// DeleteConversation removes one conversation from the collection by id.
// Deleting an unknown id is a no-op.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	convs := s.GetConversations(ctx)
	kept := convs[:0]
	for _, c := range convs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return s.SaveConversations(ctx, kept)
}

// GetUsageStats loads a user's aggregate, returning a zeroed one with all
// subjects pre-seeded when absent or unreadable.
func (s *Store) GetUsageStats(ctx context.Context, userID string) model.UsageStats {
	stats := model.EmptyUsageStats()
	if !s.get(ctx, keyUsageStats+"_"+userID, &stats) {
		return model.EmptyUsageStats()
	}
	if stats.SubjectDistribution == nil {
		stats.SubjectDistribution = model.EmptyUsageStats().SubjectDistribution
	}
	return stats
}

// SaveUsageStats persists a user's aggregate.
func (s *Store) SaveUsageStats(ctx context.Context, userID string, stats model.UsageStats) error {
	return s.put(ctx, keyUsageStats+"_"+userID, stats)
}

// GetSettings loads a user's preference map, falling back to the defaults.
func (s *Store) GetSettings(ctx context.Context, userID string) model.Settings {
	var set model.Settings
	if !s.get(ctx, keySettings+"_"+userID, &set) || set == nil {
		return model.DefaultSettings()
	}
	return set
}

// SaveSettings persists a user's preference map.
func (s *Store) SaveSettings(ctx context.Context, userID string, set model.Settings) error {
	return s.put(ctx, keySettings+"_"+userID, set)
}

// CleanupOldData drops conversations whose last update is older than
// daysToKeep days and reports how many were kept. Running it twice retains
// the same set.
func (s *Store) CleanupOldData(ctx context.Context, daysToKeep int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	convs := s.GetConversations(ctx)
	kept := convs[:0]
	for _, c := range convs {
		if c.UpdatedAt.After(cutoff) {
			kept = append(kept, c)
		}
	}
	if err := s.SaveConversations(ctx, kept); err != nil {
		return 0, err
	}
	return len(kept), nil
}
