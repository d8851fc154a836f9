// Package model holds the domain types shared by the store, the conversation
// manager and the usage aggregator.
package model

import (
	"time"

	"github.com/cmontoya/eduassist/internal/catalog"
)

// User is the single account of a session. ID is opaque and immutable; the
// remaining fields may be edited after login.
type User struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Role     catalog.Role      `json:"role"`
	Grade    string            `json:"grade,omitempty"`
	Subjects []catalog.Subject `json:"subjects,omitempty"`
}

// Message is one chat bubble. Messages are immutable and append-only.
type Message struct {
	ID        string          `json:"id"`
	Content   string          `json:"content"`
	IsBot     bool            `json:"isBot"`
	Timestamp time.Time       `json:"timestamp"`
	Subject   catalog.Subject `json:"subject,omitempty"`
	UserID    string          `json:"userId"`
}

// Conversation is an ordered message sequence owned by one user. Subject never
// changes after creation; switching subjects creates a new conversation.
type Conversation struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Subject   catalog.Subject `json:"subject"`
	Title     string          `json:"title"`
	Messages  []Message       `json:"messages"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DailyUsage is one calendar-date bucket of the rolling usage window.
// Date is formatted YYYY-MM-DD.
type DailyUsage struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UsageStats is the per-user aggregate maintained by the stats package.
// AverageResponseTime is reserved and currently always zero.
type UsageStats struct {
	TotalQuestions      int                     `json:"totalQuestions"`
	SubjectDistribution map[catalog.Subject]int `json:"subjectDistribution"`
	DailyUsage          []DailyUsage            `json:"dailyUsage"`
	AverageResponseTime float64                 `json:"averageResponseTime"`
	UserEngagement      float64                 `json:"userEngagement"`
}

// EmptyUsageStats returns a zeroed aggregate with every subject pre-seeded,
// so the distribution map is always exhaustive.
func EmptyUsageStats() UsageStats {
	dist := make(map[catalog.Subject]int, len(catalog.AllSubjects))
	for _, s := range catalog.AllSubjects {
		dist[s] = 0
	}
	return UsageStats{
		SubjectDistribution: dist,
		DailyUsage:          []DailyUsage{},
	}
}

// Settings is the free-form per-user preference map.
type Settings map[string]any

// DefaultSettings are the values applied when a user has no stored settings.
func DefaultSettings() Settings {
	return Settings{
		"theme":             "light",
		"notifications":     true,
		"preferredSubjects": []any{},
		"studyReminders":    false,
	}
}
