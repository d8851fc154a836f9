package store

import (
	"fmt"
	"time"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
)

// Temporal fields are stored as RFC3339 strings so the documents stay
// readable and portable; parsing happens on every load.

type messageDoc struct {
	ID        string          `json:"id"`
	Content   string          `json:"content"`
	IsBot     bool            `json:"isBot"`
	Timestamp string          `json:"timestamp"`
	Subject   catalog.Subject `json:"subject,omitempty"`
	UserID    string          `json:"userId"`
}

type conversationDoc struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Subject   catalog.Subject `json:"subject"`
	Title     string          `json:"title"`
	Messages  []messageDoc    `json:"messages"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func encodeConversations(convs []model.Conversation) []conversationDoc {
	docs := make([]conversationDoc, 0, len(convs))
	for _, c := range convs {
		doc := conversationDoc{
			ID:        c.ID,
			UserID:    c.UserID,
			Subject:   c.Subject,
			Title:     c.Title,
			Messages:  make([]messageDoc, 0, len(c.Messages)),
			CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: c.UpdatedAt.Format(time.RFC3339Nano),
		}
		for _, m := range c.Messages {
			doc.Messages = append(doc.Messages, messageDoc{
				ID:        m.ID,
				Content:   m.Content,
				IsBot:     m.IsBot,
				Timestamp: m.Timestamp.Format(time.RFC3339Nano),
				Subject:   m.Subject,
				UserID:    m.UserID,
			})
		}
		docs = append(docs, doc)
	}
	return docs
}

func decodeConversations(docs []conversationDoc) ([]model.Conversation, error) {
	convs := make([]model.Conversation, 0, len(docs))
	for _, doc := range docs {
		createdAt, err := time.Parse(time.RFC3339Nano, doc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("conversation %s createdAt: %w", doc.ID, err)
		}
		updatedAt, err := time.Parse(time.RFC3339Nano, doc.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("conversation %s updatedAt: %w", doc.ID, err)
		}
		conv := model.Conversation{
			ID:        doc.ID,
			UserID:    doc.UserID,
			Subject:   doc.Subject,
			Title:     doc.Title,
			Messages:  make([]model.Message, 0, len(doc.Messages)),
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		}
		for _, m := range doc.Messages {
			ts, err := time.Parse(time.RFC3339Nano, m.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("message %s timestamp: %w", m.ID, err)
			}
			conv.Messages = append(conv.Messages, model.Message{
				ID:        m.ID,
				Content:   m.Content,
				IsBot:     m.IsBot,
				Timestamp: ts,
				Subject:   m.Subject,
				UserID:    m.UserID,
			})
		}
		convs = append(convs, conv)
	}
	return convs, nil
}
