package convo

import (
	"fmt"
	"strings"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/responder"
)

// Export renders a conversation as a plain-text transcript: a header with the
// title, subject and creation date, then one line per message. The output is
// deterministic for a given conversation.
func (m *Manager) Export(id string) (string, error) {
	m.mu.Lock()
	conv, ok := m.findLocked(id)
	m.mu.Unlock()
	if !ok {
		return "", ErrNotFound
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversación: %s\n", conv.Title)
	fmt.Fprintf(&b, "Materia: %s\n", conv.Subject)
	fmt.Fprintf(&b, "Fecha: %s\n\n", conv.CreatedAt.Format("02/01/2006"))
	for _, msg := range conv.Messages {
		sender := "Usuario"
		if msg.IsBot {
			sender = "Asistente"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n\n", msg.Timestamp.Format("15:04:05"), sender, msg.Content)
	}
	return b.String(), nil
}

// Summary aggregates the working copy for the stats dashboard.
type Summary struct {
	TotalConversations             int                     `json:"totalConversations"`
	TotalMessages                  int                     `json:"totalMessages"`
	SubjectDistribution            map[catalog.Subject]int `json:"subjectDistribution"`
	AverageMessagesPerConversation int                     `json:"averageMessagesPerConversation"`
	MostUsedSubject                catalog.Subject         `json:"mostUsedSubject,omitempty"`
}

// ConversationStats summarizes the user's conversations. Ties for the most
// used subject resolve in enumeration order.
func (m *Manager) ConversationStats() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := Summary{
		TotalConversations:  len(m.convs),
		SubjectDistribution: make(map[catalog.Subject]int),
	}
	for _, c := range m.convs {
		sum.TotalMessages += len(c.Messages)
		sum.SubjectDistribution[c.Subject]++
	}
	if sum.TotalConversations > 0 {
		sum.AverageMessagesPerConversation = (sum.TotalMessages + sum.TotalConversations/2) / sum.TotalConversations
	}
	best := 0
	for _, s := range catalog.AllSubjects {
		if n := sum.SubjectDistribution[s]; n > best {
			best = n
			sum.MostUsedSubject = s
		}
	}
	return sum
}

// Suggestions returns study tips for the active conversation's recent
// history, or nil when nothing is active.
func (m *Manager) Suggestions() []string {
	conv := m.Current()
	if conv == nil {
		return nil
	}
	recent := conv.Messages
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	return responder.StudySuggestions(conv.Subject, recent)
}

// LastQuestionContext classifies the most recent user message of the active
// conversation, or nil when there is none.
func (m *Manager) LastQuestionContext() *responder.QuestionContext {
	conv := m.Current()
	if conv == nil {
		return nil
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if !conv.Messages[i].IsBot {
			qc := responder.AnalyzeContext(conv.Messages[i].Content)
			return &qc
		}
	}
	return nil
}
