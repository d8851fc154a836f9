// Package responder maps a free-text question to an answer by ordered pattern
// matching against the catalog. Resolution is pure and never fails; the only
// non-determinism is the random pick from the generic fallback pool.
package responder

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
)

// Responder is shared across sessions; the mutex keeps the fallback RNG safe
// under concurrent Resolve calls.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Responder seeded from the wall clock.
func New() *Responder {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand lets tests pin the fallback selection.
func NewWithRand(rng *rand.Rand) *Responder {
	return &Responder{rng: rng}
}

// Resolve returns the answer for raw asked under subject. history is the full
// conversation so far; it is accepted for contract parity with the lifecycle
// manager but plays no role in pattern matching.
func (r *Responder) Resolve(raw string, subject catalog.Subject, history []model.Message) string {
	_ = history

	clean := Normalize(raw)

	if rule, ok := firstMatch(clean, catalog.Rules(subject)); ok {
		return formatRule(rule)
	}

	// Cross-subject fallback: first hit anywhere, in the fixed enumeration
	// order, returns only the bare response body.
	for _, other := range catalog.AllSubjects {
		if rule, ok := firstMatch(clean, catalog.Rules(other)); ok {
			return fmt.Sprintf("Aunque preguntaste sobre %s, encontré información relevante: %s", subject, rule.Response)
		}
	}

	r.mu.Lock()
	pick := r.rng.Intn(len(catalog.GenericResponses))
	r.mu.Unlock()
	return catalog.GenericResponses[pick]
}

// Normalize lowercases, trims, strips inverted and regular question and
// exclamation marks, and collapses whitespace runs to single spaces.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Map(func(r rune) rune {
		switch r {
		case '¿', '?', '¡', '!':
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func firstMatch(clean string, rules []catalog.Rule) (catalog.Rule, bool) {
	for _, rule := range rules {
		if rule.Pattern.MatchString(clean) {
			return rule, true
		}
	}
	return catalog.Rule{}, false
}

func formatRule(rule catalog.Rule) string {
	var b strings.Builder
	b.WriteString(rule.Response)
	if rule.FollowUp != "" {
		b.WriteString("\n\n")
		b.WriteString(rule.FollowUp)
	}
	if len(rule.Resources) > 0 {
		b.WriteString("\n\n📚 Recursos adicionales:")
		for _, res := range rule.Resources {
			b.WriteString("\n• ")
			b.WriteString(res)
		}
	}
	return b.String()
}
