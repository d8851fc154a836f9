// Package stats maintains the per-user usage aggregate: total and per-subject
// question counters plus a rolling 30-day daily histogram and a 7-day
// engagement score.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
	"github.com/cmontoya/eduassist/internal/store"
)

const (
	dailyWindow      = 30
	engagementWindow = 7
	dateLayout       = "2006-01-02"
)

type Aggregator struct {
	store *store.Store
	now   func() time.Time
}

func New(st *store.Store) *Aggregator {
	return NewWithClock(st, time.Now)
}

// NewWithClock lets tests control which calendar date a recording lands on.
func NewWithClock(st *store.Store, now func() time.Time) *Aggregator {
	return &Aggregator{store: st, now: now}
}

// Record counts one completed question/answer exchange. Calls on the same
// calendar date merge into one daily bucket, but every call increments the
// counters: recording twice records two events.
func (a *Aggregator) Record(ctx context.Context, userID string, subject catalog.Subject) error {
	st := a.store.GetUsageStats(ctx, userID)

	st.TotalQuestions++
	if _, ok := st.SubjectDistribution[subject]; ok {
		st.SubjectDistribution[subject]++
	}

	today := a.now().Format(dateLayout)
	merged := false
	for i := range st.DailyUsage {
		if st.DailyUsage[i].Date == today {
			st.DailyUsage[i].Count++
			merged = true
			break
		}
	}
	if !merged {
		st.DailyUsage = append(st.DailyUsage, model.DailyUsage{Date: today, Count: 1})
	}

	// Most recent first; the window keeps only the latest 30 distinct dates.
	sort.Slice(st.DailyUsage, func(i, j int) bool {
		return st.DailyUsage[i].Date > st.DailyUsage[j].Date
	})
	if len(st.DailyUsage) > dailyWindow {
		st.DailyUsage = st.DailyUsage[:dailyWindow]
	}

	st.UserEngagement = engagement(st.DailyUsage)

	return a.store.SaveUsageStats(ctx, userID, st)
}

// Stats returns the current aggregate for a user.
func (a *Aggregator) Stats(ctx context.Context, userID string) model.UsageStats {
	return a.store.GetUsageStats(ctx, userID)
}

// engagement is the mean daily count over the most recent week of buckets.
// Days without a bucket still divide the sum: one event total scores 1/7.
func engagement(daily []model.DailyUsage) float64 {
	if len(daily) == 0 {
		return 0
	}
	recent := daily
	if len(recent) > engagementWindow {
		recent = recent[:engagementWindow]
	}
	sum := 0
	for _, d := range recent {
		sum += d.Count
	}
	return float64(sum) / float64(engagementWindow)
}
