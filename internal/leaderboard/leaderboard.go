// Package leaderboard ranks senders by the total distance their submitted
// tracks accompanied. It reads the session log and never writes to it;
// every query recomputes from the full record collection.
package leaderboard

import (
	"context"
	"sort"

	"github.com/klangrad/klangrad/internal/geo"
	"github.com/klangrad/klangrad/internal/store"
)

const (
	topSize    = 10
	windowSize = 5
)

type Entry struct {
	Sender          store.Sender
	TotalDistanceKm float64
	Rank            int
}

// TargetStats carries the queried sender's own aggregate numbers.
type TargetStats struct {
	Rank             int
	TotalDistanceKm  float64
	AverageSpeedKmh  float64
	TotalListenedMin int
	Countries        []string
	// GapToAboveKm is 0 for rank 1, else the distance separating the
	// target from the entry one rank up.
	GapToAboveKm float64
}

type Report struct {
	Entries []Entry
	// Target is nil when the queried sender has no session records.
	Target *TargetStats
	Top    []Entry
	// Window is the 5-entry slice ending at the target's rank, only
	// populated when the target ranks below the top list.
	Window []Entry
}

type Builder struct {
	sessions store.SessionRepository
}

func NewBuilder(sessions store.SessionRepository) *Builder {
	return &Builder{sessions: sessions}
}

// Build groups all session records by sender, totals each group's distance,
// ranks the groups and extracts the view for targetChatID. Ties keep the
// grouping order (stable sort).
func (b *Builder) Build(ctx context.Context, targetChatID int64) (*Report, error) {
	records, err := b.sessions.AllSessions(ctx)
	if err != nil {
		return nil, err
	}

	groups := groupBySender(records)
	entries := make([]Entry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, Entry{Sender: g.sender, TotalDistanceKm: geo.Round2(g.totalDistanceKm)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalDistanceKm > entries[j].TotalDistanceKm
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	report := &Report{Entries: entries}
	if len(entries) > topSize {
		report.Top = entries[:topSize]
	} else {
		report.Top = entries
	}

	targetIndex := -1
	for i := range entries {
		if entries[i].Sender.ChatID == targetChatID {
			targetIndex = i
			break
		}
	}
	if targetIndex < 0 {
		return report, nil
	}

	target := entries[targetIndex]
	var group *senderGroup
	for _, g := range groups {
		if g.sender.ChatID == targetChatID {
			group = g
			break
		}
	}

	stats := &TargetStats{
		Rank:             target.Rank,
		TotalDistanceKm:  target.TotalDistanceKm,
		TotalListenedMin: int(group.totalListenedSec / 60),
		Countries:        group.countries,
	}
	if group.totalListenedSec > 0 {
		stats.AverageSpeedKmh = geo.Round2(group.totalDistanceKm / (float64(group.totalListenedSec) / 3600))
	}
	if targetIndex > 0 {
		stats.GapToAboveKm = geo.Round2(entries[targetIndex-1].TotalDistanceKm - target.TotalDistanceKm)
	}
	report.Target = stats

	if target.Rank > topSize {
		start := targetIndex + 1 - windowSize
		if start < 0 {
			start = 0
		}
		report.Window = entries[start : targetIndex+1]
	}
	return report, nil
}

type senderGroup struct {
	sender           store.Sender
	totalDistanceKm  float64
	totalListenedSec int64
	countries        []string
	seenCountries    map[string]struct{}
}

// groupBySender preserves first-seen order so ranking ties stay stable.
// Name fields are merged across records, later non-empty values winning.
func groupBySender(records []store.SessionRecord) []*senderGroup {
	byChatID := make(map[int64]*senderGroup)
	var ordered []*senderGroup
	for _, rec := range records {
		g, ok := byChatID[rec.Sender.ChatID]
		if !ok {
			g = &senderGroup{
				sender:        store.Sender{ChatID: rec.Sender.ChatID},
				seenCountries: make(map[string]struct{}),
			}
			byChatID[rec.Sender.ChatID] = g
			ordered = append(ordered, g)
		}
		if rec.Sender.Username != "" {
			g.sender.Username = rec.Sender.Username
		}
		if rec.Sender.FirstName != "" {
			g.sender.FirstName = rec.Sender.FirstName
		}
		if rec.Sender.LastName != "" {
			g.sender.LastName = rec.Sender.LastName
		}
		g.totalDistanceKm += rec.DistanceKm
		g.totalListenedSec += rec.ListenedSeconds
		if rec.Country != "" {
			if _, seen := g.seenCountries[rec.Country]; !seen {
				g.seenCountries[rec.Country] = struct{}{}
				g.countries = append(g.countries, rec.Country)
			}
		}
	}
	return ordered
}
