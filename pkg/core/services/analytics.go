package services

import (
	"context"
	"sort"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// AnalyticsService derives visit and click rollups from the recorded events.
// Days are bucketed on the UTC calendar, uniformly for recording and
// reporting. Snapshots are views, recomputed on demand, never stored.
type AnalyticsService struct {
	visits ports.VisitRepository
	clicks ports.ClickRecorder
	log    logger.Logger
	now    func() time.Time
}

func NewAnalyticsService(visits ports.VisitRepository, clicks ports.ClickRecorder, log logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		visits: visits,
		clicks: clicks,
		log:    log,
		now:    time.Now,
	}
}

// RecordVisit stores one visit in today's UTC bucket.
func (s *AnalyticsService) RecordVisit(ctx context.Context, userID string) error {
	if err := s.visits.InsertVisit(ctx, userID, s.now().UTC()); err != nil {
		return domain.PersistErr("recording visit", err)
	}
	return nil
}

// RecordLinkClick increments the single authoritative counter on the link
// row together with the click event, in one store operation.
func (s *AnalyticsService) RecordLinkClick(ctx context.Context, linkID string) error {
	if err := s.clicks.RecordClick(ctx, linkID); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return err
		}
		return domain.PersistErr("recording click", err)
	}
	return nil
}

// Snapshot computes the user's aggregate view: total visits, per-link clicks
// read from the authoritative link counters, and the visits timeline. Every
// day with at least one visit appears; the trailing 7-day window is
// zero-filled so the dashboard chart always has a full week to draw.
func (s *AnalyticsService) Snapshot(ctx context.Context, userID string) (*domain.AnalyticsSnapshot, error) {
	total, err := s.visits.TotalVisits(ctx, userID)
	if err != nil {
		return nil, domain.FetchErr("loading visit total", err)
	}

	byDay, err := s.visits.VisitsByDay(ctx, userID)
	if err != nil {
		return nil, domain.FetchErr("loading visit timeline", err)
	}

	linkClicks, err := s.visits.ClicksByLink(ctx, userID)
	if err != nil {
		return nil, domain.FetchErr("loading click counts", err)
	}

	counts := make(map[string]int64, len(byDay)+domain.VisitWindowDays)
	for _, dc := range byDay {
		counts[dc.Date] = dc.Count
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < domain.VisitWindowDays; i++ {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		if _, ok := counts[day]; !ok {
			counts[day] = 0
		}
	}

	timeline := make([]domain.DayCount, 0, len(counts))
	for date, count := range counts {
		timeline = append(timeline, domain.DayCount{Date: date, Count: count})
	}
	// YYYY-MM-DD sorts chronologically as text.
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Date < timeline[j].Date })

	return &domain.AnalyticsSnapshot{
		TotalVisits:  total,
		LinkClicks:   linkClicks,
		VisitsByDate: timeline,
	}, nil
}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)
