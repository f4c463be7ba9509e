package services

import (
	"context"
	"testing"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
)

func newTestAnalytics(t *testing.T, now time.Time) (*AnalyticsService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewAnalyticsService(store, store, logger.NewNop())
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestSnapshotZeroFillsTrailingWeek(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 42, 0, 0, time.UTC)
	svc, _ := newTestAnalytics(t, now)

	snap, err := svc.Snapshot(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.TotalVisits != 0 {
		t.Errorf("TotalVisits = %d, want 0", snap.TotalVisits)
	}
	if len(snap.VisitsByDate) != domain.VisitWindowDays {
		t.Fatalf("got %d timeline entries, want %d", len(snap.VisitsByDate), domain.VisitWindowDays)
	}
	for i, dc := range snap.VisitsByDate {
		want := now.AddDate(0, 0, i-domain.VisitWindowDays+1).Format("2006-01-02")
		if dc.Date != want {
			t.Errorf("VisitsByDate[%d].Date = %s, want %s", i, dc.Date, want)
		}
		if dc.Count != 0 {
			t.Errorf("VisitsByDate[%d].Count = %d, want 0", i, dc.Count)
		}
	}
}

func TestSnapshotSumEqualsTotal(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestAnalytics(t, now)

	// Two visits today, one three days ago, one far outside the chart window.
	visitAt := func(at time.Time) {
		svc.now = func() time.Time { return at }
		if err := svc.RecordVisit(context.Background(), testUser); err != nil {
			t.Fatalf("RecordVisit failed: %v", err)
		}
	}
	visitAt(now)
	visitAt(now.Add(2 * time.Hour))
	visitAt(now.AddDate(0, 0, -3))
	visitAt(now.AddDate(0, 0, -30))
	svc.now = func() time.Time { return now }

	snap, err := svc.Snapshot(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.TotalVisits != 4 {
		t.Errorf("TotalVisits = %d, want 4", snap.TotalVisits)
	}

	var sum int64
	byDate := make(map[string]int64, len(snap.VisitsByDate))
	for _, dc := range snap.VisitsByDate {
		sum += dc.Count
		byDate[dc.Date] = dc.Count
	}
	// Every recorded visit is accounted for, old days included.
	if sum != snap.TotalVisits {
		t.Errorf("sum of VisitsByDate = %d, want TotalVisits = %d", sum, snap.TotalVisits)
	}
	if got := byDate[now.Format("2006-01-02")]; got != 2 {
		t.Errorf("today's count = %d, want 2", got)
	}
	if got := byDate[now.AddDate(0, 0, -30).Format("2006-01-02")]; got != 1 {
		t.Errorf("old day's count = %d, want 1", got)
	}
	// The 7 window days plus the one day outside it.
	if len(snap.VisitsByDate) != domain.VisitWindowDays+1 {
		t.Errorf("got %d timeline entries, want %d", len(snap.VisitsByDate), domain.VisitWindowDays+1)
	}
	// Chronological order.
	for i := 1; i < len(snap.VisitsByDate); i++ {
		if snap.VisitsByDate[i-1].Date >= snap.VisitsByDate[i].Date {
			t.Errorf("timeline not ascending at %d: %s >= %s", i, snap.VisitsByDate[i-1].Date, snap.VisitsByDate[i].Date)
		}
	}
}

func TestVisitsBucketOnUTCDay(t *testing.T) {
	// 23:30 UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 8, 28, 23, 30, 0, 0, loc)
	svc, _ := newTestAnalytics(t, local)

	if err := svc.RecordVisit(context.Background(), testUser); err != nil {
		t.Fatalf("RecordVisit failed: %v", err)
	}

	snap, err := svc.Snapshot(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	byDate := make(map[string]int64)
	for _, dc := range snap.VisitsByDate {
		byDate[dc.Date] = dc.Count
	}
	if got := byDate["2026-08-29"]; got != 1 {
		t.Errorf("count for 2026-08-29 = %d, want 1 (UTC bucketing)", got)
	}
	if got := byDate["2026-08-28"]; got != 0 {
		t.Errorf("count for 2026-08-28 = %d, want 0", got)
	}
}

func TestRecordLinkClickFlowsIntoSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc, store := newTestAnalytics(t, now)

	link := &domain.Link{UserID: testUser, Title: "A", URL: "https://a.com"}
	if err := store.Insert(context.Background(), link); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if err := svc.RecordLinkClick(context.Background(), link.ID); err != nil {
			t.Fatalf("RecordLinkClick failed: %v", err)
		}
	}

	snap, err := svc.Snapshot(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if got := snap.LinkClicks[link.ID]; got != 5 {
		t.Errorf("LinkClicks[%s] = %d, want 5", link.ID, got)
	}

	// The snapshot reads the same counter the link row carries.
	stored, _ := store.GetByID(context.Background(), testUser, link.ID)
	if stored.Clicks != snap.LinkClicks[link.ID] {
		t.Errorf("link row Clicks = %d, snapshot reports %d", stored.Clicks, snap.LinkClicks[link.ID])
	}
}

func TestRecordLinkClickUnknownLink(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestAnalytics(t, now)

	err := svc.RecordLinkClick(context.Background(), "missing")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("RecordLinkClick returned %v, want not-found", err)
	}
}
