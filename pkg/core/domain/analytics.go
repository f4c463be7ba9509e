package domain

// VisitWindowDays is the minimum span of the visits-by-date series; days in
// this trailing window are zero-filled even when nothing was recorded.
const VisitWindowDays = 7

// DayCount is one bucket of the visits timeline. Date is a UTC calendar day
// in YYYY-MM-DD form.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AnalyticsSnapshot is a derived view over a user's visit and click records.
// It is recomputed on demand and never stored.
//
// Invariants: the VisitsByDate counts sum to TotalVisits, and LinkClicks[id]
// equals the clicks column of the corresponding link.
type AnalyticsSnapshot struct {
	TotalVisits  int64            `json:"total_visits"`
	LinkClicks   map[string]int64 `json:"link_clicks"`
	VisitsByDate []DayCount       `json:"visits_by_date"`
}
