package entity

import "time"

type StatsScope string

const (
	// StatsScopePublic counts published reports only.
	StatsScopePublic StatsScope = "public"
	StatsScopeAll    StatsScope = "all"
)

// ScamStats is the current snapshot for a scope, overwritten on each recompute.
type ScamStats struct {
	Scope            StatsScope `json:"scope" firestore:"scope"`
	TotalReports     int        `json:"totalReports" firestore:"totalReports"`
	PhoneScams       int        `json:"phoneScams" firestore:"phoneScams"`
	EmailScams       int        `json:"emailScams" firestore:"emailScams"`
	BusinessScams    int        `json:"businessScams" firestore:"businessScams"`
	ReportsWithProof int        `json:"reportsWithProof" firestore:"reportsWithProof"`
	VerifiedReports  int        `json:"verifiedReports" firestore:"verifiedReports"`
	UpdatedAt        time.Time  `json:"updatedAt" firestore:"updatedAt"`
}
