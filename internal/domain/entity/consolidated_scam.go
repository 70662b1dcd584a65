package entity

import "time"

// ConsolidatedScam aggregates every report sharing one canonical identifier.
// It is derived state and can be rebuilt by replaying reports.
type ConsolidatedScam struct {
	ID              string    `json:"id" firestore:"id"`
	ScamType        ScamType  `json:"scamType" firestore:"scamType"`
	Identifier      string    `json:"identifier" firestore:"identifier"`
	MatchKey        string    `json:"-" firestore:"matchKey"`
	ReportCount     int       `json:"reportCount" firestore:"reportCount"`
	FirstReportedAt time.Time `json:"firstReportedAt" firestore:"firstReportedAt"`
	LastReportedAt  time.Time `json:"lastReportedAt" firestore:"lastReportedAt"`
	IsVerified      bool      `json:"isVerified" firestore:"isVerified"`
}

type ReportConsolidationLink struct {
	ID                 string `json:"id" firestore:"id"`
	ReportID           string `json:"reportId" firestore:"reportId"`
	ConsolidatedScamID string `json:"consolidatedScamId" firestore:"consolidatedScamId"`
}
