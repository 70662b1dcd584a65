package entity

import "time"

type ScamComment struct {
	ID        string    `json:"id" firestore:"id"`
	ReportID  string    `json:"scamReportId" firestore:"reportId"`
	AuthorID  string    `json:"authorId" firestore:"authorId"`
	Content   string    `json:"content" firestore:"content"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
