package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scamwatch/internal/domain/entity"
)

func TestMatchesSearch(t *testing.T) {
	report := &entity.ScamReport{
		ScamType:        entity.ScamTypePhone,
		ScamPhoneNumber: "(555) 010-0100",
		Description:     "Robocall claiming to be the IRS",
		Country:         "United States",
		City:            "Springfield",
	}

	assert.True(t, MatchesSearch(report, ""))
	assert.True(t, MatchesSearch(report, "irs"))
	assert.True(t, MatchesSearch(report, "SPRINGFIELD"))
	assert.True(t, MatchesSearch(report, "555-010"), "digits-only phone match")
	assert.True(t, MatchesSearch(report, "5550100100"))
	assert.False(t, MatchesSearch(report, "lottery"))
	assert.False(t, MatchesSearch(report, "999"))
	assert.False(t, MatchesSearch(report, "Springfield 0100"), "free text never matches on phone digits")
}

func TestPhoneQueryDigits(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"(555) 010-0100", "5550100100"},
		{"+1 555.0100", "15550100"},
		{"0100", "0100"},
		{"Lagos 2024", ""},
		{"call 555", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PhoneQueryDigits(tt.query), tt.query)
	}
}

func TestMatchesFilter(t *testing.T) {
	unpublished := false
	report := &entity.ScamReport{
		ScamType:    entity.ScamTypeEmail,
		ScamEmail:   "prize@example.com",
		ReporterID:  "u1",
		IsVerified:  true,
		IsPublished: &unpublished,
	}

	assert.True(t, MatchesFilter(report, entity.ScamReportFilter{}))
	assert.False(t, MatchesFilter(report, entity.ScamReportFilter{PublishedOnly: true}))
	assert.False(t, MatchesFilter(report, entity.ScamReportFilter{ScamType: entity.ScamTypePhone}))
	assert.True(t, MatchesFilter(report, entity.ScamReportFilter{Verification: entity.VerificationVerified}))
	assert.False(t, MatchesFilter(report, entity.ScamReportFilter{Verification: entity.VerificationUnverified}))
	assert.False(t, MatchesFilter(report, entity.ScamReportFilter{ReporterID: "u2"}))

	report.IsPublished = nil
	assert.True(t, MatchesFilter(report, entity.ScamReportFilter{PublishedOnly: true}), "legacy rows count as published")
}
