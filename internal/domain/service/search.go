package service

import (
	"strings"

	"scamwatch/internal/domain/entity"
)

// MatchesSearch is a case-insensitive substring match over identifier fields,
// description and location. Phone-shaped queries additionally match phone
// numbers on digits only.
func MatchesSearch(report *entity.ScamReport, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}

	needle := strings.ToLower(query)
	fields := []string{
		report.ScamPhoneNumber,
		report.ScamEmail,
		report.ScamBusinessName,
		report.Description,
		report.Country,
		report.City,
		report.State,
		report.ZipCode,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}

	if digits := PhoneQueryDigits(query); digits != "" && report.ScamPhoneNumber != "" {
		return strings.Contains(DigitsOnly(report.ScamPhoneNumber), digits)
	}
	return false
}

// PhoneQueryDigits returns the digits of a query written like a phone number
// (digits plus spaces, +, -, ., parentheses) and "" for any other query.
func PhoneQueryDigits(query string) string {
	for _, r := range query {
		if (r < '0' || r > '9') && !strings.ContainsRune(" +-.()", r) {
			return ""
		}
	}
	return DigitsOnly(query)
}

// MatchesFilter applies every ScamReportFilter criterion in memory.
func MatchesFilter(report *entity.ScamReport, filter entity.ScamReportFilter) bool {
	if filter.PublishedOnly && !report.Published() {
		return false
	}
	if filter.ScamType != "" && report.ScamType != filter.ScamType {
		return false
	}
	if filter.ReporterID != "" && report.ReporterID != filter.ReporterID {
		return false
	}
	switch filter.Verification {
	case entity.VerificationVerified:
		if !report.IsVerified {
			return false
		}
	case entity.VerificationUnverified:
		if report.IsVerified {
			return false
		}
	}
	return MatchesSearch(report, filter.Search)
}
