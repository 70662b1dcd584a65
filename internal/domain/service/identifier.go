package service

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"scamwatch/internal/domain/entity"
)

// ExtractIdentifier returns the trimmed identifier field selected by the
// report's scam type, or "" when that field is blank.
func ExtractIdentifier(report *entity.ScamReport) string {
	if report == nil {
		return ""
	}
	switch report.ScamType {
	case entity.ScamTypePhone:
		return strings.TrimSpace(report.ScamPhoneNumber)
	case entity.ScamTypeEmail:
		return strings.TrimSpace(report.ScamEmail)
	case entity.ScamTypeBusiness:
		return strings.TrimSpace(report.ScamBusinessName)
	}
	return ""
}

// IdentifierMatcher turns an extracted identifier into the key reports are grouped by.
type IdentifierMatcher struct {
	canonical     bool
	defaultRegion string
}

// NewIdentifierMatcher builds a matcher. With canonical=false keys are the
// trimmed identifiers compared byte for byte.
func NewIdentifierMatcher(canonical bool, defaultRegion string) *IdentifierMatcher {
	if defaultRegion == "" {
		defaultRegion = "US"
	}
	return &IdentifierMatcher{
		canonical:     canonical,
		defaultRegion: strings.ToUpper(defaultRegion),
	}
}

// MatchKey is scoped by scam type so equal strings of different types never merge.
func (m *IdentifierMatcher) MatchKey(scamType entity.ScamType, identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ""
	}
	if !m.canonical {
		return string(scamType) + ":" + identifier
	}

	switch scamType {
	case entity.ScamTypePhone:
		return string(scamType) + ":" + m.canonicalPhone(identifier)
	case entity.ScamTypeEmail:
		return string(scamType) + ":" + strings.ToLower(identifier)
	default:
		return string(scamType) + ":" + strings.ToLower(strings.Join(strings.Fields(identifier), " "))
	}
}

// canonicalPhone prefers E.164; numbers libphonenumber rejects fall back to their digits.
func (m *IdentifierMatcher) canonicalPhone(raw string) string {
	num, err := phonenumbers.Parse(raw, m.defaultRegion)
	if err == nil && phonenumbers.IsPossibleNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	if digits := DigitsOnly(raw); digits != "" {
		return digits
	}
	return raw
}

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
