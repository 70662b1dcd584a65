package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scamwatch/internal/domain/entity"
)

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		report *entity.ScamReport
		want   string
	}{
		{"phone", &entity.ScamReport{ScamType: entity.ScamTypePhone, ScamPhoneNumber: " 555-0100 "}, "555-0100"},
		{"email", &entity.ScamReport{ScamType: entity.ScamTypeEmail, ScamEmail: "Fraud@Example.com"}, "Fraud@Example.com"},
		{"business", &entity.ScamReport{ScamType: entity.ScamTypeBusiness, ScamBusinessName: "Acme Prize Center"}, "Acme Prize Center"},
		{"blank field", &entity.ScamReport{ScamType: entity.ScamTypePhone, ScamPhoneNumber: "   "}, ""},
		{"field of other type ignored", &entity.ScamReport{ScamType: entity.ScamTypePhone, ScamEmail: "x@example.com"}, ""},
		{"unknown type", &entity.ScamReport{ScamType: "fax", ScamPhoneNumber: "555"}, ""},
		{"nil report", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractIdentifier(tt.report))
		})
	}
}

func TestMatchKeyExact(t *testing.T) {
	m := NewIdentifierMatcher(false, "US")

	assert.Equal(t, "phone:555-0100", m.MatchKey(entity.ScamTypePhone, " 555-0100"))
	assert.NotEqual(t, m.MatchKey(entity.ScamTypePhone, "555-0100"), m.MatchKey(entity.ScamTypePhone, "(555) 010-0"))
	assert.NotEqual(t, m.MatchKey(entity.ScamTypeEmail, "a@b.com"), m.MatchKey(entity.ScamTypeEmail, "A@B.com"))
	assert.Empty(t, m.MatchKey(entity.ScamTypePhone, "  "))
}

func TestMatchKeyCanonical(t *testing.T) {
	m := NewIdentifierMatcher(true, "US")

	assert.Equal(t,
		m.MatchKey(entity.ScamTypePhone, "555-0100"),
		m.MatchKey(entity.ScamTypePhone, "(555) 010-0"))
	assert.Equal(t, "phone:+12025550143", m.MatchKey(entity.ScamTypePhone, "(202) 555-0143"))
	assert.Equal(t, "phone:+12025550143", m.MatchKey(entity.ScamTypePhone, "+1 202-555-0143"))
	assert.Equal(t, "email:fraud@example.com", m.MatchKey(entity.ScamTypeEmail, " Fraud@Example.COM "))
	assert.Equal(t, "business:acme prize center", m.MatchKey(entity.ScamTypeBusiness, "ACME  Prize\tCenter"))
}

func TestMatchKeyScopedByType(t *testing.T) {
	m := NewIdentifierMatcher(true, "US")
	assert.NotEqual(t,
		m.MatchKey(entity.ScamTypeBusiness, "5550100"),
		m.MatchKey(entity.ScamTypePhone, "5550100"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "15550100", DigitsOnly("+1 (555) 010-0"))
	assert.Equal(t, "", DigitsOnly("no digits"))
}
