package service

import (
	"time"

	"scamwatch/internal/domain/entity"
)

// AggregateStats recomputes a snapshot from scratch. The public scope only
// counts published reports.
func AggregateStats(reports []*entity.ScamReport, scope entity.StatsScope, now time.Time) *entity.ScamStats {
	stats := &entity.ScamStats{Scope: scope, UpdatedAt: now}
	for _, r := range reports {
		if scope == entity.StatsScopePublic && !r.Published() {
			continue
		}
		stats.TotalReports++
		switch r.ScamType {
		case entity.ScamTypePhone:
			stats.PhoneScams++
		case entity.ScamTypeEmail:
			stats.EmailScams++
		case entity.ScamTypeBusiness:
			stats.BusinessScams++
		}
		if r.HasProof() {
			stats.ReportsWithProof++
		}
		if r.IsVerified {
			stats.VerifiedReports++
		}
	}
	return stats
}
