package http

import (
	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// mapSlice converts every element of in with f. A nil input yields an empty
// slice so lists encode as [] rather than null.
func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func toCredit(c domain.Credit) poolsdk.Credit {
	return poolsdk.Credit{
		ID:        c.ID,
		UserID:    c.UserID,
		ExpiresAt: c.ExpiresAt,
		Status:    string(c.Status),
		Used:      c.Used,
		CreatedAt: c.CreatedAt,
	}
}

func toCreditsResponse(credits []domain.Credit, stats domain.CreditStats) poolsdk.CreditsResponse {
	return poolsdk.CreditsResponse{
		Credits: mapSlice(credits, toCredit),
		Stats: poolsdk.CreditStats{
			Total:     stats.Total,
			Used:      stats.Used,
			Available: stats.Available,
		},
	}
}

func toRedeemResponse(res service.RedeemResult) poolsdk.RedeemResponse {
	out := poolsdk.RedeemResponse{
		Kind:     string(res.Kind),
		Extended: res.Extended,
	}
	if len(res.Credits) > 0 {
		out.Credits = mapSlice(res.Credits, toCredit)
	}
	if !res.ExpiresAt.IsZero() {
		at := res.ExpiresAt
		out.ExpiresAt = &at
	}
	return out
}

func toCard(c domain.Card) poolsdk.Card {
	return poolsdk.Card{
		ID:           c.ID,
		Code:         c.Code,
		Kind:         string(c.Kind),
		Units:        c.Units,
		ValidityDays: c.ValidityDays,
		Status:       string(c.Status),
		UsedBy:       c.UsedBy,
		UsedAt:       c.UsedAt,
		ExpiresAt:    c.ExpiresAt,
		CreatedAt:    c.CreatedAt,
	}
}

func toDomain(u domain.DomainUsage) poolsdk.Domain {
	return poolsdk.Domain{ID: u.ID, Name: u.Name, Free: u.Free()}
}

func toAdminDomain(u domain.DomainUsage) poolsdk.AdminDomain {
	return poolsdk.AdminDomain{
		ID:            u.ID,
		Name:          u.Name,
		ProviderEmail: u.ProviderEmail,
		MaxHostnames:  u.MaxHostnames,
		Hostnames:     u.Hostnames,
		Status:        string(u.Status),
		CreatedAt:     u.CreatedAt,
	}
}

func toTXT(t domain.TXTRecord) *poolsdk.TXTRecord {
	if t.IsZero() {
		return nil
	}
	return &poolsdk.TXTRecord{Name: t.Name, Value: t.Value}
}

func toHostname(h domain.Hostname) poolsdk.Hostname {
	return poolsdk.Hostname{
		ID:                  h.ID,
		UserID:              h.UserID,
		DomainID:            h.DomainID,
		Hostname:            h.Hostname,
		Subdomain:           h.Subdomain,
		TargetAddress:       h.TargetAddress,
		RecordType:          string(h.RecordType),
		Status:              string(h.Status),
		LastError:           h.LastError,
		CertValidation:      toTXT(h.CertValidation),
		OwnershipValidation: toTXT(h.OwnershipValidation),
		CreditID:            h.CreditID,
		ExpiresAt:           h.ExpiresAt,
		CreatedAt:           h.CreatedAt,
	}
}

func toUser(u domain.User) poolsdk.User {
	return poolsdk.User{ID: u.ID, Username: u.Username, Status: string(u.Status), CreatedAt: u.CreatedAt}
}

func toCategoryReport(c service.CategoryReport) poolsdk.CategoryReport {
	return poolsdk.CategoryReport{
		Found:          c.Found,
		TornDown:       c.TornDown,
		Skipped:        c.Skipped,
		Failed:         c.Failed,
		RemoteFailures: c.RemoteFailures,
	}
}

func toSweepReport(r service.SweepReport) poolsdk.SweepReport {
	return poolsdk.SweepReport{
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		ExpiredCredits: toCategoryReport(r.ExpiredCredits),
		ExpiredRecords: toCategoryReport(r.ExpiredRecords),
		InactiveUsers:  toCategoryReport(r.InactiveUsers),
		CreditsExpired: r.CreditsExpired,
	}
}
