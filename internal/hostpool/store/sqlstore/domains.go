package sqlstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
)

type domainsRepo struct{ conn }

const domainColumns = `d.id, d.name, d.provider_email, d.provider_key_encrypted,
	d.max_hostnames, d.status, d.created_at, d.updated_at`

// slotHeld matches hostnames that count against a domain's ceiling. A failed
// provision that gave its credit back does not.
const slotHeld = `NOT (h.status = 'error' AND h.credit_id IS NULL)`

const domainUsageQuery = `SELECT ` + domainColumns + `,
	(SELECT COUNT(*) FROM hostnames h WHERE h.domain_id = d.id AND ` + slotHeld + `)
	FROM pooled_domains d`

func scanDomain(sc scanner, extra ...any) (domain.PooledDomain, error) {
	var (
		d      domain.PooledDomain
		status string
	)
	dest := []any{&d.ID, &d.Name, &d.ProviderEmail, &d.ProviderKeyEncrypted,
		&d.MaxHostnames, &status, &d.CreatedAt, &d.UpdatedAt}
	if err := sc.Scan(append(dest, extra...)...); err != nil {
		return domain.PooledDomain{}, err
	}
	d.Status = domain.DomainStatus(status)
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return d, nil
}

func (r *domainsRepo) CreateDomain(ctx context.Context, d domain.PooledDomain) error {
	_, err := r.exec(ctx, `
		INSERT INTO pooled_domains
			(id, name, provider_email, provider_key_encrypted, max_hostnames, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.ProviderEmail, d.ProviderKeyEncrypted, d.MaxHostnames,
		string(d.Status), d.CreatedAt.UTC(), d.UpdatedAt.UTC(),
	)
	return r.mapWriteErr(err)
}

func (r *domainsRepo) GetDomain(ctx context.Context, id string) (domain.PooledDomain, error) {
	row := r.queryRow(ctx, `SELECT `+domainColumns+` FROM pooled_domains d WHERE d.id = ?`, id)
	d, err := scanDomain(row)
	if err != nil {
		return domain.PooledDomain{}, mapNotFound(err)
	}
	return d, nil
}

func (r *domainsRepo) ListDomains(ctx context.Context) ([]domain.DomainUsage, error) {
	return r.listUsage(ctx, domainUsageQuery+` ORDER BY d.name`)
}

func (r *domainsRepo) ListActiveDomains(ctx context.Context) ([]domain.DomainUsage, error) {
	return r.listUsage(ctx, domainUsageQuery+` WHERE d.status = ? ORDER BY d.name`, string(domain.DomainActive))
}

func (r *domainsRepo) listUsage(ctx context.Context, query string, args ...any) ([]domain.DomainUsage, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DomainUsage
	for rows.Next() {
		var count int
		d, err := scanDomain(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.DomainUsage{PooledDomain: d, Hostnames: count})
	}
	return out, rows.Err()
}

func (r *domainsRepo) UpdateDomainStatus(ctx context.Context, id string, status domain.DomainStatus, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE pooled_domains SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *domainsRepo) DeleteDomain(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM pooled_domains WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *domainsRepo) CountHostnames(ctx context.Context, domainID string) (int, error) {
	var n int
	err := r.queryRow(ctx, `SELECT COUNT(*) FROM hostnames h WHERE h.domain_id = ? AND `+slotHeld, domainID).Scan(&n)
	return n, err
}
