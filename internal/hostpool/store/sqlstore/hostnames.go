package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
)

type hostnamesRepo struct{ conn }

const hostnameSelect = `SELECT h.id, h.user_id, h.domain_id, d.name, h.hostname,
	h.subdomain_prefix, h.subdomain, h.target_address, h.record_type,
	h.dns_record_id, h.custom_hostname_id,
	h.cert_txt_name, h.cert_txt_value, h.ownership_txt_name, h.ownership_txt_value,
	h.status, h.last_error, h.expires_at, h.credit_id, h.created_at, h.updated_at
	FROM hostnames h
	JOIN pooled_domains d ON d.id = h.domain_id`

func scanHostname(sc scanner) (domain.Hostname, error) {
	var (
		h                  domain.Hostname
		recordType, status string
		creditID           sql.NullString
	)
	err := sc.Scan(&h.ID, &h.UserID, &h.DomainID, &h.DomainName, &h.Hostname,
		&h.SubdomainPrefix, &h.Subdomain, &h.TargetAddress, &recordType,
		&h.DNSRecordID, &h.CustomHostnameID,
		&h.CertValidation.Name, &h.CertValidation.Value,
		&h.OwnershipValidation.Name, &h.OwnershipValidation.Value,
		&status, &h.LastError, &h.ExpiresAt, &creditID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return domain.Hostname{}, err
	}
	h.RecordType = domain.RecordType(recordType)
	h.Status = domain.HostnameStatus(status)
	h.CreditID = mapNullString(creditID)
	h.ExpiresAt = h.ExpiresAt.UTC()
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	return h, nil
}

func (r *hostnamesRepo) list(ctx context.Context, where string, args ...any) ([]domain.Hostname, error) {
	rows, err := r.query(ctx, hostnameSelect+" "+where+" ORDER BY h.created_at, h.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hostname
	for rows.Next() {
		h, err := scanHostname(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *hostnamesRepo) CreateHostname(ctx context.Context, h domain.Hostname) error {
	_, err := r.exec(ctx, `
		INSERT INTO hostnames (
			id, user_id, domain_id, hostname, subdomain_prefix, subdomain,
			target_address, record_type, dns_record_id, custom_hostname_id,
			cert_txt_name, cert_txt_value, ownership_txt_name, ownership_txt_value,
			status, last_error, expires_at, credit_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.DomainID, h.Hostname, h.SubdomainPrefix, h.Subdomain,
		h.TargetAddress, string(h.RecordType), h.DNSRecordID, h.CustomHostnameID,
		h.CertValidation.Name, h.CertValidation.Value,
		h.OwnershipValidation.Name, h.OwnershipValidation.Value,
		string(h.Status), h.LastError, h.ExpiresAt.UTC(), mapStringNull(h.CreditID),
		h.CreatedAt.UTC(), h.UpdatedAt.UTC(),
	)
	return r.mapWriteErr(err)
}

func (r *hostnamesRepo) GetHostname(ctx context.Context, id string) (domain.Hostname, error) {
	h, err := scanHostname(r.queryRow(ctx, hostnameSelect+` WHERE h.id = ?`, id))
	if err != nil {
		return domain.Hostname{}, mapNotFound(err)
	}
	return h, nil
}

func (r *hostnamesRepo) ListHostnames(ctx context.Context) ([]domain.Hostname, error) {
	return r.list(ctx, "")
}

func (r *hostnamesRepo) ListHostnamesByUser(ctx context.Context, userID string) ([]domain.Hostname, error) {
	return r.list(ctx, `WHERE h.user_id = ?`, userID)
}

func (r *hostnamesRepo) ListHostnamesByDomain(ctx context.Context, domainID string) ([]domain.Hostname, error) {
	return r.list(ctx, `WHERE h.domain_id = ?`, domainID)
}

func (r *hostnamesRepo) ListHostnamesByCredit(ctx context.Context, creditID string) ([]domain.Hostname, error) {
	return r.list(ctx, `WHERE h.credit_id = ?`, creditID)
}

func (r *hostnamesRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int
	if err := r.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *hostnamesRepo) PrefixExists(ctx context.Context, domainID, prefix string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM hostnames WHERE domain_id = ? AND subdomain_prefix = ?`, domainID, prefix)
}

func (r *hostnamesRepo) HostnameExists(ctx context.Context, hostname string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM hostnames WHERE hostname = ?`, hostname)
}

func (r *hostnamesRepo) UpdateHostname(ctx context.Context, id string, u store.HostnameUpdate, now time.Time) error {
	var status sql.NullString
	if u.Status != nil {
		status = sql.NullString{String: string(*u.Status), Valid: true}
	}
	var certName, certValue, ownName, ownValue sql.NullString
	if u.CertValidation != nil {
		certName = sql.NullString{String: u.CertValidation.Name, Valid: true}
		certValue = sql.NullString{String: u.CertValidation.Value, Valid: true}
	}
	if u.OwnershipValidation != nil {
		ownName = sql.NullString{String: u.OwnershipValidation.Name, Valid: true}
		ownValue = sql.NullString{String: u.OwnershipValidation.Value, Valid: true}
	}

	res, err := r.exec(ctx, `
		UPDATE hostnames SET
			status = COALESCE(?, status),
			last_error = COALESCE(?, last_error),
			target_address = COALESCE(?, target_address),
			dns_record_id = COALESCE(?, dns_record_id),
			custom_hostname_id = COALESCE(?, custom_hostname_id),
			cert_txt_name = COALESCE(?, cert_txt_name),
			cert_txt_value = COALESCE(?, cert_txt_value),
			ownership_txt_name = COALESCE(?, ownership_txt_name),
			ownership_txt_value = COALESCE(?, ownership_txt_value),
			updated_at = ?
		WHERE id = ?`,
		status, mapOptionalString(u.LastError), mapOptionalString(u.TargetAddress),
		mapOptionalString(u.DNSRecordID), mapOptionalString(u.CustomHostnameID),
		certName, certValue, ownName, ownValue,
		now.UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *hostnamesRepo) BindCredit(ctx context.Context, id, creditID string, expiresAt, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE hostnames SET credit_id = ?, expires_at = ?, updated_at = ? WHERE id = ?`,
		creditID, expiresAt.UTC(), now.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *hostnamesRepo) UnbindCredit(ctx context.Context, id string, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE hostnames SET credit_id = NULL, updated_at = ? WHERE id = ?`, now.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *hostnamesRepo) SyncExpiryForCredit(ctx context.Context, creditID string, expiresAt, now time.Time) error {
	_, err := r.exec(ctx, `UPDATE hostnames SET expires_at = ?, updated_at = ? WHERE credit_id = ?`,
		expiresAt.UTC(), now.UTC(), creditID)
	return err
}

func (r *hostnamesRepo) DeleteHostname(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM hostnames WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *hostnamesRepo) ListWithExpiredCredit(ctx context.Context, now time.Time) ([]domain.Hostname, error) {
	return r.list(ctx, `WHERE h.credit_id IN (SELECT c.id FROM credits c WHERE c.expires_at <= ?)`, now.UTC())
}

func (r *hostnamesRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Hostname, error) {
	return r.list(ctx, `WHERE h.expires_at <= ?`, now.UTC())
}

func (r *hostnamesRepo) ListOfInactiveUsers(ctx context.Context) ([]domain.Hostname, error) {
	return r.list(ctx, `WHERE h.user_id IN (SELECT u.id FROM users u WHERE u.status <> ?)`, string(domain.UserActive))
}
