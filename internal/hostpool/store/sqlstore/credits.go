package sqlstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
)

type creditsRepo struct{ conn }

const creditColumns = `id, user_id, expires_at, status, used, created_at, updated_at`

func scanCredit(sc scanner) (domain.Credit, error) {
	var (
		c      domain.Credit
		status string
	)
	if err := sc.Scan(&c.ID, &c.UserID, &c.ExpiresAt, &status, &c.Used, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Credit{}, err
	}
	c.Status = domain.CreditStatus(status)
	c.ExpiresAt = c.ExpiresAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func (r *creditsRepo) CreateCredit(ctx context.Context, c domain.Credit) error {
	_, err := r.exec(ctx, `
		INSERT INTO credits (`+creditColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.ExpiresAt.UTC(), string(c.Status), c.Used, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	return r.mapWriteErr(err)
}

func (r *creditsRepo) GetCredit(ctx context.Context, id string) (domain.Credit, error) {
	row := r.queryRow(ctx, `SELECT `+creditColumns+` FROM credits WHERE id = ?`, id)
	c, err := scanCredit(row)
	if err != nil {
		return domain.Credit{}, mapNotFound(err)
	}
	return c, nil
}

func (r *creditsRepo) ListCreditsByUser(ctx context.Context, userID string) ([]domain.Credit, error) {
	rows, err := r.query(ctx, `
		SELECT `+creditColumns+` FROM credits
		WHERE user_id = ?
		ORDER BY expires_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Credit
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *creditsRepo) FirstAllocatable(ctx context.Context, userID string, now time.Time, excludeID string) (domain.Credit, error) {
	row := r.queryRow(ctx, `
		SELECT `+creditColumns+` FROM credits
		WHERE user_id = ? AND status = ? AND used = ? AND expires_at > ? AND id <> ?
		ORDER BY expires_at, id
		LIMIT 1`,
		userID, string(domain.CreditActive), false, now.UTC(), excludeID,
	)
	c, err := scanCredit(row)
	if err != nil {
		return domain.Credit{}, mapNotFound(err)
	}
	return c, nil
}

func (r *creditsRepo) SetCreditUsed(ctx context.Context, id string, used bool, now time.Time) error {
	if !used {
		res, err := r.exec(ctx, `UPDATE credits SET used = ?, updated_at = ? WHERE id = ?`, false, now.UTC(), id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	}

	res, err := r.exec(ctx, `UPDATE credits SET used = ?, updated_at = ? WHERE id = ? AND used = ?`,
		true, now.UTC(), id, false)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err == nil {
		return nil
	}

	if _, err := r.GetCredit(ctx, id); err != nil {
		return err
	}
	return store.ErrConflict
}

func (r *creditsRepo) UpdateCreditExpiry(ctx context.Context, id string, expiresAt, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE credits SET expires_at = ?, updated_at = ? WHERE id = ?`,
		expiresAt.UTC(), now.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *creditsRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.exec(ctx, `
		UPDATE credits SET
			status = ?,
			used = CASE WHEN EXISTS (SELECT 1 FROM hostnames h WHERE h.credit_id = credits.id)
				THEN used ELSE ? END,
			updated_at = ?
		WHERE (status = ? AND expires_at <= ?)
		   OR (status = ? AND used = ? AND NOT EXISTS (SELECT 1 FROM hostnames h WHERE h.credit_id = credits.id))`,
		string(domain.CreditExpired), false, now.UTC(),
		string(domain.CreditActive), now.UTC(),
		string(domain.CreditExpired), true,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *creditsRepo) DeleteCredit(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM credits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
