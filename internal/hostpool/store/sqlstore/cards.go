package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
)

type cardsRepo struct{ conn }

const cardColumns = `id, code, kind, units, validity_days, status, used_by, used_at, expires_at, created_at`

func scanCard(sc scanner) (domain.Card, error) {
	var (
		c            domain.Card
		kind, status string
		usedBy       sql.NullString
		usedAt       sql.NullTime
	)
	if err := sc.Scan(&c.ID, &c.Code, &kind, &c.Units, &c.ValidityDays, &status,
		&usedBy, &usedAt, &c.ExpiresAt, &c.CreatedAt); err != nil {
		return domain.Card{}, err
	}
	c.Kind = domain.CardKind(kind)
	c.Status = domain.CardStatus(status)
	c.UsedBy = mapNullString(usedBy)
	c.UsedAt = mapNullTimePtr(usedAt)
	c.ExpiresAt = c.ExpiresAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (r *cardsRepo) CreateCard(ctx context.Context, c domain.Card) error {
	_, err := r.exec(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, strings.ToUpper(c.Code), string(c.Kind), c.Units, c.ValidityDays, string(c.Status),
		mapStringNull(c.UsedBy), mapOptionalTime(c.UsedAt), c.ExpiresAt.UTC(), c.CreatedAt.UTC(),
	)
	return r.mapWriteErr(err)
}

func (r *cardsRepo) GetCardByCode(ctx context.Context, code string) (domain.Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	row := r.queryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE code = ?`, code)
	c, err := scanCard(row)
	if err != nil {
		return domain.Card{}, mapNotFound(err)
	}
	return c, nil
}

func (r *cardsRepo) ListCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := r.query(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *cardsRepo) MarkCardUsed(ctx context.Context, id, userID string, at time.Time) error {
	res, err := r.exec(ctx, `
		UPDATE cards SET status = ?, used_by = ?, used_at = ?
		WHERE id = ? AND status = ?`,
		string(domain.CardUsed), userID, at.UTC(), id, string(domain.CardUnused),
	)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err == nil {
		return nil
	}

	// Nothing changed: either the card is gone or someone else redeemed it.
	var one int
	if err := r.queryRow(ctx, `SELECT 1 FROM cards WHERE id = ?`, id).Scan(&one); err != nil {
		return mapNotFound(err)
	}
	return store.ErrConflict
}

func (r *cardsRepo) DeleteCard(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
