package sqlstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
)

type usersRepo struct{ conn }

const userColumns = `id, username, status, created_at, updated_at`

func scanUser(sc scanner) (domain.User, error) {
	var (
		u      domain.User
		status string
	)
	if err := sc.Scan(&u.ID, &u.Username, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	u.Status = domain.UserStatus(status)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUser(ctx context.Context, id string) (domain.User, error) {
	row := r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) UpsertUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Status == "" {
		u.Status = domain.UserActive
	}
	_, err := r.exec(ctx, `
		INSERT INTO users (id, username, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET username = excluded.username, updated_at = excluded.updated_at
		WHERE users.username <> excluded.username`,
		u.ID, u.Username, string(u.Status), u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, u.ID)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) UpdateUserStatus(ctx context.Context, id string, status domain.UserStatus, now time.Time) error {
	res, err := r.exec(ctx, `UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
