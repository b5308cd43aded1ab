package adapter

import (
	"context"
	"errors"
	"time"

	user "go-parley/internal/pkg/user/domain"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PgUserRepository persists accounts in Postgres.
type PgUserRepository struct {
	logger *zap.SugaredLogger
	pool   *pgxpool.Pool
}

func NewPgUserRepository(logger *zap.SugaredLogger, pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{logger: logger, pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, u user.User) (int64, error) {
	r.logger.Debugf("creating user (%s)", u.Username)

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.users (username, password_hash, is_online, created_at)
		VALUES ($1, $2, false, $3)
		RETURNING id
	`, u.Username, u.PasswordHash, time.Now().UTC()).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, user.ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, is_online, last_seen, created_at
		FROM chat.users WHERE id = $1
	`, id))
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, is_online, last_seen, created_at
		FROM chat.users WHERE username = $1
	`, username))
}

func (r *PgUserRepository) ResolveUsernames(ctx context.Context, usernames []string) (map[string]int64, error) {
	resolved := make(map[string]int64, len(usernames))
	if len(usernames) == 0 {
		return resolved, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT username, id FROM chat.users WHERE username = ANY($1)
	`, usernames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var id int64
		if err := rows.Scan(&name, &id); err != nil {
			return nil, err
		}
		resolved[name] = id
	}
	return resolved, rows.Err()
}

func (r *PgUserRepository) UpdatePresence(ctx context.Context, id int64, online bool) error {
	r.logger.Debugf("updating presence for user %d (online=%t)", id, online)

	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.users SET is_online = $2, last_seen = $3 WHERE id = $1
	`, id, online, time.Now().UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) scanOne(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsOnline, &u.LastSeen, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
