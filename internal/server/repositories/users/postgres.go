package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/dbx"
	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (principal, email, role, storage_limit)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (principal) DO NOTHING
		 RETURNING registered_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Principal, user.Email, user.Role, user.StorageLimit).Scan(&user.RegisteredAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Get(ctx context.Context, principal string) (*models.User, error) {
	query :=
		`SELECT principal, email, role, storage_used, storage_limit, upload_count, blocked, registered_at
		 FROM users
		 WHERE principal = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, principal).Scan(&user.Principal, &user.Email, &user.Role,
		&user.StorageUsed, &user.StorageLimit, &user.UploadCount, &user.Blocked, &user.RegisteredAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// List returns every account with its file count, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT u.principal, u.email, u.role, u.storage_used, u.storage_limit, u.upload_count, u.blocked, u.registered_at,
		        (SELECT COUNT(*) FROM files f WHERE f.owner = u.principal)
		 FROM users u
		 ORDER BY u.registered_at, u.principal
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.Principal, &u.Email, &u.Role, &u.StorageUsed, &u.StorageLimit,
			&u.UploadCount, &u.Blocked, &u.RegisteredAt, &u.FileCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) SetBlocked(ctx context.Context, principal string, blocked bool) error {
	return dbx.ExecOne(ctx, r.db, common.ErrorNotFound,
		`UPDATE users SET blocked = $2 WHERE principal = $1`, principal, blocked)
}

func (r *PostgresRepository) ReserveStorage(ctx context.Context, principal string, size int64) error {
	query :=
		`UPDATE users SET storage_used = storage_used + $2
		 WHERE principal = $1 AND storage_used + $2 <= storage_limit
		 `
	return dbx.ExecOne(ctx, r.db, common.ErrorQuotaExceeded, query, principal, size)
}

func (r *PostgresRepository) ReleaseStorage(ctx context.Context, principal string, size int64) error {
	query :=
		`UPDATE users SET storage_used = GREATEST(storage_used - $2, 0)
		 WHERE principal = $1
		 `
	if _, err := r.db.ExecContext(ctx, query, principal, size); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) IncrementUploads(ctx context.Context, principal string) error {
	return dbx.ExecOne(ctx, r.db, common.ErrorNotFound,
		`UPDATE users SET upload_count = upload_count + 1 WHERE principal = $1`, principal)
}
