package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cloudsphere/internal/common"
	"github.com/dmitrijs2005/cloudsphere/internal/dbx"
	"github.com/dmitrijs2005/cloudsphere/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, owner, file_name, content_type, size, blob_key, uploaded_at`

// Create inserts the file and fills UploadedAt from the database clock.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (id, owner, file_name, content_type, size, blob_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uploaded_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.Owner, file.FileName, file.ContentType, file.Size, file.BlobKey).Scan(&file.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE id = $1`

	f := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Owner, &f.FileName, &f.ContentType, &f.Size, &f.BlobKey, &f.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.File, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE owner = $1 ORDER BY uploaded_at DESC, id`
	return r.selectFiles(ctx, query, owner)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.File, error) {
	query := `SELECT ` + selectColumns + ` FROM files ORDER BY uploaded_at DESC, id`
	return r.selectFiles(ctx, query)
}

func (r *PostgresRepository) selectFiles(ctx context.Context, query string, args ...any) ([]*models.File, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.Owner, &f.FileName, &f.ContentType, &f.Size, &f.BlobKey, &f.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the file row. Exactly one row must be affected.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return dbx.ExecOne(ctx, r.db, common.ErrorNotFound, `DELETE FROM files WHERE id = $1`, id)
}

func (r *PostgresRepository) Totals(ctx context.Context) (int64, int64, error) {
	var count, bytes int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size), 0) FROM files`).Scan(&count, &bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return count, bytes, nil
}
