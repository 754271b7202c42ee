package records

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO records (
    id,
    user_id,
    name,
    type,
    size_bytes,
    category,
    ocr_text,
    is_medical,
    storage_path,
    analysis_result,
    summary_result,
    upload_date,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	var size sql.NullInt64
	if rec.SizeBytes != nil {
		size = sql.NullInt64{Int64: *rec.SizeBytes, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.UserID,
		rec.Name,
		rec.Type,
		size,
		rec.Category,
		rec.OCRText,
		rec.IsMedical,
		rec.StoragePath,
		rec.AnalysisResult,
		rec.SummaryResult,
		rec.UploadDate,
		rec.UploadedAt,
	)
	return err
}

const selectColumns = `
SELECT id, user_id, name, type, size_bytes, category, ocr_text, is_medical, storage_path, analysis_result, summary_result, upload_date, uploaded_at
FROM records`

// GetByID fetches a record by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	const query = selectColumns + `
WHERE id = $1
LIMIT 1`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// ListByUser lists records for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	const query = selectColumns + `
WHERE user_id = $1
ORDER BY uploaded_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a record by ID.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM records WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var size sql.NullInt64
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Name,
		&rec.Type,
		&size,
		&rec.Category,
		&rec.OCRText,
		&rec.IsMedical,
		&rec.StoragePath,
		&rec.AnalysisResult,
		&rec.SummaryResult,
		&rec.UploadDate,
		&rec.UploadedAt,
	); err != nil {
		return Record{}, err
	}
	if size.Valid {
		rec.SizeBytes = &size.Int64
	}
	return rec, nil
}

var _ Repo = (*PGRepo)(nil)
