package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/medfichas/internal/server/storage"
	"github.com/iudanet/medfichas/pkg/api"
)

// readColumns колонки, возвращаемые клиенту (включая серверную updated_at)
var readColumns = append(append([]string{}, storage.WritableColumns...), storage.ColumnUpdatedAt)

var selectColumns = strings.Join(readColumns, ", ")

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(sc rowScanner) (api.Row, error) {
	values := make([]string, len(readColumns))
	dest := make([]any, len(readColumns))
	for i := range values {
		dest[i] = &values[i]
	}

	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(api.Row, len(readColumns))
	for i, col := range readColumns {
		row[col] = values[i]
	}
	return row, nil
}

// ListPatients returns the owner's rows ordered by created_at
func (s *Storage) ListPatients(ctx context.Context, ownerID string, ascending bool) ([]api.Row, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}

	query := `SELECT ` + selectColumns + ` FROM patients WHERE user_id = ? ORDER BY created_at ` + order + `, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]api.Row, 0)
	for rows.Next() {
		row, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patients: %w", err)
	}

	return result, nil
}

// GetPatient returns a single row visible to the owner
func (s *Storage) GetPatient(ctx context.Context, ownerID, id string) (api.Row, error) {
	return getPatient(ctx, s.db, ownerID, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getPatient(ctx context.Context, q querier, ownerID, id string) (api.Row, error) {
	query := `SELECT ` + selectColumns + ` FROM patients WHERE id = ? AND user_id = ?`

	row, err := scanPatient(q.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return row, nil
}

// UpsertPatient inserts the row or updates the columns present in it
func (s *Storage) UpsertPatient(ctx context.Context, ownerID string, row api.Row) (api.Row, error) {
	values, err := stringValues(row)
	if err != nil {
		return nil, err
	}

	if owner, ok := values[storage.ColumnUserID]; ok && owner != "" && owner != ownerID {
		return nil, storage.ErrAccessDenied
	}
	values[storage.ColumnUserID] = ownerID

	id := values[storage.ColumnID]
	if id == "" {
		id = uuid.New().String()
		values[storage.ColumnID] = id
	}

	// Пустой created_at означает "не передан"
	if values[storage.ColumnCreatedAt] == "" {
		delete(values, storage.ColumnCreatedAt)
	}

	now := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var storedOwner string
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM patients WHERE id = ?`, id).Scan(&storedOwner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := insertPatient(ctx, tx, values, now); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to check existing patient: %w", err)
	case storedOwner != ownerID:
		return nil, storage.ErrAccessDenied
	default:
		if err := updatePatient(ctx, tx, values, now); err != nil {
			return nil, err
		}
	}

	stored, err := getPatient(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stored, nil
}

func insertPatient(ctx context.Context, tx *sql.Tx, values map[string]string, now string) error {
	if _, ok := values[storage.ColumnCreatedAt]; !ok {
		values[storage.ColumnCreatedAt] = now
	}

	args := make([]any, 0, len(storage.WritableColumns)+1)
	for _, col := range storage.WritableColumns {
		args = append(args, values[col])
	}
	args = append(args, now)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	query := `INSERT INTO patients (` + strings.Join(storage.WritableColumns, ", ") + `, updated_at) VALUES (` + placeholders + `)`

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}
	return nil
}

func updatePatient(ctx context.Context, tx *sql.Tx, values map[string]string, now string) error {
	var (
		sets []string
		args []any
	)
	for _, col := range storage.WritableColumns {
		if col == storage.ColumnID {
			continue
		}
		v, ok := values[col]
		if !ok {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, values[storage.ColumnID])

	query := `UPDATE patients SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

// DeletePatient removes the owner's row, absent rows are ignored
func (s *Storage) DeletePatient(ctx context.Context, ownerID, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ? AND user_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// stringValues проверяет, что все значения строки - строки или null
func stringValues(row api.Row) (map[string]string, error) {
	values := make(map[string]string, len(row))
	for col, v := range row {
		if !storage.IsWritableColumn(col) {
			return nil, fmt.Errorf("unknown column %q", col)
		}
		switch x := v.(type) {
		case string:
			values[col] = x
		case nil:
			values[col] = ""
		default:
			return nil, fmt.Errorf("%w: column %q", storage.ErrInvalidValue, col)
		}
	}
	return values, nil
}
