package storage

import (
	"context"

	"github.com/iudanet/medfichas/pkg/api"
)

// Колонки таблицы patients, которые клиент может передавать
const (
	ColumnID              = "id"
	ColumnFullName        = "full_name"
	ColumnEmail           = "email"
	ColumnPhoneNumber     = "phone_number"
	ColumnGender          = "gender"
	ColumnDOB             = "dob"
	ColumnNotes           = "notes"
	ColumnHealthInsurance = "health_insurance"
	ColumnUserID          = "user_id"
	ColumnCreatedAt       = "created_at"
	// ColumnUpdatedAt выставляется только сервером
	ColumnUpdatedAt = "updated_at"
)

// WritableColumns in table order.
var WritableColumns = []string{
	ColumnID, ColumnFullName, ColumnEmail, ColumnPhoneNumber, ColumnGender,
	ColumnDOB, ColumnNotes, ColumnHealthInsurance, ColumnUserID, ColumnCreatedAt,
}

// IsWritableColumn reports whether a client may send the column.
func IsWritableColumn(name string) bool {
	for _, c := range WritableColumns {
		if c == name {
			return true
		}
	}
	return false
}

// PatientStorage defines interface for patient rows persistence.
// Every method is scoped to ownerID: rows of other owners are invisible.
type PatientStorage interface {
	// ListPatients returns the owner's rows ordered by created_at, newest first unless ascending
	ListPatients(ctx context.Context, ownerID string, ascending bool) ([]api.Row, error)

	// GetPatient returns a single row.
	// Returns ErrPatientNotFound if the row doesn't exist or belongs to another owner
	GetPatient(ctx context.Context, ownerID, id string) (api.Row, error)

	// UpsertPatient inserts the row or updates the columns present in it.
	// Columns missing from an update keep their stored values.
	// Returns ErrAccessDenied if the id is taken by another owner's row
	UpsertPatient(ctx context.Context, ownerID string, row api.Row) (api.Row, error)

	// DeletePatient removes the row. Deleting an absent row is not an error
	DeletePatient(ctx context.Context, ownerID, id string) error
}
