package models

// CurrentSchemaVersion is the Local Store schema version this code expects.
// Increment when the set of patient fields changes and add a migration step.
const CurrentSchemaVersion = 1

// SystemOwner is the ownership tag the remote row-level policy accepts.
const SystemOwner = "system"

// Patient columns
const (
	FieldID              = "id"
	FieldFullName        = "full_name"
	FieldEmail           = "email"
	FieldPhoneNumber     = "phone_number"
	FieldGender          = "gender"
	FieldDOB             = "dob"
	FieldNotes           = "notes"
	FieldHealthInsurance = "health_insurance"
	FieldUserID          = "user_id"
	FieldCreatedAt       = "created_at"
)

var (
	// PatientFields are the columns known to the current local schema.
	PatientFields = NewFieldSet(
		FieldID, FieldFullName, FieldEmail, FieldPhoneNumber, FieldGender,
		FieldDOB, FieldNotes, FieldHealthInsurance, FieldUserID, FieldCreatedAt,
	)

	// SafeRemoteFields is the allowlist used when the remote rejects a payload
	// with a schema mismatch. Only columns every remote schema revision has.
	SafeRemoteFields = NewFieldSet(
		FieldID, FieldFullName, FieldEmail, FieldPhoneNumber, FieldGender,
		FieldDOB, FieldNotes,
	)

	// ClientOnlyFields are computed or UI-only fields that never leave the device.
	ClientOnlyFields = NewFieldSet("age", "lastVisit", "last_visit")
)

// ToRemote prepares a local record for an upsert against the remote system of record:
// client-only fields are stripped and the ownership tag is replaced with owner.
func ToRemote(rec Record, owner string) Record {
	out := rec.Without(ClientOnlyFields)
	// Метка владельца всегда перезаписывается значением, которое принимает RLS политика
	out[FieldUserID] = owner
	return out
}

// ToSafeRemote reduces a record to the known-safe allowlist.
// Used for the single retry after a schema mismatch.
func ToSafeRemote(rec Record) Record {
	return rec.Project(SafeRemoteFields)
}

// FromRemote maps a remote row to the local schema, dropping server-only columns.
func FromRemote(rec Record) Record {
	return rec.Project(PatientFields)
}

// Sanitize projects a queued payload down to the current schema and
// defaults the ownership tag. Used by schema migrations.
func Sanitize(rec Record, owner string) Record {
	out := rec.Project(PatientFields)
	if out.String(FieldUserID) == "" {
		out[FieldUserID] = owner
	}
	return out
}
