package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout формат даты рождения (как в HTML date input)
const DateLayout = "2006-01-02"

// Patient представляет карточку пациента.
// Поле Age вычисляется на клиенте из DOB и никогда не сохраняется удаленно.
type Patient struct {
	CreatedAt       time.Time `json:"created_at,omitzero"`          // CreatedAt время создания карточки (для сортировки)
	ID              string    `json:"id,omitempty"`                 // ID уникальный идентификатор (UUID)
	FullName        string    `json:"full_name"`                    // FullName полное имя пациента
	Email           string    `json:"email"`                        // Email контактный email
	PhoneNumber     string    `json:"phone_number"`                 // PhoneNumber контактный телефон
	Gender          string    `json:"gender"`                       // Gender пол: male, female, other
	DOB             string    `json:"dob"`                          // DOB дата рождения в формате YYYY-MM-DD
	Notes           string    `json:"notes"`                        // Notes клинические заметки (свободный текст)
	HealthInsurance string    `json:"health_insurance,omitempty"`   // HealthInsurance страховая компания (опционально)
	UserID          string    `json:"user_id,omitempty"`            // UserID метка владельца для RLS политик
}

// Age returns the age in full years at the given moment.
// Returns -1 when DOB is empty or malformed.
func (p *Patient) Age(now time.Time) int {
	birth, err := time.Parse(DateLayout, p.DOB)
	if err != nil {
		return -1
	}

	age := now.Year() - birth.Year()
	// День рождения в этом году еще не наступил
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// ToRecord converts the patient into its column representation.
func (p *Patient) ToRecord() (Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patient: %w", err)
	}
	return RecordFromJSON(data)
}

// PatientFromRecord decodes a record into a Patient.
// Fields unknown to the current struct are ignored.
func PatientFromRecord(rec Record) (*Patient, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var p Patient
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal patient: %w", err)
	}
	return &p, nil
}
