package api

// Параметры сортировки списка пациентов (?order=)
const (
	OrderCreatedAtDesc = "created_at.desc"
	OrderCreatedAtAsc  = "created_at.asc"
)

// PatientsPath базовый путь коллекции пациентов
const PatientsPath = "/api/v1/patients"

// HealthPath путь health check
const HealthPath = "/api/v1/health"

// Row строка коллекции в том виде, в каком она передается по сети:
// имена колонок (snake_case) -> JSON значения
type Row map[string]any
