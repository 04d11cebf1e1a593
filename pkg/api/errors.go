package api

// Коды ошибок в ErrorResponse.Code.
// Значения совпадают с кодами hosted-бэкенда, чтобы клиент классифицировал ошибки одинаково.
const (
	// CodeSchemaMismatch - в теле запроса есть колонка, неизвестная схеме
	CodeSchemaMismatch = "PGRST204"
	// CodeAccessControl - запрос отклонен политикой доступа к строкам
	CodeAccessControl = "42501"
	// CodeNotFound - строка не найдена
	CodeNotFound = "not_found"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Code    string `json:"code,omitempty"`    // машиночитаемый код (см. Code*)
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
