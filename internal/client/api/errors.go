package api

import (
	"errors"
	"fmt"
)

// ErrorKind классифицирует ошибки удаленной системы для политики повторов синхронизации
type ErrorKind int

const (
	// ErrorKindTransport - сеть, таймаут или нераспознанный ответ
	ErrorKindTransport ErrorKind = iota
	// ErrorKindSchemaMismatch - удаленная схема не знает одну из колонок
	ErrorKindSchemaMismatch
	// ErrorKindAccessControl - запрос отклонен политикой доступа к строкам
	ErrorKindAccessControl
	// ErrorKindNotFound - строка отсутствует
	ErrorKindNotFound
	// ErrorKindUnknown - любой другой ответ с ошибкой
	ErrorKindUnknown
)

// String returns the kind name used in logs and sync error strings.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindSchemaMismatch:
		return "schema-mismatch"
	case ErrorKindAccessControl:
		return "access-control-violation"
	case ErrorKindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// RemoteError is a non-2xx answer of the remote system of record.
type RemoteError struct {
	Code       string    // Code машиночитаемый код из тела ответа
	Message    string    // Message текст ошибки
	StatusCode int       // StatusCode HTTP статус
	Kind       ErrorKind // Kind класс ошибки
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d, code %s): %s", e.Kind, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

// KindOf returns the kind of a remote failure.
// Errors that carry no RemoteError (network failures, timeouts) are ErrorKindTransport.
func KindOf(err error) ErrorKind {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind
	}
	return ErrorKindTransport
}

// IsNotFound reports whether err means the requested row does not exist remotely.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == ErrorKindNotFound
}
