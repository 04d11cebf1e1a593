package sync

import "github.com/iudanet/medfichas/internal/client/api"

// Action реакция на ошибку удаленной операции
type Action int

const (
	// ActionSurface - записать ошибку, запись остается в очереди
	ActionSurface Action = iota
	// ActionRetryReduced - один повтор с payload из безопасного списка полей
	ActionRetryReduced
	// ActionIgnore - считать операцию успешной
	ActionIgnore
)

// Policy сопоставляет класс ошибки и реакцию. Отсутствующий класс означает ActionSurface.
type Policy map[api.ErrorKind]Action

func (p Policy) actionFor(kind api.ErrorKind) Action {
	if a, ok := p[kind]; ok {
		return a
	}
	return ActionSurface
}

var (
	upsertPolicy = Policy{
		api.ErrorKindSchemaMismatch: ActionRetryReduced,
		api.ErrorKindAccessControl:  ActionSurface,
		api.ErrorKindTransport:      ActionSurface,
		api.ErrorKindUnknown:        ActionSurface,
	}

	deletePolicy = Policy{
		api.ErrorKindNotFound:      ActionIgnore,
		api.ErrorKindAccessControl: ActionSurface,
		api.ErrorKindTransport:     ActionSurface,
		api.ErrorKindUnknown:       ActionSurface,
	}
)
