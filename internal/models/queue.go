package models

import (
	"time"

	"github.com/google/uuid"
)

// CollectionPatients имя коллекции пациентов (локально и удаленно)
const CollectionPatients = "patients"

// Operation тип мутации в очереди синхронизации
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether the operation is one of the known kinds.
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// QueueEntry представляет одну отложенную мутацию.
// Data хранит полный снимок записи на момент постановки в очередь (не diff),
// поэтому повтор операции самодостаточен.
type QueueEntry struct {
	Data      Record    `json:"data"`      // Data снимок записи
	ID        string    `json:"id"`        // ID уникальный идентификатор записи очереди
	Operation Operation `json:"operation"` // Operation create | update | delete
	TableName string    `json:"tableName"` // TableName целевая коллекция
	Timestamp int64     `json:"timestamp"` // Timestamp время постановки в очередь (unix ms)
	Seq       uint64    `json:"seq"`       // Seq позиция в очереди (порядок вставки)
	Synced    bool      `json:"synced"`    // Synced true после подтверждения удаленной операции
}

// NewQueueEntry creates an unsynced entry with a fresh id and a detached payload snapshot.
func NewQueueEntry(op Operation, tableName string, data Record, now time.Time) *QueueEntry {
	return &QueueEntry{
		ID:        uuid.New().String(),
		Operation: op,
		TableName: tableName,
		Data:      data.Clone(),
		Timestamp: now.UnixMilli(),
		Synced:    false,
	}
}

// TargetID returns the id of the entity the entry mutates.
func (e *QueueEntry) TargetID() string {
	return e.Data.ID()
}
