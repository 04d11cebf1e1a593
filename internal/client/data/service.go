package data

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/medfichas/internal/client/api"
	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/models"
	"github.com/iudanet/medfichas/internal/validation"
	pkgapi "github.com/iudanet/medfichas/pkg/api"
)

var (
	// ErrPatientNotFound пациент не найден ни удаленно, ни локально
	ErrPatientNotFound = errors.New("patient not found")
	// ErrInvalidPatient карточка не прошла валидацию
	ErrInvalidPatient = errors.New("invalid patient")
)

// Source показывает, откуда получены данные
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

//go:generate moq -out service_mock.go . Service

// Service is the single entry point for reading and writing patients.
// Reads are remote-first with a local fallback; writes are remote-first and
// degrade to a queued local write, so they never fail because of connectivity.
type Service interface {
	ListPatients(ctx context.Context) ([]*models.Patient, Source, error)
	GetPatient(ctx context.Context, id string) (*models.Patient, Source, error)
	SavePatient(ctx context.Context, p *models.Patient) *WriteResult
	DeletePatient(ctx context.Context, id string) *WriteResult
}

// Connectivity reports whether the remote system of record is reachable.
type Connectivity interface {
	IsOnline() bool
}

// Store is the part of the Local Store the facade uses.
type Store interface {
	storage.RecordStorage
	storage.SyncWriter
	PendingEntries(ctx context.Context) ([]*models.QueueEntry, error)
}

// WriteResult describes the outcome of a save or delete.
type WriteResult struct {
	Err     error  // Err причина неудачи (валидация или локальное хранилище)
	ID      string // ID идентификатор записи
	Success bool   // Success запись сохранена (удаленно или локально)
	Queued  bool   // Queued запись ждет синхронизации в очереди
}

type service struct {
	remote api.Remote
	store  Store
	conn   Connectivity
	logger *slog.Logger
	now    func() time.Time
	owner  string
}

// NewService creates a new data service
func NewService(remote api.Remote, store Store, conn Connectivity, owner string, logger *slog.Logger) Service {
	if owner == "" {
		owner = models.SystemOwner
	}
	return &service{
		remote: remote,
		store:  store,
		conn:   conn,
		owner:  owner,
		logger: logger,
		now:    time.Now,
	}
}

// ListPatients returns patients newest first.
// Online: remote rows are cached locally, records with unsynced local changes keep
// their local version. Offline or on remote failure: Local Store contents.
func (s *service) ListPatients(ctx context.Context) ([]*models.Patient, Source, error) {
	if s.conn.IsOnline() {
		rows, err := s.remote.Select(ctx, models.CollectionPatients, pkgapi.OrderCreatedAtDesc)
		if err == nil {
			patients, err := s.mergeRemote(ctx, rows)
			if err == nil {
				return patients, SourceRemote, nil
			}
			s.logger.Warn("Failed to merge remote patients, using local store", "error", err)
		} else {
			s.logger.Warn("Remote list failed, using local store", "error", err)
		}
	}

	records, err := s.store.ListRecords(ctx, models.CollectionPatients)
	if err != nil {
		return nil, SourceLocal, fmt.Errorf("failed to list local patients: %w", err)
	}

	patients, err := decodePatients(records)
	if err != nil {
		return nil, SourceLocal, err
	}
	sortNewestFirst(patients)
	return patients, SourceLocal, nil
}

// GetPatient returns one patient. A remote not-found also falls back to the
// Local Store so queued offline creations stay visible.
func (s *service) GetPatient(ctx context.Context, id string) (*models.Patient, Source, error) {
	if id == "" {
		return nil, SourceLocal, fmt.Errorf("patient id cannot be empty")
	}

	if s.conn.IsOnline() && !s.hasPending(ctx, id) {
		row, err := s.remote.SelectByID(ctx, models.CollectionPatients, id)
		if err == nil {
			rec := models.FromRemote(row)
			if _, err := s.store.PutRecord(ctx, models.CollectionPatients, rec); err != nil {
				s.logger.Warn("Failed to cache remote patient", "patient_id", id, "error", err)
			}
			p, err := models.PatientFromRecord(rec)
			if err != nil {
				return nil, SourceRemote, err
			}
			return p, SourceRemote, nil
		}
		s.logger.Debug("Remote get failed, using local store", "patient_id", id, "kind", api.KindOf(err), "error", err)
	}

	rec, err := s.store.GetRecord(ctx, models.CollectionPatients, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil, SourceLocal, ErrPatientNotFound
		}
		return nil, SourceLocal, fmt.Errorf("failed to get local patient: %w", err)
	}

	p, err := models.PatientFromRecord(rec)
	if err != nil {
		return nil, SourceLocal, err
	}
	return p, SourceLocal, nil
}

// SavePatient creates or updates a patient.
func (s *service) SavePatient(ctx context.Context, p *models.Patient) *WriteResult {
	if err := validation.ValidatePatient(p, s.now()); err != nil {
		return &WriteResult{Err: fmt.Errorf("%w: %w", ErrInvalidPatient, err)}
	}

	patient := *p
	op := models.OperationUpdate
	if patient.ID == "" {
		patient.ID = uuid.New().String()
		op = models.OperationCreate
	} else if _, err := s.store.GetRecord(ctx, models.CollectionPatients, patient.ID); errors.Is(err, storage.ErrRecordNotFound) {
		op = models.OperationCreate
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = s.now().UTC()
	}
	patient.UserID = s.owner

	rec, err := patient.ToRecord()
	if err != nil {
		return &WriteResult{ID: patient.ID, Err: err}
	}

	// Запись с ожидающими изменениями идет через очередь, чтобы не обогнать их
	if s.conn.IsOnline() && !s.hasPending(ctx, patient.ID) {
		_, err := s.remote.Upsert(ctx, models.CollectionPatients, models.ToRemote(rec, s.owner))
		if err == nil {
			if _, err := s.store.PutRecord(ctx, models.CollectionPatients, rec); err != nil {
				// Данные уже надежно сохранены удаленно, кэш заполнится при следующей загрузке
				s.logger.Warn("Failed to mirror saved patient locally", "patient_id", patient.ID, "error", err)
			}
			return &WriteResult{ID: patient.ID, Success: true}
		}
		s.logger.Warn("Remote save failed, queueing locally",
			"patient_id", patient.ID, "kind", api.KindOf(err), "error", err)
	}

	if _, err := s.store.SaveRecordWithSync(ctx, models.CollectionPatients, rec, op); err != nil {
		s.logger.Error("Failed to save patient locally", "patient_id", patient.ID, "error", err)
		return &WriteResult{ID: patient.ID, Err: fmt.Errorf("failed to save patient locally: %w", err)}
	}

	return &WriteResult{ID: patient.ID, Success: true, Queued: true}
}

// DeletePatient removes a patient, symmetric to SavePatient.
func (s *service) DeletePatient(ctx context.Context, id string) *WriteResult {
	if id == "" {
		return &WriteResult{Err: fmt.Errorf("patient id cannot be empty")}
	}

	if s.conn.IsOnline() && !s.hasPending(ctx, id) {
		err := s.remote.Delete(ctx, models.CollectionPatients, id)
		if err == nil || api.IsNotFound(err) {
			if err := s.store.DeleteRecord(ctx, models.CollectionPatients, id); err != nil {
				s.logger.Warn("Failed to remove deleted patient locally", "patient_id", id, "error", err)
			}
			return &WriteResult{ID: id, Success: true}
		}
		s.logger.Warn("Remote delete failed, queueing locally",
			"patient_id", id, "kind", api.KindOf(err), "error", err)
	}

	if err := s.store.DeleteRecordWithSync(ctx, models.CollectionPatients, id); err != nil {
		s.logger.Error("Failed to delete patient locally", "patient_id", id, "error", err)
		return &WriteResult{ID: id, Err: fmt.Errorf("failed to delete patient locally: %w", err)}
	}

	return &WriteResult{ID: id, Success: true, Queued: true}
}

// pendingOps возвращает последнюю ожидающую операцию по каждому id
func (s *service) pendingOps(ctx context.Context) (map[string]models.Operation, error) {
	entries, err := s.store.PendingEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync queue: %w", err)
	}

	ops := make(map[string]models.Operation, len(entries))
	for _, e := range entries {
		if e.TableName == models.CollectionPatients {
			ops[e.TargetID()] = e.Operation
		}
	}
	return ops, nil
}

func (s *service) hasPending(ctx context.Context, id string) bool {
	ops, err := s.pendingOps(ctx)
	if err != nil {
		s.logger.Warn("Failed to read sync queue", "error", err)
		return false
	}
	_, ok := ops[id]
	return ok
}

// mergeRemote кэширует удаленные строки и накладывает поверх локальные несинхронизированные изменения.
// Полный список с сервера также вычищает локальные копии записей, удаленных другими клиентами.
func (s *service) mergeRemote(ctx context.Context, rows []models.Record) ([]*models.Patient, error) {
	pending, err := s.pendingOps(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]models.Record, 0, len(rows)+len(pending))
	remoteIDs := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		rec := models.FromRemote(row)
		if rec.ID() == "" {
			continue
		}
		remoteIDs[rec.ID()] = struct{}{}
		if _, ok := pending[rec.ID()]; ok {
			continue
		}
		if _, err := s.store.PutRecord(ctx, models.CollectionPatients, rec); err != nil {
			s.logger.Warn("Failed to cache remote patient", "patient_id", rec.ID(), "error", err)
		}
		records = append(records, rec)
	}

	s.pruneMissing(ctx, remoteIDs, pending)

	for id, op := range pending {
		if op == models.OperationDelete {
			continue
		}
		rec, err := s.store.GetRecord(ctx, models.CollectionPatients, id)
		if err != nil {
			if errors.Is(err, storage.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read pending patient %s: %w", id, err)
		}
		records = append(records, rec)
	}

	patients, err := decodePatients(records)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(patients)
	return patients, nil
}

func (s *service) pruneMissing(ctx context.Context, remoteIDs map[string]struct{}, pending map[string]models.Operation) {
	local, err := s.store.ListRecords(ctx, models.CollectionPatients)
	if err != nil {
		s.logger.Warn("Failed to list cached patients", "error", err)
		return
	}
	for _, rec := range local {
		id := rec.ID()
		if _, ok := remoteIDs[id]; ok {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}
		if err := s.store.DeleteRecord(ctx, models.CollectionPatients, id); err != nil {
			s.logger.Warn("Failed to drop patient deleted remotely", "patient_id", id, "error", err)
		}
	}
}

func decodePatients(records []models.Record) ([]*models.Patient, error) {
	patients := make([]*models.Patient, 0, len(records))
	for _, rec := range records {
		p, err := models.PatientFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("patient %s: %w", rec.ID(), err)
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// sortNewestFirst сортирует по created_at по убыванию, при равенстве по id
func sortNewestFirst(patients []*models.Patient) {
	slices.SortStableFunc(patients, func(a, b *models.Patient) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
