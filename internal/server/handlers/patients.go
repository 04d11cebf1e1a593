package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/iudanet/medfichas/internal/server/storage"
	"github.com/iudanet/medfichas/pkg/api"
)

// maxBodyBytes ограничение размера тела запроса upsert
const maxBodyBytes = 1 << 20

//go:generate moq -out storage_mock.go . PatientStorage

// PatientStorage определяет интерфейс для работы со строками пациентов
type PatientStorage interface {
	ListPatients(ctx context.Context, ownerID string, ascending bool) ([]api.Row, error)
	GetPatient(ctx context.Context, ownerID, id string) (api.Row, error)
	UpsertPatient(ctx context.Context, ownerID string, row api.Row) (api.Row, error)
	DeletePatient(ctx context.Context, ownerID, id string) error
}

// PatientsHandler serves the patients collection.
// Every request is scoped to the user id put into the context by the auth middleware.
type PatientsHandler struct {
	logger  *slog.Logger
	storage PatientStorage
}

// NewPatientsHandler creates a new patients handler
func NewPatientsHandler(logger *slog.Logger, storage PatientStorage) *PatientsHandler {
	return &PatientsHandler{
		logger:  logger,
		storage: storage,
	}
}

// userID достает владельца из контекста, при отсутствии отвечает 401
func (h *PatientsHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		WriteError(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
	}
	return userID, ok
}

// List обрабатывает GET /api/v1/patients?order=created_at.desc
func (h *PatientsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var ascending bool
	switch order := r.URL.Query().Get("order"); order {
	case "", api.OrderCreatedAtDesc:
	case api.OrderCreatedAtAsc:
		ascending = true
	default:
		WriteError(w, http.StatusBadRequest, api.ErrorResponse{
			Error:   "unsupported order",
			Message: fmt.Sprintf("order %q is not supported, use %s or %s", order, api.OrderCreatedAtDesc, api.OrderCreatedAtAsc),
		})
		return
	}

	rows, err := h.storage.ListPatients(r.Context(), userID, ascending)
	if err != nil {
		h.logger.Error("Failed to list patients", "error", err, "user_id", userID)
		WriteError(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, rows)
}

// Get обрабатывает GET /api/v1/patients/{id}
func (h *PatientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	row, err := h.storage.GetPatient(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrPatientNotFound) {
			WriteError(w, http.StatusNotFound, api.ErrorResponse{Error: api.CodeNotFound, Code: api.CodeNotFound})
			return
		}
		h.logger.Error("Failed to get patient", "error", err, "user_id", userID, "id", id)
		WriteError(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, row)
}

// Upsert обрабатывает POST /api/v1/patients.
// Строка вставляется или обновляется по id; ответ содержит сохраненную строку.
func (h *PatientsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var row api.Row
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&row); err != nil || row == nil {
		h.logger.Warn("Invalid upsert body", "error", err)
		WriteError(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if unknown := unknownColumns(row); len(unknown) > 0 {
		h.logger.Warn("Upsert with unknown columns", "columns", unknown, "user_id", userID)
		WriteError(w, http.StatusBadRequest, api.ErrorResponse{
			Error:   "schema mismatch",
			Code:    api.CodeSchemaMismatch,
			Message: fmt.Sprintf("Could not find the '%s' column of 'patients' in the schema cache", strings.Join(unknown, "', '")),
		})
		return
	}

	// Метка владельца по умолчанию берется из токена
	if owner, _ := row[storage.ColumnUserID].(string); owner == "" {
		row[storage.ColumnUserID] = userID
	}

	stored, err := h.storage.UpsertPatient(r.Context(), userID, row)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrAccessDenied):
		h.logger.Warn("Row-level policy violation", "user_id", userID, "row_owner", row[storage.ColumnUserID])
		WriteError(w, http.StatusForbidden, api.ErrorResponse{
			Error:   "access denied",
			Code:    api.CodeAccessControl,
			Message: `new row violates row-level security policy for table "patients"`,
		})
		return
	case errors.Is(err, storage.ErrInvalidValue):
		WriteError(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid value", Message: err.Error()})
		return
	default:
		h.logger.Error("Failed to upsert patient", "error", err, "user_id", userID)
		WriteError(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	h.logger.Info("Patient saved", "user_id", userID, "id", stored[storage.ColumnID])
	writeJSON(w, h.logger, http.StatusOK, stored)
}

// Delete обрабатывает DELETE /api/v1/patients/{id}. Отсутствующая строка не ошибка.
func (h *PatientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	if err := h.storage.DeletePatient(r.Context(), userID, id); err != nil {
		h.logger.Error("Failed to delete patient", "error", err, "user_id", userID, "id", id)
		WriteError(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	h.logger.Info("Patient deleted", "user_id", userID, "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func unknownColumns(row api.Row) []string {
	var unknown []string
	for col := range row {
		if !storage.IsWritableColumn(col) {
			unknown = append(unknown, col)
		}
	}
	sort.Strings(unknown)
	return unknown
}
