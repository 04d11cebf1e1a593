package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand выполняет командную строку против временного хранилища в режиме offline
func runCommand(t *testing.T, dbPath, input string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--db", dbPath, "--offline", "--log-level", "error"}, args...)
	err := Execute(context.Background(), "test", full, strings.NewReader(input), &out, &errOut)
	return out.String(), err
}

func TestExecute_OfflineWorkflow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "medfichas.db")

	out, err := runCommand(t, dbPath, "", "patient", "add",
		"--name", "Ana Souza", "--gender", "female", "--dob", "1990-04-12")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient added successfully")
	assert.Contains(t, out, "queued")

	out, err = runCommand(t, dbPath, "", "patient", "list", "--format", "json")
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Ana Souza", records[0]["full_name"])
	assert.Equal(t, "system", records[0]["user_id"])
	id, _ := records[0]["id"].(string)
	require.NotEmpty(t, id)

	out, err = runCommand(t, dbPath, "", "patient", "edit", id, "--notes", "first visit")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient updated successfully")

	out, err = runCommand(t, dbPath, "", "patient", "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Source:    local")
	assert.Contains(t, out, "first visit")

	out, err = runCommand(t, dbPath, "", "queue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 entry(ies) in the sync queue")

	out, err = runCommand(t, dbPath, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connection:     offline")
	assert.Contains(t, out, "Pending sync:   2")
	assert.Contains(t, out, "Session:        not logged in")

	// без сервера синхронизация завершается ошибкой, очередь сохраняется
	out, err = runCommand(t, dbPath, "", "sync")
	require.Error(t, err)
	assert.Contains(t, out, "- offline")

	out, err = runCommand(t, dbPath, "", "patient", "delete", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient deleted")

	out, err = runCommand(t, dbPath, "", "patient", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No patients found.")

	out, err = runCommand(t, dbPath, "", "queue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "3 entry(ies) in the sync queue")
}

func TestExecute_Migrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "medfichas.db")

	out, err := runCommand(t, dbPath, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")

	out, err = runCommand(t, dbPath, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestExecute_InvalidConfig(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "medfichas.db")

	_, err := runCommand(t, dbPath, "", "--log-level", "loud", "status")
	assert.Error(t, err)

	_, err = runCommand(t, dbPath, "", "patient", "add", "--name", "X", "--dob", "12/04/1990")
	assert.Error(t, err)
}

func TestExecute_Help(t *testing.T) {
	var out bytes.Buffer
	err := Execute(context.Background(), "test", []string{"--help"}, strings.NewReader(""), &out, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "patient")
	assert.Contains(t, out.String(), "sync")
}
