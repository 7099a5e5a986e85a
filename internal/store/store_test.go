package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
}

var testPath = []string{"persistent", "entries"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingBackend struct {
	*MemoryBackend
}

func (failingBackend) Save(context.Context, string, []byte) error {
	return errors.New("read-only")
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "persistent.changelogs", JoinPath([]string{"persistent", "changelogs"}))
	assert.Equal(t, "", JoinPath(nil))
}

func TestNetworkConnected(t *testing.T) {
	s := New(NewMemoryBackend())
	assert.False(t, s.NetworkConnected())

	s.SetNetworkConnected(true)
	assert.True(t, s.NetworkConnected())
}

func TestRegister_StartsAtZero(t *testing.T) {
	s := New(NewMemoryBackend())

	sl, err := Register(context.Background(), s, testPath, []entry{})

	require.NoError(t, err)
	assert.Equal(t, "persistent.entries", sl.Path())
	assert.Empty(t, sl.Get())
	assert.Zero(t, sl.Revision())
}

func TestRegister_DuplicatePath(t *testing.T) {
	s := New(NewMemoryBackend())
	_, err := Register(context.Background(), s, testPath, []entry{})
	require.NoError(t, err)

	_, err = Register(context.Background(), s, testPath, []entry{})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestSlice_SetBumpsRevisionAndNotifies(t *testing.T) {
	backend := NewMemoryBackend()
	s := New(backend)
	sl, err := Register(context.Background(), s, testPath, []entry{})
	require.NoError(t, err)

	var notified []uint64
	s.Subscribe(func(path string, rev uint64) {
		assert.Equal(t, "persistent.entries", path)
		notified = append(notified, rev)
	})

	require.NoError(t, sl.Set(context.Background(), []entry{{Name: "a"}}))
	require.NoError(t, sl.Set(context.Background(), []entry{{Name: "a"}, {Name: "b"}}))

	assert.Equal(t, uint64(2), sl.Revision())
	assert.Equal(t, []uint64{1, 2}, notified)
	assert.Len(t, sl.Get(), 2)
	assert.Equal(t, 2, backend.Saves())
}

func TestSlice_FailedSaveKeepsValue(t *testing.T) {
	s := New(failingBackend{NewMemoryBackend()})
	sl, err := Register(context.Background(), s, testPath, []entry{{Name: "kept"}})
	require.NoError(t, err)

	err = sl.Set(context.Background(), []entry{{Name: "lost"}})

	require.Error(t, err)
	assert.Equal(t, []entry{{Name: "kept"}}, sl.Get())
	assert.Zero(t, sl.Revision())
}

func TestRegister_LoadsPersistedValue(t *testing.T) {
	backend := NewMemoryBackend()
	first, err := Register(context.Background(), New(backend), testPath, []entry{})
	require.NoError(t, err)
	require.NoError(t, first.Set(context.Background(), []entry{{Name: "persisted"}}))

	second, err := Register(context.Background(), New(backend), testPath, []entry{})

	require.NoError(t, err)
	assert.Equal(t, []entry{{Name: "persisted"}}, second.Get())
	assert.Equal(t, uint64(1), second.Revision())
}

func TestRegister_CorruptValue(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(context.Background(), "persistent.entries", []byte("{nope")))

	_, err := Register(context.Background(), New(backend), testPath, []entry{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding persistent.entries")
}

func TestSQLiteBackend_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "state.db")

	backend, err := OpenSQLite(dbPath, quietLogger())
	require.NoError(t, err)

	_, ok, err := backend.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.Save(context.Background(), "k", []byte(`["one"]`)))
	require.NoError(t, backend.Save(context.Background(), "k", []byte(`["two"]`)))
	require.NoError(t, backend.Close())

	reopened, err := OpenSQLite(dbPath, quietLogger())
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `["two"]`, string(got))
}

func TestSQLiteBackend_SliceSurvivesRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	backend, err := OpenSQLite(dbPath, quietLogger())
	require.NoError(t, err)
	sl, err := Register(context.Background(), New(backend), testPath, []entry{})
	require.NoError(t, err)
	require.NoError(t, sl.Set(context.Background(), []entry{{Name: "x"}, {Name: "y"}}))
	require.NoError(t, backend.Close())

	backend, err = OpenSQLite(dbPath, quietLogger())
	require.NoError(t, err)
	defer backend.Close()

	sl, err = Register(context.Background(), New(backend), testPath, []entry{})
	require.NoError(t, err)
	assert.Equal(t, []entry{{Name: "x"}, {Name: "y"}}, sl.Get())
}

func TestOpenSQLite_UsesWAL(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	backend, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"), logger)
	require.NoError(t, err)
	defer backend.Close()

	var mode string
	require.NoError(t, backend.db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
	assert.NotContains(t, logs.String(), "level=WARN")
}

func TestApplyPragmas_LogsFailures(t *testing.T) {
	backend, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"), quietLogger())
	require.NoError(t, err)
	defer backend.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	applyPragmas(backend.db, logger, "PRAGMA busy_timeout=100", "PRAGMA (not valid")

	assert.Equal(t, 1, strings.Count(logs.String(), "level=WARN"))
	assert.Contains(t, logs.String(), "PRAGMA (not valid")
}
