package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/regdash/internal/core/domain"
)

const sampleCSV = `sector,domain,regulasi,level,presence,detail
Minol,label,PP 20 Tahun 2019,PP,1,1
Tembakau,iklan,UU 2009,UU,1,0
`

func TestNewServices_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))

	svc, err := newServices(dir)
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	require.NotNil(t, svc.Dataset)
	require.NotNil(t, svc.Settings)
	require.NotNil(t, svc.Export)
	require.NotNil(t, svc.Watcher)

	info, err := svc.Dataset.Load(context.Background(), csvPath)
	require.NoError(t, err)
	assert.Equal(t, 2, info.RecordCount)
}

func TestNewServices_SQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(
		"[storage]\nbackend = \"sqlite\"\ndir = \""+filepath.ToSlash(filepath.Join(dir, "data"))+"\"\n",
	), 0o600))
	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))

	svc, err := newServices(dir)
	require.NoError(t, err)

	_, err = svc.Dataset.Load(context.Background(), csvPath)
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.FileExists(t, filepath.Join(dir, "data", "regdash.db"))

	// A second process sees the stored snapshot.
	again, err := newServices(dir)
	require.NoError(t, err)
	defer func() { require.NoError(t, again.Close()) }()

	snapshots, err := again.Dataset.Snapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, csvPath, snapshots[0].Source)
}

func TestOpenRecordStore_DefaultsToMemory(t *testing.T) {
	store, closeFn, err := openRecordStore(domain.StorageSettings{})

	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NoError(t, closeFn())
}
