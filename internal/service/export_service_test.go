package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path"
	"path/filepath"
	"testing"

	"health_metrics_backend/internal/testutil"
	"health_metrics_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportCSV(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	bob := testutil.CreateUser(t, s.db, "bob")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	today := testutil.Date(2024, 1, 31)
	testutil.CreateObservation(t, s.db, alice.ID, steps.ID, 8000, testutil.Date(2024, 1, 30))
	testutil.CreateObservation(t, s.db, alice.ID, steps.ID, 9000, testutil.Date(2024, 1, 1)) // outside default window
	testutil.CreateObservation(t, s.db, bob.ID, steps.ID, 1, today)

	res, err := s.export.Export(ctx, alice.ID, ExportRequest{}, today)
	require.NoError(t, err)
	assert.Equal(t, "csv", res.Format)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, "2024-01-02", res.PeriodStart)
	assert.Equal(t, "2024-01-31", res.PeriodEnd)
	assert.Equal(t, "/files/"+res.Key, res.URL)

	data, err := os.ReadFile(filepath.Join(s.storageDir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"2024-01-30", "steps", "steps", "8000.00", ""}, rows[1])
}

func TestExportXLSX(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	sleep := testutil.CreateMetricType(t, s.db, "sleep_hours", "hours", nil, nil)
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 7.5, testutil.Date(2024, 1, 10))

	res, err := s.export.Export(ctx, alice.ID, ExportRequest{Format: "xlsx", StartDate: "2024-01-01", EndDate: "2024-01-31"}, testutil.Date(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)

	f, err := excelize.OpenFile(filepath.Join(s.storageDir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	defer f.Close()
	header, err := f.GetCellValue(exportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)
	metric, err := f.GetCellValue(exportSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "sleep_hours", metric)
}

func TestExportWindowValidation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	today := testutil.Date(2024, 1, 31)

	_, err := s.export.Export(ctx, alice.ID, ExportRequest{StartDate: "2024-01-10", EndDate: "2024-01-01"}, today)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "end_date", ve.Field)

	_, err = s.export.Export(ctx, alice.ID, ExportRequest{StartDate: "2022-01-01", EndDate: "2024-01-01"}, today)
	ve, ok = util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "start_date", ve.Field)

	// 366 days counting both ends is the cap
	_, err = s.export.Export(ctx, alice.ID, ExportRequest{StartDate: "2023-01-01", EndDate: "2024-01-01"}, today)
	require.NoError(t, err)
	_, err = s.export.Export(ctx, alice.ID, ExportRequest{StartDate: "2023-01-01", EndDate: "2024-01-02"}, today)
	ve, ok = util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "start_date", ve.Field)

	_, err = s.export.Export(ctx, alice.ID, ExportRequest{StartDate: "yesterday"}, today)
	_, ok = util.AsValidationError(err)
	assert.True(t, ok)
}

func TestDeleteExport(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	bob := testutil.CreateUser(t, s.db, "bob")

	res, err := s.export.Export(ctx, alice.ID, ExportRequest{}, testutil.Date(2024, 1, 31))
	require.NoError(t, err)
	file := path.Base(res.Key)
	stored := filepath.Join(s.storageDir, filepath.FromSlash(res.Key))
	require.FileExists(t, stored)

	// keys are scoped by owner
	assert.ErrorIs(t, s.export.Delete(ctx, bob.ID, file), util.ErrExportNotFound)
	require.FileExists(t, stored)

	require.NoError(t, s.export.Delete(ctx, alice.ID, file))
	assert.NoFileExists(t, stored)
	assert.ErrorIs(t, s.export.Delete(ctx, alice.ID, file), util.ErrExportNotFound)

	for _, bad := range []string{"../../etc.csv", "not-a-uuid.csv", path.Base(res.Key) + ".bak"} {
		assert.ErrorIs(t, s.export.Delete(ctx, alice.ID, bad), util.ErrExportNotFound, bad)
	}
}
