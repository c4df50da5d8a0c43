package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/repository/memory"
)

type fakeSheets struct {
	dates   [][]any
	written [][]any
	ranges  []string
	readErr error
}

func (f *fakeSheets) WriteRow(_ context.Context, sheetRange string, values []any) error {
	f.ranges = append(f.ranges, sheetRange)
	f.written = append(f.written, values)
	return nil
}

func (f *fakeSheets) ReadRange(_ context.Context, _ string) ([][]any, error) {
	return f.dates, f.readErr
}

type failingCounter struct{}

func (failingCounter) CountSince(context.Context, models.Entity, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestDailyIngestionSummary(t *testing.T) {
	store := memory.NewRepository()
	ctx := context.Background()

	_, _ = store.Store(ctx, models.EntityBatch, "b")
	_, _ = store.Store(ctx, models.EntityBatch, "b")
	_, _ = store.Store(ctx, models.EntityMortalityEvent, "m")

	svc := NewService(store, nil, time.UTC, nil)
	summary, err := svc.DailyIngestionSummary(ctx, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Counts[models.EntityBatch])
	assert.Equal(t, int64(1), summary.Counts[models.EntityMortalityEvent])
	assert.Equal(t, int64(0), summary.Counts[models.EntityFarm])
	assert.Len(t, summary.Counts, len(models.Entities()))
	assert.Equal(t, int64(3), summary.Total())
}

func TestDailyIngestionSummary_WindowStartsAtLocalMidnight(t *testing.T) {
	loc := time.FixedZone("GMT-5", -5*60*60)
	now := time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC) // 22:00 on May 1st local

	svc := NewService(memory.NewRepository(), nil, loc, nil)
	svc.now = func() time.Time { return now }

	summary, err := svc.DailyIngestionSummary(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), summary.From)
	assert.True(t, summary.To.Equal(now))
}

func TestDailyIngestionSummary_CounterError(t *testing.T) {
	svc := NewService(failingCounter{}, nil, nil, nil)

	_, err := svc.DailyIngestionSummary(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestFormatSummary(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	empty := FormatSummary(models.IngestionSummary{From: from, Counts: map[models.Entity]int64{}})
	assert.Equal(t, "Ingestion summary 2024-05-01", empty.Title)
	assert.Equal(t, "No records received today.", empty.Body)

	msg := FormatSummary(models.IngestionSummary{From: from, Counts: map[models.Entity]int64{
		models.EntityBatch:                2,
		models.EntityEnvironmentalReading: 5,
	}})
	assert.Equal(t, "7 records received.\n- lote: 2\n- medicion ambiental: 5", msg.Body)
}

func TestExportSummary(t *testing.T) {
	sheets := &fakeSheets{dates: [][]any{{"Fecha"}, {"2024-04-30"}}}
	svc := NewService(memory.NewRepository(), sheets, time.UTC, nil)

	summary := models.IngestionSummary{
		From:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Counts: map[models.Entity]int64{models.EntityUser: 1, models.EntityThermalMap: 4},
	}
	require.NoError(t, svc.ExportSummary(context.Background(), summary))

	require.Len(t, sheets.written, 1)
	assert.Equal(t, "Ingestion!A:L", sheets.ranges[0])

	row := sheets.written[0]
	require.Len(t, row, 12)
	assert.Equal(t, "2024-05-01", row[0])
	assert.Equal(t, int64(1), row[1])
	assert.Equal(t, int64(4), row[10])
	assert.Equal(t, int64(5), row[11])
}

func TestExportSummary_SkipsExportedDay(t *testing.T) {
	sheets := &fakeSheets{dates: [][]any{{"2024-05-01"}}}
	svc := NewService(memory.NewRepository(), sheets, time.UTC, nil)

	err := svc.ExportSummary(context.Background(), models.IngestionSummary{From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Empty(t, sheets.written)
}

func TestExportSummary_WithoutSheets(t *testing.T) {
	svc := NewService(memory.NewRepository(), nil, time.UTC, nil)
	assert.NoError(t, svc.ExportSummary(context.Background(), models.IngestionSummary{}))
}

func TestExportSummary_ReadError(t *testing.T) {
	sheets := &fakeSheets{readErr: errors.New("quota")}
	svc := NewService(memory.NewRepository(), sheets, time.UTC, nil)

	err := svc.ExportSummary(context.Background(), models.IngestionSummary{From: time.Now()})
	require.Error(t, err)
	assert.Empty(t, sheets.written)
}

func TestExportSummary_FirstExportWritesHeader(t *testing.T) {
	sheets := &fakeSheets{}
	svc := NewService(memory.NewRepository(), sheets, time.UTC, nil)

	summary := models.IngestionSummary{
		From:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Counts: map[models.Entity]int64{models.EntityBatch: 2},
	}
	require.NoError(t, svc.ExportSummary(context.Background(), summary))

	require.Len(t, sheets.written, 2)
	header := sheets.written[0]
	require.Len(t, header, 12)
	assert.Equal(t, "fecha", header[0])
	assert.Equal(t, "usuario", header[1])
	assert.Equal(t, "mapa_termico", header[10])
	assert.Equal(t, "total", header[11])
	assert.Equal(t, "2024-05-01", sheets.written[1][0])
}
