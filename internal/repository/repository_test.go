package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/andy/scootrent/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) civil.DateTime {
	t.Helper()
	dt, err := civil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func TestScooterRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewScooterRepo()

	require.NoError(t, repo.Create(ctx, domain.NewScooter("1", decimal.RequireFromString("0.2"))))
	require.NoError(t, repo.Create(ctx, domain.NewScooter("2", decimal.RequireFromString("0.3"))))
	assert.Error(t, repo.Create(ctx, domain.NewScooter("1", decimal.RequireFromString("0.2"))))

	t.Run("GetByID returns a copy", func(t *testing.T) {
		s, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		s.IsRented = true

		again, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.False(t, again.IsRented)
	})

	t.Run("Missing scooter is nil", func(t *testing.T) {
		s, err := repo.GetByID(ctx, "42")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("Update and delete", func(t *testing.T) {
		s, _ := repo.GetByID(ctx, "2")
		s.IsRented = true
		require.NoError(t, repo.Update(ctx, s))

		got, _ := repo.GetByID(ctx, "2")
		assert.True(t, got.IsRented)

		require.NoError(t, repo.Delete(ctx, "1"))
		assert.ErrorIs(t, repo.Delete(ctx, "1"), ErrNotFound)
		assert.ErrorIs(t, repo.Update(ctx, domain.NewScooter("1", decimal.NewFromInt(1))), ErrNotFound)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "2", list[0].ID)
	})
}

func TestRecordRepo_SequenceStartsAtOne(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepo()

	first := domain.NewRentalRecord("1", at(t, "2023-01-01T10:00:00"))
	second := domain.NewRentalRecord("2", at(t, "2023-01-01T10:05:00"))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, uint32(1), first.RecordNumber)
	assert.Equal(t, uint32(2), second.RecordNumber)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint32(2), list[1].RecordNumber)
	assert.Equal(t, "2", list[1].ScooterID)
}

func TestRecordRepo_ConcurrentCreateAssignsUniqueNumbers(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepo()
	start := at(t, "2023-01-01T10:00:00")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, domain.NewRentalRecord("1", start)))
		}()
	}
	wg.Wait()

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 50)
	seen := make(map[uint32]bool)
	for _, r := range records {
		assert.False(t, seen[r.RecordNumber], "duplicate record number %d", r.RecordNumber)
		seen[r.RecordNumber] = true
	}
	assert.True(t, seen[1])
	assert.True(t, seen[50])
}

func TestRecordRepo_OpenRecordAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepo()

	rec := domain.NewRentalRecord("7", at(t, "2023-01-01T10:00:00"))
	require.NoError(t, repo.Create(ctx, rec))

	open, err := repo.GetOpenByScooter(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, open)

	require.NoError(t, open.Close(at(t, "2023-01-01T10:10:00"), decimal.NewFromInt(2)))
	require.NoError(t, repo.Update(ctx, open))

	open, err = repo.GetOpenByScooter(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, open)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsOpen())

	// Mutating the snapshot leaves the repository alone.
	list[0].ScooterID = "changed"
	again, _ := repo.List(ctx)
	assert.Equal(t, "7", again[0].ScooterID)
}

func TestRecordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.yaml")

	closed := domain.NewRentalRecord("1", at(t, "2023-11-10T23:58:00"))
	closed.RecordNumber = 1
	require.NoError(t, closed.Close(at(t, "2023-11-12T00:02:00"), decimal.RequireFromString("20.8")))
	open := domain.NewRentalRecord("2", at(t, "2024-01-01T08:00:00"))
	open.RecordNumber = 2

	require.NoError(t, SaveRecordsFile(path, []*domain.RentalRecord{closed, open}))

	loaded, err := LoadRecordsFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, closed.StartTime, loaded[0].StartTime)
	assert.Equal(t, *closed.EndTime, *loaded[0].EndTime)
	assert.True(t, decimal.RequireFromString("20.8").Equal(*loaded[0].TotalPrice))
	assert.True(t, loaded[1].IsOpen())
	assert.Nil(t, loaded[1].TotalPrice)
}

func TestLoadRecordsFile_HandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
records:
  - record_number: 1
    scooter_id: "1"
    start_time: 2023-11-10T23:58:00
    end_time: 2023-11-12T00:02:00
    total_price: 20.8
`), 0644))

	loaded, err := LoadRecordsFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 2023, loaded[0].EndTime.Date.Year)
	assert.True(t, decimal.RequireFromString("20.8").Equal(*loaded[0].TotalPrice))
}

func TestLoadRecordsFile_RejectsReversedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
records:
  - record_number: 1
    scooter_id: "1"
    start_time: 2023-11-12T00:00:00
    end_time: 2023-11-10T00:00:00
    total_price: "1"
`), 0644))

	_, err := LoadRecordsFile(path)
	assert.Error(t, err)
}
