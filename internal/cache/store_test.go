package cache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexscott64/regweather/internal/cache"
)

func TestPostgresStore_GetHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM regweather.cache_entries").
		WithArgs("openmeteo_3543204").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"temp":21}`)))

	store := cache.NewPostgresStoreFromDB(db)
	value, ok := store.Get(context.Background(), "openmeteo_3543204")

	assert.True(t, ok)
	assert.JSONEq(t, `{"temp":21}`, string(value))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM regweather.cache_entries").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	store := cache.NewPostgresStoreFromDB(db)
	_, ok := store.Get(context.Background(), "missing")

	assert.False(t, ok)
}

func TestPostgresStore_GetBackendErrorDegradesToMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM regweather.cache_entries").
		WithArgs("broken").
		WillReturnError(assert.AnError)

	store := cache.NewPostgresStoreFromDB(db)
	_, ok := store.Get(context.Background(), "broken")

	assert.False(t, ok, "backend errors must degrade to a miss, never propagate")
}

func TestPostgresStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO regweather.cache_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := cache.NewPostgresStoreFromDB(db)
	ok := store.Set(context.Background(), "k", json.RawMessage(`{}`), time.Hour)

	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetBackendErrorReturnsFalse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO regweather.cache_entries").
		WillReturnError(assert.AnError)

	store := cache.NewPostgresStoreFromDB(db)
	ok := store.Set(context.Background(), "k", json.RawMessage(`{}`), time.Hour)

	assert.False(t, ok)
}

func TestPostgresStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM regweather.cache_entries").
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := cache.NewPostgresStoreFromDB(db)
	assert.True(t, store.Delete(context.Background(), "k"))
}

func TestPostgresStore_BatchGetChunksAtOneHundred(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	keys := make([]string, 150)
	for i := range keys {
		keys[i] = "k"
	}

	mock.ExpectQuery("SELECT key, value FROM regweather.cache_entries").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("k", []byte(`1`)))
	mock.ExpectQuery("SELECT key, value FROM regweather.cache_entries").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("k", []byte(`1`)))

	store := cache.NewPostgresStoreFromDB(db)
	results := store.BatchGet(context.Background(), keys)

	assert.Len(t, results, 1, "150 identical keys collapse into one map entry across two chunked rounds")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_BatchSetChunksAtTwentyFive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	items := make(map[string]json.RawMessage, 30)
	for i := 0; i < 30; i++ {
		items[string(rune('a'+i))] = json.RawMessage(`{}`)
	}

	// 30 items chunk into two rounds (25 + 5); each round is one transaction.
	mock.ExpectBegin()
	for i := 0; i < 25; i++ {
		mock.ExpectExec("INSERT INTO regweather.cache_entries").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()
	mock.ExpectBegin()
	for i := 0; i < 5; i++ {
		mock.ExpectExec("INSERT INTO regweather.cache_entries").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	store := cache.NewPostgresStoreFromDB(db)
	results := store.BatchSet(context.Background(), items, time.Hour)

	assert.Len(t, results, 30)
	for _, ok := range results {
		assert.True(t, ok)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
