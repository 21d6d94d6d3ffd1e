package batch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_LoadMissingReturnsEmpty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewSessionStore(db, time.Hour)

	mock.ExpectGet("batch:session_1").RedisNil()

	b, err := s.Load(context.Background(), "session_1")
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewSessionStore(db, time.Hour)

	b := New()
	_, err := b.AddManual("v1", "Fresh Greens", amount("12.50"), "Alice")
	require.NoError(t, err)
	data, err := json.Marshal(b)
	require.NoError(t, err)

	mock.ExpectSet("batch:session_1", data, time.Hour).SetVal("OK")
	mock.ExpectGet("batch:session_1").SetVal(string(data))

	require.NoError(t, s.Save(context.Background(), "session_1", b))

	loaded, err := s.Load(context.Background(), "session_1")
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	assert.Equal(t, b.Items[0].ID, loaded.Items[0].ID)
	assert.Equal(t, "12.50", loaded.Total().StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_SaveEmptyDeletesKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewSessionStore(db, time.Hour)

	mock.ExpectDel("batch:session_1").SetVal(1)

	require.NoError(t, s.Save(context.Background(), "session_1", New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_LoadError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewSessionStore(db, time.Hour)

	mock.ExpectGet("batch:session_1").SetErr(errors.New("connection refused"))

	_, err := s.Load(context.Background(), "session_1")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSessionStore_LoadCorrupt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewSessionStore(db, time.Hour)

	mock.ExpectGet("batch:session_1").SetVal("{not json")

	_, err := s.Load(context.Background(), "session_1")
	assert.ErrorContains(t, err, "decode batch")
}
