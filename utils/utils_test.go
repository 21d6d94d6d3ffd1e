package utils

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Circuit Breaker Tests

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("test")

	assert.Equal(t, "test", cb.Name())
	assert.Equal(t, uint32(20), cb.maxRequests)
	assert.Equal(t, 30*time.Second, cb.timeout)
	assert.Equal(t, 0.6, cb.failureRatio)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_Options(t *testing.T) {
	cb := NewCircuitBreaker("test", WithTimeout(time.Second), WithMaxRequests(3), WithFailureRatio(0.5))

	assert.Equal(t, time.Second, cb.timeout)
	assert.Equal(t, uint32(3), cb.maxRequests)
	assert.Equal(t, 0.5, cb.failureRatio)
}

func TestCircuitBreaker_CallSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")

	err := cb.Call(func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
}

func TestCircuitBreaker_CallFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")
	expectedError := errors.New("publish failed")

	err := cb.Call(func() error { return expectedError })

	assert.ErrorIs(t, err, expectedError)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
	assert.Equal(t, uint32(1), cb.counts.ConsecutiveFailures)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ClosedToOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", WithMaxRequests(5))

	for i := 0; i < 2; i++ {
		require.NoError(t, cb.Call(func() error { return nil }))
	}
	for i := 0; i < 3; i++ {
		_ = cb.Call(func() error { return errors.New("failure") })
	}

	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called)
}

func TestCircuitBreaker_OpenToHalfOpenToClosed(t *testing.T) {
	cb := NewCircuitBreaker("test", WithMaxRequests(1), WithTimeout(10*time.Millisecond))

	_ = cb.Call(func() error { return errors.New("failure") })
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", WithMaxRequests(1), WithTimeout(10*time.Millisecond))

	_ = cb.Call(func() error { return errors.New("failure") })
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	_ = cb.Call(func() error { return errors.New("still failing") })
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker("test", WithMaxRequests(1000))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Call(func() error { return nil })
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(50), cb.counts.TotalSuccesses)
}

func TestCircuitBreaker_PanicCountsAsFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")

	assert.Panics(t, func() {
		_ = cb.Call(func() error { panic("boom") })
	})
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}

// Token Tests

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(16)
	require.NoError(t, err)
	b, err := GenerateToken(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Regexp(t, "^[0-9a-f]+$", a)
	assert.NotEqual(t, a, b)
}

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()

	assert.Contains(t, id, "session_")
	assert.NotEqual(t, id, GenerateSessionID())
}

// Redis Client Tests

func TestRedisHealthCheck_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")

	err := RedisHealthCheck(db)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisHealthCheck_Failure(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetErr(errors.New("connection failed"))

	err := RedisHealthCheck(db)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis health check failed")
	assert.Contains(t, err.Error(), "connection failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func BenchmarkCircuitBreaker_Call(b *testing.B) {
	cb := NewCircuitBreaker("benchmark")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Call(func() error { return nil })
	}
}
