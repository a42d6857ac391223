package scriptcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcheck/scriptcheck/registry"
	"github.com/scriptcheck/scriptcheck/types"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.NewRegistry(registry.Config{Log: log.New()})
	require.NoError(t, err)
	return reg
}

func runOnceConfig(reg *registry.Registry) *Config {
	return &Config{
		Enumerator: reg,
		RunOnce:    true,
		Log:        log.New(),
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, "v0", func(error) {})
	require.Error(t, err)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(context.Background(), &Config{Log: log.New()}, "v0", func(error) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enumerator")
}

func TestServiceRunOncePassing(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister("ut_ok", func(...any) any { return types.Expect(1, 1) })

	shutdown := make(chan struct{})
	svc, err := New(context.Background(), runOnceConfig(reg), "test", func(error) {
		close(shutdown)
	})
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	<-shutdown

	result := svc.Result()
	require.NotNil(t, result)
	assert.Equal(t, types.OutcomePass, result.Status)
	assert.Equal(t, types.Stats{Total: 1, Passed: 1}, result.Stats)
}

func TestServiceRunOnceFailure(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister("ut_bad", func(...any) any { return types.Expect(1, 2) })

	svc, err := New(context.Background(), runOnceConfig(reg), "test", func(error) {})
	require.NoError(t, err)

	err = svc.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))
}

func TestServiceRunOnceContractViolation(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister("ut_broken", func(...any) any { return "not a check" })

	svc, err := New(context.Background(), runOnceConfig(reg), "test", func(error) {})
	require.NoError(t, err)

	err = svc.Start(context.Background())
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err), "a malformed check is a runtime error, not a test failure")
}

func TestServiceStop(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister("ut_ok", func(...any) any { return types.Expect(1, 1) })

	svc, err := New(context.Background(), runOnceConfig(reg), "test", func(error) {})
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop(context.Background()))
	assert.True(t, svc.Stopped())

	// Stopping twice is a no-op
	require.NoError(t, svc.Stop(context.Background()))
}

// In continuous mode the scheduler goroutine writes the latest result
// while callers read it; both sides must be safe under the race detector.
func TestResultConcurrentAccess(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister("ut_ok", func(...any) any { return types.Expect(1, 1) })

	cfg := &Config{
		Enumerator:  reg,
		RunInterval: 5 * time.Millisecond,
		Log:         log.New(),
	}
	svc, err := New(context.Background(), cfg, "test", func(error) {})
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if result := svc.Result(); result != nil {
				assert.Equal(t, types.OutcomePass, result.Status)
			}
			time.Sleep(time.Millisecond)
		}
	}()
	<-done

	require.NoError(t, svc.Stop(context.Background()))
	require.NoError(t, svc.WaitForShutdown(context.Background()))
}

func TestErrorTypes(t *testing.T) {
	runtimeErr := NewRuntimeError(errors.New("config missing"))
	assert.True(t, IsRuntimeError(runtimeErr))
	assert.False(t, IsTestFailureError(runtimeErr))
	assert.Contains(t, runtimeErr.Error(), "config missing")

	testErr := NewTestFailureError("2 of 5 tests failed")
	assert.True(t, IsTestFailureError(testErr))
	assert.False(t, IsRuntimeError(testErr))

	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsTestFailureError(errors.New("plain")))

	// Wrapped errors are still recognized
	wrapped := errors.Join(errors.New("outer"), runtimeErr)
	assert.True(t, IsRuntimeError(wrapped))
}
