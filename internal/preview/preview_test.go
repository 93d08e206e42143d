package preview

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/errors"
)

func TestShouldIgnoreEvent(t *testing.T) {
	ignored := []string{
		"/help/.git",
		"/help/C/.index.page.swp",
		"/help/C/index.page~",
		"/help/C/#index.page#",
		"/help/Thumbs.db",
	}
	for _, path := range ignored {
		assert.True(t, shouldIgnoreEvent(path), path)
	}

	watched := []string{
		"/help/C/index.page",
		"/help/C/effects.md",
		"/help/help.yaml",
		"/help/C/figures/ripple-before.png",
	}
	for _, path := range watched {
		assert.False(t, shouldIgnoreEvent(path), path)
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	rebuildReq, trigger := setupDebouncer(make(chan struct{}))

	for range 5 {
		trigger()
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}

	// A burst produces exactly one request.
	select {
	case <-rebuildReq:
		t.Fatal("debouncer fired more than once for a single burst")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestDebouncerStopsAfterShutdown(t *testing.T) {
	done := make(chan struct{})
	rebuildReq, trigger := setupDebouncer(done)

	// A timer armed just before shutdown must fire into nothing.
	trigger()
	close(done)

	select {
	case <-rebuildReq:
		t.Fatal("debouncer requested a rebuild after shutdown")
	case <-time.After(2 * debounceDelay):
	}
}

func TestBuildStatusTransitions(t *testing.T) {
	var bs buildStatus

	lastErr, good := bs.get()
	assert.NoError(t, lastErr)
	assert.False(t, good)

	bs.setError(errors.New(errors.CategoryRender, errors.SeverityError, "boom"))
	lastErr, good = bs.get()
	assert.Error(t, lastErr)
	assert.False(t, good)

	bs.setSuccess()
	lastErr, good = bs.get()
	assert.NoError(t, lastErr)
	assert.True(t, good)
}

func TestHealthEndpoint(t *testing.T) {
	s := &Server{}

	check := func(wantStatus int) {
		t.Helper()
		rr := httptest.NewRecorder()
		s.handleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, wantStatus, rr.Code)
	}

	check(http.StatusServiceUnavailable)

	s.status.setError(errors.New(errors.CategoryRender, errors.SeverityError, "boom"))
	check(http.StatusInternalServerError)

	s.status.setSuccess()
	check(http.StatusOK)
}
