package server

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requestWithOrigin(t *testing.T, origin string) *http.Request {
	t.Helper()
	r, err := http.NewRequest(http.MethodGet, "/ws", nil)
	require.NoError(t, err)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestOriginCheckerWildcardAllowsAnything(t *testing.T) {
	checker := NewOriginChecker([]string{"*"}, discardLogger())

	require.True(t, checker.Check(requestWithOrigin(t, "http://evil.example.com")))
	require.True(t, checker.Check(requestWithOrigin(t, "")))
}

func TestOriginCheckerAllowsConfiguredOrigins(t *testing.T) {
	checker := NewOriginChecker([]string{"http://localhost:3000", "https://chat.example.com"}, discardLogger())

	require.True(t, checker.Check(requestWithOrigin(t, "http://localhost:3000")))
	require.True(t, checker.Check(requestWithOrigin(t, "HTTP://LOCALHOST:3000")))
	require.True(t, checker.Check(requestWithOrigin(t, "https://chat.example.com")))
}

func TestOriginCheckerBlocksUnknownOrigins(t *testing.T) {
	checker := NewOriginChecker([]string{"http://localhost:3000"}, discardLogger())

	require.False(t, checker.Check(requestWithOrigin(t, "http://localhost:4000")))
	require.False(t, checker.Check(requestWithOrigin(t, "https://localhost:3000")))
	require.False(t, checker.Check(requestWithOrigin(t, "http://evil.example.com")))
}

func TestOriginCheckerBlocksMissingOrMalformedOrigin(t *testing.T) {
	checker := NewOriginChecker([]string{"http://localhost:3000"}, discardLogger())

	require.False(t, checker.Check(requestWithOrigin(t, "")))
	require.False(t, checker.Check(requestWithOrigin(t, "not a url")))
	require.False(t, checker.Check(requestWithOrigin(t, "localhost:3000")))
}

func TestOriginCheckerSkipsInvalidConfigEntries(t *testing.T) {
	checker := NewOriginChecker([]string{"", "not a url", "http://localhost:3000"}, discardLogger())

	require.True(t, checker.Check(requestWithOrigin(t, "http://localhost:3000")))
	require.False(t, checker.Check(requestWithOrigin(t, "not a url")))
}
