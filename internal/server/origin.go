// Package server normalizes and validates HTTP origins for WebSocket requests
// against the configured allow-list.
package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// OriginChecker enforces the origin allow-list on upgrade requests. A "*"
// entry in the configuration allows any origin.
type OriginChecker struct {
	log      *slog.Logger
	allowAll bool
	allowed  map[string]struct{}
}

func NewOriginChecker(origins []string, log *slog.Logger) *OriginChecker {
	checker := &OriginChecker{
		log:     log,
		allowed: make(map[string]struct{}, len(origins)),
	}
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			checker.allowAll = true
			continue
		}
		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			log.Warn("ignoring invalid origin in configuration", "origin", origin)
			continue
		}
		checker.allowed[normalized] = struct{}{}
	}
	return checker
}

// Check reports whether the request's Origin header is allowed. It has the
// signature gorilla's Upgrader.CheckOrigin expects.
func (o *OriginChecker) Check(r *http.Request) bool {
	if o.allowAll {
		return true
	}

	header := r.Header.Get("Origin")
	normalized, ok := normalizeOrigin(header)
	if !ok {
		o.log.Warn("blocked WebSocket connection with unparseable origin", "origin", header)
		return false
	}
	if _, exists := o.allowed[normalized]; exists {
		return true
	}

	o.log.Warn("blocked WebSocket connection from disallowed origin", "origin", header)
	return false
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
