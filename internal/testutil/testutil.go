// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"log/slog"
	"testing"

	"github.com/singingsandhill/calendar/internal/logger"
	"github.com/singingsandhill/calendar/internal/session"
	"github.com/singingsandhill/calendar/pkg/scheduleapi"
)

// NopLogger returns a logger that discards all output
func NopLogger() logger.Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
func (nopLogger) SetLevel(level slog.Level)     {}
func (nopLogger) GetLevel() slog.Level          { return slog.LevelInfo }
func (nopLogger) EnableRequestLogging()         {}
func (nopLogger) DisableRequestLogging()        {}
func (nopLogger) IsRequestLoggingEnabled() bool { return false }

// NewTestSession loads a session backed by a fresh mock client seeded with
// the default sample schedule
func NewTestSession(t *testing.T, opts ...scheduleapi.MockOption) (*session.Session, *scheduleapi.MockClient) {
	t.Helper()

	mock := scheduleapi.NewMockClient(opts...)
	sess, err := session.Load(context.Background(), NopLogger(), mock, "crew", 2024, 2)
	if err != nil {
		t.Fatalf("failed to load test session: %v", err)
	}
	return sess, mock
}
