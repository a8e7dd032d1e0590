package service

import (
	"context"
	"fmt"

	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// Maintenance wipes persisted state for automated test runs.
type Maintenance struct {
	resetter model.Resetter
	cache    model.UserCache
	logger   *logger.Logger
}

// NewMaintenance creates a Maintenance service. cache may be nil.
func NewMaintenance(resetter model.Resetter, cache model.UserCache, logger *logger.Logger) *Maintenance {
	return &Maintenance{resetter: resetter, cache: cache, logger: logger}
}

// Reset deletes every user and task and drops cached users.
func (m *Maintenance) Reset(ctx context.Context) error {
	if err := m.resetter.Reset(ctx); err != nil {
		m.logger.Error("Maintenance service: failed to reset storage", "error", err.Error())
		return fmt.Errorf("failed to reset storage: %w", err)
	}

	if m.cache != nil {
		if err := m.cache.Purge(ctx); err != nil {
			m.logger.Error("Maintenance service: failed to purge user cache", "error", err.Error())
			return fmt.Errorf("failed to purge user cache: %w", err)
		}
	}

	m.logger.Warn("Maintenance service: all users and tasks deleted")
	return nil
}
