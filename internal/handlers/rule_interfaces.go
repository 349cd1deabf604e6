// Package handlers implements the admin REST API: rule CRUD, corp and agent
// registration, manual sync triggering, and health reporting.
package handlers

import (
	"context"

	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/service"
)

// RuleServiceInterface abstracts the rule lifecycle service for testing
type RuleServiceInterface interface {
	GetByID(ctx context.Context, id int64) (*models.InterceptRule, error)
	List(ctx context.Context, corpID string, page, pageSize int) ([]*models.InterceptRule, int, error)
	Create(ctx context.Context, payload *models.InterceptRuleCreate) (*models.InterceptRule, error)
	Update(ctx context.Context, id int64, payload *models.InterceptRuleUpdate) (*models.InterceptRule, error)
	Delete(ctx context.Context, id int64) error
}

// PullServiceInterface abstracts the pull service for testing
type PullServiceInterface interface {
	Run(ctx context.Context) (*service.PullStats, error)
}
