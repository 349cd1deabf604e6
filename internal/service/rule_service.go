package service

import (
	"context"

	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/repository"
)

// RuleService owns the lifecycle of interception rules. Every mutation flows
// through here so the push hooks always run around the store write; writing
// to the repository directly would silently desynchronize the remote side.
type RuleService struct {
	ruleRepo  repository.InterceptRuleRepository
	agentRepo repository.AgentRepository
	push      *PushService
}

// NewRuleService creates a new RuleService
func NewRuleService(ruleRepo repository.InterceptRuleRepository, agentRepo repository.AgentRepository, push *PushService) *RuleService {
	return &RuleService{
		ruleRepo:  ruleRepo,
		agentRepo: agentRepo,
		push:      push,
	}
}

// GetByID retrieves a rule by its local identifier
func (s *RuleService) GetByID(ctx context.Context, id int64) (*models.InterceptRule, error) {
	return s.ruleRepo.GetByID(ctx, id)
}

// List retrieves rules with pagination, optionally scoped to one corp
func (s *RuleService) List(ctx context.Context, corpID string, page, pageSize int) ([]*models.InterceptRule, int, error) {
	if corpID != "" {
		return s.ruleRepo.ListByCorp(ctx, corpID, page, pageSize)
	}
	return s.ruleRepo.List(ctx, page, pageSize)
}

// Create builds a rule from the admin payload, pushes it remotely when sync
// is enabled, and persists it. A failed remote create aborts the whole
// operation so no unbound-but-marked rule is left behind.
func (s *RuleService) Create(ctx context.Context, payload *models.InterceptRuleCreate) (*models.InterceptRule, error) {
	agent, err := s.agentRepo.GetByID(ctx, payload.AgentID)
	if err != nil {
		return nil, err
	}

	rule := &models.InterceptRule{
		CorpID:                   agent.CorpID,
		AgentID:                  agent.ID,
		Name:                     payload.Name,
		WordList:                 toStringList(payload.WordList),
		ApplicableUserList:       toStringList(payload.ApplicableUserList),
		ApplicableDepartmentList: toIntList(payload.ApplicableDepartmentList),
		Sync:                     payload.Sync,
	}
	rule.SetSemanticsList(payload.SemanticsList)

	if it, ok := models.ParseInterceptType(payload.InterceptType); ok {
		rule.InterceptType = &it
	}

	if err := s.push.BeforeCreate(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// Update applies the changed fields of the admin payload to a stored rule,
// reconciles the remote side, and persists the result.
func (s *RuleService) Update(ctx context.Context, id int64, payload *models.InterceptRuleUpdate) (*models.InterceptRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		rule.Name = *payload.Name
	}
	if payload.WordList != nil {
		rule.WordList = toStringList(*payload.WordList)
	}
	if payload.SemanticsList != nil {
		rule.SetSemanticsList(*payload.SemanticsList)
	}
	if payload.InterceptType != nil {
		if it, ok := models.ParseInterceptType(*payload.InterceptType); ok {
			rule.InterceptType = &it
		}
	}
	if payload.ApplicableUserList != nil {
		rule.ApplicableUserList = toStringList(*payload.ApplicableUserList)
	}
	if payload.ApplicableDepartmentList != nil {
		rule.ApplicableDepartmentList = toIntList(*payload.ApplicableDepartmentList)
	}
	if payload.Sync != nil {
		rule.Sync = payload.Sync
	}

	if err := s.push.BeforeUpdate(ctx, rule); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// Delete removes a rule locally, then retracts its remote copy. The remote
// retraction is best effort; the local delete is what the caller asked for.
func (s *RuleService) Delete(ctx context.Context, id int64) error {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.push.AfterDelete(ctx, rule)
}

// toStringList converts a payload slice, normalizing nil to an empty list so
// it round-trips through JSON columns as [].
func toStringList(list []string) models.StringList {
	if list == nil {
		return models.StringList{}
	}
	return models.StringList(list)
}

// toIntList converts a payload slice, normalizing nil to an empty list.
func toIntList(list []int) models.IntList {
	if list == nil {
		return models.IntList{}
	}
	return models.IntList(list)
}
