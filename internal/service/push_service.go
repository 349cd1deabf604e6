// Package service implements the synchronization and orchestration layer
// between the local rule store and the WeChat Work intercept rule API.
package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/repository"
	"github.com/wecomkit/rulesync/internal/wechat"
)

// PushService mirrors local rule mutations to the remote side. Its hooks are
// invoked by RuleService around store writes:
//
//	BeforeCreate  before inserting a new rule
//	BeforeUpdate  before persisting changes to an existing rule
//	AfterDelete   after the local row is gone
//
// A rule participates only while its sync flag is true. Turning the flag off
// retracts the remote copy on the next update.
type PushService struct {
	api       wechat.RuleAPI
	agentRepo repository.AgentRepository
}

// NewPushService creates a new PushService
func NewPushService(api wechat.RuleAPI, agentRepo repository.AgentRepository) *PushService {
	return &PushService{
		api:       api,
		agentRepo: agentRepo,
	}
}

// BeforeCreate pushes a brand new rule to the remote side and binds the
// returned remote identifier to the local rule.
//
// Rules without sync enabled are left alone. A rule whose intercept type is
// still unresolved cannot be expressed remotely, so it is skipped as well and
// stays unbound until a later update completes it.
func (s *PushService) BeforeCreate(ctx context.Context, rule *models.InterceptRule) error {
	if !rule.IsSyncEnabled() {
		return nil
	}
	if rule.InterceptType == nil {
		log.Debug().
			Str("corp_id", rule.CorpID).
			Str("rule_name", rule.Name).
			Msg("Rule has no intercept type yet, skipping remote create")
		return nil
	}

	agent, err := s.agentRepo.GetByID(ctx, rule.AgentID)
	if err != nil {
		return err
	}

	req := &wechat.AddRuleRequest{
		ApplicableUserList:       rule.ApplicableUserList,
		ApplicableDepartmentList: rule.ApplicableDepartmentList,
	}
	req.SetRuleName(rule.Name)
	req.SetWordList(rule.WordList)
	req.SetSemanticsList(rule.SemanticsList)
	req.SetInterceptType(rule.InterceptType.Code())

	ruleID, err := s.api.AddRule(ctx, agent, req)
	if err != nil {
		return err
	}

	rule.RuleID = &ruleID

	log.Info().
		Str("corp_id", rule.CorpID).
		Str("rule_id", ruleID).
		Str("rule_name", rule.Name).
		Msg("Rule created remotely")

	return nil
}

// BeforeUpdate reconciles a modified rule with its remote copy.
//
// Three paths, depending on the rule's state:
//   - sync disabled: the remote copy (if any) is retracted
//   - sync enabled but never pushed: falls back to a remote create
//   - sync enabled and bound: a remote update carrying the full base field
//     set plus applicability deltas computed against the live remote detail
func (s *PushService) BeforeUpdate(ctx context.Context, rule *models.InterceptRule) error {
	if !rule.IsSyncEnabled() {
		return s.AfterDelete(ctx, rule)
	}
	if rule.RuleID == nil {
		return s.BeforeCreate(ctx, rule)
	}

	agent, err := s.agentRepo.GetByID(ctx, rule.AgentID)
	if err != nil {
		return err
	}

	req := &wechat.UpdateRuleRequest{RuleID: *rule.RuleID}
	req.SetRuleName(rule.Name)
	req.SetWordList(rule.WordList)
	req.SetSemanticsList(rule.SemanticsList)
	if rule.InterceptType != nil {
		req.SetInterceptType(rule.InterceptType.Code())
	}

	// The remote update API takes applicability as add/remove deltas, so the
	// current remote scope has to be read back first. A failed or malformed
	// detail leaves the remote state unknown; pushing blind against it could
	// detach users that were added out of band, so the push is skipped.
	detail, err := s.api.GetRuleDetail(ctx, agent, *rule.RuleID)
	if err != nil || detail.Malformed() {
		log.Warn().
			Err(err).
			Str("corp_id", rule.CorpID).
			Str("rule_id", *rule.RuleID).
			Msg("Could not read remote rule detail, skipping remote update")
		return nil
	}

	remoteUsers := wechat.ToStringList(detail.Rule.ApplicableRange.UserList)
	remoteDepartments := wechat.ToIntList(detail.Rule.ApplicableRange.DepartmentList)

	req.AddApplicableUserList, req.RemoveApplicableUserList =
		diffStrings(rule.ApplicableUserList, remoteUsers)
	req.AddApplicableDepartmentList, req.RemoveApplicableDepartmentList =
		diffInts(rule.ApplicableDepartmentList, remoteDepartments)

	if err := s.api.UpdateRule(ctx, agent, req); err != nil {
		return err
	}

	log.Info().
		Str("corp_id", rule.CorpID).
		Str("rule_id", *rule.RuleID).
		Str("rule_name", rule.Name).
		Msg("Rule updated remotely")

	return nil
}

// AfterDelete retracts the remote copy of a rule. Rules that were never bound
// to a remote identifier have nothing to retract.
//
// Failures are logged and swallowed: the local delete has already happened (or
// the caller is merely retracting), and a dangling remote rule is recoverable
// by hand while a failed local operation is not.
func (s *PushService) AfterDelete(ctx context.Context, rule *models.InterceptRule) error {
	if rule.RuleID == nil {
		log.Debug().
			Str("corp_id", rule.CorpID).
			Str("rule_name", rule.Name).
			Msg("Rule has no remote binding, nothing to retract")
		return nil
	}

	agent, err := s.agentRepo.GetByID(ctx, rule.AgentID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("corp_id", rule.CorpID).
			Str("rule_id", *rule.RuleID).
			Msg("Could not resolve agent for remote delete")
		return nil
	}

	if err := s.api.DeleteRule(ctx, agent, *rule.RuleID); err != nil {
		log.Warn().
			Err(err).
			Str("corp_id", rule.CorpID).
			Str("rule_id", *rule.RuleID).
			Msg("Remote delete failed")
		return nil
	}

	log.Info().
		Str("corp_id", rule.CorpID).
		Str("rule_id", *rule.RuleID).
		Msg("Rule deleted remotely")

	return nil
}

// diffStrings splits local against remote into additions and removals.
func diffStrings(local, remote []string) (toAdd, toRemove []string) {
	remoteSet := make(map[string]struct{}, len(remote))
	for _, v := range remote {
		remoteSet[v] = struct{}{}
	}
	localSet := make(map[string]struct{}, len(local))
	for _, v := range local {
		localSet[v] = struct{}{}
		if _, ok := remoteSet[v]; !ok {
			toAdd = append(toAdd, v)
		}
	}
	for _, v := range remote {
		if _, ok := localSet[v]; !ok {
			toRemove = append(toRemove, v)
		}
	}
	return toAdd, toRemove
}

// diffInts splits local against remote into additions and removals.
func diffInts(local, remote []int) (toAdd, toRemove []int) {
	remoteSet := make(map[int]struct{}, len(remote))
	for _, v := range remote {
		remoteSet[v] = struct{}{}
	}
	localSet := make(map[int]struct{}, len(local))
	for _, v := range local {
		localSet[v] = struct{}{}
		if _, ok := remoteSet[v]; !ok {
			toAdd = append(toAdd, v)
		}
	}
	for _, v := range remote {
		if _, ok := localSet[v]; !ok {
			toRemove = append(toRemove, v)
		}
	}
	return toAdd, toRemove
}
