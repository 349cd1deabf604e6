package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/repository"
	"github.com/wecomkit/rulesync/internal/utils"
	"github.com/wecomkit/rulesync/internal/wechat"
)

// PullService imports rules that exist remotely but not locally. Each run
// walks every registered agent, lists its remote rules, and inserts any rule
// whose remote identifier is not yet bound to a local row for that corp.
//
// Imports write through the repository directly. The push hooks must not see
// these inserts: the rule already exists remotely, and pushing it back would
// create a duplicate.
type PullService struct {
	agentRepo repository.AgentRepository
	corpRepo  repository.CorpRepository
	ruleRepo  repository.InterceptRuleRepository
	api       wechat.RuleAPI
	loc       *time.Location
	interval  time.Duration
}

// NewPullService creates a new PullService. Remote creation timestamps are
// converted into loc; pass time.UTC unless local business time is required.
func NewPullService(
	agentRepo repository.AgentRepository,
	corpRepo repository.CorpRepository,
	ruleRepo repository.InterceptRuleRepository,
	api wechat.RuleAPI,
	loc *time.Location,
	interval time.Duration,
) *PullService {
	if loc == nil {
		loc = time.UTC
	}
	return &PullService{
		agentRepo: agentRepo,
		corpRepo:  corpRepo,
		ruleRepo:  ruleRepo,
		api:       api,
		loc:       loc,
		interval:  interval,
	}
}

// PullStats summarizes the outcome of one pull run.
type PullStats struct {
	Agents   int `json:"agents"`
	Listed   int `json:"listed"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failures int `json:"failures"`
}

// Run executes one full pull pass over all registered agents.
//
// Per-agent failures are counted and logged but do not stop the run; an error
// is returned only when the agent roster itself cannot be read.
func (s *PullService) Run(ctx context.Context) (*PullStats, error) {
	runLogger := utils.SyncLogger(uuid.NewString())
	startTime := time.Now()

	agents, err := s.agentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load agents: %w", err)
	}

	stats := &PullStats{Agents: len(agents)}
	for _, agent := range agents {
		s.pullAgent(ctx, runLogger, agent, stats)
	}

	runLogger.Info().
		Int("agents", stats.Agents).
		Int("listed", stats.Listed).
		Int("imported", stats.Imported).
		Int("skipped", stats.Skipped).
		Int("failures", stats.Failures).
		Dur("duration", time.Since(startTime)).
		Msg("Pull run finished")

	return stats, nil
}

// pullAgent imports the missing rules of a single agent.
func (s *PullService) pullAgent(ctx context.Context, logger zerolog.Logger, agent *models.Agent, stats *PullStats) {
	resp, err := s.api.ListRules(ctx, agent)
	if err != nil {
		stats.Failures++
		logger.Warn().
			Err(err).
			Str("corp_id", agent.CorpID).
			Int64("agent_id", agent.ID).
			Msg("Failed to list remote rules")
		return
	}
	if resp.Malformed() {
		stats.Failures++
		logger.Warn().
			Str("corp", s.corpName(ctx, agent.CorpID)).
			Str("corp_id", agent.CorpID).
			Int64("agent_id", agent.ID).
			Msg("Remote rule list response is missing the rule list, skipping agent")
		return
	}

	for _, summary := range resp.Rules() {
		stats.Listed++

		// Already imported or locally created and bound
		if _, err := s.ruleRepo.GetByCorpAndRuleID(ctx, agent.CorpID, summary.RuleID); err == nil {
			stats.Skipped++
			continue
		} else if !utils.IsNotFoundError(err) {
			stats.Failures++
			logger.Error().
				Err(err).
				Str("corp_id", agent.CorpID).
				Str("rule_id", summary.RuleID).
				Msg("Failed to look up local rule binding")
			continue
		}

		rule := s.buildRule(ctx, agent, summary)
		if err := s.ruleRepo.Create(ctx, rule); err != nil {
			stats.Failures++
			logger.Error().
				Err(err).
				Str("corp_id", agent.CorpID).
				Str("rule_id", summary.RuleID).
				Msg("Failed to import remote rule")
			continue
		}

		stats.Imported++
		logger.Info().
			Str("corp_id", agent.CorpID).
			Str("rule_id", summary.RuleID).
			Str("rule_name", rule.Name).
			Msg("Imported remote rule")
	}
}

// buildRule assembles a local rule from a remote summary plus, when available,
// its detail. A failed or malformed detail degrades to an import carrying only
// the summary fields; the untrusted detail payload is coerced entry for entry
// so list lengths survive even when element types do not.
func (s *PullService) buildRule(ctx context.Context, agent *models.Agent, summary wechat.RuleSummary) *models.InterceptRule {
	ruleID := summary.RuleID
	syncOn := true

	rule := &models.InterceptRule{
		CorpID:                   agent.CorpID,
		AgentID:                  agent.ID,
		RuleID:                   &ruleID,
		Name:                     summary.RuleName,
		WordList:                 models.StringList{},
		SemanticsList:            models.IntList{},
		ApplicableUserList:       models.StringList{},
		ApplicableDepartmentList: models.IntList{},
		Sync:                     &syncOn,
		CreatedAt:                time.Unix(summary.CreateTime, 0).In(s.loc),
	}

	detail, err := s.api.GetRuleDetail(ctx, agent, summary.RuleID)
	if err != nil || detail.Malformed() {
		log.Debug().
			Err(err).
			Str("corp_id", agent.CorpID).
			Str("rule_id", summary.RuleID).
			Msg("Remote rule detail unavailable, importing summary fields only")
		return rule
	}

	rule.WordList = wechat.ToStringList(detail.Rule.WordList)
	rule.ApplicableUserList = wechat.ToStringList(detail.Rule.ApplicableRange.UserList)
	rule.ApplicableDepartmentList = wechat.ToIntList(detail.Rule.ApplicableRange.DepartmentList)

	if it, ok := models.ParseInterceptType(wechat.InterceptTypeCode(detail.Rule.InterceptType)); ok {
		rule.InterceptType = &it
	}

	return rule
}

// corpName resolves a corp's display name for log output, falling back to the
// corp ID when the corp is not registered locally.
func (s *PullService) corpName(ctx context.Context, corpID string) string {
	corp, err := s.corpRepo.GetByID(ctx, corpID)
	if err != nil {
		return corpID
	}
	return corp.Name
}

// Start runs pull passes on the configured interval until ctx is cancelled.
// The first pass runs immediately.
func (s *PullService) Start(ctx context.Context) {
	log.Info().
		Dur("interval", s.interval).
		Str("timezone", s.loc.String()).
		Msg("Starting pull scheduler")

	if _, err := s.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Pull run failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Pull scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Pull run failed")
			}
		}
	}
}
