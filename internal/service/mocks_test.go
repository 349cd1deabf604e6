package service

import (
	"context"

	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/utils"
	"github.com/wecomkit/rulesync/internal/wechat"
)

// Mock implementations for testing

type MockAgentRepository struct {
	agents map[int64]*models.Agent
}

func NewMockAgentRepository() *MockAgentRepository {
	return &MockAgentRepository{agents: make(map[int64]*models.Agent)}
}

func (m *MockAgentRepository) Add(agent *models.Agent) {
	m.agents[agent.ID] = agent
}

func (m *MockAgentRepository) GetByID(ctx context.Context, id int64) (*models.Agent, error) {
	agent, ok := m.agents[id]
	if !ok {
		return nil, utils.NewNotFoundError("Agent", id)
	}
	return agent, nil
}

func (m *MockAgentRepository) GetAll(ctx context.Context) ([]*models.Agent, error) {
	var agents []*models.Agent
	for _, agent := range m.agents {
		agents = append(agents, agent)
	}
	return agents, nil
}

func (m *MockAgentRepository) GetByCorp(ctx context.Context, corpID string) ([]*models.Agent, error) {
	var agents []*models.Agent
	for _, agent := range m.agents {
		if agent.CorpID == corpID {
			agents = append(agents, agent)
		}
	}
	return agents, nil
}

func (m *MockAgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	agent.ID = int64(len(m.agents) + 1)
	m.agents[agent.ID] = agent
	return nil
}

func (m *MockAgentRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.agents[id]; !ok {
		return utils.NewNotFoundError("Agent", id)
	}
	delete(m.agents, id)
	return nil
}

type MockCorpRepository struct {
	corps map[string]*models.Corp
}

func NewMockCorpRepository() *MockCorpRepository {
	return &MockCorpRepository{corps: make(map[string]*models.Corp)}
}

func (m *MockCorpRepository) Add(corp *models.Corp) {
	m.corps[corp.ID] = corp
}

func (m *MockCorpRepository) GetByID(ctx context.Context, id string) (*models.Corp, error) {
	corp, ok := m.corps[id]
	if !ok {
		return nil, utils.NewNotFoundError("Corp", id)
	}
	return corp, nil
}

func (m *MockCorpRepository) GetAll(ctx context.Context) ([]*models.Corp, error) {
	var corps []*models.Corp
	for _, corp := range m.corps {
		corps = append(corps, corp)
	}
	return corps, nil
}

func (m *MockCorpRepository) Create(ctx context.Context, corp *models.Corp) error {
	m.corps[corp.ID] = corp
	return nil
}

func (m *MockCorpRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.corps[id]; !ok {
		return utils.NewNotFoundError("Corp", id)
	}
	delete(m.corps, id)
	return nil
}

type MockInterceptRuleRepository struct {
	rules     map[int64]*models.InterceptRule
	nextID    int64
	createErr error
}

func NewMockInterceptRuleRepository() *MockInterceptRuleRepository {
	return &MockInterceptRuleRepository{
		rules:  make(map[int64]*models.InterceptRule),
		nextID: 1,
	}
}

func (m *MockInterceptRuleRepository) Add(rule *models.InterceptRule) {
	if rule.ID == 0 {
		rule.ID = m.nextID
		m.nextID++
	}
	m.rules[rule.ID] = rule
}

func (m *MockInterceptRuleRepository) GetByID(ctx context.Context, id int64) (*models.InterceptRule, error) {
	rule, ok := m.rules[id]
	if !ok {
		return nil, utils.NewNotFoundError("InterceptRule", id)
	}
	return rule, nil
}

func (m *MockInterceptRuleRepository) GetByCorpAndRuleID(ctx context.Context, corpID, ruleID string) (*models.InterceptRule, error) {
	for _, rule := range m.rules {
		if rule.CorpID == corpID && rule.RuleID != nil && *rule.RuleID == ruleID {
			return rule, nil
		}
	}
	return nil, utils.NewNotFoundError("InterceptRule", ruleID)
}

func (m *MockInterceptRuleRepository) List(ctx context.Context, page, pageSize int) ([]*models.InterceptRule, int, error) {
	var rules []*models.InterceptRule
	for _, rule := range m.rules {
		rules = append(rules, rule)
	}
	return rules, len(rules), nil
}

func (m *MockInterceptRuleRepository) ListByCorp(ctx context.Context, corpID string, page, pageSize int) ([]*models.InterceptRule, int, error) {
	var rules []*models.InterceptRule
	for _, rule := range m.rules {
		if rule.CorpID == corpID {
			rules = append(rules, rule)
		}
	}
	return rules, len(rules), nil
}

func (m *MockInterceptRuleRepository) Create(ctx context.Context, rule *models.InterceptRule) error {
	if m.createErr != nil {
		return m.createErr
	}
	rule.ID = m.nextID
	m.nextID++
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockInterceptRuleRepository) Update(ctx context.Context, rule *models.InterceptRule) error {
	if _, ok := m.rules[rule.ID]; !ok {
		return utils.NewNotFoundError("InterceptRule", rule.ID)
	}
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockInterceptRuleRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rules[id]; !ok {
		return utils.NewNotFoundError("InterceptRule", id)
	}
	delete(m.rules, id)
	return nil
}

// MockRuleAPI is a scriptable in-memory stand-in for the vendor API. Calls are
// recorded so tests can assert on the exact requests sent.
type MockRuleAPI struct {
	listResponses   map[int64]*wechat.RuleListResponse
	listErr         error
	detailResponses map[string]*wechat.RuleDetailResponse
	detailErr       error

	addErr       error
	nextRuleID   string
	addedRules   []*wechat.AddRuleRequest
	updateErr    error
	updatedRules []*wechat.UpdateRuleRequest
	deleteErr    error
	deletedRules []string
}

func NewMockRuleAPI() *MockRuleAPI {
	return &MockRuleAPI{
		listResponses:   make(map[int64]*wechat.RuleListResponse),
		detailResponses: make(map[string]*wechat.RuleDetailResponse),
		nextRuleID:      "remote-1",
	}
}

func (m *MockRuleAPI) ListRules(ctx context.Context, agent *models.Agent) (*wechat.RuleListResponse, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	resp, ok := m.listResponses[agent.ID]
	if !ok {
		return &wechat.RuleListResponse{RuleList: &[]wechat.RuleSummary{}}, nil
	}
	return resp, nil
}

func (m *MockRuleAPI) GetRuleDetail(ctx context.Context, agent *models.Agent, ruleID string) (*wechat.RuleDetailResponse, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	resp, ok := m.detailResponses[ruleID]
	if !ok {
		return &wechat.RuleDetailResponse{}, nil
	}
	return resp, nil
}

func (m *MockRuleAPI) AddRule(ctx context.Context, agent *models.Agent, req *wechat.AddRuleRequest) (string, error) {
	if m.addErr != nil {
		return "", m.addErr
	}
	m.addedRules = append(m.addedRules, req)
	return m.nextRuleID, nil
}

func (m *MockRuleAPI) UpdateRule(ctx context.Context, agent *models.Agent, req *wechat.UpdateRuleRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedRules = append(m.updatedRules, req)
	return nil
}

func (m *MockRuleAPI) DeleteRule(ctx context.Context, agent *models.Agent, ruleID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedRules = append(m.deletedRules, ruleID)
	return nil
}

// listOf builds a well-formed list response for the given summaries.
func listOf(summaries ...wechat.RuleSummary) *wechat.RuleListResponse {
	return &wechat.RuleListResponse{RuleList: &summaries}
}

// detailOf builds a well-formed detail response.
func detailOf(detail wechat.RuleDetail) *wechat.RuleDetailResponse {
	return &wechat.RuleDetailResponse{Rule: &detail}
}

// stringPtr and friends cut down on test boilerplate.
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

func interceptTypePtr(t models.InterceptType) *models.InterceptType { return &t }
