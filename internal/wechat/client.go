package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/wecomkit/rulesync/internal/config"
	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/utils"
)

// Vendor error codes for stale access tokens.
const (
	errCodeInvalidToken = 40014
	errCodeExpiredToken = 42001
)

// RuleAPI is the remote rule surface the reconcilers depend on. The concrete
// implementation is Client; tests substitute stubs.
type RuleAPI interface {
	// ListRules fetches the rule summaries of an agent's corp.
	// A response missing the rule_list key is returned as-is; callers check
	// Malformed rather than receiving an error for that case.
	ListRules(ctx context.Context, agent *models.Agent) (*RuleListResponse, error)

	// GetRuleDetail fetches the full definition of one rule.
	GetRuleDetail(ctx context.Context, agent *models.Agent, ruleID string) (*RuleDetailResponse, error)

	// AddRule creates a rule remotely and returns the assigned rule id.
	AddRule(ctx context.Context, agent *models.Agent, req *AddRuleRequest) (string, error)

	// UpdateRule applies a partial update to an existing remote rule.
	UpdateRule(ctx context.Context, agent *models.Agent, req *UpdateRuleRequest) error

	// DeleteRule removes a rule remotely.
	DeleteRule(ctx context.Context, agent *models.Agent, ruleID string) error
}

// Client talks to the WeChat Work API over JSON/HTTP. It manages one access
// token per agent and throttles all traffic through a shared rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *tokenCache
}

var _ RuleAPI = (*Client)(nil)

// NewClient creates a Client from the application configuration.
func NewClient(cfg *config.WeChatSettings) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateQPS), cfg.RateBurst),
		cache:   newTokenCache(),
	}
}

// NewClientWithHTTP creates a Client with a caller-provided HTTP client.
// Used by tests to point the client at a local server.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(constants.DefaultWeChatQPS), constants.DefaultWeChatBurst),
		cache:      newTokenCache(),
	}
}

// ListRules implements RuleAPI. The list endpoint takes no parameters and is
// called with GET.
func (c *Client) ListRules(ctx context.Context, agent *models.Agent) (*RuleListResponse, error) {
	var resp RuleListResponse
	if err := c.call(ctx, agent, http.MethodGet, constants.PathGetInterceptRuleList, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRuleDetail implements RuleAPI.
func (c *Client) GetRuleDetail(ctx context.Context, agent *models.Agent, ruleID string) (*RuleDetailResponse, error) {
	body := map[string]interface{}{"rule_id": ruleID}

	var resp RuleDetailResponse
	if err := c.call(ctx, agent, http.MethodPost, constants.PathGetInterceptRule, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddRule implements RuleAPI. Building the body validates the applicability
// constraint, so an invalid rule fails before any network traffic.
func (c *Client) AddRule(ctx context.Context, agent *models.Agent, req *AddRuleRequest) (string, error) {
	body, err := req.Body()
	if err != nil {
		return "", err
	}

	var resp addRuleResponse
	if err := c.call(ctx, agent, http.MethodPost, constants.PathAddInterceptRule, body, &resp); err != nil {
		return "", err
	}
	if resp.ErrCode != 0 {
		return "", utils.NewRemoteAPIError("add_intercept_rule", resp.ErrCode, resp.ErrMsg)
	}
	return resp.RuleID, nil
}

// UpdateRule implements RuleAPI.
func (c *Client) UpdateRule(ctx context.Context, agent *models.Agent, req *UpdateRuleRequest) error {
	var resp baseResponse
	if err := c.call(ctx, agent, http.MethodPost, constants.PathUpdateInterceptRule, req.Body(), &resp); err != nil {
		return err
	}
	if resp.ErrCode != 0 {
		return utils.NewRemoteAPIError("update_intercept_rule", resp.ErrCode, resp.ErrMsg)
	}
	return nil
}

// DeleteRule implements RuleAPI.
func (c *Client) DeleteRule(ctx context.Context, agent *models.Agent, ruleID string) error {
	body := map[string]interface{}{"rule_id": ruleID}

	var resp baseResponse
	if err := c.call(ctx, agent, http.MethodPost, constants.PathDelInterceptRule, body, &resp); err != nil {
		return err
	}
	if resp.ErrCode != 0 {
		return utils.NewRemoteAPIError("del_intercept_rule", resp.ErrCode, resp.ErrMsg)
	}
	return nil
}

// call performs one authenticated API request, refreshing the agent token
// once if the vendor reports it stale.
func (c *Client) call(ctx context.Context, agent *models.Agent, method, path string, body interface{}, out interface{}) error {
	if err := c.doAuthenticated(ctx, agent, method, path, body, out); err != nil {
		return err
	}

	// A stale token surfaces in the error envelope, not as an HTTP error.
	if code := envelopeErrCode(out); code == errCodeInvalidToken || code == errCodeExpiredToken {
		log.Debug().
			Int64("agent_id", agent.ID).
			Int("errcode", code).
			Msg("Access token stale, refreshing")
		c.invalidateToken(agent.ID)
		return c.doAuthenticated(ctx, agent, method, path, body, out)
	}

	return nil
}

// doAuthenticated resolves the agent token and performs the request.
func (c *Client) doAuthenticated(ctx context.Context, agent *models.Agent, method, path string, body interface{}, out interface{}) error {
	token, err := c.accessToken(ctx, agent)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("access_token", token)

	if method == http.MethodGet {
		return c.doGet(ctx, path, query, out)
	}
	return c.doPost(ctx, path, query, body, out)
}

// doGet performs a GET request and decodes the JSON response.
func (c *Client) doGet(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.send(req, out)
}

// doPost performs a POST request with a JSON body and decodes the response.
func (c *Client) doPost(ctx context.Context, path string, query url.Values, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?"+query.Encode(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, out)
}

// send waits for rate-limiter clearance, executes the request, and decodes
// the JSON response into out.
func (c *Client) send(req *http.Request, out interface{}) error {
	start := time.Now()

	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close response body")
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("WeChat API call")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}

	return nil
}

// envelopeErrCode extracts the errcode of a decoded response, if it carries one.
func envelopeErrCode(out interface{}) int {
	switch v := out.(type) {
	case *baseResponse:
		return v.ErrCode
	case *RuleListResponse:
		return v.ErrCode
	case *RuleDetailResponse:
		return v.ErrCode
	case *addRuleResponse:
		return v.ErrCode
	default:
		return 0
	}
}
