package wechat

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/models"
)

// cachedToken is one access token with its expiry deadline.
type cachedToken struct {
	token     string
	expiresAt time.Time
}

// tokenCache holds access tokens per agent. Tokens are refreshed shortly
// before the vendor-reported expiry to absorb clock skew.
type tokenCache struct {
	mu     sync.Mutex
	tokens map[int64]cachedToken
}

// expiryMargin is subtracted from the vendor-reported token lifetime.
const expiryMargin = 5 * time.Minute

func newTokenCache() *tokenCache {
	return &tokenCache{
		tokens: make(map[int64]cachedToken),
	}
}

// accessToken returns a valid token for the agent, fetching a fresh one from
// the gettoken endpoint when the cached token is absent or about to expire.
func (c *Client) accessToken(ctx context.Context, agent *models.Agent) (string, error) {
	c.cache.mu.Lock()
	cached, ok := c.cache.tokens[agent.ID]
	c.cache.mu.Unlock()

	if ok && time.Now().Before(cached.expiresAt) {
		return cached.token, nil
	}

	query := url.Values{}
	query.Set("corpid", agent.CorpID)
	query.Set("corpsecret", agent.Secret)

	var resp tokenResponse
	if err := c.doGet(ctx, constants.PathGetToken, query, &resp); err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	if resp.ErrCode != 0 || resp.AccessToken == "" {
		return "", fmt.Errorf("failed to fetch access token: errcode=%d errmsg=%s", resp.ErrCode, resp.ErrMsg)
	}

	lifetime := time.Duration(resp.ExpiresIn) * time.Second
	if lifetime > expiryMargin {
		lifetime -= expiryMargin
	}

	c.cache.mu.Lock()
	c.cache.tokens[agent.ID] = cachedToken{
		token:     resp.AccessToken,
		expiresAt: time.Now().Add(lifetime),
	}
	c.cache.mu.Unlock()

	log.Debug().
		Int64("agent_id", agent.ID).
		Str("corp_id", agent.CorpID).
		Dur("lifetime", lifetime).
		Msg("Access token refreshed")

	return resp.AccessToken, nil
}

// invalidateToken drops the cached token for an agent, forcing a refresh on
// the next call. Used when the vendor reports an expired token.
func (c *Client) invalidateToken(agentID int64) {
	c.cache.mu.Lock()
	delete(c.cache.tokens, agentID)
	c.cache.mu.Unlock()
}
