package models

import (
	"time"

	"github.com/wecomkit/rulesync/internal/constants"
)

// Agent represents an API credential scope inside a corp. Remote calls are
// authenticated with the corp id and the agent secret.
type Agent struct {
	ID          int64     `json:"id" db:"id"`
	CorpID      string    `json:"corp_id" db:"corp_id"`
	AgentNumber int64     `json:"agent_number" db:"agent_number"`
	Name        string    `json:"name" db:"name"`
	Secret      string    `json:"-" db:"secret"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the Agent model.
func (a *Agent) TableName() string {
	return constants.TableAgents
}

// AgentCreate is the admin API payload for registering an agent.
type AgentCreate struct {
	CorpID      string `json:"corp_id" validate:"required,max=64"`
	AgentNumber int64  `json:"agent_number" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
	Secret      string `json:"secret" validate:"required"`
}
