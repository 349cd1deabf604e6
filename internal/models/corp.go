package models

import (
	"time"

	"github.com/wecomkit/rulesync/internal/constants"
)

// Corp represents a WeChat Work corp account, the top-level tenant every rule
// and agent belongs to.
type Corp struct {
	ID        string    `json:"id" db:"corp_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the Corp model.
func (c *Corp) TableName() string {
	return constants.TableCorps
}

// CorpCreate is the admin API payload for registering a corp.
type CorpCreate struct {
	ID   string `json:"id" validate:"required,max=64"`
	Name string `json:"name" validate:"required,max=100"`
}
