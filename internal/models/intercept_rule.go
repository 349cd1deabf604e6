// Package models provides data structures and operations for the rulesync application.
// This file contains the intercept rule entity, the local representation of one
// sensitive word interception rule mirrored to the WeChat Work API.
package models

import (
	"sort"
	"time"

	"github.com/wecomkit/rulesync/internal/constants"
)

// InterceptRule represents one sensitive word interception rule.
//
// RuleID is the identifier assigned by the remote system. It stays nil until
// the rule has either been pulled from the remote side or successfully created
// there. RuleID uniqueness is scoped per corp.
//
// Sync is tri-state: nil means never decided, true means the rule should exist
// remotely, false means it should be retracted from the remote side.
type InterceptRule struct {
	// ID is the local surrogate identifier, assigned by the store
	ID int64 `json:"id" db:"id"`

	// CorpID references the owning corp
	CorpID string `json:"corp_id" db:"corp_id"`

	// AgentID references the API credential scope used for remote calls
	AgentID int64 `json:"agent_id" db:"agent_id"`

	// RuleID is the remote rule identifier, nil until the remote side has accepted the rule
	RuleID *string `json:"rule_id" db:"rule_id"`

	// Name is the rule display name, at most 20 UTF-8 characters
	Name string `json:"name" db:"name"`

	// WordList holds the literal sensitive words, up to 300 entries
	WordList StringList `json:"word_list" db:"word_list"`

	// SemanticsList holds structural pattern codes (1 phone, 2 email, 3 red packet),
	// always stored in ascending order
	SemanticsList IntList `json:"semantics_list" db:"semantics_list"`

	// InterceptType is the enforcement mode, nil when unresolved
	InterceptType *InterceptType `json:"intercept_type" db:"intercept_type"`

	// ApplicableUserList holds the user ids the rule applies to; empty means all users
	ApplicableUserList StringList `json:"applicable_user_list" db:"applicable_user_list"`

	// ApplicableDepartmentList holds the department ids the rule applies to; empty means all departments
	ApplicableDepartmentList IntList `json:"applicable_department_list" db:"applicable_department_list"`

	// Sync is the tri-state marker of whether the rule should exist remotely
	Sync *bool `json:"sync" db:"sync"`

	// CreatedAt is when the rule was created (remote creation time for pulled rules)
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is when the rule was last modified locally
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the InterceptRule model.
func (r *InterceptRule) TableName() string {
	return constants.TableInterceptRules
}

// SetSemanticsList assigns the semantics codes, keeping the stored list in
// ascending order. An empty list stays empty.
func (r *InterceptRule) SetSemanticsList(codes []int) {
	if len(codes) > 0 {
		sorted := make([]int, len(codes))
		copy(sorted, codes)
		sort.Ints(sorted)
		r.SemanticsList = sorted
		return
	}
	r.SemanticsList = IntList{}
}

// IsSyncEnabled reports whether the rule is marked for remote synchronization.
// Both nil and false count as not enabled.
func (r *InterceptRule) IsSyncEnabled() bool {
	return r.Sync != nil && *r.Sync
}

// InterceptRuleCreate is the admin API payload for creating a rule.
type InterceptRuleCreate struct {
	AgentID                  int64    `json:"agent_id" validate:"required"`
	Name                     string   `json:"name" validate:"required,max=20"`
	WordList                 []string `json:"word_list" validate:"max=300,dive,min=1,max=32"`
	SemanticsList            []int    `json:"semantics_list" validate:"dive,min=1,max=3"`
	InterceptType            string   `json:"intercept_type" validate:"required,oneof=1 2"`
	ApplicableUserList       []string `json:"applicable_user_list" validate:"max=1000"`
	ApplicableDepartmentList []int    `json:"applicable_department_list" validate:"max=1000"`
	Sync                     *bool    `json:"sync"`
}

// InterceptRuleUpdate is the admin API payload for updating a rule.
// Nil fields are left unchanged.
type InterceptRuleUpdate struct {
	Name                     *string   `json:"name" validate:"omitempty,max=20"`
	WordList                 *[]string `json:"word_list" validate:"omitempty,max=300,dive,min=1,max=32"`
	SemanticsList            *[]int    `json:"semantics_list" validate:"omitempty,dive,min=1,max=3"`
	InterceptType            *string   `json:"intercept_type" validate:"omitempty,oneof=1 2"`
	ApplicableUserList       *[]string `json:"applicable_user_list" validate:"omitempty,max=1000"`
	ApplicableDepartmentList *[]int    `json:"applicable_department_list" validate:"omitempty,max=1000"`
	Sync                     *bool     `json:"sync"`
}

// InterceptRuleView is the admin API representation of a rule, extending the
// stored fields with display metadata for the intercept type.
type InterceptRuleView struct {
	*InterceptRule
	InterceptTypeLabel string `json:"intercept_type_label,omitempty"`
	InterceptTypeBadge string `json:"intercept_type_badge,omitempty"`
}

// NewInterceptRuleView builds the admin view of a rule.
func NewInterceptRuleView(rule *InterceptRule) *InterceptRuleView {
	view := &InterceptRuleView{InterceptRule: rule}
	if rule.InterceptType != nil {
		view.InterceptTypeLabel = rule.InterceptType.Label()
		view.InterceptTypeBadge = rule.InterceptType.Badge()
	}
	return view
}
