// Package wechat implements the WeChat Work external-contact intercept rule
// API client: listing, detail lookup, creation, update, and deletion of
// sensitive word rules, plus per-agent access token management.
//
// See https://developer.work.weixin.qq.com/document/path/96346
package wechat

// baseResponse carries the error envelope every vendor response includes.
type baseResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// RuleSummary is one entry of the rule-list response.
type RuleSummary struct {
	RuleID     string `json:"rule_id"`
	RuleName   string `json:"rule_name"`
	CreateTime int64  `json:"create_time"`
}

// RuleListResponse is the consumed shape of get_intercept_rule_list.
//
// RuleList is a pointer so a response that lacks the rule_list key entirely
// (for example a bare error envelope) is distinguishable from an empty list.
// Callers treat a nil RuleList as a malformed response.
type RuleListResponse struct {
	baseResponse
	RuleList *[]RuleSummary `json:"rule_list"`
}

// Malformed reports whether the response is missing the rule list.
func (r *RuleListResponse) Malformed() bool {
	return r == nil || r.RuleList == nil
}

// Rules returns the listed summaries, or nil for a malformed response.
func (r *RuleListResponse) Rules() []RuleSummary {
	if r.Malformed() {
		return nil
	}
	return *r.RuleList
}

// ApplicableRange is the user/department scope inside a rule detail.
// The element types are left loose: the vendor payload is untrusted and the
// caller coerces entries into typed lists without dropping any.
type ApplicableRange struct {
	UserList       []interface{} `json:"user_list"`
	DepartmentList []interface{} `json:"department_list"`
}

// RuleDetail is the rule object inside the get_intercept_rule response.
//
// InterceptType is decoded as a bare interface because the vendor has been
// observed to send it both as a string and as a number.
type RuleDetail struct {
	RuleID          string          `json:"rule_id"`
	RuleName        string          `json:"rule_name"`
	WordList        []interface{}   `json:"word_list"`
	InterceptType   interface{}     `json:"intercept_type"`
	ApplicableRange ApplicableRange `json:"applicable_range"`
}

// RuleDetailResponse is the consumed shape of get_intercept_rule. A nil Rule
// marks a malformed response: pull treats it as an empty detail, update aborts.
type RuleDetailResponse struct {
	baseResponse
	Rule *RuleDetail `json:"rule"`
}

// Malformed reports whether the response is missing the rule object.
func (r *RuleDetailResponse) Malformed() bool {
	return r == nil || r.Rule == nil
}

// addRuleResponse is the consumed shape of add_intercept_rule.
type addRuleResponse struct {
	baseResponse
	RuleID string `json:"rule_id"`
}

// tokenResponse is the consumed shape of gettoken.
type tokenResponse struct {
	baseResponse
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
