package wechat

import (
	"github.com/wecomkit/rulesync/internal/utils"
)

// RuleFields carries the field set shared by the add and update request
// builders: rule name, word list, semantics list, and the intercept type as
// its numeric code.
//
// Fields are pointers (or nil slices) so an update request can distinguish
// "explicitly set" from "untouched": only set fields are serialized. The add
// request always serializes all four, substituting zero values for unset ones.
type RuleFields struct {
	RuleName      *string
	WordList      []string
	SemanticsList []int
	InterceptType *int
}

// SetRuleName marks the rule name as set.
func (f *RuleFields) SetRuleName(name string) {
	f.RuleName = &name
}

// SetWordList marks the word list as set. An empty list is still "set".
func (f *RuleFields) SetWordList(words []string) {
	if words == nil {
		words = []string{}
	}
	f.WordList = words
}

// SetSemanticsList marks the semantics list as set. An empty list is still "set".
func (f *RuleFields) SetSemanticsList(codes []int) {
	if codes == nil {
		codes = []int{}
	}
	f.SemanticsList = codes
}

// SetInterceptType marks the intercept type code as set.
func (f *RuleFields) SetInterceptType(code int) {
	f.InterceptType = &code
}

// rangeObject builds an applicable_range sub-object, following the shared
// convention that the object carries a key only for a non-empty list and is
// itself omitted (nil) when both lists are empty.
func rangeObject(users []string, departments []int) map[string]interface{} {
	obj := map[string]interface{}{}
	if len(users) > 0 {
		obj["user_list"] = users
	}
	if len(departments) > 0 {
		obj["department_list"] = departments
	}
	if len(obj) == 0 {
		return nil
	}
	return obj
}

// AddRuleRequest builds the body of add_intercept_rule.
type AddRuleRequest struct {
	RuleFields

	// ApplicableUserList holds userids the rule applies to, at most 1000 nodes
	ApplicableUserList []string

	// ApplicableDepartmentList holds department ids the rule applies to, at most 1000 nodes
	ApplicableDepartmentList []int
}

// Body assembles the JSON body for the create call.
//
// The vendor rejects rules whose applicability is empty on both axes, so that
// case fails here with a validation error before any network traffic.
func (r *AddRuleRequest) Body() (map[string]interface{}, error) {
	if len(r.ApplicableUserList) == 0 && len(r.ApplicableDepartmentList) == 0 {
		return nil, utils.NewValidationError("applicable_range", "user list and department list must not both be empty")
	}

	body := map[string]interface{}{
		"rule_name":      stringOrEmpty(r.RuleName),
		"word_list":      emptyIfNilStrings(r.WordList),
		"semantics_list": emptyIfNilInts(r.SemanticsList),
		"intercept_type": intOrZero(r.InterceptType),
	}

	body["applicable_range"] = rangeObject(r.ApplicableUserList, r.ApplicableDepartmentList)

	return body, nil
}

// UpdateRuleRequest builds the body of update_intercept_rule.
//
// Base fields are sent only when explicitly set. The add/remove range objects
// are included only when they carry at least one non-empty list.
type UpdateRuleRequest struct {
	RuleFields

	RuleID string

	AddApplicableUserList          []string
	AddApplicableDepartmentList    []int
	RemoveApplicableUserList       []string
	RemoveApplicableDepartmentList []int
}

// Body assembles the JSON body for the update call.
func (r *UpdateRuleRequest) Body() map[string]interface{} {
	body := map[string]interface{}{
		"rule_id": r.RuleID,
	}

	if r.RuleName != nil {
		body["rule_name"] = *r.RuleName
	}
	if r.WordList != nil {
		body["word_list"] = r.WordList
	}
	if r.InterceptType != nil {
		body["intercept_type"] = *r.InterceptType
	}
	if r.SemanticsList != nil {
		body["extra_rule"] = map[string]interface{}{
			"semantics_list": r.SemanticsList,
		}
	}

	if addRange := rangeObject(r.AddApplicableUserList, r.AddApplicableDepartmentList); addRange != nil {
		body["add_applicable_range"] = addRange
	}
	if removeRange := rangeObject(r.RemoveApplicableUserList, r.RemoveApplicableDepartmentList); removeRange != nil {
		body["remove_applicable_range"] = removeRange
	}

	return body
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrZero(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func emptyIfNilStrings(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func emptyIfNilInts(list []int) []int {
	if list == nil {
		return []int{}
	}
	return list
}
