// Package constants provides shared constant values used throughout the application.
//
// The wechat_const.go file defines the WeChat Work external-contact API surface
// used by the intercept-rule sync: endpoint paths, semantics codes, and list
// size limits documented by the vendor.
//
// See https://developer.work.weixin.qq.com/document/path/96346
package constants

// API Endpoint Paths define the vendor-side routes for intercept rule operations.
const (
	// PathGetToken is the endpoint for fetching an agent access token.
	PathGetToken = "/cgi-bin/gettoken"

	// PathGetInterceptRuleList is the endpoint for listing intercept rules.
	PathGetInterceptRuleList = "/cgi-bin/externalcontact/get_intercept_rule_list"

	// PathGetInterceptRule is the endpoint for fetching one rule's detail.
	PathGetInterceptRule = "/cgi-bin/externalcontact/get_intercept_rule"

	// PathAddInterceptRule is the endpoint for creating a rule.
	PathAddInterceptRule = "/cgi-bin/externalcontact/add_intercept_rule"

	// PathUpdateInterceptRule is the endpoint for updating a rule.
	PathUpdateInterceptRule = "/cgi-bin/externalcontact/update_intercept_rule"

	// PathDelInterceptRule is the endpoint for deleting a rule.
	PathDelInterceptRule = "/cgi-bin/externalcontact/del_intercept_rule"
)

// Vendor Limits document constraints enforced by the remote API.
// Word entries are limited to 32 UTF-8 characters each; these are documented
// rather than enforced locally.
const (
	// MaxWordListSize is the maximum number of sensitive words per rule.
	MaxWordListSize = 300

	// MaxApplicableNodes is the maximum number of user or department nodes per range.
	MaxApplicableNodes = 1000
)

// Semantics Codes identify the structural pattern types a rule can intercept.
const (
	// SemanticsPhoneNumber intercepts phone numbers.
	SemanticsPhoneNumber = 1

	// SemanticsEmail intercepts email addresses.
	SemanticsEmail = 2

	// SemanticsRedPacket intercepts red-packet and money-transfer content.
	SemanticsRedPacket = 3
)

// Default WeChat Client Settings define fallbacks for the vendor API client.
const (
	// DefaultWeChatBaseURL is the production WeChat Work API host.
	DefaultWeChatBaseURL = "https://qyapi.weixin.qq.com"

	// DefaultWeChatQPS is the default request rate toward the vendor API.
	DefaultWeChatQPS = 10

	// DefaultWeChatBurst is the default burst size of the vendor rate limiter.
	DefaultWeChatBurst = 20
)
