// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP-related constants such as status codes and
// user-facing messages. These constants ensure consistent HTTP communication
// patterns across the application.
package constants

// HTTP Status Codes define the standard HTTP response status codes used in the application.
const (
	// StatusOK indicates that the request has succeeded.
	StatusOK = 200

	// StatusCreated indicates that the request has succeeded and a new resource has been created.
	StatusCreated = 201

	// StatusNoContent indicates that the request has succeeded but there is no content to send.
	StatusNoContent = 204

	// StatusBadRequest indicates that the server cannot process the request due to client error.
	StatusBadRequest = 400

	// StatusUnauthorized indicates that the request lacks valid authentication credentials.
	StatusUnauthorized = 401

	// StatusForbidden indicates that the server understood the request but refuses to authorize it.
	StatusForbidden = 403

	// StatusNotFound indicates that the server cannot find the requested resource.
	StatusNotFound = 404

	// StatusConflict indicates that the request conflicts with the current state of the server.
	StatusConflict = 409

	// StatusInternalServerError indicates that the server encountered an unexpected condition.
	StatusInternalServerError = 500

	// StatusServiceUnavailable indicates that the server is not ready to handle the request.
	StatusServiceUnavailable = 503
)

// User-Facing Messages define standardized strings returned to API clients.
const (
	// MsgAuthRequired is returned when a protected endpoint is called without credentials.
	MsgAuthRequired = "Authentication required"

	// MsgInvalidAPIKey is returned when the presented API key does not verify.
	MsgInvalidAPIKey = "Invalid API key"

	// MsgRequestBodyTooLarge is returned when a request body exceeds MaxRequestBodySize.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody is returned when a request body is required but missing.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON is returned when a request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"
)

// HTTP Headers define header names used by the API.
const (
	// HeaderXAPIKey is the request header carrying the admin API key.
	HeaderXAPIKey = "X-API-Key"

	// HeaderXRequestID is the response header carrying the request correlation ID.
	HeaderXRequestID = "X-Request-ID"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamRuleID is the URL parameter for intercept rule identifiers.
	ParamRuleID = "ruleID"

	// ParamAgentID is the URL parameter for agent identifiers.
	ParamAgentID = "agentID"

	// ParamCorpID is the URL parameter for corp identifiers.
	ParamCorpID = "corpID"
)
