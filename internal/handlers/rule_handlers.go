package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/utils"
)

// RuleHandler handles interception rule routes
type RuleHandler struct {
	ruleService RuleServiceInterface
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(ruleService RuleServiceInterface) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
	}
}

// ListRules returns stored rules, optionally filtered by corp via ?corp_id=
func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	params := utils.GetPaginationParams(r)
	corpID := r.URL.Query().Get("corp_id")

	rules, total, err := h.ruleService.List(r.Context(), corpID, params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	views := make([]*models.InterceptRuleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, models.NewInterceptRuleView(rule))
	}

	utils.Paginated(w, constants.StatusOK, views, params.Page, params.PageSize, total)
}

// GetRule returns a single rule by its local ID
func (h *RuleHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamRuleID)
	if err != nil {
		utils.BadRequest(w, "Invalid rule ID", nil)
		return
	}

	rule, err := h.ruleService.GetByID(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, models.NewInterceptRuleView(rule))
}

// CreateRule creates a rule and, when sync is enabled, pushes it remotely
func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var payload models.InterceptRuleCreate
	if err := utils.DecodeAndValidate(r, &payload); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	rule, err := h.ruleService.Create(r.Context(), &payload)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, models.NewInterceptRuleView(rule))
}

// UpdateRule applies a partial update to a rule and reconciles the remote side
func (h *RuleHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamRuleID)
	if err != nil {
		utils.BadRequest(w, "Invalid rule ID", nil)
		return
	}

	// Decode and validate the request body
	var payload models.InterceptRuleUpdate
	if err := utils.DecodeAndValidate(r, &payload); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	rule, err := h.ruleService.Update(r.Context(), id, &payload)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, models.NewInterceptRuleView(rule))
}

// DeleteRule removes a rule locally and retracts its remote copy
func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamRuleID)
	if err != nil {
		utils.BadRequest(w, "Invalid rule ID", nil)
		return
	}

	if err := h.ruleService.Delete(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// parseIDParam extracts a numeric URL parameter
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
