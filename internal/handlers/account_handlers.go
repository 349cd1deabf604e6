package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wecomkit/rulesync/internal/constants"
	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/repository"
	"github.com/wecomkit/rulesync/internal/utils"
)

// AccountHandler handles corp and agent registration routes
type AccountHandler struct {
	corpRepo  repository.CorpRepository
	agentRepo repository.AgentRepository
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(corpRepo repository.CorpRepository, agentRepo repository.AgentRepository) *AccountHandler {
	return &AccountHandler{
		corpRepo:  corpRepo,
		agentRepo: agentRepo,
	}
}

// ListCorps returns all registered corps
func (h *AccountHandler) ListCorps(w http.ResponseWriter, r *http.Request) {
	corps, err := h.corpRepo.GetAll(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if corps == nil {
		corps = []*models.Corp{}
	}
	utils.JSON(w, constants.StatusOK, corps)
}

// CreateCorp registers a corp account
func (h *AccountHandler) CreateCorp(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var payload models.CorpCreate
	if err := utils.DecodeAndValidate(r, &payload); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	corp := &models.Corp{
		ID:   payload.ID,
		Name: payload.Name,
	}
	if err := h.corpRepo.Create(r.Context(), corp); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, corp)
}

// DeleteCorp removes a corp account
func (h *AccountHandler) DeleteCorp(w http.ResponseWriter, r *http.Request) {
	corpID := chi.URLParam(r, constants.ParamCorpID)
	if corpID == "" {
		utils.BadRequest(w, "Invalid corp ID", nil)
		return
	}

	if err := h.corpRepo.Delete(r.Context(), corpID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// ListAgents returns registered agents, optionally filtered by corp via ?corp_id=
func (h *AccountHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	var (
		agents []*models.Agent
		err    error
	)

	if corpID := r.URL.Query().Get("corp_id"); corpID != "" {
		agents, err = h.agentRepo.GetByCorp(r.Context(), corpID)
	} else {
		agents, err = h.agentRepo.GetAll(r.Context())
	}
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if agents == nil {
		agents = []*models.Agent{}
	}
	utils.JSON(w, constants.StatusOK, agents)
}

// CreateAgent registers an agent credential under a corp
func (h *AccountHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var payload models.AgentCreate
	if err := utils.DecodeAndValidate(r, &payload); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	agent := &models.Agent{
		CorpID:      payload.CorpID,
		AgentNumber: payload.AgentNumber,
		Name:        payload.Name,
		Secret:      payload.Secret,
	}
	if err := h.agentRepo.Create(r.Context(), agent); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusCreated, agent)
}

// DeleteAgent removes an agent credential
func (h *AccountHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, constants.ParamAgentID)
	if err != nil {
		utils.BadRequest(w, "Invalid agent ID", nil)
		return
	}

	if err := h.agentRepo.Delete(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}
