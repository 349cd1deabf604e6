package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wecomkit/rulesync/internal/handlers"
	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/utils"
)

// MockCorpRepository is a mock implementation of the corp repository
type MockCorpRepository struct {
	mock.Mock
}

func (m *MockCorpRepository) GetByID(ctx context.Context, id string) (*models.Corp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Corp), args.Error(1)
}

func (m *MockCorpRepository) GetAll(ctx context.Context) ([]*models.Corp, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Corp), args.Error(1)
}

func (m *MockCorpRepository) Create(ctx context.Context, corp *models.Corp) error {
	args := m.Called(ctx, corp)
	return args.Error(0)
}

func (m *MockCorpRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAgentRepository is a mock implementation of the agent repository
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) GetByID(ctx context.Context, id int64) (*models.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agent), args.Error(1)
}

func (m *MockAgentRepository) GetAll(ctx context.Context) ([]*models.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Agent), args.Error(1)
}

func (m *MockAgentRepository) GetByCorp(ctx context.Context, corpID string) ([]*models.Agent, error) {
	args := m.Called(ctx, corpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Agent), args.Error(1)
}

func (m *MockAgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// withCorpIDParam attaches a chi route context carrying the corp ID parameter
func withCorpIDParam(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("corpID", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withAgentIDParam attaches a chi route context carrying the agent ID parameter
func withAgentIDParam(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("agentID", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestListCorps(t *testing.T) {
	corpRepo := new(MockCorpRepository)
	agentRepo := new(MockAgentRepository)
	handler := handlers.NewAccountHandler(corpRepo, agentRepo)

	corpRepo.On("GetAll", mock.Anything).Return([]*models.Corp{
		{ID: "wwcorp1", Name: "Acme Ltd"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/corps", nil)
	rec := httptest.NewRecorder()
	handler.ListCorps(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Ltd")
	corpRepo.AssertExpectations(t)
}

func TestListCorps_EmptyIsArrayNotNull(t *testing.T) {
	corpRepo := new(MockCorpRepository)
	handler := handlers.NewAccountHandler(corpRepo, new(MockAgentRepository))

	corpRepo.On("GetAll", mock.Anything).Return([]*models.Corp(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/corps", nil)
	rec := httptest.NewRecorder()
	handler.ListCorps(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestCreateCorp(t *testing.T) {
	corpRepo := new(MockCorpRepository)
	handler := handlers.NewAccountHandler(corpRepo, new(MockAgentRepository))

	corpRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Corp) bool {
		return c.ID == "wwcorp1" && c.Name == "Acme Ltd"
	})).Return(nil)

	body := bytes.NewBufferString(`{"id":"wwcorp1","name":"Acme Ltd"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/corps", body)
	rec := httptest.NewRecorder()
	handler.CreateCorp(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	corpRepo.AssertExpectations(t)
}

func TestCreateCorp_ValidationFailure(t *testing.T) {
	corpRepo := new(MockCorpRepository)
	handler := handlers.NewAccountHandler(corpRepo, new(MockAgentRepository))

	body := bytes.NewBufferString(`{"name":"Missing the id"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/corps", body)
	rec := httptest.NewRecorder()
	handler.CreateCorp(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	corpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCorp_Duplicate(t *testing.T) {
	corpRepo := new(MockCorpRepository)
	handler := handlers.NewAccountHandler(corpRepo, new(MockAgentRepository))

	corpRepo.On("Create", mock.Anything, mock.Anything).
		Return(utils.NewDuplicateError("Corp", "corp_id", "wwcorp1"))

	body := bytes.NewBufferString(`{"id":"wwcorp1","name":"Acme Ltd"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/corps", body)
	rec := httptest.NewRecorder()
	handler.CreateCorp(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteCorp(t *testing.T) {
	corpRepo := new(MockCorpRepository)
	handler := handlers.NewAccountHandler(corpRepo, new(MockAgentRepository))

	corpRepo.On("Delete", mock.Anything, "wwcorp1").Return(nil)

	req := withCorpIDParam(httptest.NewRequest(http.MethodDelete, "/api/corps/wwcorp1", nil), "wwcorp1")
	rec := httptest.NewRecorder()
	handler.DeleteCorp(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	corpRepo.AssertExpectations(t)
}

func TestDeleteCorp_NotFound(t *testing.T) {
	corpRepo := new(MockCorpRepository)
	handler := handlers.NewAccountHandler(corpRepo, new(MockAgentRepository))

	corpRepo.On("Delete", mock.Anything, "wwmissing").
		Return(utils.NewNotFoundError("Corp", "wwmissing"))

	req := withCorpIDParam(httptest.NewRequest(http.MethodDelete, "/api/corps/wwmissing", nil), "wwmissing")
	rec := httptest.NewRecorder()
	handler.DeleteCorp(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAgents(t *testing.T) {
	agentRepo := new(MockAgentRepository)
	handler := handlers.NewAccountHandler(new(MockCorpRepository), agentRepo)

	agentRepo.On("GetAll", mock.Anything).Return([]*models.Agent{
		{ID: 1, CorpID: "wwcorp1", AgentNumber: 1000002, Name: "Customer Service", Secret: "hidden"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	rec := httptest.NewRecorder()
	handler.ListAgents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer Service")
	assert.NotContains(t, rec.Body.String(), "hidden", "agent secrets must not appear in responses")
}

func TestListAgents_CorpFilter(t *testing.T) {
	agentRepo := new(MockAgentRepository)
	handler := handlers.NewAccountHandler(new(MockCorpRepository), agentRepo)

	agentRepo.On("GetByCorp", mock.Anything, "wwcorp1").Return([]*models.Agent{
		{ID: 1, CorpID: "wwcorp1", AgentNumber: 1000002, Name: "Customer Service"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/agents?corp_id=wwcorp1", nil)
	rec := httptest.NewRecorder()
	handler.ListAgents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	agentRepo.AssertNotCalled(t, "GetAll", mock.Anything)
	agentRepo.AssertExpectations(t)
}

func TestCreateAgent(t *testing.T) {
	agentRepo := new(MockAgentRepository)
	handler := handlers.NewAccountHandler(new(MockCorpRepository), agentRepo)

	agentRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Agent) bool {
		return a.CorpID == "wwcorp1" && a.AgentNumber == 1000002 && a.Secret == "agent-secret"
	})).Return(nil)

	body := bytes.NewBufferString(`{"corp_id":"wwcorp1","agent_number":1000002,"name":"Customer Service","secret":"agent-secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/agents", body)
	rec := httptest.NewRecorder()
	handler.CreateAgent(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "agent-secret")
	agentRepo.AssertExpectations(t)
}

func TestCreateAgent_UnknownCorp(t *testing.T) {
	agentRepo := new(MockAgentRepository)
	handler := handlers.NewAccountHandler(new(MockCorpRepository), agentRepo)

	agentRepo.On("Create", mock.Anything, mock.Anything).
		Return(utils.NewNotFoundError("Corp", "wwmissing"))

	body := bytes.NewBufferString(`{"corp_id":"wwmissing","agent_number":1,"name":"x","secret":"s"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/agents", body)
	rec := httptest.NewRecorder()
	handler.CreateAgent(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAgent(t *testing.T) {
	agentRepo := new(MockAgentRepository)
	handler := handlers.NewAccountHandler(new(MockCorpRepository), agentRepo)

	agentRepo.On("Delete", mock.Anything, int64(7)).Return(nil)

	req := withAgentIDParam(httptest.NewRequest(http.MethodDelete, "/api/agents/7", nil), "7")
	rec := httptest.NewRecorder()
	handler.DeleteAgent(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	agentRepo.AssertExpectations(t)
}

func TestDeleteAgent_InvalidID(t *testing.T) {
	agentRepo := new(MockAgentRepository)
	handler := handlers.NewAccountHandler(new(MockCorpRepository), agentRepo)

	req := withAgentIDParam(httptest.NewRequest(http.MethodDelete, "/api/agents/abc", nil), "abc")
	rec := httptest.NewRecorder()
	handler.DeleteAgent(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	agentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
