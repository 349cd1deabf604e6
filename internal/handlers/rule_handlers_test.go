package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wecomkit/rulesync/internal/handlers"
	"github.com/wecomkit/rulesync/internal/models"
	"github.com/wecomkit/rulesync/internal/utils"
)

// MockRuleService is a mock implementation of the RuleService
type MockRuleService struct {
	mock.Mock
}

func (m *MockRuleService) GetByID(ctx context.Context, id int64) (*models.InterceptRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterceptRule), args.Error(1)
}

func (m *MockRuleService) List(ctx context.Context, corpID string, page, pageSize int) ([]*models.InterceptRule, int, error) {
	args := m.Called(ctx, corpID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.InterceptRule), args.Int(1), args.Error(2)
}

func (m *MockRuleService) Create(ctx context.Context, payload *models.InterceptRuleCreate) (*models.InterceptRule, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterceptRule), args.Error(1)
}

func (m *MockRuleService) Update(ctx context.Context, id int64, payload *models.InterceptRuleUpdate) (*models.InterceptRule, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterceptRule), args.Error(1)
}

func (m *MockRuleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// withRuleIDParam attaches a chi route context carrying the rule ID parameter
func withRuleIDParam(r *http.Request, id int64) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("ruleID", strconv.FormatInt(id, 10))
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sampleRule() *models.InterceptRule {
	it := models.InterceptTypeWarn
	syncOn := true
	remoteID := "r1"
	return &models.InterceptRule{
		ID:                       1,
		CorpID:                   "wwcorp1",
		AgentID:                  7,
		RuleID:                   &remoteID,
		Name:                     "no leaks",
		WordList:                 models.StringList{"confidential"},
		SemanticsList:            models.IntList{1},
		InterceptType:            &it,
		ApplicableUserList:       models.StringList{"zhangsan"},
		ApplicableDepartmentList: models.IntList{},
		Sync:                     &syncOn,
	}
}

func TestRuleHandler_ListRules(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	mockService.On("List", mock.Anything, "", 1, 20).
		Return([]*models.InterceptRule{sampleRule()}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rules", nil)
	rec := httptest.NewRecorder()

	handler.ListRules(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.TotalItems)
	mockService.AssertExpectations(t)
}

func TestRuleHandler_ListRules_CorpFilter(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	mockService.On("List", mock.Anything, "wwcorp1", 1, 20).
		Return([]*models.InterceptRule{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rules?corp_id=wwcorp1", nil)
	rec := httptest.NewRecorder()

	handler.ListRules(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestRuleHandler_GetRule(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	mockService.On("GetByID", mock.Anything, int64(1)).Return(sampleRule(), nil)

	req := withRuleIDParam(httptest.NewRequest(http.MethodGet, "/api/rules/1", nil), 1)
	rec := httptest.NewRecorder()

	handler.GetRule(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// The view decorates the stored rule with display metadata
	assert.Contains(t, rec.Body.String(), `"intercept_type_label":"warn and block send"`)
	assert.Contains(t, rec.Body.String(), `"intercept_type_badge":"warning"`)
	mockService.AssertExpectations(t)
}

func TestRuleHandler_GetRule_NotFound(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	mockService.On("GetByID", mock.Anything, int64(999)).
		Return(nil, utils.NewNotFoundError("InterceptRule", int64(999)))

	req := withRuleIDParam(httptest.NewRequest(http.MethodGet, "/api/rules/999", nil), 999)
	rec := httptest.NewRecorder()

	handler.GetRule(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockService.AssertExpectations(t)
}

func TestRuleHandler_GetRule_InvalidID(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("ruleID", "abc")
	req := httptest.NewRequest(http.MethodGet, "/api/rules/abc", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.GetRule(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "GetByID")
}

func TestRuleHandler_CreateRule(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(p *models.InterceptRuleCreate) bool {
		return p.Name == "no leaks" && p.InterceptType == "1"
	})).Return(sampleRule(), nil)

	body := `{
		"agent_id": 7,
		"name": "no leaks",
		"word_list": ["confidential"],
		"intercept_type": "1",
		"applicable_user_list": ["zhangsan"],
		"sync": true
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/rules", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.CreateRule(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertExpectations(t)
}

func TestRuleHandler_CreateRule_ValidationFailure(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	// Missing required fields, intercept_type outside its enum
	body := `{"agent_id": 7, "name": "x", "intercept_type": "9"}`
	req := httptest.NewRequest(http.MethodPost, "/api/rules", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.CreateRule(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestRuleHandler_CreateRule_NameTooLong(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	body := `{
		"agent_id": 7,
		"name": "this rule name is far longer than twenty characters",
		"intercept_type": "1"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/rules", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.CreateRule(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestRuleHandler_UpdateRule(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	updated := sampleRule()
	updated.Name = "renamed"
	mockService.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p *models.InterceptRuleUpdate) bool {
		return p.Name != nil && *p.Name == "renamed" && p.WordList == nil
	})).Return(updated, nil)

	body := `{"name": "renamed"}`
	req := withRuleIDParam(httptest.NewRequest(http.MethodPatch, "/api/rules/1", bytes.NewBufferString(body)), 1)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.UpdateRule(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"renamed"`)
	mockService.AssertExpectations(t)
}

func TestRuleHandler_DeleteRule(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	mockService.On("Delete", mock.Anything, int64(1)).Return(nil)

	req := withRuleIDParam(httptest.NewRequest(http.MethodDelete, "/api/rules/1", nil), 1)
	rec := httptest.NewRecorder()

	handler.DeleteRule(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockService.AssertExpectations(t)
}

func TestRuleHandler_DeleteRule_NotFound(t *testing.T) {
	mockService := new(MockRuleService)
	handler := handlers.NewRuleHandler(mockService)

	mockService.On("Delete", mock.Anything, int64(999)).
		Return(utils.NewNotFoundError("InterceptRule", int64(999)))

	req := withRuleIDParam(httptest.NewRequest(http.MethodDelete, "/api/rules/999", nil), 999)
	rec := httptest.NewRecorder()

	handler.DeleteRule(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockService.AssertExpectations(t)
}
