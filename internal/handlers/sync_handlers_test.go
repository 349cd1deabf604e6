package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wecomkit/rulesync/internal/handlers"
	"github.com/wecomkit/rulesync/internal/service"
	"github.com/wecomkit/rulesync/internal/utils"
)

// MockPullService is a mock implementation of the PullService
type MockPullService struct {
	mock.Mock
}

func (m *MockPullService) Run(ctx context.Context) (*service.PullStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PullStats), args.Error(1)
}

func TestSyncHandler_TriggerPull(t *testing.T) {
	mockPull := new(MockPullService)
	handler := handlers.NewSyncHandler(mockPull, nil, "1.0.0")

	mockPull.On("Run", mock.Anything).Return(&service.PullStats{
		Agents:   2,
		Listed:   5,
		Imported: 3,
		Skipped:  2,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/pull", nil)
	rec := httptest.NewRecorder()

	handler.TriggerPull(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["imported"])
	mockPull.AssertExpectations(t)
}

func TestSyncHandler_TriggerPull_Failure(t *testing.T) {
	mockPull := new(MockPullService)
	handler := handlers.NewSyncHandler(mockPull, nil, "1.0.0")

	mockPull.On("Run", mock.Anything).Return(nil, errors.New("failed to load agents"))

	req := httptest.NewRequest(http.MethodPost, "/api/sync/pull", nil)
	rec := httptest.NewRecorder()

	handler.TriggerPull(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	mockPull.AssertExpectations(t)
}

func TestSyncHandler_Version(t *testing.T) {
	handler := handlers.NewSyncHandler(nil, nil, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	handler.Version(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.2.3")
}
