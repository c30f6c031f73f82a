package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventcheckin/internal/delivery/http/helpers"
	"eventcheckin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStatsService implements domain.StatsService for handler tests.
type fakeStatsService struct {
	err       error
	gender    *domain.GenderStats
	city      *domain.CityStats
	checkIn   *domain.CheckInStats
	method    *domain.RegistrationMethodStats
	dashboard *domain.DashboardStats
}

func (f *fakeStatsService) Gender(ctx context.Context) (*domain.GenderStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.gender, nil
}

func (f *fakeStatsService) City(ctx context.Context) (*domain.CityStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.city, nil
}

func (f *fakeStatsService) CheckIn(ctx context.Context) (*domain.CheckInStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.checkIn, nil
}

func (f *fakeStatsService) RegistrationMethod(ctx context.Context) (*domain.RegistrationMethodStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.method, nil
}

func (f *fakeStatsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dashboard, nil
}

func TestStatsController_Gender(t *testing.T) {
	fake := &fakeStatsService{gender: &domain.GenderStats{
		Total:  4,
		Male:   domain.Bucket{Count: 2, Percentage: "50.00"},
		Female: domain.Bucket{Count: 1, Percentage: "25.00"},
		Other:  domain.Bucket{Count: 1, Percentage: "25.00"},
	}}
	ctrl := NewStatsController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/gender", nil)
	rr := httptest.NewRecorder()

	ctrl.Gender(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	dataMap, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(4), dataMap["total"])
	male, ok := dataMap["male"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "50.00", male["percentage"])
}

func TestStatsController_NoActiveEvent(t *testing.T) {
	fake := &fakeStatsService{err: domain.ErrNoActiveEvent}
	ctrl := NewStatsController(testLogger, fake)

	handlers := map[string]http.HandlerFunc{
		"/api/stats/gender":       ctrl.Gender,
		"/api/stats/city":         ctrl.City,
		"/api/stats/checkin":      ctrl.CheckIn,
		"/api/stats/registration": ctrl.RegistrationMethod,
		"/api/stats/dashboard":    ctrl.Dashboard,
	}
	for path, handler := range handlers {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, http.StatusNotFound, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
		})
	}
}

func TestStatsController_Dashboard(t *testing.T) {
	stats := &domain.DashboardStats{}
	stats.Event.Name = "Annual Gathering"
	stats.Registration.Total = 3
	stats.Registration.CheckedIn = 2
	stats.Registration.CheckInPercentage = "66.67"
	stats.Registration.Pending = 1
	fake := &fakeStatsService{dashboard: stats}
	ctrl := NewStatsController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/api/stats/dashboard", nil)
	rr := httptest.NewRecorder()

	ctrl.Dashboard(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	dataMap, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	registration, ok := dataMap["registration"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), registration["total"])
	assert.Equal(t, "66.67", registration["check_in_percentage"])
}
