package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"familycheckin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsController_GetSettings(t *testing.T) {
	fake := &fakeSettingsService{settings: &domain.Settings{CheckInGraceMinutes: 30}}
	ctrl := NewSettingsController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/settings?organizationId=org-1", nil)
	rr := httptest.NewRecorder()

	ctrl.GetSettings(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var data domain.Settings
	decodeEnvelope(t, rr, &data)
	assert.Equal(t, 30, data.CheckInGraceMinutes)
	assert.Equal(t, "org-1", fake.lastOrgID)
}

func TestSettingsController_UpdateSettings(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		staffOrg   string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", body: `{"organizationId":"org-1","checkInGraceMinutes":45}`, staffOrg: "org-1", wantStatus: http.StatusOK},
		{name: "zero is allowed", body: `{"organizationId":"org-1","checkInGraceMinutes":0}`, staffOrg: "org-1", wantStatus: http.StatusOK},
		{name: "missing minutes", body: `{"organizationId":"org-1"}`, staffOrg: "org-1", wantStatus: http.StatusBadRequest},
		{name: "other organization", body: `{"organizationId":"org-1","checkInGraceMinutes":45}`, staffOrg: "org-2", wantStatus: http.StatusForbidden},
		{name: "no staff session", body: `{"organizationId":"org-1","checkInGraceMinutes":45}`, wantStatus: http.StatusUnauthorized},
		{
			name:       "out of range",
			body:       `{"organizationId":"org-1","checkInGraceMinutes":500}`,
			staffOrg:   "org-1",
			fakeErr:    fmt.Errorf("%w: checkInGraceMinutes must be between 0 and 120", domain.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSettingsService{err: tt.fakeErr}
			ctrl := NewSettingsController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPut, "/settings", bytes.NewBufferString(tt.body))
			if tt.staffOrg != "" {
				req = withStaff(req, tt.staffOrg)
			}
			rr := httptest.NewRecorder()

			ctrl.UpdateSettings(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var data domain.Settings
				decodeEnvelope(t, rr, &data)
				assert.Equal(t, fake.lastUpdate.CheckInGraceMinutes, data.CheckInGraceMinutes)
			}
		})
	}
}
