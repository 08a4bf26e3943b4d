package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"familycheckin/internal/delivery/http/helpers"
	"familycheckin/internal/delivery/http/middleware"
	"familycheckin/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func withStaff(r *http.Request, orgID string) *http.Request {
	return r.WithContext(middleware.SetStaffClaims(r.Context(), &domain.StaffClaims{OrganizationID: orgID, Role: domain.StaffRole}))
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil, re-decodes data into it.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

type fakeCheckInService struct {
	checkInResult *domain.CheckInResult
	checkInErr    error
	statusResult  *domain.CheckInStatus
	statusErr     error
	lastRequest   domain.CheckInRequest
	lastStatusOrg string
	lastStatusEvt string
	lastStatusFam string
}

func (f *fakeCheckInService) CheckIn(_ context.Context, req domain.CheckInRequest) (*domain.CheckInResult, error) {
	f.lastRequest = req
	return f.checkInResult, f.checkInErr
}

func (f *fakeCheckInService) Status(_ context.Context, organizationID, eventID, familyID string) (*domain.CheckInStatus, error) {
	f.lastStatusOrg, f.lastStatusEvt, f.lastStatusFam = organizationID, eventID, familyID
	return f.statusResult, f.statusErr
}

type fakeCheckoutService struct {
	lookupResult   *domain.PickupCodeDetails
	lookupErr      error
	redeemResult   *domain.CheckoutResult
	redeemErr      error
	lastEventID    string
	lastCode       string
	lastOrgID      string
	lastCodeID     string
	lastRedeemedBy *string
}

func (f *fakeCheckoutService) LookupCode(_ context.Context, eventID, code string) (*domain.PickupCodeDetails, error) {
	f.lastEventID, f.lastCode = eventID, code
	return f.lookupResult, f.lookupErr
}

func (f *fakeCheckoutService) Redeem(_ context.Context, organizationID, pickupCodeID string, redeemedByAdultID *string) (*domain.CheckoutResult, error) {
	f.lastOrgID, f.lastCodeID, f.lastRedeemedBy = organizationID, pickupCodeID, redeemedByAdultID
	return f.redeemResult, f.redeemErr
}

type fakeFamilyService struct {
	searchResult   []*domain.FamilyWithPeople
	searchTotal    int
	searchErr      error
	getResult      *domain.FamilyWithPeople
	getErr         error
	createErr      error
	addMemberErr   error
	updateResult   *domain.FamilyWithPeople
	updateErr      error
	deleteErr      error
	lastPatch      domain.FamilyPatch
	lastOrgID      string
	lastSearchOrg  string
	lastPhoneLast4 string
	lastParams     domain.PaginationParams
	lastCreated    *domain.Family
	lastMember     *domain.Person
	lastFamilyID   string
}

func (f *fakeFamilyService) Search(_ context.Context, organizationID, phoneLast4 string, params domain.PaginationParams) ([]*domain.FamilyWithPeople, int, error) {
	f.lastSearchOrg, f.lastPhoneLast4, f.lastParams = organizationID, phoneLast4, params
	return f.searchResult, f.searchTotal, f.searchErr
}

func (f *fakeFamilyService) Get(_ context.Context, _, familyID string) (*domain.FamilyWithPeople, error) {
	f.lastFamilyID = familyID
	return f.getResult, f.getErr
}

func (f *fakeFamilyService) Create(_ context.Context, fam *domain.Family) error {
	f.lastCreated = fam
	if f.createErr != nil {
		return f.createErr
	}
	fam.ID = "fam-new"
	return nil
}

func (f *fakeFamilyService) AddMember(_ context.Context, _, familyID string, p *domain.Person) error {
	f.lastFamilyID, f.lastMember = familyID, p
	if f.addMemberErr != nil {
		return f.addMemberErr
	}
	p.ID = "person-new"
	return nil
}

func (f *fakeFamilyService) Update(_ context.Context, organizationID, familyID string, patch domain.FamilyPatch) (*domain.FamilyWithPeople, error) {
	f.lastOrgID, f.lastFamilyID, f.lastPatch = organizationID, familyID, patch
	return f.updateResult, f.updateErr
}

func (f *fakeFamilyService) Delete(_ context.Context, organizationID, familyID string) error {
	f.lastOrgID, f.lastFamilyID = organizationID, familyID
	return f.deleteErr
}

type fakeEventService struct {
	getResult     *domain.EventWithCounts
	getErr        error
	deleteErr     error
	lastOrgID     string
	lastEventID   string
	resolveResult *domain.Event
	listResult    []*domain.Event
	listErr       error
	lastStatus    domain.EventStatus
	createErr     error
	lastCreated   *domain.Event
	updateResult  *domain.Event
	updateErr     error
	lastPatch     domain.EventPatch
}

func (f *fakeEventService) ResolveEvent(_ context.Context, _ string, _ domain.EventRef) (*domain.Event, error) {
	return f.resolveResult, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, organizationID, eventID string) (*domain.EventWithCounts, error) {
	f.lastOrgID, f.lastEventID = organizationID, eventID
	return f.getResult, f.getErr
}

func (f *fakeEventService) DeleteEvent(_ context.Context, organizationID, eventID string) error {
	f.lastOrgID, f.lastEventID = organizationID, eventID
	return f.deleteErr
}

func (f *fakeEventService) ListEvents(_ context.Context, organizationID string, status domain.EventStatus) ([]*domain.Event, error) {
	f.lastOrgID, f.lastStatus = organizationID, status
	return f.listResult, f.listErr
}

func (f *fakeEventService) CreateEvent(_ context.Context, e *domain.Event) error {
	f.lastCreated = e
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = "ev-new"
	e.Status = domain.EventDraft
	return nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, organizationID, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastOrgID, f.lastEventID, f.lastPatch = organizationID, eventID, patch
	return f.updateResult, f.updateErr
}

type fakePersonService struct {
	listResult  []*domain.Person
	listErr     error
	createErr   error
	lastOrgID   string
	lastRole    domain.PersonRole
	lastCreated *domain.Person
}

func (f *fakePersonService) List(_ context.Context, organizationID string, role domain.PersonRole) ([]*domain.Person, error) {
	f.lastOrgID, f.lastRole = organizationID, role
	return f.listResult, f.listErr
}

func (f *fakePersonService) Create(_ context.Context, p *domain.Person) error {
	f.lastCreated = p
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = "person-new"
	return nil
}

type fakeSettingsService struct {
	settings   *domain.Settings
	err        error
	lastOrgID  string
	lastUpdate *domain.Settings
}

func (f *fakeSettingsService) Get(_ context.Context, organizationID string) (*domain.Settings, error) {
	f.lastOrgID = organizationID
	return f.settings, f.err
}

func (f *fakeSettingsService) Update(_ context.Context, organizationID string, s domain.Settings) (*domain.Settings, error) {
	f.lastOrgID, f.lastUpdate = organizationID, &s
	if f.err != nil {
		return nil, f.err
	}
	return &s, nil
}

type fakeStaffAuthService struct {
	token   string
	err     error
	lastOrg string
	lastPin string
}

func (f *fakeStaffAuthService) Unlock(_ context.Context, organizationID, pin string) (string, error) {
	f.lastOrg, f.lastPin = organizationID, pin
	return f.token, f.err
}
