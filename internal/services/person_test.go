package services

import (
	"context"
	"testing"
	"time"

	"familycheckin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersonService() (domain.PersonService, *memStore, *fakeAuditLog) {
	store := newMemStore()
	audit := &fakeAuditLog{}
	return NewPersonService(fakePersonRepo{store}, fakeFamilyRepo{store}, audit, testLogger, time.Second), store, audit
}

func TestPersonService_List(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestPersonService()
	store.addPerson("org-1", nil, "Leo", "Rivera", domain.RoleYouth)
	store.addPerson("org-1", nil, "Ana", "Rivera", domain.RoleAdult)
	former := store.addPerson("org-1", nil, "Bea", "Rivera", domain.RoleYouth)
	former.Active = false
	store.addPerson("org-2", nil, "Sam", "Okafor", domain.RoleYouth)

	all, err := svc.List(ctx, "org-1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ana", all[0].FirstName)

	youth, err := svc.List(ctx, "org-1", domain.RoleYouth)
	require.NoError(t, err)
	require.Len(t, youth, 2)
	assert.Equal(t, "Bea", youth[0].FirstName)
	assert.False(t, youth[0].Active)

	_, err = svc.List(ctx, "org-1", domain.PersonRole("STAFF"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.List(ctx, "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPersonService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, store, audit := newTestPersonService()
	fam := store.addFamily("org-1", "Rivera", "5551234567", nil)
	otherFam := store.addFamily("org-2", "Okafor", "5559990000", nil)
	missing := "fam-missing"

	tests := []struct {
		name    string
		person  *domain.Person
		wantErr error
	}{
		{name: "without a family", person: domain.NewPerson("org-1", nil, "Ana", "Rivera", domain.RoleAdult, now, now)},
		{name: "into a family", person: domain.NewPerson("org-1", &fam.ID, "Leo", "Rivera", domain.RoleYouth, now, now)},
		{name: "family of another organization", person: domain.NewPerson("org-1", &otherFam.ID, "Leo", "Rivera", domain.RoleYouth, now, now), wantErr: domain.ErrNotFound},
		{name: "unknown family", person: domain.NewPerson("org-1", &missing, "Leo", "Rivera", domain.RoleYouth, now, now), wantErr: domain.ErrNotFound},
		{name: "unknown role", person: domain.NewPerson("org-1", nil, "Leo", "Rivera", domain.PersonRole("CHILD"), now, now), wantErr: domain.ErrInvalidInput},
		{name: "missing name", person: domain.NewPerson("org-1", nil, "", "Rivera", domain.RoleYouth, now, now), wantErr: domain.ErrInvalidInput},
		{name: "missing organization", person: domain.NewPerson("", nil, "Leo", "Rivera", domain.RoleYouth, now, now), wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(audit.actions())
			err := svc.Create(ctx, tt.person)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, tt.person.ID)
				assert.Len(t, audit.actions(), before)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, tt.person.ID)
			stored, err := fakePersonRepo{store}.GetByID(ctx, tt.person.ID)
			require.NoError(t, err)
			assert.True(t, stored.Active)
			assert.Equal(t, tt.person.FamilyID, stored.FamilyID)
			assert.Equal(t, domain.AuditPersonCreated, audit.actions()[before])
		})
	}
}
