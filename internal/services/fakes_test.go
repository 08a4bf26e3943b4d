package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"familycheckin/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// memStore is an in-memory stand-in for the Postgres tables. One mutex guards everything so
// Redeem behaves like the conditional update inside a transaction.
type memStore struct {
	mu         sync.Mutex
	nextID     int
	people     map[string]*domain.Person
	families   map[string]*domain.Family
	events     map[string]*domain.Event
	attendance map[string]*domain.Attendance // eventID|personID
	codes      map[string]*domain.PickupCode
	ops        []string
}

func newMemStore() *memStore {
	return &memStore{
		people:     make(map[string]*domain.Person),
		families:   make(map[string]*domain.Family),
		events:     make(map[string]*domain.Event),
		attendance: make(map[string]*domain.Attendance),
		codes:      make(map[string]*domain.PickupCode),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func attendanceKey(eventID, personID string) string { return eventID + "|" + personID }

func (m *memStore) addFamily(orgID, name, phone string, notifyEmail *string) *domain.Family {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := domain.NewFamily(orgID, name, phone, notifyEmail, time.Now(), time.Now())
	f.ID = m.id("fam")
	m.families[f.ID] = f
	return f
}

func (m *memStore) addPerson(orgID string, familyID *string, first, last string, role domain.PersonRole) *domain.Person {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := domain.NewPerson(orgID, familyID, first, last, role, time.Now(), time.Now())
	p.ID = m.id("person")
	m.people[p.ID] = p
	return p
}

func (m *memStore) addEvent(orgID, id, title string) *domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &domain.Event{ID: id, OrganizationID: orgID, Title: title, Status: domain.EventActive, StartsAt: time.Now()}
	m.events[id] = e
	return e
}

func (m *memStore) attendanceFor(eventID, personID string) *domain.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attendance[attendanceKey(eventID, personID)]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (m *memStore) codesFor(eventID, youthID string) []*domain.PickupCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.PickupCode
	for _, c := range m.codes {
		if c.EventID == eventID && c.YouthPersonID == youthID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakePersonRepo struct{ *memStore }

func (f fakePersonRepo) Create(ctx context.Context, p *domain.Person) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id("person")
	cp := *p
	f.people[p.ID] = &cp
	return nil
}

func (f fakePersonRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.people[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakePersonRepo) ListActiveByFamilyIDs(ctx context.Context, familyIDs []string) ([]*domain.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]bool, len(familyIDs))
	for _, id := range familyIDs {
		want[id] = true
	}
	out := []*domain.Person{}
	for _, p := range f.people {
		if p.Active && p.FamilyID != nil && want[*p.FamilyID] {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (f fakePersonRepo) List(ctx context.Context, organizationID string, role domain.PersonRole) ([]*domain.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Person{}
	for _, p := range f.people {
		if p.OrganizationID == organizationID && (role == "" || p.Role == role) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

type fakeFamilyRepo struct{ *memStore }

func (f fakeFamilyRepo) Create(ctx context.Context, fam *domain.Family) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.families {
		if existing.OrganizationID == fam.OrganizationID && existing.PrimaryPhoneE164 == fam.PrimaryPhoneE164 {
			return domain.ErrDuplicatePhone
		}
	}
	fam.ID = f.id("fam")
	cp := *fam
	f.families[fam.ID] = &cp
	return nil
}

func (f fakeFamilyRepo) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fam, ok := f.families[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *fam
	return &cp, nil
}

func (f fakeFamilyRepo) Search(ctx context.Context, organizationID, phoneLast4 string, params domain.PaginationParams) ([]*domain.Family, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Family{}
	for _, fam := range f.families {
		if fam.OrganizationID == organizationID && (phoneLast4 == "" || fam.PhoneLast4 == phoneLast4) {
			cp := *fam
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FamilyName < out[j].FamilyName })
	total := len(out)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)
	return out[start:end], total, nil
}

func (f fakeFamilyRepo) Update(ctx context.Context, fam *domain.Family) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.families[fam.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range f.families {
		if existing.ID != fam.ID && existing.OrganizationID == fam.OrganizationID && existing.PrimaryPhoneE164 == fam.PrimaryPhoneE164 {
			return domain.ErrDuplicatePhone
		}
	}
	cp := *fam
	f.families[fam.ID] = &cp
	return nil
}

// Delete detaches members the way the people.family_id foreign key does.
func (f fakeFamilyRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.families[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range f.people {
		if p.FamilyID != nil && *p.FamilyID == id {
			p.FamilyID = nil
		}
	}
	delete(f.families, id)
	return nil
}

type fakeEventRepo struct{ *memStore }

func (f fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; ok {
		return errors.New("duplicate event id")
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f fakeEventRepo) UpdateDetails(ctx context.Context, id, title string, location *string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Title = title
	if location != nil {
		loc := *location
		e.Location = &loc
	}
	cp := *e
	return &cp, nil
}

func (f fakeEventRepo) List(ctx context.Context, organizationID string, status domain.EventStatus) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range f.events {
		if e.OrganizationID == organizationID && (status == "" || e.Status == status) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	return out, nil
}

func (f fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f fakeEventRepo) CountReferences(ctx context.Context, id string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var att, codes int
	for _, a := range f.attendance {
		if a.EventID == id {
			att++
		}
	}
	for _, c := range f.codes {
		if c.EventID == id {
			codes++
		}
	}
	return att, codes, nil
}

func (f fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	f.ops = append(f.ops, "delete event")
	return nil
}

type fakeAttendanceRepo struct {
	*memStore
	upsertErr error
}

func (f fakeAttendanceRepo) Upsert(ctx context.Context, a *domain.Attendance) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attendanceKey(a.EventID, a.PersonID)
	stored, ok := f.attendance[key]
	if !ok {
		cp := *a
		cp.ID = f.id("att")
		stored = &cp
		f.attendance[key] = stored
	} else {
		stored.Status = a.Status
		if a.CheckInAt != nil {
			stored.CheckInAt = a.CheckInAt
		}
		if a.CheckOutAt != nil {
			stored.CheckOutAt = a.CheckOutAt
		}
		stored.UpdatedAt = a.UpdatedAt
	}
	*a = *stored
	return nil
}

func (f fakeAttendanceRepo) GetByEventAndPerson(ctx context.Context, eventID, personID string) (*domain.Attendance, error) {
	if a := f.attendanceFor(eventID, personID); a != nil {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f fakeAttendanceRepo) FindStatusForPeople(ctx context.Context, organizationID, eventID string, personIDs []string) (map[string]domain.AttendanceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.AttendanceStatus)
	for _, id := range personIDs {
		if a, ok := f.attendance[attendanceKey(eventID, id)]; ok && a.OrganizationID == organizationID {
			out[id] = a.Status
		}
	}
	return out, nil
}

func (f fakeAttendanceRepo) DeleteAllForEvent(ctx context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, a := range f.attendance {
		if a.EventID == eventID {
			delete(f.attendance, k)
		}
	}
	f.ops = append(f.ops, "delete attendance")
	return nil
}

// fakePickupCodeRepo enforces the same two uniqueness rules as the database indexes.
type fakePickupCodeRepo struct {
	*memStore
	// codeExists overrides the existence check when set.
	codeExists func(code string) bool
	// beforeCreate runs before each insert, outside the lock.
	beforeCreate func(c *domain.PickupCode)
	redeemErr    error
}

func (f *fakePickupCodeRepo) Create(ctx context.Context, c *domain.PickupCode) error {
	if f.beforeCreate != nil {
		f.beforeCreate(c)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.codes {
		if existing.EventID != c.EventID {
			continue
		}
		if existing.Code == c.Code {
			return domain.ErrCodeTaken
		}
		if existing.YouthPersonID == c.YouthPersonID && !existing.Redeemed() {
			return domain.ErrActiveCodeExists
		}
	}
	c.ID = f.id("pc")
	cp := *c
	f.codes[c.ID] = &cp
	return nil
}

func (f *fakePickupCodeRepo) find(match func(*domain.PickupCode) bool) (*domain.PickupCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePickupCodeRepo) GetByID(ctx context.Context, id string) (*domain.PickupCode, error) {
	return f.find(func(c *domain.PickupCode) bool { return c.ID == id })
}

func (f *fakePickupCodeRepo) GetActiveByEventAndYouth(ctx context.Context, eventID, youthPersonID string) (*domain.PickupCode, error) {
	return f.find(func(c *domain.PickupCode) bool {
		return c.EventID == eventID && c.YouthPersonID == youthPersonID && !c.Redeemed()
	})
}

func (f *fakePickupCodeRepo) GetByEventAndCode(ctx context.Context, eventID, code string) (*domain.PickupCode, error) {
	return f.find(func(c *domain.PickupCode) bool { return c.EventID == eventID && c.Code == code })
}

func (f *fakePickupCodeRepo) CodeExistsInEvent(ctx context.Context, eventID, code string) (bool, error) {
	if f.codeExists != nil {
		return f.codeExists(code), nil
	}
	_, err := f.GetByEventAndCode(ctx, eventID, code)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakePickupCodeRepo) Redeem(ctx context.Context, id string, redeemedByAdultID *string, at time.Time) (*domain.PickupCode, *domain.Attendance, error) {
	if f.redeemErr != nil {
		return nil, nil, f.redeemErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	if c.Redeemed() {
		return nil, nil, domain.ErrAlreadyRedeemed
	}
	a, ok := f.attendance[attendanceKey(c.EventID, c.YouthPersonID)]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	c.RedeemedAt = &at
	c.RedeemedByAdultID = redeemedByAdultID
	a.Status = domain.StatusCheckedOut
	a.CheckOutAt = &at
	a.UpdatedAt = at
	codeCopy, attCopy := *c, *a
	return &codeCopy, &attCopy, nil
}

func (f *fakePickupCodeRepo) DeleteAllForEvent(ctx context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, c := range f.codes {
		if c.EventID == eventID {
			delete(f.codes, id)
		}
	}
	f.ops = append(f.ops, "delete pickup codes")
	return nil
}

type auditEntry struct {
	OrganizationID string
	Action         domain.AuditAction
	Details        any
}

type fakeAuditLog struct {
	mu      sync.Mutex
	entries []auditEntry
	err     error
}

func (f *fakeAuditLog) Record(ctx context.Context, organizationID string, action domain.AuditAction, details any) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{OrganizationID: organizationID, Action: action, Details: details})
	return nil
}

func (f *fakeAuditLog) actions() []domain.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.CheckoutNoticeEmailData
	err  error
}

func (f *fakeEmailService) SendCheckoutNotice(ctx context.Context, data *domain.CheckoutNoticeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// kiosk wires the check-in and checkout services to one memStore.
type kiosk struct {
	store    *memStore
	codes    *fakePickupCodeRepo
	audit    *fakeAuditLog
	email    *fakeEmailService
	events   domain.EventService
	checkIn  domain.CheckInService
	checkout domain.CheckoutService
}

func newKiosk() *kiosk {
	store := newMemStore()
	codes := &fakePickupCodeRepo{memStore: store}
	audit := &fakeAuditLog{}
	email := &fakeEmailService{}
	events := NewEventService(fakeEventRepo{store}, fakeAttendanceRepo{memStore: store}, codes, audit, testLogger, time.Second)
	return &kiosk{
		store:  store,
		codes:  codes,
		audit:  audit,
		email:  email,
		events: events,
		checkIn: NewCheckInService(fakePersonRepo{store}, fakeFamilyRepo{store}, fakeAttendanceRepo{memStore: store},
			codes, events, audit, testLogger, 10, time.Second),
		checkout: NewCheckoutService(codes, fakePersonRepo{store}, fakeFamilyRepo{store}, fakeEventRepo{store},
			email, audit, testLogger, time.Second),
	}
}
