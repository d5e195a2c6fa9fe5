package appointment

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dateresolve"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// Repository
// ======================================================

type fakeRepo struct {
	mu           sync.Mutex
	patients     map[string]models.Patient
	appointments map[string]models.Appointment
	createErr    error
	cancelErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		patients:     map[string]models.Patient{},
		appointments: map[string]models.Appointment{},
	}
}

func (r *fakeRepo) FindPatient(_ context.Context, key string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *fakeRepo) FindPatientByEmail(_ context.Context, email string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) CreateBooking(_ context.Context, p *models.Patient, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if p != nil {
		if _, ok := r.patients[p.IdentityKey]; ok {
			return domain.ErrPatientExists
		}
		for _, other := range r.patients {
			if other.Email == p.Email {
				return domain.ErrEmailRegistered
			}
		}
		r.patients[p.IdentityKey] = *p
	}
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *fakeRepo) MarkCancelled(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelErr != nil {
		return r.cancelErr
	}
	cur, ok := r.appointments[ap.ID]
	if !ok || cur.Status != string(domain.StatusScheduled) {
		return httperr.ErrBusiness(domain.CodeInvalidState)
	}
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *fakeRepo) ListFutureAppointments(_ context.Context, key, from string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if ap.PatientKey == key && ap.Status == string(domain.StatusScheduled) && ap.Date >= from {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patients) + len(r.appointments)
}

// ======================================================
// Calendar
// ======================================================

type fakeCalendar struct {
	events    []calendar.Event
	listErr   error
	insertErr error
	deleteErr error

	listCalls int
	inserted  []calendar.NewEvent
	deleted   []string
}

func (c *fakeCalendar) ListEvents(_ context.Context, from, to time.Time) ([]calendar.Event, error) {
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []calendar.Event
	for _, ev := range c.events {
		if ev.Start.Before(to) && ev.End.After(from) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (c *fakeCalendar) InsertEvent(_ context.Context, ev calendar.NewEvent) (calendar.Created, error) {
	if c.insertErr != nil {
		return calendar.Created{}, c.insertErr
	}
	c.inserted = append(c.inserted, ev)
	id := "evt-" + ev.Start.Format("20060102T1504")
	c.events = append(c.events, calendar.Event{ID: id, Summary: ev.Summary, Start: ev.Start, End: ev.End})
	return calendar.Created{ID: id, HTMLLink: "https://calendar.example/" + id}, nil
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, id string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, id)
	return nil
}

// ======================================================
// Orphans / locks
// ======================================================

type fakeOrphans struct {
	got []domain.Orphan
}

func (f *fakeOrphans) RecordOrphan(_ context.Context, o domain.Orphan) error {
	f.got = append(f.got, o)
	return nil
}

type busyLocker struct{}

func (busyLocker) WithSlotLock(context.Context, string, func(context.Context) error) error {
	return domain.ErrSlotLocked
}

type recordingLocker struct {
	keys []string
}

func (l *recordingLocker) WithSlotLock(ctx context.Context, key string, fn func(context.Context) error) error {
	l.keys = append(l.keys, key)
	return fn(ctx)
}

// ======================================================
// Fixture
// ======================================================

// segunda-feira 2026-10-19, 09:00 em São Paulo
func testPolicy(t *testing.T) schedule.Policy {
	t.Helper()
	p := schedule.DefaultPolicy()
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, p.Location)
	p.Clock = func() time.Time { return now }
	return p
}

type fixture struct {
	policy  schedule.Policy
	repo    *fakeRepo
	cal     *fakeCalendar
	orphans *fakeOrphans
	avail   *GetAvailability
	book    *BookAppointment
	cancel  *CancelAppointment
	list    *ListUpcoming
	check   *CheckPatient
}

func newFixture(t *testing.T, opts BookOptions) *fixture {
	t.Helper()
	return newFixtureWithPolicy(t, opts, testPolicy(t))
}

func newFixtureWithPolicy(t *testing.T, opts BookOptions, policy schedule.Policy) *fixture {
	t.Helper()

	f := &fixture{
		policy:  policy,
		repo:    newFakeRepo(),
		cal:     &fakeCalendar{},
		orphans: &fakeOrphans{},
	}
	log := logging.Discard()

	f.avail = NewGetAvailability(f.cal, f.policy, dateresolve.New(f.policy.Location), log, nil)
	f.book = NewBookAppointment(BookAppointmentDeps{
		Repo:         f.repo,
		Calendar:     f.cal,
		Availability: f.avail,
		Orphans:      []domain.OrphanRecorder{f.orphans},
		Log:          log,
	}, opts)
	f.cancel = NewCancelAppointment(f.repo, f.cal, f.policy, nil, log, nil, true)
	f.list = NewListUpcoming(f.repo, f.policy)
	f.check = NewCheckPatient(f.repo)
	return f
}

func (f *fixture) at(t *testing.T, date, hm string) time.Time {
	t.Helper()
	ts, err := f.policy.ParseDateTime(date, hm)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func (f *fixture) registerPatient(key, name, email string) {
	f.repo.patients[key] = models.Patient{IdentityKey: key, FullName: name, Email: email, RegisteredOn: "2026-10-01"}
}
