package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/patient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type NewPatient struct {
	FullName  string
	Email     string
	Phone     string
	BirthDate string // YYYY-MM-DD, opcional salvo exigência da config
}

type BookInput struct {
	Identity string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM

	// NewPatient preenchido = primeira consulta; nil = retorno de paciente
	// já cadastrado.
	NewPatient *NewPatient
	Notes      string
}

// slotRef é a data e o horário já normalizados de uma reserva.
type slotRef struct {
	date string
	hm   string
}

type BookResult struct {
	Appointment *models.Appointment
	HTMLLink    string
	Patient     *models.Patient
	FirstVisit  bool
}

type BookOptions struct {
	// RecheckSlot consulta a agenda de novo logo antes de inserir e recusa a
	// reserva se o horário foi ocupado nesse meio tempo.
	RecheckSlot      bool
	RequireBirthDate bool
}

type BookAppointmentDeps struct {
	Repo         domain.Repository
	Calendar     calendar.Calendar
	Availability *GetAvailability
	Locker       domain.SlotLocker       // opcional
	Orphans      []domain.OrphanRecorder // opcional
	Audit        *audit.Dispatcher       // opcional
	Log          logrus.FieldLogger
	Metrics      *metrics.Metrics
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo    domain.Repository
	cal     calendar.Calendar
	avail   *GetAvailability
	policy  schedule.Policy
	locker  domain.SlotLocker
	orphans []domain.OrphanRecorder
	audit   *audit.Dispatcher
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	opts    BookOptions
}

func NewBookAppointment(deps BookAppointmentDeps, opts BookOptions) *BookAppointment {
	return &BookAppointment{
		repo:    deps.Repo,
		cal:     deps.Calendar,
		avail:   deps.Availability,
		policy:  deps.Availability.Policy(),
		locker:  deps.Locker,
		orphans: deps.Orphans,
		audit:   deps.Audit,
		log:     orDiscard(deps.Log),
		metrics: deps.Metrics,
		opts:    opts,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute cria primeiro o evento na agenda e depois os registros locais.
//
// Falha na agenda não toca o banco. Falha no banco depois do evento criado
// gera *domain.PartialFailureError e um registro de órfão.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*BookResult, error) {

	// CPF vazio ou maior que a coluna: recusa antes de qualquer escrita remota
	key := patient.NormalizeKey(in.Identity)
	if !patient.ValidKey(key) {
		return nil, httperr.ErrBusiness(domain.CodeInvalidIdentity)
	}

	// --------------------------------------------------
	// 1️⃣ Data / horário no timezone da clínica
	// --------------------------------------------------
	start, err := uc.policy.ParseDateTime(in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}

	// forma canônica ("8:00" → "08:00") para gravação, ordenação e lock
	slot := slotRef{
		date: start.Format(schedule.DateLayout),
		hm:   start.Format(schedule.TimeLayout),
	}
	if err := uc.policy.CheckDay(start); err != nil {
		uc.metrics.ObserveBooking("rejected")
		return nil, err
	}
	if !uc.policy.IsCandidate(start) {
		uc.metrics.ObserveBooking("rejected")
		return nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
	}
	if start.Before(uc.policy.Now()) {
		uc.metrics.ObserveBooking("rejected")
		return nil, httperr.ErrBusiness(domain.CodeSlotUnavailable)
	}

	// --------------------------------------------------
	// 2️⃣ Paciente (novo é montado, não persistido)
	// --------------------------------------------------
	p, newPatient, err := uc.resolvePatient(ctx, key, in.NewPatient)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Reserva sob o lock do horário, se houver
	// --------------------------------------------------
	var res *BookResult
	reserve := func(ctx context.Context) error {
		var err error
		res, err = uc.reserve(ctx, p, newPatient, start, slot, in.Notes)
		return err
	}

	if uc.locker != nil {
		err = uc.locker.WithSlotLock(ctx, domain.SlotKey(slot.date, slot.hm), reserve)
		if errors.Is(err, domain.ErrSlotLocked) {
			uc.metrics.ObserveBooking("rejected")
			return nil, httperr.ErrBusiness(domain.CodeSlotUnavailable)
		}
	} else {
		err = reserve(ctx)
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (uc *BookAppointment) resolvePatient(
	ctx context.Context,
	key string,
	np *NewPatient,
) (*models.Patient, *models.Patient, error) {

	existing, err := uc.repo.FindPatient(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}

	// retorno
	if np == nil {
		if existing == nil {
			return nil, nil, httperr.ErrBusiness(domain.CodePatientNotFound)
		}
		return existing, nil, nil
	}

	// primeira consulta
	if existing != nil {
		return nil, nil, domain.ErrPatientExists
	}

	name := patient.DisplayName(np.FullName)
	email := strings.ToLower(strings.TrimSpace(np.Email))
	if name == "" || email == "" {
		return nil, nil, httperr.ErrBusiness(domain.CodeMissingContact)
	}

	// e-mail é único: checa antes de criar o evento remoto
	owner, err := uc.repo.FindPatientByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	if owner != nil {
		return nil, nil, domain.ErrEmailRegistered
	}

	p := &models.Patient{
		IdentityKey:  key,
		FullName:     name,
		Email:        email,
		Phone:        strings.TrimSpace(np.Phone),
		RegisteredOn: uc.policy.Today().Format(schedule.DateLayout),
	}

	switch {
	case np.BirthDate != "":
		bd, err := uc.policy.ParseDate(np.BirthDate)
		if err != nil {
			return nil, nil, httperr.ErrBusiness(domain.CodeInvalidDateOrTime)
		}
		p.BirthDate = &bd
	case uc.opts.RequireBirthDate:
		return nil, nil, httperr.ErrBusiness(domain.CodeBirthDateRequired)
	}

	return p, p, nil
}

func (uc *BookAppointment) reserve(
	ctx context.Context,
	p *models.Patient,
	newPatient *models.Patient,
	start time.Time,
	slot slotRef,
	notes string,
) (*BookResult, error) {

	if uc.opts.RecheckSlot {
		free, err := uc.avail.freeIntervals(ctx, start)
		if err != nil {
			uc.metrics.ObserveBooking("calendar_failed")
			return nil, err
		}
		if !containsStart(free, start) {
			uc.metrics.ObserveBooking("rejected")
			return nil, httperr.ErrBusiness(domain.CodeSlotUnavailable)
		}
	}

	// --------------------------------------------------
	// Evento remoto
	// --------------------------------------------------
	created, err := uc.cal.InsertEvent(ctx, eventFor(p, newPatient != nil, start, uc.policy.SlotDuration))
	if err != nil {
		uc.log.WithError(err).WithFields(logrus.Fields{
			"patient_key": p.IdentityKey,
			"date":        slot.date,
			"time":        slot.hm,
		}).Error("calendar insert event failed")
		uc.metrics.ObserveCalendarFailure("insert")
		uc.metrics.ObserveBooking("calendar_failed")
		return nil, domain.ErrCalendarUnavailable
	}

	// --------------------------------------------------
	// Registros locais, uma transação
	// --------------------------------------------------
	now := uc.policy.Now()
	ap := &models.Appointment{
		ID:         domain.NewID(now, p.IdentityKey),
		PatientKey: p.IdentityKey,
		EventID:    created.ID,
		Date:       slot.date,
		Time:       slot.hm,
		Status:     string(domain.InitialStatus()),
		Notes:      strings.TrimSpace(notes),
	}

	if err := uc.repo.CreateBooking(ctx, newPatient, ap); err != nil {
		uc.recordOrphan(ctx, domain.Orphan{
			EventID:       created.ID,
			HTMLLink:      created.HTMLLink,
			AppointmentID: ap.ID,
			PatientKey:    ap.PatientKey,
			Date:          ap.Date,
			Time:          ap.Time,
			Reason:        err.Error(),
			OccurredAt:    now,
		})
		uc.metrics.ObserveBooking("partial_failure")
		return nil, &domain.PartialFailureError{
			EventID:       created.ID,
			AppointmentID: ap.ID,
			Err:           err,
		}
	}

	uc.metrics.ObserveBooking("booked")
	uc.audit.Dispatch(audit.Event{
		PatientKey: ap.PatientKey,
		Action:     audit.ActionAppointmentBooked,
		Entity:     audit.EntityAppointment,
		EntityID:   ap.ID,
		Metadata: map[string]any{
			"date":        ap.Date,
			"time":        ap.Time,
			"event_id":    ap.EventID,
			"first_visit": newPatient != nil,
		},
	})

	return &BookResult{
		Appointment: ap,
		HTMLLink:    created.HTMLLink,
		Patient:     p,
		FirstVisit:  newPatient != nil,
	}, nil
}

// recordOrphan sobrevive ao cancelamento do contexto da requisição: o evento já existe.
func (uc *BookAppointment) recordOrphan(ctx context.Context, o domain.Orphan) {
	ctx = context.WithoutCancel(ctx)

	entry := uc.log.WithFields(logrus.Fields{
		"event_id":       o.EventID,
		"appointment_id": o.AppointmentID,
		"patient_key":    o.PatientKey,
	})
	entry.WithField("reason", o.Reason).Error("booking partially failed: calendar event not recorded")

	for _, rec := range uc.orphans {
		if err := rec.RecordOrphan(ctx, o); err != nil {
			entry.WithError(err).Error("orphan record failed")
		}
	}
}

// ======================================================
// Helpers
// ======================================================

func eventFor(p *models.Patient, firstVisit bool, start time.Time, d time.Duration) calendar.NewEvent {
	ev := calendar.NewEvent{
		Start: start,
		End:   start.Add(d),
	}
	if p.Email != "" {
		ev.Attendees = []string{p.Email}
	}

	if firstVisit {
		ev.Summary = fmt.Sprintf("Consulta - %s", p.FullName)
		ev.Description = fmt.Sprintf("1ª Consulta: %s\nCPF: %s", p.FullName, p.IdentityKey)
	} else {
		ev.Summary = fmt.Sprintf("Consulta - %s (Retorno)", p.FullName)
		ev.Description = fmt.Sprintf("Paciente: %s\nCPF: %s", p.FullName, p.IdentityKey)
	}
	return ev
}

func containsStart(slots []schedule.Interval, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}
