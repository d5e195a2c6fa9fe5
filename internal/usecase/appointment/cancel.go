package appointment

import (
	"context"
	"errors"

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

type CancelInput struct {
	AppointmentID string
	// Identity precisa ser o dono da consulta quando a posse é exigida.
	Identity string
}

type CancelAppointment struct {
	repo         domain.Repository
	cal          calendar.Calendar
	policy       schedule.Policy
	audit        *audit.Dispatcher
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
	requireOwner bool
}

func NewCancelAppointment(
	repo domain.Repository,
	cal calendar.Calendar,
	policy schedule.Policy,
	audit *audit.Dispatcher,
	log logrus.FieldLogger,
	m *metrics.Metrics,
	requireOwner bool,
) *CancelAppointment {
	return &CancelAppointment{
		repo:         repo,
		cal:          cal,
		policy:       policy,
		audit:        audit,
		log:          orDiscard(log),
		metrics:      m,
		requireOwner: requireOwner,
	}
}

func (uc *CancelAppointment) RequiresOwner() bool {
	return uc.requireOwner
}

// Execute remove o evento da agenda e depois troca o status local. Evento que
// já não existe na agenda conta como removido.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeAppointmentNotFound)
		}
		return nil, err
	}

	// consulta de outro paciente responde igual a uma inexistente
	if uc.requireOwner && patient.NormalizeKey(in.Identity) != ap.PatientKey {
		return nil, httperr.ErrBusiness(domain.CodeAppointmentNotFound)
	}

	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Evento remoto
	// --------------------------------------------------
	if ap.EventID != "" {
		err := uc.cal.DeleteEvent(ctx, ap.EventID)
		switch {
		case err == nil:
		case errors.Is(err, calendar.ErrEventNotFound):
			uc.log.WithFields(logrus.Fields{
				"appointment_id": ap.ID,
				"event_id":       ap.EventID,
			}).Info("calendar event already gone")
		default:
			uc.log.WithError(err).WithField("appointment_id", ap.ID).
				Error("calendar delete event failed")
			uc.metrics.ObserveCalendarFailure("delete")
			return nil, domain.ErrCalendarUnavailable
		}
	}

	// --------------------------------------------------
	// Status local
	// --------------------------------------------------
	if err := domain.Cancel(ap, uc.policy.Now()); err != nil {
		return nil, err
	}
	if err := uc.repo.MarkCancelled(ctx, ap); err != nil {
		// outro cancelamento gravou primeiro; o evento remoto já foi removido
		if httperr.IsBusiness(err, domain.CodeInvalidState) {
			uc.log.WithFields(logrus.Fields{
				"appointment_id": ap.ID,
				"event_id":       ap.EventID,
			}).Warn("appointment cancelled concurrently")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PatientKey: ap.PatientKey,
		Action:     audit.ActionAppointmentCancelled,
		Entity:     audit.EntityAppointment,
		EntityID:   ap.ID,
		Metadata: map[string]any{
			"date":     ap.Date,
			"time":     ap.Time,
			"event_id": ap.EventID,
		},
	})

	return ap, nil
}
