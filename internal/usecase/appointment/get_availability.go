package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/dateresolve"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

type GetAvailability struct {
	cal      calendar.Calendar
	policy   schedule.Policy
	resolver *dateresolve.Resolver
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewGetAvailability(
	cal calendar.Calendar,
	policy schedule.Policy,
	resolver *dateresolve.Resolver,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) *GetAvailability {
	return &GetAvailability{
		cal:      cal,
		policy:   policy,
		resolver: resolver,
		log:      orDiscard(log),
		metrics:  m,
	}
}

func (uc *GetAvailability) Policy() schedule.Policy {
	return uc.policy
}

// Execute resolve a frase de data em texto livre e lista os horários livres.
// Frase ilegível volta como aviso, nunca como erro.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	phrase string,
) (*schedule.Availability, error) {

	date, err := uc.resolver.Resolve(phrase, uc.policy.Now())
	if err != nil {
		if errors.Is(err, dateresolve.ErrUnresolved) {
			return &schedule.Availability{Notice: schedule.UnresolvedNotice(phrase)}, nil
		}
		return nil, err
	}

	return uc.FreeSlots(ctx, date)
}

func (uc *GetAvailability) FreeSlots(
	ctx context.Context,
	date time.Time,
) (*schedule.Availability, error) {

	date = uc.policy.Date(date)

	// --------------------------------------------------
	// Dia agendável?
	// --------------------------------------------------
	if err := uc.policy.CheckDay(date); err != nil {
		var rej *schedule.DayRejection
		if errors.As(err, &rej) {
			return &schedule.Availability{Date: date, Notice: schedule.RejectionNotice(rej)}, nil
		}
		return nil, err
	}

	// --------------------------------------------------
	// Agenda x horários candidatos
	// --------------------------------------------------
	free, err := uc.freeIntervals(ctx, date)
	if err != nil {
		return nil, err
	}

	out := &schedule.Availability{Date: date, Slots: schedule.FormatSlots(free)}
	if len(out.Slots) == 0 {
		out.Notice = schedule.NoSlotsNotice(date)
	}
	return out, nil
}

// freeIntervals busca na agenda a janela de atendimento de date e tira dos
// candidatos todo intervalo ocupado.
func (uc *GetAvailability) freeIntervals(
	ctx context.Context,
	date time.Time,
) ([]schedule.Interval, error) {

	window := uc.policy.Window(date)

	events, err := uc.cal.ListEvents(ctx, window.Start, window.End)
	if err != nil {
		uc.log.WithError(err).
			WithField("date", date.Format(schedule.DateLayout)).
			Error("calendar list events failed")
		uc.metrics.ObserveCalendarFailure("list")
		return nil, domain.ErrCalendarUnavailable
	}

	return schedule.FreeSlots(
		uc.policy.CandidateSlots(date),
		schedule.BusyIntervals(events, window),
	), nil
}
