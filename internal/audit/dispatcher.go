package audit

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// ações gravadas pelo fluxo de agendamento
const (
	ActionAppointmentBooked    = "appointment_booked"
	ActionAppointmentCancelled = "appointment_cancelled"
	ActionPartialFailure       = "booking_partial_failure"
)

const EntityAppointment = "appointment"

type Event struct {
	PatientKey string
	Action     string
	Entity     string
	EntityID   string
	Metadata   any
}

type Dispatcher struct {
	logger *Logger
	log    logrus.FieldLogger
	queue  chan Event
	wg     sync.WaitGroup
}

func NewDispatcher(logger *Logger, log logrus.FieldLogger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		if err := d.logger.Log(ev); err != nil {
			d.log.WithError(err).WithField("action", ev.Action).Error("audit write failed")
		}
	}
}

// Dispatch nunca bloqueia quem chama; fila cheia descarta o evento.
// Dispatcher nil ignora tudo.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close esvazia a fila. Dispatch não pode ser chamado depois.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	close(d.queue)
	d.wg.Wait()
}
