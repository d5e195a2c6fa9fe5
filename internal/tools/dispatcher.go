package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	uc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// UseCases são as operações por trás das ferramentas.
type UseCases struct {
	CheckPatient *uc.CheckPatient
	Availability *uc.GetAvailability
	Book         *uc.BookAppointment
	ListUpcoming *uc.ListUpcoming
	Cancel       *uc.CancelAppointment
}

type Dispatcher struct {
	uc        UseCases
	validator *validators.Validator
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
}

func NewDispatcher(
	useCases UseCases,
	validator *validators.Validator,
	log logrus.FieldLogger,
	m *metrics.Metrics,
) *Dispatcher {
	return &Dispatcher{
		uc:        useCases,
		validator: validator,
		log:       log,
		metrics:   m,
	}
}

// CallNamed procura name no conjunto fechado antes de despachar.
func (d *Dispatcher) CallNamed(ctx context.Context, name string, args []byte) Result {
	n, ok := ParseName(name)
	if !ok {
		d.metrics.ObserveToolCall("unknown", "error")
		return Error("Ferramenta desconhecida: "+name, map[string]any{"error_code": codeUnknownTool})
	}
	return d.Call(ctx, n, args)
}

func (d *Dispatcher) Call(ctx context.Context, name Name, args []byte) Result {
	var res Result

	switch name {
	case CheckPatient:
		res = d.checkPatient(ctx, args)
	case ListAvailableSlots:
		res = d.listSlots(ctx, args)
	case RegisterAndBook:
		res = d.registerAndBook(ctx, args)
	case BookFollowup:
		res = d.bookFollowup(ctx, args)
	case ListUpcoming:
		res = d.listUpcoming(ctx, args)
	case CancelAppointment:
		res = d.cancel(ctx, args)
	default:
		res = Error("Ferramenta desconhecida.", map[string]any{"error_code": codeUnknownTool})
	}

	d.metrics.ObserveToolCall(name.String(), res.Outcome())
	return res
}

// ======================================================
// Tools
// ======================================================

func (d *Dispatcher) checkPatient(ctx context.Context, raw []byte) Result {
	var in checkPatientArgs
	if res, ok := d.decode(ctx, raw, &in); !ok {
		return res
	}

	st, err := d.uc.CheckPatient.Execute(ctx, in.CPF)
	if err != nil {
		return d.failure(CheckPatient, err)
	}

	out := map[string]any{"found": st.Found}
	if st.Found {
		out["name"] = st.Name
	}
	return OK(out)
}

func (d *Dispatcher) listSlots(ctx context.Context, raw []byte) Result {
	var in listSlotsArgs
	if res, ok := d.decode(ctx, raw, &in); !ok {
		return res
	}

	av, err := d.uc.Availability.Execute(ctx, in.Date)
	if err != nil {
		return d.failure(ListAvailableSlots, err)
	}

	if av.Notice != nil {
		fields := map[string]any{"reason": string(av.Notice.Reason)}
		if date := av.DateString(); date != "" {
			fields["date"] = date
		}
		return Info(av.Notice.Message, fields)
	}

	return OK(map[string]any{
		"slots": av.Slots,
		"date":  av.DateString(),
	})
}

func (d *Dispatcher) registerAndBook(ctx context.Context, raw []byte) Result {
	var in registerAndBookArgs
	if res, ok := d.decode(ctx, raw, &in); !ok {
		return res.WithStatus()
	}

	return d.book(ctx, RegisterAndBook, uc.BookInput{
		Identity: in.CPF,
		Date:     in.Date,
		Time:     in.Time,
		Notes:    in.Notes,
		NewPatient: &uc.NewPatient{
			FullName:  in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			BirthDate: in.BirthDate,
		},
	})
}

func (d *Dispatcher) bookFollowup(ctx context.Context, raw []byte) Result {
	var in bookFollowupArgs
	if res, ok := d.decode(ctx, raw, &in); !ok {
		return res.WithStatus()
	}

	return d.book(ctx, BookFollowup, uc.BookInput{
		Identity: in.CPF,
		Date:     in.Date,
		Time:     in.Time,
		Notes:    in.Notes,
	})
}

func (d *Dispatcher) book(ctx context.Context, name Name, in uc.BookInput) Result {
	res, err := d.uc.Book.Execute(ctx, in)
	if err != nil {
		return d.failure(name, err).WithStatus()
	}

	out := map[string]any{
		"appointment_id": res.Appointment.ID,
		"date":           res.Appointment.Date,
		"time":           res.Appointment.Time,
	}
	if res.HTMLLink != "" {
		out["html_link"] = res.HTMLLink
	}
	return OK(out).WithStatus()
}

func (d *Dispatcher) listUpcoming(ctx context.Context, raw []byte) Result {
	var in listUpcomingArgs
	if res, ok := d.decode(ctx, raw, &in); !ok {
		return res
	}

	apps, err := d.uc.ListUpcoming.Execute(ctx, in.CPF)
	if err != nil {
		return d.failure(ListUpcoming, err)
	}
	if len(apps) == 0 {
		return Info("Nenhuma consulta futura agendada foi encontrada.", nil)
	}

	return OK(map[string]any{"appointments": appointmentViews(apps)})
}

func (d *Dispatcher) cancel(ctx context.Context, raw []byte) Result {
	var in cancelArgs
	if res, ok := d.decode(ctx, raw, &in); !ok {
		return res.WithStatus()
	}
	if d.uc.Cancel.RequiresOwner() && strings.TrimSpace(in.CPF) == "" {
		return invalidArguments(map[string]string{"cpf": "cpf is required"}).WithStatus()
	}

	ap, err := d.uc.Cancel.Execute(ctx, uc.CancelInput{
		AppointmentID: in.AppointmentID,
		Identity:      in.CPF,
	})
	if err != nil {
		return d.failure(CancelAppointment, err).WithStatus()
	}

	return OK(map[string]any{"appointment_id": ap.ID}).WithStatus()
}

// ======================================================
// Helpers
// ======================================================

// decode faz unmarshal e valida args. Argumento malformado é a camada de
// diálogo que corrige, por isso volta como info.
func (d *Dispatcher) decode(ctx context.Context, raw []byte, dst any) (Result, bool) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return Info("Argumentos inválidos.", map[string]any{"error_code": codeInvalidArguments}), false
	}
	if err := d.validator.Validate(ctx, dst); err != nil {
		return invalidArguments(validators.FormatErrors(err)), false
	}
	return Result{}, true
}

func invalidArguments(fields map[string]string) Result {
	return Info("Argumentos inválidos.", map[string]any{
		"error_code": codeInvalidArguments,
		"fields":     fields,
	})
}

func (d *Dispatcher) failure(name Name, err error) Result {
	res, expected := fromError(err)
	if !expected {
		d.log.WithError(err).WithField("tool", name.String()).Error("tool call failed")
	}
	return res
}

type appointmentView struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

func appointmentViews(apps []models.Appointment) []appointmentView {
	out := make([]appointmentView, 0, len(apps))
	for _, ap := range apps {
		out = append(out, appointmentView{
			ID:     ap.ID,
			Date:   ap.Date,
			Time:   ap.Time,
			Status: ap.Status,
		})
	}
	return out
}
