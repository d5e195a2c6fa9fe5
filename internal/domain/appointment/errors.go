package appointment

import (
	"errors"
	"fmt"
)

// Códigos de negócio expostos à camada de diálogo.
const (
	CodePatientNotFound     = "patient_not_found"
	CodePatientExists       = "patient_already_registered"
	CodeEmailRegistered     = "email_already_registered"
	CodeAppointmentNotFound = "appointment_not_found"
	CodeInvalidState        = "invalid_state"
	CodeInvalidDateOrTime   = "invalid_date_or_time"
	CodeSlotUnavailable     = "slot_unavailable"
	CodeBirthDateRequired   = "birth_date_required"
	CodeMissingContact      = "missing_contact"
	CodeInvalidIdentity     = "invalid_identity"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrPatientExists = errors.New("patient already registered")

	// ErrEmailRegistered: o e-mail já pertence a outro CPF cadastrado.
	ErrEmailRegistered = errors.New("email already registered")

	// ErrCalendarUnavailable esconde qualquer falha da agenda remota
	// (autenticação, rede, cota, payload) atrás de uma única condição.
	ErrCalendarUnavailable = errors.New("calendar access failed")

	// ErrSlotLocked: outra reserva do mesmo horário está em andamento.
	ErrSlotLocked = errors.New("slot is being booked by another request")
)

// PartialFailureError: o evento foi criado na agenda mas os registros locais
// não foram gravados. EventID é o que o operador precisa para conciliar.
type PartialFailureError struct {
	EventID       string
	AppointmentID string
	Err           error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("booking partially failed: calendar event %s exists but was not recorded: %v", e.EventID, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
