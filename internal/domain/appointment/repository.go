package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Repository é o armazenamento local de pacientes e consultas.
type Repository interface {
	// -------- Patient --------
	FindPatient(
		ctx context.Context,
		identityKey string,
	) (*models.Patient, error)

	// e-mail já normalizado (minúsculo, sem espaços)
	FindPatientByEmail(
		ctx context.Context,
		email string,
	) (*models.Patient, error)

	// -------- Booking (patient + appointment, one transaction) --------
	// CreateBooking grava ap e, quando patient não é nil, o novo paciente
	// junto. Ou as duas linhas são gravadas ou nenhuma.
	CreateBooking(
		ctx context.Context,
		patient *models.Patient,
		ap *models.Appointment,
	) error

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	MarkCancelled(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ListFutureAppointments devolve as consultas agendadas a partir de
	// fromDate, em ordem crescente de data e horário.
	ListFutureAppointments(
		ctx context.Context,
		identityKey string,
		fromDate string,
	) ([]models.Appointment, error)
}

// SlotLocker serializa reservas do mesmo horário entre processos.
type SlotLocker interface {
	WithSlotLock(ctx context.Context, slotKey string, fn func(ctx context.Context) error) error
}
