package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *AppointmentGormRepository) FindPatient(
	ctx context.Context,
	identityKey string,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).
		Where("identity_key = ?", identityKey).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("repository: find patient: %w", err)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) FindPatientByEmail(
	ctx context.Context,
	email string,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("repository: find patient by email: %w", err)
	}
	return &p, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateBooking(
	ctx context.Context,
	patient *models.Patient,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patient != nil {
			if err := tx.Create(patient).Error; err != nil {
				if name, ok := httperr.UniqueConstraint(err); ok && strings.Contains(name, "email") {
					return domain.ErrEmailRegistered
				}
				if httperr.IsUniqueViolation(err) {
					return domain.ErrPatientExists
				}
				return fmt.Errorf("repository: create patient: %w", err)
			}
		}

		if err := tx.Create(ap).Error; err != nil {
			return fmt.Errorf("repository: create appointment: %w", err)
		}
		return nil
	})
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", appointmentID).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("repository: get appointment: %w", err)
	}
	return &ap, nil
}

// MarkCancelled só altera linhas ainda agendadas; um cancelamento
// concorrente não troca o status duas vezes.
func (r *AppointmentGormRepository) MarkCancelled(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(domain.StatusScheduled)).
		Updates(map[string]any{
			"status":       ap.Status,
			"cancelled_at": ap.CancelledAt,
		})
	if res.Error != nil {
		return fmt.Errorf("repository: cancel appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(domain.CodeInvalidState)
	}
	return nil
}

func (r *AppointmentGormRepository) ListFutureAppointments(
	ctx context.Context,
	identityKey string,
	fromDate string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"patient_key = ? AND status = ? AND date >= ?",
			identityKey, string(domain.StatusScheduled), fromDate,
		).
		Order("date ASC").
		Order("time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("repository: list appointments: %w", err)
	}

	return apps, nil
}

// checagem em tempo de compilação
var _ domain.Repository = (*AppointmentGormRepository)(nil)
