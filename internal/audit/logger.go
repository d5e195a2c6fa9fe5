package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	return l.write(context.Background(), ev)
}

// RecordOrphan grava de forma síncrona: a linha é a única referência do
// operador ao evento remoto.
func (l *Logger) RecordOrphan(ctx context.Context, o domain.Orphan) error {
	return l.write(ctx, Event{
		PatientKey: o.PatientKey,
		Action:     ActionPartialFailure,
		Entity:     EntityAppointment,
		EntityID:   o.AppointmentID,
		Metadata:   o,
	})
}

func (l *Logger) write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		PatientKey: ev.PatientKey,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

// checagem em tempo de compilação
var _ domain.OrphanRecorder = (*Logger)(nil)
