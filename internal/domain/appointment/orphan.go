package appointment

import (
	"context"
	"time"
)

// Orphan descreve um evento da agenda que ficou sem consulta local.
type Orphan struct {
	EventID       string    `json:"event_id"`
	HTMLLink      string    `json:"html_link,omitempty"`
	AppointmentID string    `json:"appointment_id"`
	PatientKey    string    `json:"patient_key"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// OrphanRecorder guarda órfãos onde o operador consiga conciliá-los.
type OrphanRecorder interface {
	RecordOrphan(ctx context.Context, o Orphan) error
}
