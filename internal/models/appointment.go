package models

import "time"

type Appointment struct {
	ID string `gorm:"primaryKey;size:80" json:"id"`

	PatientKey string `gorm:"size:20;not null;index" json:"patient_key"`

	// EventID aponta para o evento na agenda do profissional.
	EventID string `gorm:"size:255;uniqueIndex" json:"event_id"`

	Date string `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	Time string `gorm:"size:5;not null" json:"time"`        // HH:MM

	Status string `gorm:"size:20;not null;index" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
