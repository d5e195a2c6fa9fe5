package models

import "time"

// Patient tem como chave o CPF normalizado (só dígitos).
type Patient struct {
	IdentityKey string `gorm:"primaryKey;size:20" json:"identity_key"`

	FullName  string     `gorm:"size:150;not null;index" json:"full_name"`
	Email     string     `gorm:"size:150;uniqueIndex" json:"email"`
	Phone     string     `gorm:"size:30" json:"phone"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`

	RegisteredOn string `gorm:"size:10;not null" json:"registered_on"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
