package tools

type checkPatientArgs struct {
	CPF string `json:"cpf" validate:"required"`
}

type listSlotsArgs struct {
	// texto livre: "amanhã", "sexta-feira", "21/10/2026", "2026-10-21"...
	Date string `json:"date" validate:"required"`
}

type registerAndBookArgs struct {
	CPF       string `json:"cpf" validate:"required"`
	Name      string `json:"name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,email_domain"`
	Phone     string `json:"phone" validate:"required,max=30"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"required,datetime=15:04"`
	Notes     string `json:"notes" validate:"max=255"`
}

type bookFollowupArgs struct {
	CPF   string `json:"cpf" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
	Notes string `json:"notes" validate:"max=255"`
}

type listUpcomingArgs struct {
	CPF string `json:"cpf" validate:"required"`
}

type cancelArgs struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
	CPF           string `json:"cpf"`
}
