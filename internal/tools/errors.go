package tools

import (
	"errors"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	codePartialFailure   = "partial_failure"
	codeInvalidArguments = "invalid_arguments"
	codeUnknownTool      = "unknown_tool"
	codeCalendar         = "calendar_unavailable"
	codeInternal         = "internal_error"
)

const (
	msgCalendar = "Ocorreu um erro interno ao acessar a agenda."
	msgInternal = "Ocorreu um erro interno."
	msgPartial  = "A consulta foi criada na agenda, mas não pôde ser registrada no sistema. A equipe da clínica fará a conferência."
)

// códigos que o paciente pode corrigir; o resto é erro
var infoCodes = map[string]string{
	domain.CodePatientNotFound:   "Paciente não encontrado.",
	domain.CodeSlotUnavailable:   "Este horário não está mais disponível. Por favor, escolha outro.",
	domain.CodeInvalidDateOrTime: "Data ou horário inválido. Use um dos horários oferecidos.",
	domain.CodeBirthDateRequired: "A data de nascimento é obrigatória para o cadastro.",
	domain.CodeMissingContact:    "Nome e e-mail são obrigatórios para o cadastro.",
	domain.CodeInvalidIdentity:   "CPF inválido. Informe apenas os números do documento.",
	domain.CodeEmailRegistered:   "Este e-mail já está cadastrado para outro paciente. Informe outro e-mail.",
}

var errorCodes = map[string]string{
	domain.CodeAppointmentNotFound: "ID da consulta não encontrado.",
	domain.CodeInvalidState:        "Esta consulta já foi cancelada.",
	domain.CodePatientExists:       "Este CPF já está cadastrado. Agende uma consulta de retorno.",
}

// fromError converte o erro do use case no formato fechado de resultado.
// O segundo retorno é false para falhas que o dispatcher deve logar.
func fromError(err error) (Result, bool) {
	var rej *schedule.DayRejection
	if errors.As(err, &rej) {
		return Info(rej.Error(), map[string]any{"reason": string(rej.Reason)}), true
	}

	// antes da causa embrulhada: o evento existe de qualquer forma
	var pf *domain.PartialFailureError
	if errors.As(err, &pf) {
		return Error(msgPartial, map[string]any{
			"error_code":      codePartialFailure,
			"remote_event_id": pf.EventID,
			"appointment_id":  pf.AppointmentID,
		}), false
	}

	switch {
	case errors.Is(err, domain.ErrCalendarUnavailable):
		return Error(msgCalendar, map[string]any{"error_code": codeCalendar}), true
	case errors.Is(err, domain.ErrPatientExists):
		return businessResult(domain.CodePatientExists), true
	case errors.Is(err, domain.ErrEmailRegistered):
		return businessResult(domain.CodeEmailRegistered), true
	}

	if code, ok := httperr.BusinessCode(err); ok {
		return businessResult(code), true
	}

	return Error(msgInternal, map[string]any{"error_code": codeInternal}), false
}

func businessResult(code string) Result {
	fields := map[string]any{"error_code": code}
	if msg, ok := infoCodes[code]; ok {
		return Info(msg, fields)
	}
	if msg, ok := errorCodes[code]; ok {
		return Error(msg, fields)
	}
	return Error(code, fields)
}
