package tools

import "github.com/openai/openai-go"

// ============================================================================
// Tool schemas
// ============================================================================

var cpfParam = map[string]any{
	"type":        "string",
	"description": "CPF do paciente, com ou sem pontuação (ex: 123.456.789-00)",
}

var dateParam = map[string]any{
	"type":        "string",
	"description": "Data da consulta no formato AAAA-MM-DD, exatamente como confirmada por list_available_slots",
}

var timeParam = map[string]any{
	"type":        "string",
	"description": "Horário de início no formato HH:MM, um dos horários retornados por list_available_slots",
}

var notesParam = map[string]any{
	"type":        "string",
	"description": "Observações opcionais sobre a consulta",
}

// definitions é indexado por Name; toda ferramenta precisa de entrada.
var definitions = [numNames]openai.ChatCompletionToolParam{
	CheckPatient: {
		Function: openai.FunctionDefinitionParam{
			Name:        CheckPatient.String(),
			Description: openai.String("Verifica se um paciente já está cadastrado usando o CPF."),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{"cpf": cpfParam},
				"required":   []string{"cpf"},
			},
		},
	},
	ListAvailableSlots: {
		Function: openai.FunctionDefinitionParam{
			Name:        ListAvailableSlots.String(),
			Description: openai.String("Busca horários de consulta livres em uma data. Aceita datas em texto livre (ex: 'amanhã', 'sexta-feira', '21/10')."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"date": map[string]any{
						"type":        "string",
						"description": "Data desejada, em texto livre ou AAAA-MM-DD",
					},
				},
				"required": []string{"date"},
			},
		},
	},
	RegisterAndBook: {
		Function: openai.FunctionDefinitionParam{
			Name:        RegisterAndBook.String(),
			Description: openai.String("Cadastra um NOVO paciente e agenda sua primeira consulta."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"cpf":   cpfParam,
					"name":  map[string]any{"type": "string", "description": "Nome completo do paciente"},
					"email": map[string]any{"type": "string", "description": "E-mail do paciente (recebe o convite da consulta)"},
					"phone": map[string]any{"type": "string", "description": "Telefone com DDD"},
					"birth_date": map[string]any{
						"type":        "string",
						"description": "Data de nascimento AAAA-MM-DD",
					},
					"date":  dateParam,
					"time":  timeParam,
					"notes": notesParam,
				},
				"required": []string{"cpf", "name", "email", "phone", "date", "time"},
			},
		},
	},
	BookFollowup: {
		Function: openai.FunctionDefinitionParam{
			Name:        BookFollowup.String(),
			Description: openai.String("Agenda uma nova consulta (retorno) para um paciente EXISTENTE."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"cpf":   cpfParam,
					"date":  dateParam,
					"time":  timeParam,
					"notes": notesParam,
				},
				"required": []string{"cpf", "date", "time"},
			},
		},
	},
	ListUpcoming: {
		Function: openai.FunctionDefinitionParam{
			Name:        ListUpcoming.String(),
			Description: openai.String("Lista as consultas futuras e agendadas de um paciente pelo CPF."),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{"cpf": cpfParam},
				"required":   []string{"cpf"},
			},
		},
	},
	CancelAppointment: {
		Function: openai.FunctionDefinitionParam{
			Name:        CancelAppointment.String(),
			Description: openai.String("Cancela uma consulta pelo seu 'appointment_id'. O CPF do titular confirma a identidade."),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"appointment_id": map[string]any{
						"type":        "string",
						"description": "ID da consulta, como retornado por list_upcoming",
					},
					"cpf": cpfParam,
				},
				"required": []string{"appointment_id", "cpf"},
			},
		},
	},
}

// Definition devolve o schema de n; ok é false para nome fora do conjunto.
func Definition(n Name) (openai.ChatCompletionToolParam, bool) {
	if !n.Valid() {
		return openai.ChatCompletionToolParam{}, false
	}
	return definitions[n], true
}

// Definitions devolve todos os schemas na ordem de Name.
func Definitions() []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, numNames)
	for _, n := range All() {
		def, _ := Definition(n)
		out = append(out, def)
	}
	return out
}
