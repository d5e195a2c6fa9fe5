package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/tools"
)

const defaultMaxRounds = 4

var ErrEmptyCompletion = errors.New("assistant: completion without choices")

// Completer é o backend de chat completion.
type Completer interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// ToolCaller executa uma chamada de ferramenta pelo nome.
type ToolCaller interface {
	CallNamed(ctx context.Context, name string, args []byte) tools.Result
}

// ======================================================
// OpenAI backend
// ======================================================

type OpenAICompleter struct {
	client openai.Client
}

func NewOpenAICompleter(apiKey string, opts ...option.RequestOption) *OpenAICompleter {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAICompleter{client: openai.NewClient(opts...)}
}

func (c *OpenAICompleter) Complete(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}

// ======================================================
// Session
// ======================================================

type Options struct {
	Model            string
	PractitionerName string
	MaxRounds        int
}

// Session guarda o histórico de uma conversa. Não é segura para uso concorrente.
type Session struct {
	completer Completer
	tools     ToolCaller
	policy    schedule.Policy
	opts      Options
	log       logrus.FieldLogger

	history []openai.ChatCompletionMessageParamUnion
}

func NewSession(
	completer Completer,
	caller ToolCaller,
	policy schedule.Policy,
	opts Options,
	log logrus.FieldLogger,
) *Session {
	if opts.Model == "" {
		opts.Model = openai.ChatModelGPT4o
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = defaultMaxRounds
	}
	return &Session{
		completer: completer,
		tools:     caller,
		policy:    policy,
		opts:      opts,
		log:       log,
	}
}

// Reply envia text como próximo turno do usuário e devolve a resposta do
// assistente, executando no caminho as ferramentas que o modelo pedir. A
// última rodada vai sem ferramentas, então o modelo precisa responder.
func (s *Session) Reply(ctx context.Context, text string) (string, error) {
	s.history = append(s.history, openai.UserMessage(text))

	for round := 1; round <= s.opts.MaxRounds; round++ {
		params := openai.ChatCompletionNewParams{
			Model:    s.opts.Model,
			Messages: s.conversation(),
		}
		if round < s.opts.MaxRounds {
			params.Tools = tools.Definitions()
		}

		resp, err := s.completer.Complete(ctx, params)
		if err != nil {
			return "", fmt.Errorf("assistant: completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyCompletion
		}

		msg := resp.Choices[0].Message
		s.history = append(s.history, msg.ToParam())

		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		for _, tc := range msg.ToolCalls {
			res := s.tools.CallNamed(ctx, tc.Function.Name, []byte(tc.Function.Arguments))
			s.log.WithFields(logrus.Fields{
				"tool":    tc.Function.Name,
				"outcome": res.Outcome(),
			}).Debug("tool call")

			s.history = append(s.history, openai.ToolMessage(res.String(), tc.ID))
		}
	}

	return "", fmt.Errorf("assistant: no answer after %d rounds", s.opts.MaxRounds)
}

// Reset esquece a conversa.
func (s *Session) Reset() {
	s.history = nil
}

func (s *Session) conversation() []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(s.history)+1)
	out = append(out, openai.SystemMessage(s.systemPrompt()))
	return append(out, s.history...)
}

// systemPrompt é refeito a cada rodada; sessão longa nunca vê data velha.
func (s *Session) systemPrompt() string {
	today := s.policy.Today()

	var b strings.Builder
	fmt.Fprintf(&b, "Você é a assistente virtual do consultório de %s. Seja empática, profissional e objetiva.\n", s.opts.PractitionerName)
	fmt.Fprintf(&b, "Hoje é %s, %s.\n", schedule.WeekdayName(today.Weekday()), today.Format(schedule.DateLayout))
	b.WriteString(`
Regras:
- Para agendar, peça primeiro o CPF e use check_patient.
- Paciente novo: peça nome completo, e-mail e telefone antes de agendar com register_and_book.
- Paciente já cadastrado: use book_followup.
- Só ofereça horários retornados por list_available_slots e use a data exatamente como retornada.
- Se uma ferramenta responder com "info", explique a situação ao paciente com naturalidade.
- Se uma ferramenta responder com "error", peça desculpas e sugira tentar novamente, sem detalhes técnicos.
`)
	return b.String()
}
