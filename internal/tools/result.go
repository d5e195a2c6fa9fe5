package tools

import "encoding/json"

type Kind int

const (
	KindOK Kind = iota
	KindInfo
	KindError
)

// Result é o que a ferramenta devolve à camada de diálogo. Vira um objeto
// plano: os campos do payload mais "info" ou "error" quando presentes.
type Result struct {
	Kind    Kind
	Message string
	Fields  map[string]any
}

func OK(fields map[string]any) Result {
	return Result{Kind: KindOK, Fields: fields}
}

func Info(msg string, fields map[string]any) Result {
	return Result{Kind: KindInfo, Message: msg, Fields: fields}
}

func Error(msg string, fields map[string]any) Result {
	return Result{Kind: KindError, Message: msg, Fields: fields}
}

// Outcome é o label de métrica de r.
func (r Result) Outcome() string {
	switch r.Kind {
	case KindInfo:
		return "info"
	case KindError:
		return "error"
	}
	return "ok"
}

// WithStatus acrescenta o status success/error das operações de escrita.
func (r Result) WithStatus() Result {
	fields := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		fields[k] = v
	}
	if r.Kind == KindOK {
		fields["status"] = "success"
	} else {
		fields["status"] = "error"
	}
	r.Fields = fields
	return r
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	switch r.Kind {
	case KindInfo:
		out["info"] = r.Message
	case KindError:
		out["error"] = r.Message
	}
	return json.Marshal(out)
}

// String é a forma JSON, como vai na mensagem de ferramenta.
func (r Result) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"error":"falha ao serializar resposta"}`
	}
	return string(b)
}
