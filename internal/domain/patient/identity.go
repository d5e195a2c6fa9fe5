package patient

import (
	"strings"
	"unicode"
)

// MaxKeyLength limita a chave normalizada ao tamanho da coluna.
const MaxKeyLength = 20

// NormalizeKey reduz o documento (CPF) aos seus dígitos. Entrada malformada
// não é recusada aqui; tamanho fica com ValidKey.
func NormalizeKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidKey diz se a chave normalizada pode identificar um paciente.
func ValidKey(key string) bool {
	return key != "" && len(key) <= MaxKeyLength
}

// DisplayName apara e junta os espaços do nome do paciente.
func DisplayName(name string) string {
	return strings.Join(strings.FieldsFunc(name, unicode.IsSpace), " ")
}
