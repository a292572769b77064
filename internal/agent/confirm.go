package agent

import "strings"

// Assent classifies a user reply while a confirmation is pending.
type Assent int

const (
	AssentUnclear Assent = iota
	AssentAffirm
	AssentDeny
)

// confirmationVocabulary and negationVocabulary are matched by substring
// containment over the trimmed, case-folded message, not exact equality.
var confirmationVocabulary = []string{
	"sim",
	"confirmo",
	"ok",
	"pode salvar",
	"pode",
	"correto",
	"certo",
	"isso mesmo",
	"exato",
	"positivo",
}

var negationVocabulary = []string{
	"não",
	"nao",
	"negativo",
	"cancelar",
	"cancela",
	"errado",
	"incorreto",
}

// InterpretAssent decides whether a reply affirms or denies a pending
// confirmation. Negation is checked first: "incorreto" contains "correto",
// and a denial must win that overlap.
func InterpretAssent(message string) Assent {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return AssentUnclear
	}

	for _, token := range negationVocabulary {
		if strings.Contains(text, token) {
			return AssentDeny
		}
	}
	for _, token := range confirmationVocabulary {
		if strings.Contains(text, token) {
			return AssentAffirm
		}
	}
	return AssentUnclear
}
