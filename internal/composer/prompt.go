package composer

import (
	"fmt"
	"strings"

	"github.com/biafin/bia/internal/llm"
)

const systemPrompt = `Você é BIA, uma assistente financeira educacional amigável e profissional.

REGRAS IMPORTANTES:
1. Você NÃO pode fazer recomendações de investimento específicos
2. Você NÃO pode indicar produtos financeiros específicos
3. Você DEVE usar APENAS os fatos fornecidos abaixo
4. Se não tiver informação suficiente, diga claramente
5. Seja educativa, não prescritiva
6. Mantenha tom amigável e profissional

COLETA DE INFORMAÇÕES:
Seja proativa na coleta de informações do usuário. Informações essenciais,
em ordem de prioridade: nome, idade, profissão, renda mensal, patrimônio,
reserva de emergência, objetivo principal, perfil de investidor, metas.
Ao final de cada resposta, se houver informações faltando, faça UMA
pergunta natural para coletar um dado que ainda não tenha.

INSTRUÇÕES:
- Responda de forma clara e objetiva
- Use apenas as informações disponíveis
- Não invente dados ou faça suposições
- Seja útil mas não dê conselhos de investimento específicos`

const factsHeader = "INFORMAÇÕES DISPONÍVEIS DO USUÁRIO:"

// Composer assembles the chat completion prompt from the persona, the
// confirmed profile facts, the running history and the current user
// message.
type Composer struct{}

// New creates a Composer.
func New() *Composer {
	return &Composer{}
}

// Compose builds the message sequence for a reply generation: system
// persona first, then a facts section when any facts exist, then the
// sanitized history, then the user message.
func (c *Composer) Compose(userMessage string, history []llm.Message, facts []string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+3)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})

	if section := factsSection(facts); section != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: section})
	}

	msgs = append(msgs, SanitizeHistory(history)...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return msgs
}

func factsSection(facts []string) string {
	var sb strings.Builder
	for _, f := range facts {
		if f == "" {
			continue
		}
		sb.WriteString("\n- ")
		sb.WriteString(f)
	}
	if sb.Len() == 0 {
		return ""
	}
	return factsHeader + sb.String()
}

// SanitizeHistory filters the history down to well-formed messages with a
// known role and non-empty content. Unknown roles and blank entries are
// dropped so externally supplied history cannot smuggle stray fields into
// the prompt.
func SanitizeHistory(history []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case llm.RoleUser, llm.RoleAssistant, llm.RoleSystem:
		default:
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// FormatTranscript renders messages as readable dialogue text, used when
// summarizing older history.
func FormatTranscript(messages []llm.Message) string {
	var lines []string
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		label := "Assistente"
		if m.Role == llm.RoleUser {
			label = "Usuário"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, text))
	}
	return strings.Join(lines, "\n")
}
