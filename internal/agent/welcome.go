package agent

import (
	"fmt"

	"github.com/biafin/bia/internal/profile"
)

const welcomeBody = `Estou aqui para ajudar você a:
- Organizar suas informações financeiras
- Acompanhar suas metas
- Entender melhor seu perfil financeiro
- Aprender sobre educação financeira

Alguns exemplos do que posso fazer:
- Consigo parcelar uma compra de R$ 3.000?
- Vale mais pagar à vista ou parcelar?
- Como funcionam os juros do cartão de crédito?
`

// Welcome returns the greeting for a new session, personalized when the
// profile already has a name and ending with a prompt for the highest
// priority missing fact.
func (a *Agent) Welcome() (string, error) {
	prof, err := a.profiles.Get()
	if err != nil {
		return "", fmt.Errorf("loading profile: %w", err)
	}

	greeting := "Olá! Sou a BIA, sua assistente financeira pessoal."
	if prof.Name != "" {
		greeting = fmt.Sprintf("Olá, %s! Que bom ver você de novo!", prof.Name)
	}

	msg := greeting + "\n\n" + welcomeBody
	if prompt := missingInfoPrompt(prof); prompt != "" {
		msg += "\n" + prompt
	}
	msg += "\nComo posso ajudar você hoje?"
	return msg, nil
}

// missingInfoPrompt suggests collecting the highest priority fact still
// missing from the profile. Empty when the essentials are covered.
func missingInfoPrompt(p profile.Profile) string {
	switch {
	case p.Name == "":
		return "Para começar, que tal me contar seu nome?"
	case p.Age == nil:
		return "Me conta, qual a sua idade? Isso me ajuda a dar orientações mais adequadas."
	case p.Profession == "":
		return "Qual é a sua profissão? Conhecer sua área de atuação me ajuda a entender melhor seu contexto."
	case p.MonthlyIncome == nil:
		return "Qual é sua renda mensal aproximada? Com essa informação, posso fazer simulações mais precisas."
	case p.MainGoal.Description == "":
		return "Qual seu principal objetivo financeiro no momento?"
	}
	return ""
}
