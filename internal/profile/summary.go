package profile

import (
	"fmt"
	"strings"
)

// Facts returns the list of facts the text generator is allowed to see.
// Scalar fields are always included; investor profile, main goal, and
// goals only when explicitly confirmed by the user.
func Facts(p Profile) []string {
	var facts []string

	if p.Name != "" {
		facts = append(facts, fmt.Sprintf("Nome: %s", p.Name))
	}
	if p.Age != nil {
		facts = append(facts, fmt.Sprintf("Idade: %d anos", *p.Age))
	}
	if p.Profession != "" {
		facts = append(facts, fmt.Sprintf("Profissão: %s", p.Profession))
	}
	if p.MonthlyIncome != nil {
		facts = append(facts, fmt.Sprintf("Renda mensal: %s", FormatBRL(*p.MonthlyIncome)))
	}
	if p.NetWorth != nil {
		facts = append(facts, fmt.Sprintf("Patrimônio total: %s", FormatBRL(*p.NetWorth)))
	}
	if p.EmergencyReserve != nil {
		facts = append(facts, fmt.Sprintf("Reserva de emergência: %s", FormatBRL(*p.EmergencyReserve)))
	}

	if p.InvestorProfile.Confirmed && p.InvestorProfile.Value != "" {
		facts = append(facts, fmt.Sprintf("Perfil de investidor: %s", p.InvestorProfile.Value))
	}
	if p.MainGoal.Confirmed && p.MainGoal.Description != "" {
		facts = append(facts, fmt.Sprintf("Objetivo principal: %s", p.MainGoal.Description))
	}

	for _, g := range p.Goals {
		if !g.Confirmed {
			continue
		}
		fact := fmt.Sprintf("Meta: %s", g.Description)
		if g.RequiredValue != nil {
			fact += " - " + FormatBRL(*g.RequiredValue)
		}
		if g.Deadline != "" {
			fact += " até " + g.Deadline
		}
		facts = append(facts, fact)
	}

	return facts
}

// Summary renders the profile for display, marking confirmed items with ✅
// and pending ones with ⏳.
func Summary(p Profile) string {
	var lines []string
	lines = append(lines, "**Resumo do seu perfil:**", "")

	if p.Name != "" {
		lines = append(lines, fmt.Sprintf("**Nome**: %s", p.Name))
	}
	if p.Age != nil {
		lines = append(lines, fmt.Sprintf("**Idade**: %d anos", *p.Age))
	}
	if p.Profession != "" {
		lines = append(lines, fmt.Sprintf("💼 **Profissão**: %s", p.Profession))
	}
	if p.MonthlyIncome != nil {
		lines = append(lines, fmt.Sprintf("**Renda mensal**: %s", FormatBRL(*p.MonthlyIncome)))
	}

	if p.InvestorProfile.Value != "" {
		lines = append(lines, fmt.Sprintf("%s **Perfil investidor**: %s",
			statusMark(p.InvestorProfile.Confirmed), capitalize(p.InvestorProfile.Value)))
	}

	if p.NetWorth != nil {
		lines = append(lines, fmt.Sprintf("**Patrimônio total**: %s", FormatBRL(*p.NetWorth)))
	}
	if p.EmergencyReserve != nil {
		lines = append(lines, fmt.Sprintf("**Reserva de emergência**: %s", FormatBRL(*p.EmergencyReserve)))
	}

	if len(p.Goals) > 0 {
		lines = append(lines, "", fmt.Sprintf("**Metas (%d):**", len(p.Goals)))
		for i, g := range p.Goals {
			entry := fmt.Sprintf("  %s %d. %s", statusMark(g.Confirmed), i+1, g.Description)
			if g.RequiredValue != nil {
				entry += " - " + FormatBRL(*g.RequiredValue)
			}
			if g.Deadline != "" {
				entry += " até " + g.Deadline
			}
			lines = append(lines, entry)
		}
	}

	if !p.LastUpdated.IsZero() {
		lines = append(lines, "", fmt.Sprintf("**Última atualização**: %s",
			p.LastUpdated.Format("2006-01-02 15:04:05")))
	}

	if len(lines) == 2 {
		return "Perfil ainda vazio."
	}
	return strings.Join(lines, "\n")
}

// FormatBRL renders a value as Brazilian currency: R$ 8.500,00.
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, sb.String(), frac)
}

func statusMark(confirmed bool) string {
	if confirmed {
		return "✅"
	}
	return "⏳"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
