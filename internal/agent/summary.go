package agent

import (
	"fmt"
	"strings"

	"github.com/biafin/bia/internal/profile"
)

// StagedSummary renders an itemized, human-readable summary of a staged
// field set followed by the confirmation prompt.
func StagedSummary(f profile.FieldSet) string {
	var sb strings.Builder
	sb.WriteString("Entendi as seguintes informações:\n")
	for _, item := range fieldItems(f) {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	sb.WriteString("\nPosso salvar no seu perfil? (responda sim ou não)")
	return sb.String()
}

func fieldItems(f profile.FieldSet) []string {
	var items []string
	if f.Name != "" {
		items = append(items, "Nome: "+f.Name)
	}
	if f.Age != nil {
		items = append(items, fmt.Sprintf("Idade: %d anos", *f.Age))
	}
	if f.Profession != "" {
		items = append(items, "Profissão: "+f.Profession)
	}
	if f.MonthlyIncome != nil {
		items = append(items, "Renda mensal: "+profile.FormatBRL(*f.MonthlyIncome))
	}
	if f.NetWorth != nil {
		items = append(items, "Patrimônio total: "+profile.FormatBRL(*f.NetWorth))
	}
	if f.EmergencyReserve != nil {
		items = append(items, "Reserva de emergência: "+profile.FormatBRL(*f.EmergencyReserve))
	}
	if f.InvestorProfile != "" {
		items = append(items, "Perfil de investidor: "+f.InvestorProfile)
	}
	for _, g := range f.Goals {
		item := "Meta: " + g.Description
		if g.RequiredValue != nil {
			item += " - " + profile.FormatBRL(*g.RequiredValue)
		}
		if g.Deadline != "" {
			item += " até " + g.Deadline
		}
		items = append(items, item)
	}
	return items
}

// describeFields names the fields present in a set, for logging.
func describeFields(f profile.FieldSet) string {
	var names []string
	if f.Name != "" {
		names = append(names, "name")
	}
	if f.Age != nil {
		names = append(names, "age")
	}
	if f.Profession != "" {
		names = append(names, "profession")
	}
	if f.MonthlyIncome != nil {
		names = append(names, "monthly_income")
	}
	if f.NetWorth != nil {
		names = append(names, "net_worth")
	}
	if f.EmergencyReserve != nil {
		names = append(names, "emergency_reserve")
	}
	if f.InvestorProfile != "" {
		names = append(names, "investor_profile")
	}
	if len(f.Goals) > 0 {
		names = append(names, "goals")
	}
	return strings.Join(names, ",")
}
