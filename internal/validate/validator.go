package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/biafin/bia/internal/profile"
)

// Rejection is a user-facing validation failure. It names the offending
// field (empty for message-level rejections) and carries a corrective
// reason in Portuguese, ready for display.
type Rejection struct {
	Field  string
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// AsRejection returns the Rejection inside err, if any.
func AsRejection(err error) (*Rejection, bool) {
	r, ok := err.(*Rejection)
	return r, ok
}

// Limits holds the configurable numeric bounds applied during validation.
type Limits struct {
	MaxIncome float64
	MaxGoal   float64
	MinAge    int
	MaxAge    int
}

// DefaultLimits returns the stock bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxIncome: 1_000_000,
		MaxGoal:   100_000_000,
		MinAge:    18,
		MaxAge:    100,
	}
}

// forbiddenTerms triggers the advisory-refusal screen. Matching is
// case-insensitive substring containment over the raw message.
var forbiddenTerms = []string{
	"bitcoin",
	"invista",
	"investir",
	"recomendo",
	"compre",
	"venda",
	"aplique",
	"melhor investimento",
	"rentabilidade garantida",
	"vai subir",
	"vai cair",
	"lucro certo",
}

const advisoryRefusal = "Não posso fazer recomendações ou indicar investimentos específicos. " +
	"Posso apenas ajudar com informações educacionais e organização financeira."

var deadlinePattern = regexp.MustCompile(`^\d{4}(-\d{2})?$`)

// Validator checks extracted field sets and raw messages against the
// domain rules. All rejections are returned as *Rejection values; a
// non-Rejection error never escapes for well-typed input.
type Validator struct {
	limits Limits
}

// New creates a Validator with the given bounds.
func New(limits Limits) *Validator {
	return &Validator{limits: limits}
}

// Check validates a field set and the raw message it was extracted from.
//
// The forbidden-vocabulary screen runs first and rejects the whole message
// regardless of any valid fields present. Per-field checks then run in a
// fixed order; the first failing check decides the rejection.
func (v *Validator) Check(fields profile.FieldSet, rawMessage string) error {
	if err := v.screenMessage(rawMessage); err != nil {
		return err
	}

	if fields.Empty() {
		return nil
	}

	checks := []func(profile.FieldSet) error{
		v.checkIncome,
		v.checkInvestorProfile,
		v.checkGoals,
		v.checkAge,
		v.checkNetWorth,
		v.checkEmergencyReserve,
	}
	for _, check := range checks {
		if err := check(fields); err != nil {
			return err
		}
	}
	return nil
}

// screenMessage applies the forbidden-vocabulary screen.
func (v *Validator) screenMessage(rawMessage string) error {
	lower := strings.ToLower(rawMessage)
	for _, term := range forbiddenTerms {
		if strings.Contains(lower, term) {
			return &Rejection{Reason: advisoryRefusal}
		}
	}
	return nil
}

func (v *Validator) checkIncome(f profile.FieldSet) error {
	if f.MonthlyIncome == nil {
		return nil
	}
	income := *f.MonthlyIncome
	if income <= 0 {
		return &Rejection{Field: "monthly_income", Reason: "A renda mensal precisa ser um valor positivo."}
	}
	if income > v.limits.MaxIncome {
		return &Rejection{Field: "monthly_income", Reason: "O valor de renda informado parece muito alto. Por favor, verifique."}
	}
	return nil
}

func (v *Validator) checkInvestorProfile(f profile.FieldSet) error {
	if f.InvestorProfile == "" {
		return nil
	}
	for _, valid := range investorProfiles {
		if f.InvestorProfile == valid {
			return nil
		}
	}
	return &Rejection{
		Field:  "investor_profile",
		Reason: fmt.Sprintf("Perfil de investidor deve ser um dos: %s.", strings.Join(investorProfiles, ", ")),
	}
}

var investorProfiles = []string{"conservador", "moderado", "arrojado"}

func (v *Validator) checkGoals(f profile.FieldSet) error {
	for i, g := range f.Goals {
		if g.RequiredValue != nil {
			value := *g.RequiredValue
			if value <= 0 {
				return &Rejection{Field: "goals", Reason: fmt.Sprintf("O valor da meta %d deve ser positivo.", i+1)}
			}
			if value > v.limits.MaxGoal {
				return &Rejection{Field: "goals", Reason: fmt.Sprintf("O valor da meta %d parece muito alto.", i+1)}
			}
		}
		if g.Deadline != "" && !deadlinePattern.MatchString(g.Deadline) {
			return &Rejection{Field: "goals", Reason: fmt.Sprintf("O prazo da meta %d deve estar no formato YYYY ou YYYY-MM.", i+1)}
		}
	}
	return nil
}

func (v *Validator) checkAge(f profile.FieldSet) error {
	if f.Age == nil {
		return nil
	}
	age := *f.Age
	if age < v.limits.MinAge || age > v.limits.MaxAge {
		return &Rejection{
			Field:  "age",
			Reason: fmt.Sprintf("A idade deve estar entre %d e %d anos.", v.limits.MinAge, v.limits.MaxAge),
		}
	}
	return nil
}

func (v *Validator) checkNetWorth(f profile.FieldSet) error {
	if f.NetWorth != nil && *f.NetWorth < 0 {
		return &Rejection{Field: "net_worth", Reason: "O patrimônio não pode ser negativo."}
	}
	return nil
}

func (v *Validator) checkEmergencyReserve(f profile.FieldSet) error {
	if f.EmergencyReserve != nil && *f.EmergencyReserve < 0 {
		return &Rejection{Field: "emergency_reserve", Reason: "A reserva de emergência não pode ser negativa."}
	}
	return nil
}

// CheckConsistency validates cross-field invariants on the prospective
// merged profile. It runs at confirmation-commit time, not during the
// initial field validation.
func (v *Validator) CheckConsistency(p profile.Profile) error {
	if p.EmergencyReserve != nil && p.NetWorth != nil && *p.EmergencyReserve > *p.NetWorth {
		return &Rejection{
			Field:  "emergency_reserve",
			Reason: "A reserva de emergência não pode ser maior que o patrimônio total.",
		}
	}
	return nil
}
