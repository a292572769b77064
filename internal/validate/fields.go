package validate

import (
	"encoding/json"
	"fmt"

	"github.com/biafin/bia/internal/profile"
)

// supportedFields is the whitelist for externally supplied field maps
// (REST import, MCP). Anything outside it is rejected before per-field
// validation runs.
var supportedFields = map[string]struct{}{
	"name":              {},
	"age":               {},
	"profession":        {},
	"monthly_income":    {},
	"net_worth":         {},
	"emergency_reserve": {},
	"investor_profile":  {},
	"goals":             {},
}

// ParseFieldSet decodes an external JSON field map into a typed FieldSet,
// enforcing the supported-field whitelist. The investor profile is
// accepted in both the bare string form and the {value, confirmed} object
// form. Type mismatches surface as Rejections, not decode panics.
func ParseFieldSet(data []byte) (profile.FieldSet, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return profile.FieldSet{}, &Rejection{Reason: "Os dados enviados não estão em formato válido."}
	}

	for key := range raw {
		if _, ok := supportedFields[key]; !ok {
			return profile.FieldSet{}, &Rejection{
				Field:  key,
				Reason: fmt.Sprintf("O campo '%s' não pode ser processado.", key),
			}
		}
	}

	var fields profile.FieldSet

	if err := decodeField(raw, "name", &fields.Name); err != nil {
		return profile.FieldSet{}, err
	}
	if err := decodeField(raw, "age", &fields.Age); err != nil {
		return profile.FieldSet{}, err
	}
	if err := decodeField(raw, "profession", &fields.Profession); err != nil {
		return profile.FieldSet{}, err
	}
	if err := decodeField(raw, "monthly_income", &fields.MonthlyIncome); err != nil {
		return profile.FieldSet{}, err
	}
	if err := decodeField(raw, "net_worth", &fields.NetWorth); err != nil {
		return profile.FieldSet{}, err
	}
	if err := decodeField(raw, "emergency_reserve", &fields.EmergencyReserve); err != nil {
		return profile.FieldSet{}, err
	}
	if err := decodeField(raw, "goals", &fields.Goals); err != nil {
		return profile.FieldSet{}, err
	}

	if msg, ok := raw["investor_profile"]; ok {
		value, confirmed, err := decodeInvestorProfile(msg)
		if err != nil {
			return profile.FieldSet{}, err
		}
		fields.InvestorProfile = value
		fields.InvestorConfirmed = confirmed
	}

	return fields, nil
}

func decodeField(raw map[string]json.RawMessage, key string, target any) error {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return nil
	}
	if err := json.Unmarshal(msg, target); err != nil {
		return &Rejection{Field: key, Reason: fmt.Sprintf("O campo '%s' está em formato inválido.", key)}
	}
	return nil
}

func decodeInvestorProfile(msg json.RawMessage) (value string, confirmed *bool, err error) {
	if string(msg) == "null" {
		return "", nil, nil
	}

	// Bare string form.
	if err := json.Unmarshal(msg, &value); err == nil {
		return value, nil, nil
	}

	// Object form: keep the confirmed flag as supplied.
	var obj struct {
		Value     string `json:"value"`
		Confirmed bool   `json:"confirmed"`
	}
	if err := json.Unmarshal(msg, &obj); err != nil {
		return "", nil, &Rejection{
			Field:  "investor_profile",
			Reason: "O campo 'investor_profile' está em formato inválido.",
		}
	}
	return obj.Value, &obj.Confirmed, nil
}
