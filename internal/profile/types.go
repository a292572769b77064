package profile

import (
	"strings"
	"time"
)

// Profile is the durable record of a user's financial facts. Optional
// numeric fields use pointers so that "never informed" is distinguishable
// from zero.
type Profile struct {
	Name             string          `json:"name,omitempty"`
	Age              *int            `json:"age,omitempty"`
	Profession       string          `json:"profession,omitempty"`
	MonthlyIncome    *float64        `json:"monthly_income,omitempty"`
	NetWorth         *float64        `json:"net_worth,omitempty"`
	EmergencyReserve *float64        `json:"emergency_reserve,omitempty"`
	InvestorProfile  InvestorProfile `json:"investor_profile"`
	MainGoal         MainGoal        `json:"main_goal"`
	AcceptsRisk      bool            `json:"accepts_risk"`
	Goals            []Goal          `json:"goals"`
	LastUpdated      time.Time       `json:"last_updated"`
}

// InvestorProfile is the user's risk profile. Value is one of the
// supported enum values; Confirmed tracks explicit user assent.
type InvestorProfile struct {
	Value     string `json:"value,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// MainGoal is the user's primary financial objective.
type MainGoal struct {
	Description string `json:"description,omitempty"`
	Confirmed   bool   `json:"confirmed"`
}

// Goal is a named financial objective with optional target value and
// deadline (YYYY or YYYY-MM). Goals are identified by their case-folded,
// trimmed description.
type Goal struct {
	Description   string   `json:"description"`
	RequiredValue *float64 `json:"required_value,omitempty"`
	Deadline      string   `json:"deadline,omitempty"`
	Confirmed     bool     `json:"confirmed"`
}

// Key returns the goal's identity key used for deduplication.
func (g Goal) Key() string {
	return strings.ToLower(strings.TrimSpace(g.Description))
}

// FieldSet is a partial, untrusted set of extracted fields. A nil pointer
// or empty string means "not found" — never an explicit null marker.
type FieldSet struct {
	Name             string   `json:"name,omitempty"`
	Age              *int     `json:"age,omitempty"`
	Profession       string   `json:"profession,omitempty"`
	MonthlyIncome    *float64 `json:"monthly_income,omitempty"`
	NetWorth         *float64 `json:"net_worth,omitempty"`
	EmergencyReserve *float64 `json:"emergency_reserve,omitempty"`

	// InvestorProfile carries the bare enum value. When the value arrived
	// as a {value, confirmed} object (external JSON), InvestorConfirmed
	// preserves the original confirmed flag; nil means "confirm on merge".
	InvestorProfile   string `json:"investor_profile,omitempty"`
	InvestorConfirmed *bool  `json:"-"`

	Goals []Goal `json:"goals,omitempty"`
}

// Empty reports whether no field was extracted.
func (f FieldSet) Empty() bool {
	return f.Name == "" &&
		f.Age == nil &&
		f.Profession == "" &&
		f.MonthlyIncome == nil &&
		f.NetWorth == nil &&
		f.EmergencyReserve == nil &&
		f.InvestorProfile == "" &&
		len(f.Goals) == 0
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	cp := p
	cp.Age = copyInt(p.Age)
	cp.MonthlyIncome = copyFloat(p.MonthlyIncome)
	cp.NetWorth = copyFloat(p.NetWorth)
	cp.EmergencyReserve = copyFloat(p.EmergencyReserve)
	if p.Goals != nil {
		cp.Goals = make([]Goal, len(p.Goals))
		for i, g := range p.Goals {
			cp.Goals[i] = g
			cp.Goals[i].RequiredValue = copyFloat(g.RequiredValue)
		}
	}
	return cp
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
