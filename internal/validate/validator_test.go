package validate

import (
	"strings"
	"testing"

	"github.com/biafin/bia/internal/profile"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestCheck_ForbiddenVocabularyScreen(t *testing.T) {
	v := New(DefaultLimits())

	// The screen rejects regardless of any valid fields present.
	fields := profile.FieldSet{MonthlyIncome: fptr(5000)}
	err := v.Check(fields, "recomendo comprar ações, minha renda é 5000")

	rej, ok := AsRejection(err)
	if !ok {
		t.Fatalf("err = %v, want Rejection", err)
	}
	if !strings.Contains(rej.Reason, "recomendações") {
		t.Errorf("Reason = %q, want advisory refusal", rej.Reason)
	}
}

func TestCheck_ForbiddenVocabularyCaseInsensitive(t *testing.T) {
	v := New(DefaultLimits())

	if err := v.Check(profile.FieldSet{}, "o BITCOIN vai subir?"); err == nil {
		t.Error("expected rejection for forbidden term in upper case")
	}
}

func TestCheck_EmptyFieldsCleanMessage(t *testing.T) {
	v := New(DefaultLimits())

	if err := v.Check(profile.FieldSet{}, "bom dia, tudo bem?"); err != nil {
		t.Errorf("unexpected rejection: %v", err)
	}
}

func TestCheck_IncomeBounds(t *testing.T) {
	v := New(DefaultLimits())

	cases := []struct {
		income float64
		wantOK bool
	}{
		{5000, true},
		{0.01, true},
		{0, false},
		{-100, false},
		{2_000_000, false},
	}
	for _, tc := range cases {
		err := v.Check(profile.FieldSet{MonthlyIncome: fptr(tc.income)}, "")
		if ok := err == nil; ok != tc.wantOK {
			t.Errorf("income %v: err = %v, want ok=%v", tc.income, err, tc.wantOK)
		}
	}

	err := v.Check(profile.FieldSet{MonthlyIncome: fptr(-100)}, "minha renda é -100")
	rej, ok := AsRejection(err)
	if !ok {
		t.Fatalf("err = %v, want Rejection", err)
	}
	if rej.Field != "monthly_income" || !strings.Contains(rej.Reason, "positivo") {
		t.Errorf("rejection = %+v, want income-must-be-positive", rej)
	}
}

func TestCheck_InvestorProfileEnum(t *testing.T) {
	v := New(DefaultLimits())

	for _, value := range []string{"conservador", "moderado", "arrojado"} {
		if err := v.Check(profile.FieldSet{InvestorProfile: value}, ""); err != nil {
			t.Errorf("profile %q rejected: %v", value, err)
		}
	}

	err := v.Check(profile.FieldSet{InvestorProfile: "agressivo"}, "")
	if rej, ok := AsRejection(err); !ok || rej.Field != "investor_profile" {
		t.Errorf("err = %v, want investor_profile rejection", err)
	}
}

func TestCheck_Goals(t *testing.T) {
	v := New(DefaultLimits())

	valid := profile.FieldSet{Goals: []profile.Goal{
		{Description: "Comprar carro", RequiredValue: fptr(30000), Deadline: "2025"},
		{Description: "Viagem", Deadline: "2026-07"},
		{Description: "Sem prazo"},
	}}
	if err := v.Check(valid, ""); err != nil {
		t.Errorf("valid goals rejected: %v", err)
	}

	cases := []struct {
		name string
		goal profile.Goal
	}{
		{"zero value", profile.Goal{Description: "x", RequiredValue: fptr(0)}},
		{"negative value", profile.Goal{Description: "x", RequiredValue: fptr(-5)}},
		{"value too high", profile.Goal{Description: "x", RequiredValue: fptr(200_000_000)}},
		{"bad deadline", profile.Goal{Description: "x", Deadline: "dez/2025"}},
		{"bad deadline month", profile.Goal{Description: "x", Deadline: "2025-7"}},
	}
	for _, tc := range cases {
		err := v.Check(profile.FieldSet{Goals: []profile.Goal{tc.goal}}, "")
		if _, ok := AsRejection(err); !ok {
			t.Errorf("%s: err = %v, want Rejection", tc.name, err)
		}
	}
}

func TestCheck_AgeBounds(t *testing.T) {
	v := New(DefaultLimits())

	for _, age := range []int{18, 50, 100} {
		if err := v.Check(profile.FieldSet{Age: iptr(age)}, ""); err != nil {
			t.Errorf("age %d rejected: %v", age, err)
		}
	}
	for _, age := range []int{17, 101, -1} {
		err := v.Check(profile.FieldSet{Age: iptr(age)}, "")
		if rej, ok := AsRejection(err); !ok || rej.Field != "age" {
			t.Errorf("age %d: err = %v, want age rejection", age, err)
		}
	}
}

func TestCheck_ConfigurableBounds(t *testing.T) {
	v := New(Limits{MaxIncome: 100, MaxGoal: 100, MinAge: 30, MaxAge: 40})

	if err := v.Check(profile.FieldSet{MonthlyIncome: fptr(200)}, ""); err == nil {
		t.Error("income above configured cap accepted")
	}
	if err := v.Check(profile.FieldSet{Age: iptr(25)}, ""); err == nil {
		t.Error("age below configured minimum accepted")
	}
}

func TestCheck_NegativeNetWorthAndReserve(t *testing.T) {
	v := New(DefaultLimits())

	if err := v.Check(profile.FieldSet{NetWorth: fptr(-1)}, ""); err == nil {
		t.Error("negative net worth accepted")
	}
	if err := v.Check(profile.FieldSet{EmergencyReserve: fptr(-1)}, ""); err == nil {
		t.Error("negative emergency reserve accepted")
	}
	if err := v.Check(profile.FieldSet{NetWorth: fptr(0), EmergencyReserve: fptr(0)}, ""); err != nil {
		t.Errorf("zero values rejected: %v", err)
	}
}

func TestCheckConsistency(t *testing.T) {
	v := New(DefaultLimits())

	ok := profile.Profile{NetWorth: fptr(10000), EmergencyReserve: fptr(5000)}
	if err := v.CheckConsistency(ok); err != nil {
		t.Errorf("consistent profile rejected: %v", err)
	}

	bad := profile.Profile{NetWorth: fptr(10000), EmergencyReserve: fptr(15000)}
	err := v.CheckConsistency(bad)
	rej, isRej := AsRejection(err)
	if !isRej {
		t.Fatalf("err = %v, want Rejection", err)
	}
	if !strings.Contains(rej.Reason, "patrimônio") {
		t.Errorf("Reason = %q, want rule naming net worth", rej.Reason)
	}

	// Invariant only applies when both sides are present.
	partial := profile.Profile{EmergencyReserve: fptr(15000)}
	if err := v.CheckConsistency(partial); err != nil {
		t.Errorf("partial profile rejected: %v", err)
	}
}

func TestParseFieldSet_Whitelist(t *testing.T) {
	_, err := ParseFieldSet([]byte(`{"monthly_income": 5000, "cpf": "123"}`))
	rej, ok := AsRejection(err)
	if !ok {
		t.Fatalf("err = %v, want Rejection", err)
	}
	if rej.Field != "cpf" {
		t.Errorf("Field = %q, want cpf", rej.Field)
	}
}

func TestParseFieldSet_InvestorProfileForms(t *testing.T) {
	// Bare string form confirms on merge.
	f, err := ParseFieldSet([]byte(`{"investor_profile": "moderado"}`))
	if err != nil {
		t.Fatalf("ParseFieldSet: %v", err)
	}
	if f.InvestorProfile != "moderado" || f.InvestorConfirmed != nil {
		t.Errorf("bare form = (%q, %v)", f.InvestorProfile, f.InvestorConfirmed)
	}

	// Object form keeps its flag.
	f, err = ParseFieldSet([]byte(`{"investor_profile": {"value": "arrojado", "confirmed": false}}`))
	if err != nil {
		t.Fatalf("ParseFieldSet: %v", err)
	}
	if f.InvestorProfile != "arrojado" {
		t.Errorf("value = %q, want arrojado", f.InvestorProfile)
	}
	if f.InvestorConfirmed == nil || *f.InvestorConfirmed {
		t.Errorf("confirmed = %v, want explicit false", f.InvestorConfirmed)
	}
}

func TestParseFieldSet_TypeMismatch(t *testing.T) {
	_, err := ParseFieldSet([]byte(`{"monthly_income": "muito"}`))
	if rej, ok := AsRejection(err); !ok || rej.Field != "monthly_income" {
		t.Errorf("err = %v, want monthly_income rejection", err)
	}
}

func TestParseFieldSet_Goals(t *testing.T) {
	f, err := ParseFieldSet([]byte(`{"goals": [{"description": "Comprar carro", "required_value": 30000, "deadline": "2025"}]}`))
	if err != nil {
		t.Fatalf("ParseFieldSet: %v", err)
	}
	if len(f.Goals) != 1 || f.Goals[0].Description != "Comprar carro" {
		t.Errorf("Goals = %+v", f.Goals)
	}
}
