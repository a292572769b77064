package profile

import (
	"testing"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestMerge_ScalarOverwrite(t *testing.T) {
	p := Profile{MonthlyIncome: fptr(3000)}
	out := Merge(p, FieldSet{MonthlyIncome: fptr(5000)})

	if out.MonthlyIncome == nil || *out.MonthlyIncome != 5000 {
		t.Errorf("MonthlyIncome = %v, want 5000", out.MonthlyIncome)
	}
	if *p.MonthlyIncome != 3000 {
		t.Errorf("input profile mutated: income = %v", *p.MonthlyIncome)
	}
}

func TestMerge_AbsentFieldsUntouched(t *testing.T) {
	p := Profile{
		Name:          "Ana",
		Age:           iptr(34),
		MonthlyIncome: fptr(8000),
	}
	out := Merge(p, FieldSet{Profession: "Engenheira"})

	if out.Name != "Ana" {
		t.Errorf("Name = %q, want Ana", out.Name)
	}
	if out.Age == nil || *out.Age != 34 {
		t.Errorf("Age = %v, want 34", out.Age)
	}
	if out.MonthlyIncome == nil || *out.MonthlyIncome != 8000 {
		t.Errorf("MonthlyIncome = %v, want 8000", out.MonthlyIncome)
	}
	if out.Profession != "Engenheira" {
		t.Errorf("Profession = %q, want Engenheira", out.Profession)
	}
}

func TestMerge_InvestorProfileWrapsBareValue(t *testing.T) {
	out := Merge(Profile{}, FieldSet{InvestorProfile: "moderado"})

	if out.InvestorProfile.Value != "moderado" {
		t.Errorf("Value = %q, want moderado", out.InvestorProfile.Value)
	}
	if !out.InvestorProfile.Confirmed {
		t.Error("Confirmed = false, want true for bare value")
	}
}

func TestMerge_InvestorProfileObjectFormKeepsFlag(t *testing.T) {
	unconfirmed := false
	out := Merge(Profile{}, FieldSet{
		InvestorProfile:   "arrojado",
		InvestorConfirmed: &unconfirmed,
	})

	if out.InvestorProfile.Value != "arrojado" {
		t.Errorf("Value = %q, want arrojado", out.InvestorProfile.Value)
	}
	if out.InvestorProfile.Confirmed {
		t.Error("Confirmed = true, want false (object form passed through)")
	}
}

func TestMerge_GoalAppend(t *testing.T) {
	out := Merge(Profile{}, FieldSet{Goals: []Goal{
		{Description: "Comprar carro", RequiredValue: fptr(30000), Deadline: "2025"},
	}})

	if len(out.Goals) != 1 {
		t.Fatalf("len(Goals) = %d, want 1", len(out.Goals))
	}
	g := out.Goals[0]
	if !g.Confirmed {
		t.Error("appended goal not confirmed")
	}
	if g.RequiredValue == nil || *g.RequiredValue != 30000 {
		t.Errorf("RequiredValue = %v, want 30000", g.RequiredValue)
	}
}

func TestMerge_GoalIdempotent(t *testing.T) {
	fields := FieldSet{Goals: []Goal{
		{Description: "Comprar carro", RequiredValue: fptr(30000), Deadline: "2025"},
	}}

	once := Merge(Profile{}, fields)
	twice := Merge(once, fields)

	if len(twice.Goals) != 1 {
		t.Fatalf("len(Goals) = %d after resubmission, want 1", len(twice.Goals))
	}
	if *twice.Goals[0].RequiredValue != 30000 {
		t.Errorf("RequiredValue = %v, want 30000", *twice.Goals[0].RequiredValue)
	}
}

func TestMerge_GoalUpdateInPlace(t *testing.T) {
	p := Merge(Profile{}, FieldSet{Goals: []Goal{
		{Description: "Comprar carro", RequiredValue: fptr(30000), Deadline: "2025"},
	}})

	// Same key, case-folded and padded, with new numbers.
	out := Merge(p, FieldSet{Goals: []Goal{
		{Description: "  comprar CARRO ", RequiredValue: fptr(45000)},
	}})

	if len(out.Goals) != 1 {
		t.Fatalf("len(Goals) = %d, want 1 (update in place)", len(out.Goals))
	}
	g := out.Goals[0]
	if *g.RequiredValue != 45000 {
		t.Errorf("RequiredValue = %v, want 45000", *g.RequiredValue)
	}
	if g.Deadline != "2025" {
		t.Errorf("Deadline = %q, want 2025 (nil update must not clear it)", g.Deadline)
	}
	if g.Description != "Comprar carro" {
		t.Errorf("Description = %q, want original casing kept", g.Description)
	}
}

func TestMerge_GoalNilValueDoesNotClear(t *testing.T) {
	p := Merge(Profile{}, FieldSet{Goals: []Goal{
		{Description: "Comprar casa", RequiredValue: fptr(400000), Deadline: "2030"},
	}})

	out := Merge(p, FieldSet{Goals: []Goal{{Description: "Comprar casa"}}})

	g := out.Goals[0]
	if g.RequiredValue == nil || *g.RequiredValue != 400000 {
		t.Errorf("RequiredValue = %v, want 400000 preserved", g.RequiredValue)
	}
	if g.Deadline != "2030" {
		t.Errorf("Deadline = %q, want 2030 preserved", g.Deadline)
	}
}

func TestMerge_GoalOrderIsDiscoveryOrder(t *testing.T) {
	p := Merge(Profile{}, FieldSet{Goals: []Goal{{Description: "Comprar carro"}}})
	p = Merge(p, FieldSet{Goals: []Goal{{Description: "Viagem"}}})
	p = Merge(p, FieldSet{Goals: []Goal{{Description: "comprar carro", RequiredValue: fptr(10)}}})

	if len(p.Goals) != 2 {
		t.Fatalf("len(Goals) = %d, want 2", len(p.Goals))
	}
	if p.Goals[0].Description != "Comprar carro" || p.Goals[1].Description != "Viagem" {
		t.Errorf("goal order changed: %+v", p.Goals)
	}
}

func TestMerge_EmptyGoalDescriptionIgnored(t *testing.T) {
	out := Merge(Profile{}, FieldSet{Goals: []Goal{{Description: "   "}}})
	if len(out.Goals) != 0 {
		t.Errorf("len(Goals) = %d, want 0 for blank description", len(out.Goals))
	}
}
