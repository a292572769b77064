package profile

// Merge applies a confirmed field set onto a profile and returns the
// merged copy. It is a pure function: the input profile is not mutated.
//
// Rules:
//   - Scalar fields overwrite only when present in the field set; absent
//     fields leave the existing value untouched.
//   - A bare investor profile value is wrapped as {value, confirmed: true};
//     an object form keeps its own confirmed flag.
//   - Goals are keyed by case-folded, trimmed description. An incoming goal
//     matching an existing key updates only its non-nil sub-fields; a new
//     key is appended with confirmed = true. Resubmitting an identical goal
//     is a no-op.
//
// Merge assumes previously validated input; it never rejects.
func Merge(p Profile, f FieldSet) Profile {
	out := p.Clone()

	if f.Name != "" {
		out.Name = f.Name
	}
	if f.Age != nil {
		out.Age = copyInt(f.Age)
	}
	if f.Profession != "" {
		out.Profession = f.Profession
	}
	if f.MonthlyIncome != nil {
		out.MonthlyIncome = copyFloat(f.MonthlyIncome)
	}
	if f.NetWorth != nil {
		out.NetWorth = copyFloat(f.NetWorth)
	}
	if f.EmergencyReserve != nil {
		out.EmergencyReserve = copyFloat(f.EmergencyReserve)
	}
	if f.InvestorProfile != "" {
		confirmed := true
		if f.InvestorConfirmed != nil {
			confirmed = *f.InvestorConfirmed
		}
		out.InvestorProfile = InvestorProfile{Value: f.InvestorProfile, Confirmed: confirmed}
	}

	for _, g := range f.Goals {
		mergeGoal(&out, g)
	}

	return out
}

func mergeGoal(p *Profile, incoming Goal) {
	key := incoming.Key()
	if key == "" {
		return
	}

	for i := range p.Goals {
		if p.Goals[i].Key() != key {
			continue
		}
		if incoming.RequiredValue != nil {
			p.Goals[i].RequiredValue = copyFloat(incoming.RequiredValue)
		}
		if incoming.Deadline != "" {
			p.Goals[i].Deadline = incoming.Deadline
		}
		p.Goals[i].Confirmed = true
		return
	}

	appended := incoming
	appended.RequiredValue = copyFloat(incoming.RequiredValue)
	appended.Confirmed = true
	p.Goals = append(p.Goals, appended)
}
