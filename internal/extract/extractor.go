package extract

import (
	"regexp"
	"strings"

	"github.com/biafin/bia/internal/profile"
)

// InvestorProfiles is the closed set of accepted investor profile values.
var InvestorProfiles = []string{"conservador", "moderado", "arrojado"}

// Extractor turns raw user text into a partial, untrusted field set.
// Detection never fails a turn: a token that cannot be parsed confidently
// simply leaves its field absent.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Brazilian numeric format: "." thousands separator, "," decimal separator.
const numPattern = `(-?\d+(?:\.\d{3})*(?:,\d{2})?)`

// Pattern lists are ordered: the first matching pattern wins, not the best
// match. This is a documented tie-break policy preserved from day one.
var (
	incomePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:renda|sal[aá]rio|ganho)[^\d-]*?(?:de|é|:)?\s*r?\$?\s*` + numPattern),
		regexp.MustCompile(`(?:renda|sal[aá]rio|ganho).*?` + numPattern + `\s*(?:reais|por\s+m[eê]s)`),
	}

	profilePhrasings = []string{
		`perfil\s+%s`,
		`perfil\s+é\s+%s`,
		`sou\s+%s`,
		`%s\s+investidor`,
		`investidor\s+%s`,
		`me\s+considero.*?%s`,
	}

	goalValuePattern  = regexp.MustCompile(`(?:meta|juntar|economizar|guardar)[^\d]*?r?\$?\s*(\d+(?:\.\d{3})*(?:,\d{2})?).*?(?:at[eé]|para)?\s*(\d{4})`)
	goalIntentPattern = regexp.MustCompile(`(?:quero|preciso|desejo).*?(?:comprar|adquirir).*?(carro|casa|apartamento|im[oó]vel)`)

	agePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:tenho|idade)\s*(?:de|é)?\s*(\d+)\s*anos`),
		regexp.MustCompile(`idade:?\s*(\d+)`),
	}

	professionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:[Ss]ou|[Tt]rabalho\s+como|[Pp]rofiss[aã]o\s*(?:é|:)?)\s+([A-ZÀÁÂÃÄÅÈÉÊËÌÍÎÏÒÓÔÕÖÙÚÛÜ][a-zàáâãäåèéêëìíîïòóôõöùúûü]+(?:\s+[a-zàáâãäåèéêëìíîïòóôõöùúûü]+)*)`),
		regexp.MustCompile(`[Pp]rofiss[aã]o:?\s*([^.,\n]+)`),
	}

	netWorthPattern = regexp.MustCompile(`patrim[oô]nio[^\d]*?` + `(\d+(?:\.\d{3})*(?:,\d{2})?)`)

	reservePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:reserva|emerg[eê]ncia)[^\d]*?(\d+(?:\.\d{3})*(?:,\d{2})?)`),
		regexp.MustCompile(`(\d+(?:\.\d{3})*(?:,\d{2})?)[^\d]*?(?:reserva|emerg[eê]ncia)`),
	}

	// Common capitalized words that are not professions.
	professionStoplist = map[string]struct{}{
		"João": {}, "Maria": {}, "Silva": {}, "Santos": {},
		"Um": {}, "Uma": {}, "O": {}, "A": {},
	}

	// Keywords searched in the text preceding a goal amount to derive a
	// description.
	goalContextWords = []string{"casa", "apartamento", "carro", "viagem", "emergência", "reserva"}
)

var profilePatterns = compileProfilePatterns()

func compileProfilePatterns() map[string][]*regexp.Regexp {
	out := make(map[string][]*regexp.Regexp, len(InvestorProfiles))
	for _, value := range InvestorProfiles {
		pats := make([]*regexp.Regexp, 0, len(profilePhrasings))
		for _, tmpl := range profilePhrasings {
			pats = append(pats, regexp.MustCompile(strings.ReplaceAll(tmpl, "%s", value)))
		}
		out[value] = pats
	}
	return out
}

// Detect extracts every field it is confident about from the message.
// Absent keys mean "not found"; Detect never returns an error.
func (e *Extractor) Detect(text string) profile.FieldSet {
	if strings.TrimSpace(text) == "" {
		return profile.FieldSet{}
	}

	lower := strings.ToLower(text)
	var fields profile.FieldSet

	if v, ok := detectIncome(lower); ok {
		fields.MonthlyIncome = &v
	}
	if v, ok := detectInvestorProfile(lower); ok {
		fields.InvestorProfile = v
	}
	fields.Goals = detectGoals(lower, text)
	if v, ok := detectAge(lower); ok {
		fields.Age = &v
	}
	if v, ok := detectProfession(text); ok {
		fields.Profession = v
	}
	if v, ok := detectNetWorth(lower); ok {
		fields.NetWorth = &v
	}
	if v, ok := detectEmergencyReserve(lower); ok {
		fields.EmergencyReserve = &v
	}

	return fields
}

func detectIncome(lower string) (float64, bool) {
	for _, p := range incomePatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if v, ok := parseDecimal(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}

func detectInvestorProfile(lower string) (string, bool) {
	for _, value := range InvestorProfiles {
		for _, p := range profilePatterns[value] {
			if p.MatchString(lower) {
				return value, true
			}
		}
	}
	return "", false
}

// detectGoals runs both goal detectors; they are independent and may both
// fire on the same message.
func detectGoals(lower, original string) []profile.Goal {
	var goals []profile.Goal

	for _, idx := range goalValuePattern.FindAllStringSubmatchIndex(lower, -1) {
		valueStr := lower[idx[2]:idx[3]]
		deadline := lower[idx[4]:idx[5]]

		value, ok := parseDecimal(valueStr)
		if !ok {
			continue
		}

		goals = append(goals, profile.Goal{
			Description:   goalDescription(original, idx[0]),
			RequiredValue: &value,
			Deadline:      deadline,
		})
	}

	if m := goalIntentPattern.FindStringSubmatch(lower); m != nil {
		goals = append(goals, profile.Goal{
			Description: "Comprar " + m[1],
		})
	}

	return goals
}

// goalDescription derives a description from the text preceding the match.
func goalDescription(text string, matchStart int) string {
	start := matchStart - 50
	if start < 0 {
		start = 0
	}
	context := strings.ToLower(text[start:matchStart])
	for _, word := range goalContextWords {
		if strings.Contains(context, word) {
			return "Meta de " + word
		}
	}
	return "Meta informada pelo usuário"
}

func detectAge(lower string) (int, bool) {
	for _, p := range agePatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		age := 0
		for _, c := range m[1] {
			age = age*10 + int(c-'0')
		}
		return age, true
	}
	return 0, false
}

func detectProfession(text string) (string, bool) {
	for _, p := range professionPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		profession := strings.TrimSpace(m[1])
		if _, excluded := professionStoplist[profession]; excluded {
			continue
		}
		if len([]rune(profession)) <= 2 {
			continue
		}
		return profession, true
	}
	return "", false
}

func detectNetWorth(lower string) (float64, bool) {
	m := netWorthPattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	return parseDecimal(m[1])
}

func detectEmergencyReserve(lower string) (float64, bool) {
	for _, p := range reservePatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if v, ok := parseDecimal(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}
