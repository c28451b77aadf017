package refdata

import "strings"

// KeywordList is the content of a functions (F<role>) or profile
// (P<role>) reference document.
type KeywordList []string

// Indicator is one named keyword set evaluated for a role in a chapter.
type Indicator struct {
	Name     string
	Keywords []string
}

// IndicatorTable maps chapter -> role -> indicators, in document order.
type IndicatorTable map[string]map[string][]Indicator

// AdviceTable maps role -> indicator name -> advice lines.
type AdviceTable map[string]map[string][]string

// Bundle is everything needed to evaluate one role in one chapter.
type Bundle struct {
	Role        string
	Chapter     string
	Functions   KeywordList
	Profile     KeywordList
	Indicators  []Indicator
	Advice      map[string][]string
	Fingerprint string
}

// AdviceFor returns the advice lines for an indicator. ok is false when
// the role has no advice for it.
func (b Bundle) AdviceFor(indicator string) ([]string, bool) {
	lines, ok := b.Advice[indicator]
	return lines, ok
}

// Catalog lists the accepted roles and chapters and how reference documents
// are named.
type Catalog struct {
	Roles           []string
	Chapters        []string
	FunctionsPrefix string
	ProfilePrefix   string
	IndicatorsFile  string
	AdviceFile      string
}

var DefaultRoles = []string{"PC", "IC", "CCP", "DCA", "DCC", "DCD", "DCF", "DCM"}

var DefaultChapters = []string{
	"UNIGUAJIRA", "UNIMAGDALENA", "UNINORTE", "UNIATLÁNTICO", "CUC", "UNISIMÓN",
	"LIBREQUILLA", "UTB", "UFPS", "UNALMED", "UPBMED", "UDEA", "UTP", "UNALMA",
	"LIBRECALI", "UNIVALLE", "ICESI", "UAO", "USC", "UDISTRITAL", "UNALBOG",
	"UPBMONTERÍA", "AREANDINA", "UNICÓDOBA",
}

// DefaultCatalog returns the standard role and chapter enumerations with
// the F<role>.json / P<role>.json naming scheme.
func DefaultCatalog() Catalog {
	return Catalog{
		Roles:           append([]string(nil), DefaultRoles...),
		Chapters:        append([]string(nil), DefaultChapters...),
		FunctionsPrefix: "F",
		ProfilePrefix:   "P",
		IndicatorsFile:  "indicators.json",
		AdviceFile:      "advice.json",
	}
}

func (c Catalog) withDefaults() Catalog {
	def := DefaultCatalog()
	if len(c.Roles) == 0 {
		c.Roles = def.Roles
	}
	if len(c.Chapters) == 0 {
		c.Chapters = def.Chapters
	}
	if c.FunctionsPrefix == "" {
		c.FunctionsPrefix = def.FunctionsPrefix
	}
	if c.ProfilePrefix == "" {
		c.ProfilePrefix = def.ProfilePrefix
	}
	if c.IndicatorsFile == "" {
		c.IndicatorsFile = def.IndicatorsFile
	}
	if c.AdviceFile == "" {
		c.AdviceFile = def.AdviceFile
	}
	return c
}

// FunctionsDocument returns the document name holding the role functions.
func (c Catalog) FunctionsDocument(role string) string {
	return c.FunctionsPrefix + role + ".json"
}

// ProfileDocument returns the document name holding the role profile.
func (c Catalog) ProfileDocument(role string) string {
	return c.ProfilePrefix + role + ".json"
}

// Documents lists every reference document the catalog expects.
func (c Catalog) Documents() []string {
	c = c.withDefaults()
	out := make([]string, 0, 2*len(c.Roles)+2)
	for _, role := range c.Roles {
		out = append(out, c.FunctionsDocument(role), c.ProfileDocument(role))
	}
	return append(out, c.IndicatorsFile, c.AdviceFile)
}

// NormalizeRole returns the canonical role code, or "" if it is unknown.
func (c Catalog) NormalizeRole(role string) string {
	return lookup(c.Roles, role)
}

// NormalizeChapter returns the canonical chapter code, or "" if it is unknown.
func (c Catalog) NormalizeChapter(chapter string) string {
	return lookup(c.Chapters, chapter)
}

func lookup(values []string, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	for _, candidate := range values {
		if candidate == v {
			return candidate
		}
	}
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return candidate
		}
	}
	return ""
}
