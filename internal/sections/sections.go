package sections

import "strings"

// DefaultHeaders is the ordered list of section headers found in the
// standard HV template.
var DefaultHeaders = []string{
	"Perfil",
	"Estudios realizados",
	"Actualización profesional",
	"Eventos organizados",
	"Experiencia en ANEIAP",
	"Experiencia laboral",
	"Firma",
}

// Splitter cuts raw extracted text into named sections using an ordered list
// of literal headers. Matching is case-sensitive on the raw text.
type Splitter struct {
	Headers []string
}

// New returns a Splitter for the given headers, falling back to
// DefaultHeaders when none are provided.
func New(headers []string) Splitter {
	cleaned := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			cleaned = append(cleaned, h)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultHeaders...)
	}
	return Splitter{Headers: cleaned}
}

// Section is the text found between a header and the next header.
type Section struct {
	Name string
	Text string
}

// Sections keeps the split result in header order.
type Sections []Section

// Split returns one section per adjacent header pair, named after the first
// header of the pair. The last header only acts as an end marker.
func (s Splitter) Split(raw string) Sections {
	if len(s.Headers) < 2 {
		return nil
	}
	out := make(Sections, 0, len(s.Headers)-1)
	for i := 0; i < len(s.Headers)-1; i++ {
		out = append(out, Section{
			Name: s.Headers[i],
			Text: Between(raw, s.Headers[i], s.Headers[i+1]),
		})
	}
	return out
}

// Between returns the text after the first occurrence of start and before
// the first occurrence of end anywhere in raw. If start is missing the
// result is empty; if end is missing everything after start is returned.
// An end that first occurs before start has finished yields "".
func Between(raw, start, end string) string {
	idx := strings.Index(raw, start)
	if idx < 0 {
		return ""
	}
	from := idx + len(start)
	if end == "" {
		return raw[from:]
	}
	stop := strings.Index(raw, end)
	if stop < 0 {
		return raw[from:]
	}
	if stop < from {
		return ""
	}
	return raw[from:stop]
}

// Get returns the text of the named section, or "" when it is unknown.
func (ss Sections) Get(name string) string {
	for _, sec := range ss {
		if sec.Name == name {
			return sec.Text
		}
	}
	return ""
}

// Join concatenates the named sections with a single space, in the order
// requested. Unknown or empty sections are skipped.
func (ss Sections) Join(names ...string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if text := ss.Get(name); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Found lists the names of sections that produced non-blank text.
func (ss Sections) Found() []string {
	var names []string
	for _, sec := range ss {
		if strings.TrimSpace(sec.Text) != "" {
			names = append(names, sec.Name)
		}
	}
	return names
}

// Names lists every section name in order.
func (ss Sections) Names() []string {
	names := make([]string, 0, len(ss))
	for _, sec := range ss {
		names = append(names, sec.Name)
	}
	return names
}

// Map applies fn to the text of every section and returns a new value.
func (ss Sections) Map(fn func(string) string) Sections {
	out := make(Sections, len(ss))
	for i, sec := range ss {
		out[i] = Section{Name: sec.Name, Text: fn(sec.Text)}
	}
	return out
}
