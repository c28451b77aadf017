package refdata

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

type memSource struct {
	mu    sync.Mutex
	docs  map[string]string
	reads map[string]int
}

func newMemSource(docs map[string]string) *memSource {
	return &memSource{docs: docs, reads: map[string]int{}}
}

func (m *memSource) Read(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[name]++
	doc, ok := m.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingReference, name)
	}
	return []byte(doc), nil
}

func (m *memSource) Write(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[name] = string(data)
	return nil
}

func fixtureDocs() map[string]string {
	return map[string]string{
		"FPC.json": `{"contenido": ["Liderar el capítulo", "Gestión de proyectos"]}`,
		"PPC.json": `{"contenido": ["Liderazgo de equipos", "Comunicación asertiva"]}`,
		"indicators.json": `{
			"UNINORTE": {
				"PC": {
					"Zeta": ["planeación estratégica"],
					"Alfa": ["gestión de recursos"],
					"Medio": ["trabajo en equipo"]
				}
			},
			"UNIVALLE": {"IC": {"Innovación": ["proyectos de innovación"]}}
		}`,
		"advice.json": `{"PC": {"Zeta": ["Participa en la planeación del capítulo."]}}`,
	}
}

func testCatalog() Catalog {
	c := DefaultCatalog()
	c.Roles = []string{"PC", "IC"}
	c.Chapters = []string{"UNINORTE", "UNIVALLE"}
	return c
}

func TestDecodeIndicatorsKeepsOrder(t *testing.T) {
	table, err := DecodeIndicators([]byte(fixtureDocs()["indicators.json"]))
	if err != nil {
		t.Fatalf("DecodeIndicators: %v", err)
	}
	var names []string
	for _, ind := range table["UNINORTE"]["PC"] {
		names = append(names, ind.Name)
	}
	if !reflect.DeepEqual(names, []string{"Zeta", "Alfa", "Medio"}) {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		decode func([]byte) error
		input  string
	}{
		{name: "keywords not json", decode: func(b []byte) error { _, err := DecodeKeywordList(b); return err }, input: `{`},
		{name: "keywords missing contenido", decode: func(b []byte) error { _, err := DecodeKeywordList(b); return err }, input: `{"items": []}`},
		{name: "keywords wrong type", decode: func(b []byte) error { _, err := DecodeKeywordList(b); return err }, input: `{"contenido": [1, 2]}`},
		{name: "indicators array", decode: func(b []byte) error { _, err := DecodeIndicators(b); return err }, input: `[]`},
		{name: "indicators nested string", decode: func(b []byte) error { _, err := DecodeIndicators(b); return err }, input: `{"UNINORTE": {"PC": "x"}}`},
		{name: "indicators keyword type", decode: func(b []byte) error { _, err := DecodeIndicators(b); return err }, input: `{"UNINORTE": {"PC": {"A": [true]}}}`},
		{name: "indicators trailing data", decode: func(b []byte) error { _, err := DecodeIndicators(b); return err }, input: `{} {}`},
		{name: "advice null", decode: func(b []byte) error { _, err := DecodeAdvice(b); return err }, input: `null`},
		{name: "advice wrong shape", decode: func(b []byte) error { _, err := DecodeAdvice(b); return err }, input: `{"PC": ["x"]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.decode([]byte(tt.input)); !errors.Is(err, ErrMalformedReference) {
				t.Fatalf("expected ErrMalformedReference, got %v", err)
			}
		})
	}
}

func TestLoaderLoadBundle(t *testing.T) {
	loader := NewLoader(newMemSource(fixtureDocs()), testCatalog())

	bundle, err := loader.Load(context.Background(), "pc", "uninorte")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bundle.Role != "PC" || bundle.Chapter != "UNINORTE" {
		t.Fatalf("expected canonical codes, got %s/%s", bundle.Role, bundle.Chapter)
	}
	if len(bundle.Functions) != 2 || len(bundle.Profile) != 2 || len(bundle.Indicators) != 3 {
		t.Fatalf("unexpected bundle %+v", bundle)
	}
	if lines, ok := bundle.AdviceFor("Zeta"); !ok || len(lines) != 1 {
		t.Fatalf("expected advice for Zeta")
	}
	if _, ok := bundle.AdviceFor("Alfa"); ok {
		t.Fatalf("expected no advice for Alfa")
	}
	if len(bundle.Fingerprint) != 12 {
		t.Fatalf("expected short fingerprint, got %q", bundle.Fingerprint)
	}

	other, err := loader.Load(context.Background(), "IC", "UNIVALLE")
	if err != nil {
		t.Fatalf("Load IC: %v", err)
	}
	if other.Advice == nil {
		t.Fatalf("expected empty advice map for role without advice")
	}
}

func TestLoaderConfigErrors(t *testing.T) {
	t.Parallel()

	missingProfile := fixtureDocs()
	delete(missingProfile, "PPC.json")
	brokenAdvice := fixtureDocs()
	brokenAdvice["advice.json"] = `{"PC": `
	blankFunctions := fixtureDocs()
	blankFunctions["FPC.json"] = "  "

	tests := []struct {
		name       string
		docs       map[string]string
		role       string
		chapter    string
		want       error
		userFacing bool
	}{
		{name: "unknown role", docs: fixtureDocs(), role: "XX", chapter: "UNINORTE", want: ErrUnknownRole, userFacing: true},
		{name: "unknown chapter", docs: fixtureDocs(), role: "PC", chapter: "NOWHERE", want: ErrUnknownChapter, userFacing: true},
		{name: "missing document", docs: missingProfile, role: "PC", chapter: "UNINORTE", want: ErrMissingReference},
		{name: "malformed document", docs: brokenAdvice, role: "PC", chapter: "UNINORTE", want: ErrMalformedReference},
		{name: "blank document", docs: blankFunctions, role: "PC", chapter: "UNINORTE", want: ErrMalformedReference},
		{name: "chapter absent from table", docs: fixtureDocs(), role: "PC", chapter: "UNIVALLE", want: ErrMissingReference},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			loader := NewLoader(newMemSource(tt.docs), testCatalog())
			_, err := loader.Load(context.Background(), tt.role, tt.chapter)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || !IsConfigError(err) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if cfgErr.UserFacing() != tt.userFacing {
				t.Fatalf("expected UserFacing=%v", tt.userFacing)
			}
		})
	}
}

func TestLoaderCachesUntilReload(t *testing.T) {
	src := newMemSource(fixtureDocs())
	loader := NewLoader(src, testCatalog())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := loader.Load(ctx, "PC", "UNINORTE"); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	if src.reads["indicators.json"] != 1 {
		t.Fatalf("expected one read, got %d", src.reads["indicators.json"])
	}

	first, _ := loader.Load(ctx, "PC", "UNINORTE")
	src.docs["FPC.json"] = `{"contenido": ["Nueva función del presidente"]}`
	if dropped := loader.Reload(); dropped != 4 {
		t.Fatalf("expected 4 cached documents dropped, got %d", dropped)
	}
	second, err := loader.Load(ctx, "PC", "UNINORTE")
	if err != nil {
		t.Fatalf("Load after reload: %v", err)
	}
	if src.reads["indicators.json"] != 2 {
		t.Fatalf("expected a second read after reload")
	}
	if len(second.Functions) != 1 || first.Fingerprint == second.Fingerprint {
		t.Fatalf("expected updated functions and fingerprint")
	}
}

func TestLoaderWarmAndCheck(t *testing.T) {
	docs := fixtureDocs()
	loader := NewLoader(newMemSource(docs), testCatalog())
	err := loader.Warm(context.Background())
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected missing IC documents, got %v", err)
	}

	docs["FIC.json"] = `{"contenido": []}`
	docs["PIC.json"] = `{"contenido": []}`
	loader.Reload()
	if err := loader.Warm(context.Background()); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if err := loader.Check(context.Background()); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected Check to report missing chapter/role pairs, got %v", err)
	}
}

func TestCatalogDocuments(t *testing.T) {
	docs := testCatalog().Documents()
	want := []string{"FPC.json", "PPC.json", "FIC.json", "PIC.json", "indicators.json", "advice.json"}
	if !reflect.DeepEqual(docs, want) {
		t.Fatalf("unexpected documents %v", docs)
	}
	if got := DefaultCatalog().NormalizeChapter("uniatlántico"); got != "UNIATLÁNTICO" {
		t.Fatalf("expected case-insensitive chapter lookup, got %q", got)
	}
}
