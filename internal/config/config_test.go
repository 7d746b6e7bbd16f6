package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/calclab/internal/expr"
	"github.com/san-kum/calclab/internal/quad"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Subdivisions != 1000 {
		t.Errorf("expected 1000 subdivisions, got %d", cfg.Subdivisions)
	}
	if cfg.RiemannSteps != 10 {
		t.Errorf("expected 10 riemann steps, got %d", cfg.RiemannSteps)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calclab.yaml")
	data := []byte(`
subdivisions: 200
plot:
  width: 60
examples:
  - name: gauss
    expr: exp(-x^2)
    a: -2
    b: 2
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Subdivisions != 200 {
		t.Errorf("expected 200 subdivisions, got %d", cfg.Subdivisions)
	}
	if cfg.Plot.Width != 60 {
		t.Errorf("expected width 60, got %d", cfg.Plot.Width)
	}
	if cfg.Plot.Height != DefaultPlotHeight {
		t.Errorf("expected default height, got %d", cfg.Plot.Height)
	}
	if cfg.RiemannSteps != quad.DefaultRiemannSteps {
		t.Errorf("expected default riemann steps, got %d", cfg.RiemannSteps)
	}

	all := cfg.AllExamples()
	if len(all) != len(Examples)+1 {
		t.Fatalf("expected %d examples, got %d", len(Examples)+1, len(all))
	}
	if ex, ok := FindExample(all, "gauss"); !ok || ex.B != 2 {
		t.Errorf("configured example not found: %+v", ex)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("subdivisions: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Plot.Theme = "ocean"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Plot.Theme != "ocean" {
		t.Errorf("expected theme ocean, got %s", loaded.Plot.Theme)
	}
}

func TestExamplesCompileAndIntegrate(t *testing.T) {
	for _, ex := range Examples {
		f, err := expr.Compile(ex.Expr)
		if err != nil {
			t.Errorf("%s: %v", ex.Name, err)
			continue
		}
		if _, err := quad.Integrate(f, ex.A, ex.B, 0); err != nil {
			t.Errorf("%s on [%g, %g]: %v", ex.Name, ex.A, ex.B, err)
		}
	}
}

func TestFindExample(t *testing.T) {
	if _, ok := FindExample(Examples, "sin(x)"); !ok {
		t.Error("expected to find sin(x)")
	}
	if ex, ok := FindExample(Examples, "x^3 - 2*x^2 + x"); !ok || ex.A != -1 {
		t.Error("expected to find cubic by expression")
	}
	if _, ok := FindExample(Examples, "nope"); ok {
		t.Error("expected no match")
	}
}

func TestVisualizeOptions(t *testing.T) {
	cfg := DefaultConfig()
	if opts := cfg.VisualizeOptions(false); opts.RiemannSteps != 0 {
		t.Errorf("expected no riemann steps, got %d", opts.RiemannSteps)
	}
	if opts := cfg.VisualizeOptions(true); opts.RiemannSteps != cfg.RiemannSteps {
		t.Errorf("expected %d riemann steps, got %d", cfg.RiemannSteps, opts.RiemannSteps)
	}
}
