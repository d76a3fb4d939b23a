package pricing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRates(t *testing.T) {
	table := NewTable()

	mini := table.Rates("gpt-4o-mini")
	if mini.InputPerKTokens != 0.000150 || mini.OutputPerKTokens != 0.000600 {
		t.Errorf("gpt-4o-mini rates = %+v", mini)
	}

	full := table.Rates("gpt-4o")
	if full.InputPerKTokens != 0.0025 || full.OutputPerKTokens != 0.010 {
		t.Errorf("gpt-4o rates = %+v", full)
	}
}

func TestUnknownModelFallsBackToDefault(t *testing.T) {
	table := NewTable()

	got := table.Rates("nonexistent-model")
	want := table.Rates(DefaultModel)
	if got != want {
		t.Errorf("unknown model rates = %+v, want default %+v", got, want)
	}
}

func TestSetOverridesRates(t *testing.T) {
	table := NewTable()
	table.Set("gpt-4o-mini", Rates{InputPerKTokens: 0.001, OutputPerKTokens: 0.002})

	got := table.Rates("gpt-4o-mini")
	if got.InputPerKTokens != 0.001 || got.OutputPerKTokens != 0.002 {
		t.Errorf("rates = %+v", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	content := `models:
  gpt-4o-mini:
    input_per_k_tokens: 0.0002
    output_per_k_tokens: 0.0008
  custom-model:
    input_per_k_tokens: 0.001
    output_per_k_tokens: 0.004
  broken-model:
    input_per_k_tokens: -1
    output_per_k_tokens: 0.1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table := NewTable()
	if err := table.LoadFromFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := table.Rates("gpt-4o-mini"); got.InputPerKTokens != 0.0002 {
		t.Errorf("override not applied: %+v", got)
	}
	if got := table.Rates("custom-model"); got.OutputPerKTokens != 0.004 {
		t.Errorf("new model not added: %+v", got)
	}
	// Negative rows are skipped, so the unknown model falls back to default.
	if got := table.Rates("broken-model"); got != table.Rates(DefaultModel) {
		t.Errorf("negative row should be skipped: %+v", got)
	}
	// Untouched defaults survive the merge.
	if got := table.Rates("gpt-4o"); got.InputPerKTokens != 0.0025 {
		t.Errorf("unrelated default clobbered: %+v", got)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	table := NewTable()
	if err := table.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
