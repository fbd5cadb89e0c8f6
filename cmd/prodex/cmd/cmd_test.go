package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/prodex/internal/config"
	dbMemory "github.com/kailas-cloud/prodex/internal/db/memory"
	"github.com/kailas-cloud/prodex/internal/format"
)

const testCatalogYAML = `products:
  - id: "1"
    name: Clarifying Gel Cleanser
    brand: ClearSkin
    category: cleanser
    description: Oil control cleanser for acne prone skin
    price: 15
    rating: 4.6
    skinTypes: [oily]
    concerns: [acne]
    keyIngredients: [salicylic acid]
    inStock: true
  - id: "2"
    name: Rich Repair Cream
    brand: Velvet
    category: moisturizer
    description: Deep hydration for very dry skin
    price: 42
    rating: 4.2
    skinTypes: [dry]
    concerns: [dryness]
    keyIngredients: [shea butter]
    inStock: true
  - id: ""
    name: Missing Id
    category: serum
`

// writeConfig lays out a catalog and a memory-backed config in a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte(testCatalogYAML), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "http:\n  port: 8080\ndatabase:\n  driver: memory\ncatalog:\n  path: " + catalogPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "prodex ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestIngestCommand(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := execute(t, "--env", "test", "--config", cfgPath, "ingest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Ingested: 2") || !strings.Contains(out, "Skipped:  1") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRetrieveCommand_JSON(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := execute(t, "--env", "test", "--config", cfgPath, "retrieve",
		"--skin-type", "dry", "--concern", "dryness", "--limit", "1", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp format.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(resp.Products) != 1 || resp.Products[0].Brand != "Velvet" {
		t.Errorf("expected the dry-skin cream, got %+v", resp.Products)
	}
}

func TestRetrieveCommand_Chat(t *testing.T) {
	cfgPath := writeConfig(t)

	out, err := execute(t, "--env", "test", "--config", cfgPath, "retrieve",
		"--skin-type", "oily", "--concern", "acne", "--limit", "3", "--format", "chat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "ClearSkin") {
		t.Errorf("expected a ClearSkin recommendation, got:\n%s", out)
	}
}

func TestRetrieveCommand_BadFlags(t *testing.T) {
	cfgPath := writeConfig(t)

	if _, err := execute(t, "--env", "test", "--config", cfgPath, "retrieve", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := execute(t, "--env", "test", "--config", cfgPath, "retrieve",
		"--format", "json", "--source", "everywhere"); err == nil {
		t.Error("expected error for unknown source filter")
	}
	source = "all"
}

func TestOpenDatabase(t *testing.T) {
	kv, err := openDatabase(&config.DatabaseConfig{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := kv.(*dbMemory.Store); !ok {
		t.Errorf("expected memory store, got %T", kv)
	}

	kv, err = openDatabase(&config.DatabaseConfig{Driver: config.DriverBolt, Path: filepath.Join(t.TempDir(), "p.bolt")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kv.Close()

	if _, err := openDatabase(&config.DatabaseConfig{Driver: "mongo"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestSurveyFromFlags(t *testing.T) {
	skinType, concerns, vegan, budget = "oily", []string{"acne"}, true, "mid"
	t.Cleanup(func() { skinType, concerns, vegan, budget = "", nil, false, "" })

	sv := surveyFromFlags()
	if sv.SkinType != "oily" || len(sv.Concerns) != 1 || !sv.Preferences.Vegan || sv.Preferences.BudgetRange != "mid" {
		t.Errorf("unexpected survey %+v", sv)
	}
}
