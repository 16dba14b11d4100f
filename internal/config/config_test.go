package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/noshowboard/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	// Point at a nonexistent config file so only defaults apply.
	c, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.InputCSV == "" || c.OutputCSV == "" {
		t.Fatalf("expected default paths, got %+v", c)
	}
	if c.ListenAddr != ":8001" {
		t.Fatalf("listen addr default: got %q", c.ListenAddr)
	}
	if len(c.CORSOrigins) == 0 {
		t.Fatalf("expected default cors origins, got %+v", c.CORSOrigins)
	}
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	content := "input_csv: /data/in.csv\noutput_csv: /data/out.csv\nlisten_addr: \":9000\"\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := config.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.InputCSV != "/data/in.csv" || c.OutputCSV != "/data/out.csv" || c.ListenAddr != ":9000" {
		t.Fatalf("file values not applied: %+v", c)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("input_csv: /data/in.csv\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NOSHOWBOARD_INPUT_CSV", "/env/in.csv")
	c, err := config.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.InputCSV != "/env/in.csv" {
		t.Fatalf("env should win over file: got %q", c.InputCSV)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	in := &config.Config{
		InputCSV:    "/data/in.csv",
		OutputCSV:   "/data/out.csv",
		ListenAddr:  ":7777",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	if err := config.Save(in, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	c, err := config.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.InputCSV != in.InputCSV || c.OutputCSV != in.OutputCSV || c.ListenAddr != in.ListenAddr {
		t.Fatalf("round trip mismatch: %+v", c)
	}
}
