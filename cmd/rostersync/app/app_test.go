package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/internal/config"
	"github.com/agentstation/rostersync/internal/fake"
	"github.com/agentstation/rostersync/pkg/errors"
)

// isolate keeps New away from the developer's own config and .env files.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func settings() *config.Config {
	return &config.Config{
		Veracross: config.Veracross{
			BaseURL:  "https://api.veracross.com",
			School:   "demo",
			Username: "u",
			Password: "p",
		},
		Lightspeed: config.Lightspeed{
			BaseURL:     "https://api.lightspeedapp.com",
			AccountID:   "1",
			AccessToken: "t",
		},
		ImportOptions: config.ImportOptions{ExternalIDField: "Veracross ID", LastSyncField: "Last Sync"},
	}
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	isolate(t)
	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Settings() == nil {
		t.Fatal("Settings() returned nil")
	}
	if app.Settings().Export.Format != "csv" {
		t.Errorf("Export.Format = %q, want the csv default", app.Settings().Export.Format)
	}
}

// TestApp_Client_ThreadSafe verifies concurrent Client() calls build one instance.
func TestApp_Client_ThreadSafe(t *testing.T) {
	isolate(t)
	app, err := New("1.0.0", "test", "2024-01-01", "test", WithSettings(settings()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]rostersync.Client, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = app.Client()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Goroutine %d: Client() failed: %v", i, err)
		}
	}
	for i, c := range results[1:] {
		if c != results[0] {
			t.Errorf("Goroutine %d got different client instance", i+1)
		}
	}

	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
}

// TestApp_Client_ExportOnly verifies a missing roster source only blocks sync.
func TestApp_Client_ExportOnly(t *testing.T) {
	isolate(t)
	s := settings()
	s.Veracross = config.Veracross{}
	app, err := New("1.0.0", "test", "2024-01-01", "test", WithSettings(s))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	client, err := app.Client()
	if err != nil {
		t.Fatalf("Client() failed: %v", err)
	}
	if _, err := client.Sync(context.Background(), rostersync.SyncRequest{}); !errors.IsConfigError(err) {
		t.Errorf("Sync() error = %v, want ConfigError", err)
	}
}

// TestApp_Client_Errors verifies bad connection settings surface as config errors.
func TestApp_Client_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"missing lightspeed account", func(c *config.Config) { c.Lightspeed.AccountID = "" }},
		{"missing veracross school", func(c *config.Config) { c.Veracross.School = "" }},
		{"bad credit amount", func(c *config.Config) { c.ImportOptions.CreditAmount = "lots" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			s := settings()
			tt.modify(s)
			app, err := New("1.0.0", "test", "2024-01-01", "test", WithSettings(s))
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if _, err := app.Client(); !errors.IsConfigError(err) {
				t.Errorf("Client() error = %v, want ConfigError", err)
			}
		})
	}
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := app.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestApp_WithClient verifies an injected client is returned as is.
func TestApp_WithClient(t *testing.T) {
	isolate(t)
	injected, err := rostersync.New(nil, fake.NewPOS())
	if err != nil {
		t.Fatalf("rostersync.New() failed: %v", err)
	}
	app, err := New("1.0.0", "test", "2024-01-01", "test", WithClient(injected))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got, err := app.Client()
	if err != nil || got != injected {
		t.Errorf("Client() = %v, %v; want the injected client", got, err)
	}
}

// TestExecute_Version verifies the version command and -v details.
func TestExecute_Version(t *testing.T) {
	isolate(t)
	app, err := New("1.2.3", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	out, err := execute(t, app, "version", "-v", "--log-level", "error")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "rostersync 1.2.3") {
		t.Errorf("output %q missing version", out)
	}
	if !strings.Contains(out, "abc123") {
		t.Errorf("output %q missing commit under -v", out)
	}
}

// TestExecute_ConfigFlag verifies --config reloads settings before the command.
func TestExecute_ConfigFlag(t *testing.T) {
	dir := isolate(t)
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	path := filepath.Join(dir, "custom.yaml")
	yaml := "import_options:\n  external_id_field: Veracross ID\nexport:\n  shop_name: Campus Store\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, app, "version", "--config", path, "--log-level", "error"); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if app.Settings().File != path {
		t.Errorf("File = %q, want %q", app.Settings().File, path)
	}
	if app.Settings().Export.ShopName != "Campus Store" {
		t.Errorf("ShopName = %q, want Campus Store", app.Settings().Export.ShopName)
	}
}

// TestExecute_Errors verifies setup failures stop the command.
func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing config file", []string{"version", "--config", "/nonexistent/rostersync.yaml"}},
		{"unknown output format", []string{"version", "-o", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			app, err := New("1.0.0", "test", "2024-01-01", "test")
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if _, err := execute(t, app, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// TestExecute_Commands verifies every command is registered.
func TestExecute_Commands(t *testing.T) {
	isolate(t)
	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	root := app.createRootCommand()
	for _, name := range []string{"sync", "prune", "export", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
