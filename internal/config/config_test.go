package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/procview/internal/intent"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if cfg.Refresh.Interval != time.Second {
		t.Errorf("Refresh.Interval = %v, want 1s", cfg.Refresh.Interval)
	}
	if !cfg.View.Hierarchical {
		t.Error("View.Hierarchical should be true by default")
	}
	if cfg.View.ShowThreads {
		t.Error("View.ShowThreads should be false by default")
	}
	if cfg.View.Sort != intent.DefaultSortMethod() {
		t.Errorf("View.Sort = %v, want %v", cfg.View.Sort, intent.DefaultSortMethod())
	}
	if !cfg.View.Remember {
		t.Error("View.Remember should be true by default")
	}
	if !cfg.TUI.ConfirmKill {
		t.Error("TUI.ConfirmKill should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestInitialState(t *testing.T) {
	cfg := Default()
	cfg.View.Hierarchical = false
	cfg.View.ShowThreads = true
	cfg.View.Sort = intent.SortMethod{Category: intent.SortByName, Direction: intent.Ascending}

	st := cfg.InitialState()
	if st.Hierarchical || !st.ShowThreads || st.Sort != cfg.View.Sort {
		t.Errorf("InitialState() = %+v", st)
	}
	if !st.ContinueRefreshing {
		t.Error("InitialState should keep refreshing")
	}
	if st.HasSelection {
		t.Error("InitialState should have no selection")
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() = %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("LoadFrom() = %+v, want %+v", cfg, want)
	}
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
refresh:
  interval: 250ms
view:
  hierarchical: false
  sort: mem:asc
process:
  workers: 8
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	Setup(v, path)
	if err := ReadInConfig(v); err != nil {
		t.Fatalf("ReadInConfig() = %v", err)
	}
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() = %v", err)
	}

	if cfg.Refresh.Interval != 250*time.Millisecond {
		t.Errorf("Refresh.Interval = %v", cfg.Refresh.Interval)
	}
	if cfg.View.Hierarchical {
		t.Error("View.Hierarchical should be false")
	}
	want := intent.SortMethod{Category: intent.SortByMemory, Direction: intent.Ascending}
	if cfg.View.Sort != want {
		t.Errorf("View.Sort = %v, want %v", cfg.View.Sort, want)
	}
	if cfg.Process.Workers != 8 {
		t.Errorf("Process.Workers = %d", cfg.Process.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if !cfg.TUI.Mouse {
		t.Error("TUI.Mouse default lost")
	}
}

func TestLoadFrom_Env(t *testing.T) {
	t.Setenv("PROCVIEW_REFRESH_INTERVAL", "3s")
	t.Setenv("PROCVIEW_VIEW_SHOW_THREADS", "true")

	v := viper.New()
	Setup(v, filepath.Join(t.TempDir(), "missing.yaml"))
	if err := ReadInConfig(v); err != nil {
		t.Fatalf("ReadInConfig() on missing file = %v", err)
	}
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom() = %v", err)
	}
	if cfg.Refresh.Interval != 3*time.Second {
		t.Errorf("Refresh.Interval = %v, want 3s", cfg.Refresh.Interval)
	}
	if !cfg.View.ShowThreads {
		t.Error("View.ShowThreads should come from env")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		field string
	}{
		{"interval too short", "refresh.interval", "10ms", "refresh.interval"},
		{"bad level", "logging.level", "loud", "logging.level"},
		{"negative workers", "process.workers", -1, "process.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaultsOn(v)
			v.Set(tt.key, tt.value)

			_, err := LoadFrom(v)
			var verrs ValidationErrors
			if err == nil {
				t.Fatal("expected error")
			}
			if !asValidationErrors(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}
			if verrs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", verrs[0].Field, tt.field)
			}
		})
	}
}

func TestLoadFrom_BadSortIsDecodeError(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)
	v.Set("view.sort", "bogus")

	if _, err := LoadFrom(v); err == nil {
		t.Fatal("expected decode error for unknown sort category")
	}
}

func asValidationErrors(err error, target *ValidationErrors) bool {
	verrs, ok := err.(ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok && len(verrs) > 0
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/procview" {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != "/custom/config/procview/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".config", "procview")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestResolveDataDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	home, _ := os.UserHomeDir()

	tests := []struct {
		dir  string
		want string
	}{
		{"", "/state/procview"},
		{"/var/lib/procview", "/var/lib/procview"},
		{"~/pv", filepath.Join(home, "pv")},
		{"~", home},
		{"relative/dir", "relative/dir"},
	}
	for _, tt := range tests {
		p := PathsConfig{DataDir: tt.dir}
		if got := p.ResolveDataDir(); got != tt.want {
			t.Errorf("ResolveDataDir(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestDefaultDataDirFallback(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".local", "state", "procview")
	if got := DefaultDataDir(); got != want {
		t.Errorf("DefaultDataDir() = %q, want %q", got, want)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	if err := os.WriteFile(first, []byte("PROCVIEW_TEST_A=one\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("PROCVIEW_TEST_A=two\nPROCVIEW_TEST_B=two\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROCVIEW_TEST_A", "")
	t.Setenv("PROCVIEW_TEST_B", "")
	_ = os.Unsetenv("PROCVIEW_TEST_A")
	_ = os.Unsetenv("PROCVIEW_TEST_B")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), first, second); err != nil {
		t.Fatalf("LoadDotEnv() = %v", err)
	}
	if got := os.Getenv("PROCVIEW_TEST_A"); got != "one" {
		t.Errorf("PROCVIEW_TEST_A = %q, want first file to win", got)
	}
	if got := os.Getenv("PROCVIEW_TEST_B"); got != "two" {
		t.Errorf("PROCVIEW_TEST_B = %q", got)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		raw     string
		want    any
		wantErr string
	}{
		{"view.hierarchical", "false", false, ""},
		{"view.hierarchical", "maybe", nil, "expected true or false"},
		{"process.workers", "4", 4, ""},
		{"process.workers", "-2", nil, "non-negative"},
		{"process.workers", "four", nil, "expected integer"},
		{"refresh.interval", "1500ms", "1.5s", ""},
		{"refresh.interval", "soon", nil, "expected a duration"},
		{"view.sort", "MEM", "memory:asc", ""},
		{"view.sort", "cpu:sideways", nil, "invalid value"},
		{"logging.level", "WARN", "warn", ""},
		{"logging.level", "trace", nil, "Valid options"},
		{"tui.theme", "nord", "nord", ""},
		{"no.such.key", "1", nil, "unknown configuration key"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			got, err := ParseValue(tt.key, tt.raw)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseValue() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseValue() = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSettableKeysCoverDefaults(t *testing.T) {
	v := viper.New()
	SetDefaultsOn(v)
	for _, k := range v.AllKeys() {
		if _, ok := LookupKey(k); !ok {
			t.Errorf("default key %q is not settable", k)
		}
	}
	if !strings.Contains(KeyHelp(), "refresh.interval") {
		t.Error("KeyHelp() missing refresh.interval")
	}
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	if err := WriteTemplate(path); err != nil {
		t.Fatalf("WriteTemplate() = %v", err)
	}
	if err := WriteTemplate(path); err == nil {
		t.Error("second WriteTemplate() should fail")
	}

	v := viper.New()
	Setup(v, path)
	if err := ReadInConfig(v); err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("template does not validate: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("template config = %+v, want defaults", cfg)
	}
}

func TestIsReloadEvent(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want bool
	}{
		{fsnotify.Write, true},
		{fsnotify.Create, true},
		{fsnotify.Remove, false},
		{fsnotify.Chmod, false},
		{fsnotify.Rename, false},
	}
	for _, tt := range tests {
		if got := IsReloadEvent(fsnotify.Event{Name: "config.yaml", Op: tt.op}); got != tt.want {
			t.Errorf("IsReloadEvent(%v) = %v, want %v", tt.op, got, tt.want)
		}
	}
}
