package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Template is the commented config written by `procview config init`.
const Template = `# procview configuration
# Every key can also be set through PROCVIEW_<SECTION>_<KEY>,
# e.g. PROCVIEW_REFRESH_INTERVAL=2s.

refresh:
  # Time between samples of the process table (100ms to 1m)
  interval: 1s

view:
  # Start in tree view; sorting only applies to the flat view
  hierarchical: true
  # Include kernel and userland threads
  show_threads: false
  # Flat-view sort: id, memory, cpu, disk-read, disk-write, status, name, user
  # followed by :asc or :desc
  sort: cpu:desc
  # Save filter, sort and toggles on quit and restore them on start
  remember: true

process:
  # List userland threads as children of their process (Linux)
  include_tasks: false
  # Parallel metric collectors, 0 picks a default
  workers: 0

tui:
  theme: default
  mouse: true
  # Ask before sending SIGKILL
  confirm_kill: true

logging:
  enabled: true
  # debug, info, warn or error
  level: info
  max_size_mb: 10
  max_backups: 3
  compress: false

paths:
  # Directory for procview.log and state.json
  # (default: $XDG_STATE_HOME/procview)
  data_dir: ""
`

// WriteTemplate creates path with Template. An existing file is left
// untouched and reported as an error.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
