package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/procview/internal/intent"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "refresh.interval")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Refresh interval bounds.
const (
	MinRefreshInterval = 100 * time.Millisecond
	MaxRefreshInterval = time.Minute
)

// MaxWorkers caps process.workers.
const MaxWorkers = 256

// themeNameRegex matches built-in and custom theme names
var themeNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateRefresh()...)
	errors = append(errors, c.validateView()...)
	errors = append(errors, c.validateProcess()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validatePaths()...)

	return errors
}

func (c *Config) validateRefresh() []ValidationError {
	var errors []ValidationError

	if c.Refresh.Interval < MinRefreshInterval {
		errors = append(errors, ValidationError{
			Field:   "refresh.interval",
			Value:   c.Refresh.Interval,
			Message: fmt.Sprintf("must be at least %s", MinRefreshInterval),
		})
	}
	if c.Refresh.Interval > MaxRefreshInterval {
		errors = append(errors, ValidationError{
			Field:   "refresh.interval",
			Value:   c.Refresh.Interval,
			Message: fmt.Sprintf("exceeds maximum of %s", MaxRefreshInterval),
		})
	}

	return errors
}

func (c *Config) validateView() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(intent.Categories(), c.View.Sort.Category) {
		errors = append(errors, ValidationError{
			Field:   "view.sort",
			Value:   c.View.Sort,
			Message: "unknown sort category",
		})
	}
	if d := c.View.Sort.Direction; d != intent.Ascending && d != intent.Descending {
		errors = append(errors, ValidationError{
			Field:   "view.sort",
			Value:   c.View.Sort,
			Message: "unknown sort direction",
		})
	}

	return errors
}

func (c *Config) validateProcess() []ValidationError {
	var errors []ValidationError

	if c.Process.Workers < 0 {
		errors = append(errors, ValidationError{
			Field:   "process.workers",
			Value:   c.Process.Workers,
			Message: "must be non-negative",
		})
	}
	if c.Process.Workers > MaxWorkers {
		errors = append(errors, ValidationError{
			Field:   "process.workers",
			Value:   c.Process.Workers,
			Message: fmt.Sprintf("exceeds maximum of %d", MaxWorkers),
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	// Whether the theme exists is checked when the TUI loads it, since
	// custom themes live on disk.
	if !themeNameRegex.MatchString(c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: "must be lowercase letters, digits, '-' or '_'",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validatePaths validates the PathsConfig
func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	if c.Paths.DataDir != "" {
		path := c.Paths.DataDir

		if strings.ContainsRune(path, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "paths.data_dir",
				Value:   path,
				Message: "path contains invalid null character",
			})
		}

		const maxPathLength = 4096
		if len(path) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "paths.data_dir",
				Value:   path,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}
