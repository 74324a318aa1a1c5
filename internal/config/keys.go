package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/Iron-Ham/procview/internal/intent"
)

// KeyKind is the value type of a settable key.
type KeyKind string

const (
	KindBool     KeyKind = "bool"
	KindInt      KeyKind = "int"
	KindString   KeyKind = "string"
	KindDuration KeyKind = "duration"
	KindSort     KeyKind = "sort"
	KindLevel    KeyKind = "level"
)

// KeyInfo describes one key accepted by `procview config set`.
type KeyInfo struct {
	Kind        KeyKind
	Description string
}

var settableKeys = map[string]KeyInfo{
	"refresh.interval":      {KindDuration, "Time between samples (e.g. 1s, 500ms)"},
	"view.hierarchical":     {KindBool, "Start in tree view"},
	"view.show_threads":     {KindBool, "Show kernel and userland threads"},
	"view.sort":             {KindSort, "Flat-view sort, category:asc|desc"},
	"view.remember":         {KindBool, "Persist view state between runs"},
	"process.include_tasks": {KindBool, "List userland threads under their process"},
	"process.workers":       {KindInt, "Parallel metric collectors (0 = default)"},
	"tui.theme":             {KindString, "Color theme"},
	"tui.mouse":             {KindBool, "Enable mouse support"},
	"tui.confirm_kill":      {KindBool, "Confirm before SIGKILL"},
	"logging.enabled":       {KindBool, "Write procview.log"},
	"logging.level":         {KindLevel, "debug, info, warn or error"},
	"logging.max_size_mb":   {KindInt, "Log size before rotation"},
	"logging.max_backups":   {KindInt, "Rotated logs to keep"},
	"logging.compress":      {KindBool, "Gzip rotated logs"},
	"paths.data_dir":        {KindString, "Directory for logs and saved state"},
}

// SettableKeys returns the keys accepted by ParseValue, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LookupKey returns the description of key.
func LookupKey(key string) (KeyInfo, bool) {
	info, ok := settableKeys[key]
	return info, ok
}

// KeyHelp renders the settable keys as an aligned list.
func KeyHelp() string {
	var sb strings.Builder
	for _, k := range SettableKeys() {
		info := settableKeys[k]
		fmt.Fprintf(&sb, "  %-22s %-9s %s\n", k, info.Kind, info.Description)
	}
	return sb.String()
}

// ParseValue converts raw into the value stored for key. The result is
// the form written to the config file: durations and sort methods stay
// strings so the file remains readable.
func ParseValue(key, raw string) (any, error) {
	info, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s", key)
	}

	switch info.Kind {
	case KindBool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return b, nil
	case KindInt:
		n, err := cast.ToIntE(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	case KindDuration:
		d, err := cast.ToDurationE(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid value for %s: expected a duration such as 1s", key)
		}
		return d.String(), nil
	case KindSort:
		m, err := intent.ParseSortMethod(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return m.String(), nil
	case KindLevel:
		level := strings.ToLower(raw)
		if !slices.Contains(ValidLogLevels(), level) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, raw, strings.Join(ValidLogLevels(), ", "))
		}
		return level, nil
	default:
		return cast.ToString(raw), nil
	}
}
