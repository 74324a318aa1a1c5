package intent

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/procview/internal/errors"
)

// SortCategory is the column a flat view is ordered by.
type SortCategory int

const (
	SortByID SortCategory = iota
	SortByMemory
	SortByCPU
	SortByDiskRead
	SortByDiskWrite
	SortByStatus
	SortByName
	SortByUser
)

var categoryNames = []string{
	SortByID:        "id",
	SortByMemory:    "memory",
	SortByCPU:       "cpu",
	SortByDiskRead:  "disk-read",
	SortByDiskWrite: "disk-write",
	SortByStatus:    "status",
	SortByName:      "name",
	SortByUser:      "user",
}

var categoryAliases = map[string]SortCategory{
	"pid":   SortByID,
	"mem":   SortByMemory,
	"rss":   SortByMemory,
	"read":  SortByDiskRead,
	"write": SortByDiskWrite,
	"state": SortByStatus,
}

// Categories returns every sort category.
func Categories() []SortCategory {
	return []SortCategory{
		SortByID, SortByMemory, SortByCPU, SortByDiskRead,
		SortByDiskWrite, SortByStatus, SortByName, SortByUser,
	}
}

// String returns the category's canonical name.
func (c SortCategory) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseSortCategory accepts a canonical name or a short alias.
func ParseSortCategory(s string) (SortCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if s == name {
			return SortCategory(i), nil
		}
	}
	if c, ok := categoryAliases[s]; ok {
		return c, nil
	}
	return 0, errors.NewValidationError("unknown sort category").WithField("sort").WithValue(s)
}

// SortDirection is ascending or descending.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// String returns "asc" or "desc".
func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// SortMethod is a category plus direction. Its text form is
// "<category>:<asc|desc>", e.g. "cpu:desc".
type SortMethod struct {
	Category  SortCategory
	Direction SortDirection
}

// DefaultSortMethod orders by CPU, busiest first.
func DefaultSortMethod() SortMethod {
	return SortMethod{Category: SortByCPU, Direction: Descending}
}

// Click applies a header click on category c: the active column flips its
// direction, any other column becomes active in ascending order.
func (m SortMethod) Click(c SortCategory) SortMethod {
	if m.Category == c {
		return SortMethod{Category: c, Direction: m.Direction.Flip()}
	}
	return SortMethod{Category: c, Direction: Ascending}
}

// String returns the text form.
func (m SortMethod) String() string {
	return m.Category.String() + ":" + m.Direction.String()
}

// MarshalText implements encoding.TextMarshaler.
func (m SortMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SortMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseSortMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseSortMethod parses "<category>[:asc|:desc]". A missing direction means
// ascending.
func ParseSortMethod(s string) (SortMethod, error) {
	catText, dirText, hasDir := strings.Cut(strings.TrimSpace(s), ":")

	cat, err := ParseSortCategory(catText)
	if err != nil {
		return SortMethod{}, err
	}

	m := SortMethod{Category: cat, Direction: Ascending}
	if !hasDir {
		return m, nil
	}
	switch strings.ToLower(strings.TrimSpace(dirText)) {
	case "asc", "ascending", "":
	case "desc", "descending":
		m.Direction = Descending
	default:
		return SortMethod{}, errors.NewValidationError("unknown sort direction").WithField("sort").WithValue(dirText)
	}
	return m, nil
}
