package domain

// ViewSelection picks which days are shown: 0 means the whole plan,
// 1..N a single day. Exactly one selection is active at a time.
type ViewSelection int

const AllDays ViewSelection = 0

func (s ViewSelection) IsAll() bool { return s == AllDays }

// DayNumber returns the selected 1-based day number (0 for all days).
func (s ViewSelection) DayNumber() int { return int(s) }

// ValidFor reports whether the selection addresses an existing day.
func (s ViewSelection) ValidFor(dayCount int) bool {
	return s >= 0 && int(s) <= dayCount
}
