// Package id formats and parses human-readable journal entry
// references of the form "JE-2024-01-0001".
package id

import (
	"fmt"
	"strconv"
	"strings"
)

const prefix = "JE"

// FormatEntryRef returns an entry reference like "JE-2024-01-0001".
// The sequence restarts each month.
func FormatEntryRef(year, month, seq int) string {
	return fmt.Sprintf("%s-%04d-%02d-%04d", prefix, year, month, seq)
}

// ParseEntryRef parses "JE-2024-01-0001" into year, month, seq.
func ParseEntryRef(ref string) (year, month, seq int, err error) {
	parts := strings.SplitN(ref, "-", 4)
	if len(parts) != 4 || parts[0] != prefix {
		return 0, 0, 0, fmt.Errorf("invalid entry ref format: %q", ref)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry ref %q: %w", ref, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in entry ref %q: %w", ref, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month %d in entry ref %q", month, ref)
	}

	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry ref %q: %w", ref, err)
	}

	return year, month, seq, nil
}
