// Package domain holds the typed identifiers shared across bounded contexts.
//
// Record ids are short human-readable strings with a one-letter kind prefix
// and a numeric suffix ("B1", "U2", "L3", "F4"). The prefix makes ids
// self-describing in logs and store dumps; the numeric suffix gives a
// creation order that stores rely on (fines are settled oldest-first).
package domain

import "strconv"

// Id prefixes, one per record kind.
const (
	BookIDPrefix = "B"
	UserIDPrefix = "U"
	LoanIDPrefix = "L"
	FineIDPrefix = "F"
)

type BookID string

func (id BookID) String() string { return string(id) }

type UserID string

func (id UserID) String() string { return string(id) }

type LoanID string

func (id LoanID) String() string { return string(id) }

type FineID string

func (id FineID) String() string { return string(id) }

// NextID allocates the next sequential id for the given prefix: it scans the
// existing ids, takes the highest numeric suffix among well-formed ones, and
// returns prefix + (max+1). Malformed ids are skipped, never an error.
//
// Uniqueness holds only under a single writer; callers must serialize
// allocation and insert behind the same lock.
func NextID(prefix string, existing []string) string {
	max := 0
	for _, raw := range existing {
		if n, ok := NumericSuffix(raw, prefix); ok && n > max {
			max = n
		}
	}
	return prefix + strconv.Itoa(max+1)
}

// NumericSuffix parses the numeric part of an id with the given prefix.
// Returns false for ids with a different prefix or a non-numeric suffix.
func NumericSuffix(raw, prefix string) (int, bool) {
	if len(raw) <= len(prefix) || raw[:len(prefix)] != prefix {
		return 0, false
	}
	n, err := strconv.Atoi(raw[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
