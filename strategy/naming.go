package strategy

import (
	"fmt"
	"strconv"
	"strings"
)

// timestampDigits is the fixed width of the decimal timestamp embedded in
// file names. Fixed width guarantees lexicographic order equals numeric
// order.
const timestampDigits = 20

// Scheme generates and parses file names of the form
// "<prefix><zero-padded timestamp><suffix>".
type Scheme struct {
	Prefix string
	Suffix string
}

// Generate returns the file name for the given timestamp. The result is
// deterministic: Parse(Generate(ts)) always yields ts back.
func (s Scheme) Generate(ts int64) string {
	return fmt.Sprintf("%s%0*d%s", s.Prefix, timestampDigits, ts, s.Suffix)
}

// Parse extracts the timestamp from a file name. The second return value is
// false for any name that does not match the exact template, including names
// produced by a scheme with a different prefix or suffix.
func (s Scheme) Parse(name string) (int64, bool) {
	if len(name) != len(s.Prefix)+timestampDigits+len(s.Suffix) {
		return 0, false
	}
	if !strings.HasPrefix(name, s.Prefix) || !strings.HasSuffix(name, s.Suffix) {
		return 0, false
	}
	digits := name[len(s.Prefix) : len(s.Prefix)+timestampDigits]
	ts, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || ts < 0 {
		return 0, false
	}
	// Round-trip check rejects anything Generate would not have produced,
	// such as a leading plus sign strconv accepts.
	if s.Generate(ts) != name {
		return 0, false
	}
	return ts, true
}

// Naming holds the two symmetric naming schemes of a queue directory: one
// for the single open current file and one for finalized files.
type Naming struct {
	Current   Scheme
	Finalized Scheme
}

// DefaultNaming returns the stock naming convention:
// current-<20 digits>.bin and finalized-<20 digits>.bin.
func DefaultNaming() Naming {
	return Naming{
		Current:   Scheme{Prefix: "current-", Suffix: ".bin"},
		Finalized: Scheme{Prefix: "finalized-", Suffix: ".bin"},
	}
}
