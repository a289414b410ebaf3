package supervisor

import (
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

const DefaultRecursionLimit = 100

// leadingNumber matches the numeric prefix of a limit such as "50 steps".
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseRecursionLimit reads a textual limit from its leading number. Anything
// without a number of at least one falls back to DefaultRecursionLimit;
// fractions are truncated.
func ParseRecursionLimit(text string) int {
	f, err := cast.ToFloat64E(leadingNumber.FindString(strings.TrimSpace(text)))
	if err != nil || math.IsNaN(f) || f < 1 {
		return DefaultRecursionLimit
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
