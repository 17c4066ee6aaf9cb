// Package classify assigns safety tiers to shell commands.
//
// Commands are classified into five tiers by their leading token. Low
// tiers execute freely, tier 2.5 requires interactive confirmation,
// tier 3 requires validation, and tier 4 is never executed without an
// explicit override outside this package. Unknown commands resolve to
// tier 3 so that missing data always degrades toward caution.
package classify

import "fmt"

// Tier is a discrete safety level. Values are stored in tenths so the
// intermediate confirm tier (2.5) stays an exact integer.
type Tier int

const (
	// TierTrusted (1) is for read-only commands with no side effects.
	TierTrusted Tier = 10
	// TierSafe (2) is for common commands with local, reversible effects.
	TierSafe Tier = 20
	// TierConfirm (2.5) requires interactive confirmation before running.
	TierConfirm Tier = 25
	// TierCaution (3) requires validation; unknown commands land here.
	TierCaution Tier = 30
	// TierForbidden (4) is a hard floor: never executed without an
	// explicit override supplied by the embedding caller.
	TierForbidden Tier = 40
)

// tierOrder is the fixed iteration order used when building tables.
var tierOrder = []Tier{TierTrusted, TierSafe, TierConfirm, TierCaution, TierForbidden}

// String returns the textual tier form used by declarative sources.
func (t Tier) String() string {
	switch t {
	case TierTrusted:
		return "1"
	case TierSafe:
		return "2"
	case TierConfirm:
		return "2.5"
	case TierCaution:
		return "3"
	case TierForbidden:
		return "4"
	default:
		return fmt.Sprintf("invalid(%d)", int(t))
	}
}

// ParseTier parses the textual tier form ("1", "2", "2.5", "3", "4").
func ParseTier(s string) (Tier, error) {
	switch s {
	case "1":
		return TierTrusted, nil
	case "2":
		return TierSafe, nil
	case "2.5":
		return TierConfirm, nil
	case "3":
		return TierCaution, nil
	case "4":
		return TierForbidden, nil
	default:
		return 0, fmt.Errorf("classify: unknown tier %q", s)
	}
}

// IsValid returns true if t is one of the five defined tiers.
func (t Tier) IsValid() bool {
	switch t {
	case TierTrusted, TierSafe, TierConfirm, TierCaution, TierForbidden:
		return true
	default:
		return false
	}
}
