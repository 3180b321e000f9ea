// Package rules holds the pure fit, contiguity and overlap checks along with
// the evidence each check attaches to its result.
package rules

// RuleID is a stable rule identifier carried by results and violations.
type RuleID string

const (
	RuleDoorFit          RuleID = "door-fit"
	RuleBaySetFit        RuleID = "bay-set-fit"
	RuleContiguity       RuleID = "contiguity"
	RuleTimeOverlap      RuleID = "time-overlap"
	RuleSchedulingFailed RuleID = "scheduling-failed"
	RuleOwnership        RuleID = "ownership"
	RuleNoSuitableBaySet RuleID = "no-suitable-bay-set"
	RuleTimeWindow       RuleID = "time-window"
	RuleUnresolvedRef    RuleID = "unresolved-reference"
)

// Result is the outcome of a single check.
type Result struct {
	OK       bool     `json:"ok"`
	Rule     RuleID   `json:"rule_id"`
	Message  string   `json:"message"`
	Evidence Evidence `json:"evidence,omitempty"`
}

// Failures keeps the failed results, preserving order.
func Failures(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}

// AllOK reports whether every result passed.
func AllOK(results []Result) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}
