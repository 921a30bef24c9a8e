package campaign

import "strings"

// FailureKind partitions errors from the generation surfaces into the
// two outcomes the UI flow distinguishes: force a credential
// re-selection, or surface an opaque failure.
type FailureKind int

const (
	FailureGeneric FailureKind = iota
	FailureAuthMismatch
)

func (k FailureKind) String() string {
	if k == FailureAuthMismatch {
		return "auth_mismatch"
	}
	return "generic"
}

// Message fragments the API returns when the active key does not
// resolve to the addressed project.
var authMismatchSignals = []string{
	"requested entity was not found",
	"entity was not found",
	"entity not found",
}

// Classify maps an error to a failure kind. Only an "entity not
// found"-class message counts as a credential scope mismatch;
// everything else is generic.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureGeneric
	}
	message := strings.ToLower(err.Error())
	for _, signal := range authMismatchSignals {
		if strings.Contains(message, signal) {
			return FailureAuthMismatch
		}
	}
	return FailureGeneric
}
