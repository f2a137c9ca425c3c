package types

// Outcome is the result of processing one package
type Outcome string

const (
	// OutcomeInstalled means the package was installed during this run
	OutcomeInstalled Outcome = "installed"

	// OutcomePresent means the package was already installed
	OutcomePresent Outcome = "present"

	// OutcomeSkipped means the manifest skips the package on this platform
	OutcomeSkipped Outcome = "skipped"

	// OutcomePlanned means a dry run would have installed the package
	OutcomePlanned Outcome = "planned"

	// OutcomeFailed means installation was attempted and failed
	OutcomeFailed Outcome = "failed"
)

// IsFailure reports whether the outcome counts as a failed package
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailed
}
