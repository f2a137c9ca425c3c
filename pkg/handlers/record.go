package handlers

import (
	"github.com/arthur-debert/dotinstall/pkg/plan"
)

// Recorded reports whether the store holds a record for step with the same
// fingerprint. Methods that leave nothing to probe (scripts, inline commands)
// rely on it, so editing their manifest entry triggers a reinstall.
func Recorded(env *Env, step plan.Step) (bool, error) {
	if env.Store == nil {
		return false, nil
	}
	rec, ok, err := env.Store.Get(step.Key)
	if err != nil || !ok {
		return false, err
	}
	return rec.Fingerprint == step.Fingerprint(), nil
}

// RecordDetector is implemented by handlers that detect some steps through
// the install record alone. Wrappers that hand a step to such a handler
// must check the record of the step they were given.
type RecordDetector interface {
	DetectsByRecord(step plan.Step) bool
}
