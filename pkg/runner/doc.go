// Package runner executes installer subprocesses.
//
// Every package manager call, git clone and installer script goes through a
// Runner so the orchestrator can swap the real ExecRunner for a DryRunner
// (print what would happen) or a test double. Commands marked as probes only
// inspect the system (rpm -q, dpkg -s, brew list) and still execute during a
// dry run.
package runner
