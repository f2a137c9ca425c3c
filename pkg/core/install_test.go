package core_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/core"
	"github.com/arthur-debert/dotinstall/pkg/datastore"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/handlers/builtin"
	"github.com/arthur-debert/dotinstall/pkg/handlers/custom"
	"github.com/arthur-debert/dotinstall/pkg/manifest"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/tags"
	"github.com/arthur-debert/dotinstall/pkg/testutil"
	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workstation = `
zsh:
  tags: [base, shell]
tmux:
  tags: [base]
  check: tmux
broken:
  tags: [base]
  method: command
  run: exit 1
starship:
  tags: [shell]
  after: zsh
  method: command
  run: cargo install starship
mas:
  skip: true
  macos: brew
`

type fixture struct {
	te *testutil.TestEnvironment
	m  *manifest.Manifest
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	te := testutil.NewTestEnvironment(t, "fedora")
	te.Runner.OnlyTools("dnf", "rpm", "sh", "git")
	te.Runner.Fail("sh -c 'exit 1'")

	m, err := manifest.Parse([]byte(workstation), manifest.FormatYAML)
	require.NoError(t, err)
	return &fixture{te: te, m: m}
}

func (f *fixture) env() *handlers.Env {
	return &handlers.Env{
		Runner:   f.te.Runner,
		Paths:    f.te.Paths,
		Platform: f.te.Platform,
		Store:    f.te.DataStore,
		Handlers: builtin.NewRegistry(builtin.Options{}),
		Out:      f.te.Out,
	}
}

func (f *fixture) options(selector tags.Selector, only ...string) core.InstallOptions {
	return core.InstallOptions{
		Manifest: f.m,
		Plan:     plan.Options{Platform: f.te.Platform, Selector: selector, Only: only},
		Env:      f.env(),
	}
}

func outcomes(s *core.Summary) map[string]types.Outcome {
	out := make(map[string]types.Outcome)
	for _, r := range s.Results {
		out[r.Step.Key] = r.Outcome
	}
	return out
}

func TestInstallIsBestEffort(t *testing.T) {
	f := newFixture(t)

	var streamed []string
	opts := f.options(tags.NewSelector(nil, nil))
	opts.OnResult = func(r core.Result) { streamed = append(streamed, r.Step.Key) }

	summary, err := core.Install(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"zsh", "tmux", "broken", "starship", "mas"}, streamed)
	assert.Equal(t, map[string]types.Outcome{
		"zsh":      types.OutcomeInstalled,
		"tmux":     types.OutcomeInstalled,
		"broken":   types.OutcomeFailed,
		"starship": types.OutcomeInstalled,
		"mas":      types.OutcomeSkipped,
	}, outcomes(summary))

	assert.False(t, summary.OK())
	require.Len(t, summary.Failed(), 1)
	assert.True(t, errors.IsErrorCode(summary.Failed()[0].Err, errors.ErrCommand))

	assert.Equal(t, []string{
		"dnf install -y zsh",
		"dnf install -y tmux",
		"sh -c 'exit 1'",
		"sh -c 'cargo install starship'",
	}, f.te.Runner.Mutating())

	rec, ok, err := f.te.DataStore.Get("starship")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.MethodCommand, rec.Method)
	assert.False(t, rec.InstalledAt.IsZero())

	_, ok, _ = f.te.DataStore.Get("broken")
	assert.False(t, ok)
}

func TestInstallDetectsPresentPackages(t *testing.T) {
	f := newFixture(t)
	f.te.Runner.OnlyTools("dnf", "rpm", "sh", "tmux")
	f.te.Runner.Succeed("rpm -q --whatprovides zsh")

	summary, err := core.Install(context.Background(), f.options(tags.NewSelector([]string{"base"}, nil)))
	require.NoError(t, err)

	got := outcomes(summary)
	assert.Equal(t, types.OutcomePresent, got["zsh"])
	assert.Equal(t, types.OutcomePresent, got["tmux"])
	assert.Equal(t, []string{"sh -c 'exit 1'"}, f.te.Runner.Mutating())
}

func TestInstallForceReinstalls(t *testing.T) {
	f := newFixture(t)
	f.te.Runner.Succeed("rpm -q")

	opts := f.options(tags.NewSelector(nil, nil), "zsh")
	opts.Force = true
	summary, err := core.Install(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeInstalled, outcomes(summary)["zsh"])
	assert.Equal(t, []string{"dnf install -y zsh"}, f.te.Runner.Mutating())
}

func TestInstallSecondRunUsesRecords(t *testing.T) {
	f := newFixture(t)

	_, err := core.Install(context.Background(), f.options(tags.NewSelector(nil, nil), "starship"))
	require.NoError(t, err)
	f.te.Runner.Reset()

	summary, err := core.Install(context.Background(), f.options(tags.NewSelector(nil, nil), "starship"))
	require.NoError(t, err)
	assert.Equal(t, types.OutcomePresent, outcomes(summary)["starship"])
	// zsh is pulled in as a dependency and probed again
	assert.Equal(t, []string{"dnf install -y zsh"}, f.te.Runner.Mutating())
}

func TestInstallCustomRewriteDetectedOnSecondRun(t *testing.T) {
	f := newFixture(t)
	m, err := manifest.Parse([]byte("fonts:\n  custom: fonts\n"), manifest.FormatYAML)
	require.NoError(t, err)

	h := custom.NewEmpty()
	h.Register("fonts", custom.Rewrite{
		Summary: "fonts",
		Spec:    manifest.Override{Method: types.MethodCommand, Run: "fc-cache -f"},
	})
	opts := f.options(tags.NewSelector(nil, nil))
	opts.Manifest = m
	opts.Env.Handlers = builtin.NewRegistry(builtin.Options{Custom: h})

	summary, err := core.Install(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeInstalled, outcomes(summary)["fonts"])
	f.te.Runner.Reset()

	summary, err = core.Install(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, types.OutcomePresent, outcomes(summary)["fonts"])
	assert.Empty(t, f.te.Runner.Mutating())
}

func TestInstallDryRun(t *testing.T) {
	f := newFixture(t)

	opts := f.options(tags.NewSelector([]string{"shell"}, nil))
	opts.DryRun = true
	summary, err := core.Install(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, map[string]types.Outcome{
		"zsh":      types.OutcomePlanned,
		"starship": types.OutcomePlanned,
	}, outcomes(summary))
	assert.Empty(t, f.te.Runner.Mutating())
	assert.Contains(t, f.te.Out.String(), "would run: sudo dnf install -y zsh")
	assert.Contains(t, f.te.Out.String(), "would run: sh -c 'cargo install starship'")

	records, err := f.te.DataStore.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInstallUnknownPackage(t *testing.T) {
	f := newFixture(t)

	_, err := core.Install(context.Background(), f.options(tags.NewSelector(nil, nil), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageNotFound))
}

func TestInstallMissingTool(t *testing.T) {
	f := newFixture(t)
	f.te.Runner.OnlyTools("rpm")

	summary, err := core.Install(context.Background(), f.options(tags.NewSelector(nil, nil), "zsh"))
	require.NoError(t, err)

	failed := summary.Failed()
	require.Len(t, failed, 1)
	assert.True(t, errors.IsErrorCode(failed[0].Err, errors.ErrMethodUnavailable))
}

func TestInstallCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := core.Install(ctx, f.options(tags.NewSelector(nil, nil)))
	require.Error(t, err)
	assert.Empty(t, summary.Results)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	f.te.Runner.OnlyTools("dnf", "rpm", "sh", "tmux")
	f.te.Runner.Succeed("rpm -q --whatprovides zsh")

	starship, _ := f.m.Get("starship")
	step := plan.Resolve(starship, f.te.Platform)
	require.NoError(t, f.te.DataStore.Save(datastore.Record{Package: "starship", Fingerprint: step.Fingerprint(), Version: "1.0"}))
	require.NoError(t, f.te.DataStore.Save(datastore.Record{Package: "broken", Fingerprint: "old"}))

	statuses, err := core.Status(context.Background(), core.StatusOptions{
		Manifest: f.m,
		Plan:     plan.Options{Platform: f.te.Platform, Selector: tags.NewSelector(nil, nil)},
		Env:      f.env(),
	})
	require.NoError(t, err)

	got := make(map[string]core.PackageStatus)
	for _, s := range statuses {
		got[s.Step.Key] = s
	}
	assert.Equal(t, core.StateInstalled, got["zsh"].State)
	assert.Equal(t, core.StateInstalled, got["tmux"].State)
	assert.Equal(t, core.StateMissing, got["broken"].State)
	assert.True(t, got["broken"].Outdated)
	assert.Equal(t, core.StateInstalled, got["starship"].State)
	assert.Equal(t, "1.0", got["starship"].Version)
	assert.Equal(t, core.StateSkipped, got["mas"].State)

	assert.Empty(t, f.te.Runner.Mutating())
}

type unreadableStore struct {
	*testutil.MemoryDataStore
}

func (unreadableStore) Get(string) (datastore.Record, bool, error) {
	return datastore.Record{}, false, errors.New(errors.ErrState, "record is corrupt")
}

func TestStatusUnreadableRecord(t *testing.T) {
	f := newFixture(t)
	f.te.Runner.Succeed("rpm -q --whatprovides zsh")
	env := f.env()
	env.Store = unreadableStore{testutil.NewMemoryDataStore()}

	statuses, err := core.Status(context.Background(), core.StatusOptions{
		Manifest: f.m,
		Plan:     plan.Options{Platform: f.te.Platform, Selector: tags.NewSelector(nil, nil), Only: []string{"zsh", "starship"}},
		Env:      env,
	})
	require.NoError(t, err)

	got := make(map[string]core.PackageStatus)
	for _, s := range statuses {
		got[s.Step.Key] = s
	}
	assert.Equal(t, core.StateInstalled, got["zsh"].State)
	assert.True(t, errors.IsErrorCode(got["zsh"].Err, errors.ErrState))
	assert.Equal(t, core.StateUnknown, got["starship"].State)
	assert.Error(t, got["starship"].Err)
}
