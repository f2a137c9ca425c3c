package style

import (
	"os"
	"testing"

	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestUseColor(t *testing.T) {
	assert.True(t, UseColor(ColorAlways, nil))
	assert.False(t, UseColor(ColorNever, os.Stdout))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColor(ColorAuto, os.Stdout))

	t.Setenv("NO_COLOR", "")
	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, UseColor(ColorAuto, f), "files are not terminals")
}

func TestMarkupPlain(t *testing.T) {
	assert.Equal(t, "installed zsh via dnf", Render("[success]installed[/success] [bold]zsh[/bold] via [system]dnf[/system]"))
	assert.Equal(t, "nested", Render("[bold][error]nested[/error][/bold]"))
	assert.Equal(t, "[unknown]kept[/unknown]", Render("[unknown]kept[/unknown]"))
	assert.Equal(t, "hello world", RenderTemplate("[info]hello {{who}}[/info]", map[string]string{"who": "world"}))
}

func TestMethodStyle(t *testing.T) {
	assert.Equal(t, SystemStyle, MethodStyle(types.MethodApt))
	assert.Equal(t, SystemStyle, MethodStyle(types.MethodCask))
	assert.Equal(t, ReleaseStyle, MethodStyle(types.MethodGitHub))
	assert.Equal(t, ScriptStyle, MethodStyle(types.MethodCommand))
	assert.Equal(t, CustomStyle, MethodStyle(types.MethodCustom))
	assert.Equal(t, MutedStyle, MethodStyle(types.Method("")))
}

func TestOutcomeMark(t *testing.T) {
	tests := []struct {
		outcome types.Outcome
		want    string
	}{
		{types.OutcomeInstalled, SuccessMark},
		{types.OutcomePresent, InfoMark},
		{types.OutcomePlanned, PendingMark},
		{types.OutcomeFailed, ErrorMark},
		{types.OutcomeSkipped, "-"},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeMark(tt.outcome))
		})
	}
}
