package ui

import (
	"strings"
	"testing"
)

func TestRenderStatusIcon(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	tests := map[string]string{
		"backlog":    StatusIconBacklog,
		"scaffolded": StatusIconScaffolded,
		"mvp":        StatusIconMVP,
		"hardened":   StatusIconHardened,
		"shipped":    StatusIconShipped,
		"bogus":      "?",
	}
	for status, want := range tests {
		if got := RenderStatusIcon(status); !strings.Contains(got, want) {
			t.Errorf("RenderStatusIcon(%q) = %q, want it to contain %q", status, got, want)
		}
	}
}

func TestRenderPublishState(t *testing.T) {
	if got := RenderPublishState(true, false); !strings.Contains(got, IconPublished) {
		t.Errorf("published marker = %q", got)
	}
	if got := RenderPublishState(true, true); !strings.Contains(got, IconDrifted) {
		t.Errorf("drifted marker = %q", got)
	}
	if got := RenderPublishState(false, false); !strings.Contains(got, IconPending) {
		t.Errorf("pending marker = %q", got)
	}
}

func TestShouldUseColorEnv(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("NO_COLOR", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR should disable color")
	}
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 should disable color")
	}
	t.Setenv("CLICOLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE should enable color")
	}
}

func TestRenderMarkdownPlainWithoutColor(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("NO_COLOR", "1")
	in := "# Title\n\nbody\n"
	if got := RenderMarkdown(in, "dark"); got != in {
		t.Errorf("RenderMarkdown without color = %q, want input unchanged", got)
	}
}

func TestRenderHelpersKeepText(t *testing.T) {
	tests := map[string]string{
		"status": RenderStatus("hardened"),
		"plain":  RenderStatus("backlog"),
		"bold":   RenderBold("Total: 3"),
		"accent": RenderAccent("https://github.com/o/r/issues/1"),
		"warn":   RenderWarn("changed"),
	}
	wants := map[string]string{
		"status": "hardened",
		"plain":  "backlog",
		"bold":   "Total: 3",
		"accent": "https://github.com/o/r/issues/1",
		"warn":   "changed",
	}
	for name, got := range tests {
		if !strings.Contains(got, wants[name]) {
			t.Errorf("%s: %q does not contain %q", name, got, wants[name])
		}
	}
	if got := RenderStatus("backlog"); got != "backlog" {
		t.Errorf("RenderStatus(backlog) = %q, want unstyled", got)
	}
}
