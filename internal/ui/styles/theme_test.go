// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestLayoutModes(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	for _, tc := range tests {
		theme.SetSize(tc.width, 40)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("width %d: mode = %v, want %v", tc.width, got, tc.want)
		}
	}
}

func TestStatusIndicators_ASCIIOnly(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
	}
	for _, ind := range indicators {
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderHelpers_IncludeIndicator(t *testing.T) {
	if out := RenderError("send failed"); !strings.Contains(out, StatusIndicators.Error) {
		t.Errorf("RenderError = %q, missing indicator", out)
	}
	if out := RenderWarning("web search off"); !strings.Contains(out, "web search off") {
		t.Errorf("RenderWarning = %q", out)
	}
}
