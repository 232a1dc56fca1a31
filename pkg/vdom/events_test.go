package vdom

import "testing"

func TestEventHelpers(t *testing.T) {
	h := func() {}
	tests := []struct {
		handler EventHandler
		want    string
	}{
		{OnClick(h), "onclick"},
		{OnDblClick(h), "ondblclick"},
		{OnInput(h), "oninput"},
		{OnChange(h), "onchange"},
		{OnSubmit(h), "onsubmit"},
		{OnKeyDown(h), "onkeydown"},
		{OnKeyUp(h), "onkeyup"},
		{OnFocus(h), "onfocus"},
		{OnBlur(h), "onblur"},
		{OnMouseEnter(h), "onmouseenter"},
		{OnMouseLeave(h), "onmouseleave"},
		{On("custom", h), "oncustom"},
	}
	for _, tt := range tests {
		if tt.handler.Event != tt.want {
			t.Errorf("Event = %v, want %v", tt.handler.Event, tt.want)
		}
		if !IsEventKey(tt.handler.Event) {
			t.Errorf("IsEventKey(%q) = false", tt.handler.Event)
		}
	}
}
