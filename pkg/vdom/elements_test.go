package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
		if node.Key != nil {
			t.Errorf("Key = %v, want nil", node.Key)
		}
	})

	t.Run("with multiple attributes", func(t *testing.T) {
		node := Div(Class("card", "big"), ID("main"))
		want := Props{"class": "card big", "id": "main"}
		if diff := cmp.Diff(want, node.Props); diff != "" {
			t.Errorf("Props mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil arguments are ignored", func(t *testing.T) {
		var cond *VNode
		node := Div(nil, cond, Attr{}, "x")
		if len(node.Props) != 0 {
			t.Errorf("Props = %v, want empty", node.Props)
		}
		if len(node.Children) != 1 {
			t.Errorf("Children len = %v, want 1", len(node.Children))
		}
	})

	t.Run("children in order", func(t *testing.T) {
		node := Ul(Li("a"), []*VNode{Li("b"), nil, Li("c")}, "tail")
		var got []string
		for _, c := range node.Children {
			got = append(got, c.String())
		}
		want := []string{"<li>", "<li>", "<li>", `"tail"`}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Children mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("key from props", func(t *testing.T) {
		node := Li(Key("a"), "a")
		if node.Key != "a" {
			t.Errorf("Key = %v, want a", node.Key)
		}
		node = Li(Props{"key": int64(3)})
		if node.Key != 3 {
			t.Errorf("Key = %#v, want int 3", node.Key)
		}
	})

	t.Run("event handler", func(t *testing.T) {
		called := false
		node := Button(OnClick(func() { called = true }), "go")
		fn, ok := node.Props["onclick"].(func())
		if !ok {
			t.Fatalf("onclick = %T, want func()", node.Props["onclick"])
		}
		fn()
		if !called {
			t.Error("handler not invoked")
		}
	})
}

func TestIsVoidElement(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"input", true},
		{"br", true},
		{"img", true},
		{"div", false},
		{"li", false},
	}
	for _, tt := range tests {
		if got := IsVoidElement(tt.tag); got != tt.want {
			t.Errorf("IsVoidElement(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestCustomElement(t *testing.T) {
	node := CustomElement("my-widget", Data("id", "7"))
	if node.Tag != "my-widget" {
		t.Errorf("Tag = %v, want my-widget", node.Tag)
	}
	if node.Props["data-id"] != "7" {
		t.Errorf("data-id = %v, want 7", node.Props["data-id"])
	}
}
