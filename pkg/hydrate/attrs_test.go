package hydrate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

func attrs(kv ...string) []markup.Attr {
	out := make([]markup.Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, markup.Attr{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

func TestDiffAttrs(t *testing.T) {
	tests := []struct {
		name   string
		server []markup.Attr
		client vdom.Props
		want   []AttrDelta
	}{
		{
			name:   "equal",
			server: attrs("id", "a", "class", "x y"),
			client: vdom.Props{"id": "a", "class": "x y"},
		},
		{
			name:   "changed",
			server: attrs("dir", "rtl"),
			client: vdom.Props{"dir": "ltr"},
			want:   []AttrDelta{{Name: "dir", Op: DeltaChanged, Server: "rtl", Client: "ltr"}},
		},
		{
			name:   "added and removed sorted by name",
			server: attrs("title", "t"),
			client: vdom.Props{"aria-label": "l"},
			want: []AttrDelta{
				{Name: "aria-label", Op: DeltaAdded, Client: "l"},
				{Name: "title", Op: DeltaRemoved, Server: "t"},
			},
		},
		{
			name:   "className alias",
			server: attrs("class", "btn"),
			client: vdom.Props{"className": "btn"},
		},
		{
			name:   "htmlFor alias",
			server: attrs("for", "email"),
			client: vdom.Props{"htmlFor": "email"},
		},
		{
			name:   "explicit class wins over className",
			server: attrs("class", "a", "for", "f"),
			client: vdom.Props{"className": "b", "class": "a", "htmlFor": "g", "for": "f"},
		},
		{
			name:   "bookkeeping ignored",
			server: attrs("data-hid", "h1"),
			client: vdom.Props{"key": "k", "onclick": func() {}, "_internal": 1, "ref": "r"},
		},
		{
			name:   "numbers normalized",
			server: attrs("tabindex", "1", "width", "1.0"),
			client: vdom.Props{"tabindex": 1, "width": 1.0},
		},
		{
			name:   "nil equals absent",
			server: nil,
			client: vdom.Props{"title": nil},
		},
		{
			name:   "boolean by presence",
			server: attrs("disabled", "disabled"),
			client: vdom.Props{"disabled": true},
		},
		{
			name:   "false boolean removes",
			server: attrs("checked", ""),
			client: vdom.Props{"checked": false},
			want:   []AttrDelta{{Name: "checked", Op: DeltaRemoved, Server: ""}},
		},
		{
			name:   "case-insensitive names",
			server: attrs("DATA-X", "1"),
			client: vdom.Props{"data-x": "1"},
		},
		{
			name:   "style order-insensitive",
			server: attrs("style", "opacity: 0.5; color: red"),
			client: vdom.Props{"style": "color:red;opacity:.5;"},
		},
		{
			name:   "style map with camelCase",
			server: attrs("style", "background-color: blue; opacity: 0"),
			client: vdom.Props{"style": map[string]any{"backgroundColor": "blue", "opacity": 1}},
			want:   []AttrDelta{{Name: "style.opacity", Op: DeltaChanged, Server: "0", Client: "1"}},
		},
		{
			name:   "style properties added and removed",
			server: attrs("style", "margin: 0"),
			client: vdom.Props{"style": map[string]string{"padding": "0"}},
			want: []AttrDelta{
				{Name: "style.margin", Op: DeltaRemoved, Server: "0"},
				{Name: "style.padding", Op: DeltaAdded, Client: "0"},
			},
		},
		{
			name:   "vendor-prefixed style map",
			server: attrs("style", "-webkit-transition: opacity 1s; -ms-transform: none; -moz-appearance: none"),
			client: vdom.Props{"style": map[string]any{"WebkitTransition": "opacity 1s", "msTransform": "none", "MozAppearance": "none"}},
		},
		{
			name:   "custom property keeps case",
			server: attrs("style", "--mainColor: red"),
			client: vdom.Props{"style": map[string]any{"--mainColor": "red"}},
		},
		{
			name:   "style only on server",
			server: attrs("style", "color: red"),
			client: vdom.Props{},
			want:   []AttrDelta{{Name: "style.color", Op: DeltaRemoved, Server: "red"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffAttrs(tt.server, tt.client, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DiffAttrs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffAttrsAliasPrecedence(t *testing.T) {
	client := vdom.Props{"class": "a", "className": "b"}
	for i := 0; i < 50; i++ {
		if got := DiffAttrs(attrs("class", "a"), client, nil); len(got) != 0 {
			t.Fatalf("iteration %d: unexpected deltas %v", i, got)
		}
	}
}

func TestDiffAttrsIgnore(t *testing.T) {
	got := DiffAttrs(attrs("nonce", "abc"), vdom.Props{"nonce": "def"}, func(name string) bool {
		return name == "nonce"
	})
	if len(got) != 0 {
		t.Errorf("ignored attribute reported: %v", got)
	}
}

func TestParseStyle(t *testing.T) {
	got := ParseStyle(" Color : red ; ; invalid ; --gap: 4px; --Gap: 2px; color: blue")
	want := map[string]string{"color": "blue", "--gap": "4px", "--Gap": "2px"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStyle (-want +got):\n%s", diff)
	}
}

func TestAttrPatches(t *testing.T) {
	deltas := []AttrDelta{
		{Name: "dir", Op: DeltaChanged, Server: "rtl", Client: "ltr"},
		{Name: "hidden", Op: DeltaRemoved},
		{Name: "style.color", Op: DeltaAdded, Client: "red"},
		{Name: "style.margin", Op: DeltaRemoved, Server: "0"},
	}
	want := []Patch{
		{Op: PatchSetAttr, Target: 3, Key: "dir", Value: "ltr"},
		{Op: PatchRemoveAttr, Target: 3, Key: "hidden"},
		{Op: PatchSetStyle, Target: 3, Key: "color", Value: "red"},
		{Op: PatchRemoveStyle, Target: 3, Key: "margin"},
	}
	if diff := cmp.Diff(want, attrPatches(3, deltas)); diff != "" {
		t.Errorf("attrPatches (-want +got):\n%s", diff)
	}
}

func TestAttrDeltaString(t *testing.T) {
	tests := []struct {
		d    AttrDelta
		want string
	}{
		{AttrDelta{Name: "dir", Op: DeltaChanged, Server: "rtl", Client: "ltr"}, `dir: "rtl" -> "ltr"`},
		{AttrDelta{Name: "id", Op: DeltaAdded, Client: "a"}, `id: (absent) -> "a"`},
		{AttrDelta{Name: "id", Op: DeltaRemoved, Server: "a"}, `id: "a" -> (absent)`},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	b := markup.NewBuilder()
	div := b.Element(b.Root(), "DIV")
	text := b.Text(div, "x")
	boundary := b.Boundary(div, markup.BoundaryComplete)
	tree := b.Build()

	tests := []struct {
		name   string
		server markup.NodeID
		client *vdom.VNode
		want   bool
	}{
		{"same tag", div, vdom.Div(), true},
		{"tag case", div, vdom.CustomElement("Div"), true},
		{"different tag", div, vdom.Span(), false},
		{"text", text, vdom.Text("other"), true},
		{"text vs element", text, vdom.Span(), false},
		{"boundary", boundary, vdom.Boundary(nil), true},
		{"boundary vs fragment", boundary, vdom.Fragment(), false},
		{"root", tree.Root(), vdom.Div(), false},
		{"nil client", div, nil, false},
	}
	for _, tt := range tests {
		if got := Matches(tree, tt.server, tt.client); got != tt.want {
			t.Errorf("%s: Matches = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTextPolicyByName(t *testing.T) {
	for _, name := range []string{"", "default", "exact", "Collapse"} {
		if _, err := TextPolicyByName(name); err != nil {
			t.Errorf("TextPolicyByName(%q): %v", name, err)
		}
	}
	if _, err := TextPolicyByName("fuzzy"); err == nil {
		t.Error("expected error for unknown policy")
	}
	if got := DefaultText.Normalize("a\r\nb\rc\x00"); got != "a\nb\nc" {
		t.Errorf("DefaultText = %q", got)
	}
	if got := ExactText.Normalize("a\r\n"); got != "a\r\n" {
		t.Errorf("ExactText = %q", got)
	}
	if got := CollapseWhitespace.Normalize("  a \n\t b  "); got != "a b" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
