package render

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/hydrate/pkg/vdom"
)

func quietRenderer() *Renderer {
	return NewRenderer(RendererConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func panicking() vdom.Component {
	return vdom.Func(func() *vdom.VNode { panic("boom") })
}

func TestRenderNodes(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"nil", nil, ``},
		{"text", vdom.Text("Hello, World!"), `Hello, World!`},
		{"text escaping", vdom.Text("<b>&"), `&lt;b&gt;&amp;`},
		{"empty text", vdom.Text(""), ``},
		{"element", vdom.Div(vdom.Class("container"), vdom.H1("Title"), vdom.P("Content")),
			`<div class="container"><h1>Title</h1><p>Content</p></div>`},
		{"empty element", vdom.Div(), `<div></div>`},
		{"void sorted attributes", vdom.Input(vdom.Type("text"), vdom.Name("email")), `<input name="email" type="text">`},
		{"void br", vdom.Br(), `<br>`},
		{"boolean true", vdom.Button(vdom.Disabled(), "x"), `<button disabled>x</button>`},
		{"boolean false", vdom.Input(vdom.Prop("checked", false)), `<input>`},
		{"non-boolean bool", vdom.Div(vdom.Prop("draggable", true)), `<div draggable="true"></div>`},
		{"nil prop", vdom.Div(vdom.Prop("title", nil)), `<div></div>`},
		{"empty string prop", vdom.Div(vdom.TitleAttr("")), `<div title=""></div>`},
		{"number prop", vdom.Div(vdom.TabIndex(2), vdom.Prop("width", 1.5)), `<div tabindex="2" width="1.5"></div>`},
		{"data attribute", vdom.Div(vdom.Data("id", "7")), `<div data-id="7"></div>`},
		{"aliases", vdom.Label(vdom.Prop("className", "c"), vdom.Prop("htmlFor", "f")), `<label class="c" for="f"></label>`},
		{"explicit class wins", vdom.Label(vdom.Prop("className", "b"), vdom.Class("a"), vdom.Prop("htmlFor", "g"), vdom.Prop("for", "f")),
			`<label class="a" for="f"></label>`},
		{"vendor style map", vdom.Div(vdom.StyleMap(map[string]any{"WebkitTransition": "none", "msTransform": "none"})),
			`<div style="-ms-transform: none; -webkit-transition: none"></div>`},
		{"attribute escaping", vdom.Div(vdom.TitleAttr(`a "q" <b>`)), `<div title="a &quot;q&quot; &lt;b&gt;"></div>`},
		{"bookkeeping skipped", vdom.Div(vdom.Key("k"), vdom.OnClick(func() {}), vdom.Prop("_x", 1), vdom.SuppressHydrationWarning()),
			`<div></div>`},
		{"style string", vdom.Div(vdom.StyleAttr(" color: red ")), `<div style="color: red"></div>`},
		{"style map", vdom.Div(vdom.StyleMap(map[string]any{"opacity": 0.5, "backgroundColor": "red", "--gap": "2px"})),
			`<div style="--gap: 2px; background-color: red; opacity: 0.5"></div>`},
		{"raw inner html", vdom.Div(vdom.RawHTML("<b>x</b>"), vdom.Span("ignored")), `<div><b>x</b></div>`},
		{"tag case", vdom.CustomElement("My-Widget"), `<my-widget></my-widget>`},
		{"fragment", vdom.Fragment(vdom.Li("a"), vdom.Li("b")), `<li>a</li><li>b</li>`},
		{"adjacent text", vdom.P("a", "b"), `<p>a<!-- -->b</p>`},
		{"adjacent text across fragments", vdom.Fragment("a", vdom.Fragment("b")), `a<!-- -->b`},
		{"text around elements", vdom.Fragment("a", vdom.Span("x"), "b"), `a<span>x</span>b`},
		{"component", vdom.Host(vdom.Func(func() *vdom.VNode { return vdom.Em("c") })), `<em>c</em>`},
		{"component children", vdom.HostOf(vdom.Em("c"), "d"), `<em>c</em>d`},
		{"boundary", vdom.Boundary(vdom.P("loading"), vdom.P("ready")), `<!--$--><p>ready</p><!--/$-->`},
		{"suspended boundary", vdom.Suspended(vdom.P("loading"), vdom.P("ready")), `<!--$?--><p>loading</p><!--/$-->`},
		{"failed boundary", vdom.Boundary(vdom.P("loading"), vdom.P("ok"), vdom.Host(panicking())), `<!--$!--><p>loading</p><!--/$-->`},
		{"failed boundary without fallback", vdom.Boundary(nil, vdom.Host(panicking())), `<!--$!--><!--/$-->`},
		{"text around boundary", vdom.Fragment("a", vdom.Boundary(nil, "b"), "c"), `a<!--$-->b<!--/$-->c`},
		{"nested boundaries", vdom.Boundary(nil, vdom.Boundary(nil, vdom.Br())), `<!--$--><!--$--><br><!--/$--><!--/$-->`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := quietRenderer().RenderToString(tt.node)
			if err != nil {
				t.Fatalf("RenderToString: %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRenderFailuresCollected(t *testing.T) {
	var logs bytes.Buffer
	r := NewRenderer(RendererConfig{Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	node := vdom.Div(
		vdom.Boundary(nil, vdom.Host(panicking())),
		vdom.Boundary(nil, vdom.Boundary(nil, vdom.Host(panicking()))),
	)
	if _, err := r.RenderToString(node); err != nil {
		t.Fatal(err)
	}
	if len(r.Failures()) != 2 {
		t.Fatalf("got %d failures, want 2", len(r.Failures()))
	}
	for _, err := range r.Failures() {
		if !errors.Is(err, ErrComponentPanic) {
			t.Errorf("failure = %v, want ErrComponentPanic", err)
		}
	}
	if !strings.Contains(logs.String(), "boundary content failed") {
		t.Errorf("failure not logged: %s", logs.String())
	}

	r.Reset()
	if len(r.Failures()) != 0 {
		t.Error("Reset kept failures")
	}
}

func TestRenderPanicOutsideBoundary(t *testing.T) {
	_, err := quietRenderer().RenderToString(vdom.Div(vdom.Host(panicking())))
	if !errors.Is(err, ErrComponentPanic) {
		t.Fatalf("err = %v, want ErrComponentPanic", err)
	}
}

func TestRenderUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	quietRenderer().RenderToString(&vdom.VNode{Kind: vdom.VKind(42)})
}

type countingWriter struct {
	Writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.Writes++
	return len(p), nil
}

var errTestWrite = errors.New("test write error")

type failingWriter struct {
	FailAt int
	Writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.Writes++
	if w.Writes == w.FailAt {
		return 0, errTestWrite
	}
	return len(p), nil
}

func TestRenderWriteErrors(t *testing.T) {
	node := vdom.Div(vdom.ID("a"), vdom.Disabled(),
		"x", "y",
		vdom.Boundary(nil, vdom.P("ready")),
		vdom.Suspended(vdom.P("wait")),
		vdom.Input(),
	)

	cw := &countingWriter{}
	if err := quietRenderer().RenderToWriter(cw, node); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i <= cw.Writes; i++ {
		fw := &failingWriter{FailAt: i}
		if err := quietRenderer().RenderToWriter(fw, node); !errors.Is(err, errTestWrite) {
			t.Fatalf("failAt=%d: err=%v, want %v", i, err, errTestWrite)
		}
	}
}
