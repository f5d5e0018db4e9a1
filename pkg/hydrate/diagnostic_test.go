package hydrate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/hydrate/internal/errors"
	. "github.com/vango-dev/hydrate/pkg/vdom"
)

func TestRenderExcerptWindow(t *testing.T) {
	tree := mustParse(t, `<ul id="list"><li>0</li><li>1</li><li>2</li><li>3</li><li>4</li><li>5</li><li>6</li></ul>`)
	client := Ul(ID("list"), Li("0"), Li("1"), Li("2"), Li("3"), Em("new"), Li("4"), Li("5"), Li("6"))

	r := Reconcile(tree, client, Options{ContextWindow: 1})
	if r.OK() {
		t.Fatal("expected escalation")
	}
	want := []string{
		`  <ul id="list">`,
		`    ...`,
		`    <li>`,
		`+   <em>`,
		`    <li>`,
		`    ...`,
	}
	if diff := cmp.Diff(want, r.Escalation.Diagnostic.Excerpt); diff != "" {
		t.Errorf("excerpt (-want +got):\n%s", diff)
	}
}

func TestRenderExcerptText(t *testing.T) {
	tree := mustParse(t, `<p class="greeting">Hello, server</p>`)
	client := P(Class("greeting"), "Hello, client")

	r := Reconcile(tree, client, Options{Mode: Safety})
	want := []string{
		`  <p class="greeting">`,
		`+   "Hello, client"`,
		`-   "Hello, server"`,
	}
	if diff := cmp.Diff(want, r.Escalation.Diagnostic.Excerpt); diff != "" {
		t.Errorf("excerpt (-want +got):\n%s", diff)
	}
}

func TestRenderExcerptAttributes(t *testing.T) {
	tree := mustParse(t, `<div id="app"><main dir="rtl" hidden></main></div>`)
	client := Div(ID("app"), Main(Dir("ltr"), Lang("en")))

	r := Reconcile(tree, client, Options{})
	if len(r.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(r.Diagnostics))
	}
	d := r.Diagnostics[0]
	want := []string{
		`  <div id="app">`,
		`    <main>`,
		`+     dir="ltr"`,
		`-     dir="rtl"`,
		`-     hidden=""`,
		`+     lang="en"`,
	}
	if diff := cmp.Diff(want, d.Excerpt); diff != "" {
		t.Errorf("excerpt (-want +got):\n%s", diff)
	}
	if d.Severity != SeverityWarning || d.Scope != LocalPatchable || d.Code != "E042" {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestRenderExcerptTypeAndServerExtra(t *testing.T) {
	tree := mustParse(t, `<nav><a href="/">home</a><span>x</span></nav>`)

	r := Reconcile(tree, Nav(Button("home"), Strong("x")), Options{Mode: Safety})
	want := []string{
		`  <nav>`,
		`+   <button>`,
		`-   <a>`,
		`    <span>`,
	}
	if diff := cmp.Diff(want, r.Escalation.Diagnostic.Excerpt); diff != "" {
		t.Errorf("type excerpt (-want +got):\n%s", diff)
	}

	r = Reconcile(tree, Nav(A(Href("/"), "home")), Options{})
	want = []string{
		`  <nav>`,
		`    <a>`,
		`-   <span>`,
	}
	if diff := cmp.Diff(want, r.Escalation.Diagnostic.Excerpt); diff != "" {
		t.Errorf("server extra excerpt (-want +got):\n%s", diff)
	}
}

func TestRenderExcerptIncompleteBoundary(t *testing.T) {
	tree := mustParse(t, `<section><!--$!--><p>loading</p><!--/$--></section>`)
	r := Reconcile(tree, Section(Boundary(P("loading"), P("done"))), Options{})
	want := []string{
		`  <section>`,
		`-   <Boundary status="incomplete">`,
	}
	if diff := cmp.Diff(want, r.Escalation.Diagnostic.Excerpt); diff != "" {
		t.Errorf("excerpt (-want +got):\n%s", diff)
	}
}

func TestRenderExcerptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 100)
	tree := mustParse(t, `<p>`+long+`</p>`)
	r := Reconcile(tree, P("short"), Options{Mode: Safety})
	for _, line := range r.Escalation.Diagnostic.Excerpt {
		if len(line) > 60 {
			t.Errorf("line not truncated: %q", line)
		}
	}
}

func TestDiagnosticFormat(t *testing.T) {
	errors.DisableColors()
	defer errors.EnableColors()

	tree := mustParse(t, `<div class="parent"><header class="1"></header></div>`)
	r := Reconcile(tree, Div(Class("parent"), Header(Class("1")), Footer(Class("3"))), Options{})
	if len(r.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want notice and detail", len(r.Diagnostics))
	}

	notice := r.Diagnostics[0].Format()
	if !strings.Contains(notice, "ERROR E049") || !strings.Contains(notice, "content replaced") {
		t.Errorf("notice = %s", notice)
	}

	detail := r.Diagnostics[1]
	out := detail.Format()
	if !strings.Contains(out, `+   <footer class="3">`) {
		t.Errorf("Format() missing excerpt:\n%s", out)
	}
	// Prose is wrapped; compare with white space collapsed.
	flat := strings.Join(strings.Fields(out), " ")
	for _, want := range []string{
		"ERROR E043",
		"div.parent > footer.3",
		"the whole tree will be rendered on the client",
		"non-deterministic values",
		"https://vango.dev/docs/errors/E043",
	} {
		if !strings.Contains(flat, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := detail.String(); !strings.HasPrefix(got, "div.parent > footer.3: E043:") {
		t.Errorf("String() = %q", got)
	}
	if errors.Code(detail.Err()) != "E043" {
		t.Errorf("Err code = %q", errors.Code(detail.Err()))
	}
}

func TestDiagnosticWarningFormat(t *testing.T) {
	errors.DisableColors()
	defer errors.EnableColors()

	tree := mustParse(t, `<main dir="rtl"></main>`)
	r := Reconcile(tree, Main(Dir("ltr")), Options{})
	out := strings.Join(strings.Fields(r.Diagnostics[0].Format()), " ")
	if !strings.Contains(out, "WARNING E042") || !strings.Contains(out, "repaired with client values") {
		t.Errorf("Format() = %s", out)
	}
}

func TestDiagnosticLocation(t *testing.T) {
	d := Diagnostic{
		ServerPath: Path{{Tag: "div"}, {Tag: "em"}},
		ClientPath: Path{{Tag: "div"}},
	}
	if got := d.Location().String(); got != "div > em" {
		t.Errorf("Location = %q, want server path", got)
	}
	d.ClientPath = Path{{Tag: "div"}, {Tag: "span", Hint: ".x"}}
	if got := d.Location().String(); got != "div > span.x" {
		t.Errorf("Location = %q, want client path", got)
	}
}

func TestMismatchDescribe(t *testing.T) {
	tree := mustParse(t, `<div><span>a</span></div>`)

	r := Reconcile(tree, Div(Span("a"), Em("b"), Em("c")), Options{})
	if got := r.Escalation.Mismatch.Describe(); got != "client renders 2 node(s) the server did not, starting with em" {
		t.Errorf("Describe = %q", got)
	}

	r = Reconcile(tree, Div(Strong("a")), Options{Mode: Safety})
	if got := r.Escalation.Mismatch.Describe(); got != "expected strong, server has span" {
		t.Errorf("Describe = %q", got)
	}
}
