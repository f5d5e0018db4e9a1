package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "type mismatch",
			code:    "E040",
			wantMsg: "Hydration mismatch: element type differs",
			wantCat: CategoryHydration,
		},
		{
			name:    "provider failure",
			code:    "E048",
			wantMsg: "Hydration tree unavailable",
			wantCat: CategoryProvider,
		},
		{
			name:    "config error",
			code:    "E121",
			wantMsg: "Invalid hydration mode",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "server.html")
	if err.Message != `file "server.html" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestHydrateError_Error(t *testing.T) {
	err := New("E041")
	if got, want := err.Error(), "E041: Hydration mismatch: text content differs"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &HydrateError{Message: "plain"}
	if err2.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "plain")
	}

	err3 := New("E048").Wrap(fmt.Errorf("boom"))
	if got, want := err3.Error(), "E048: Hydration tree unavailable: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestHydrateError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("provider down")
	err := New("E048").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped error")
	}

	var he *HydrateError
	if !stderrors.As(fmt.Errorf("attempt: %w", err), &he) {
		t.Fatal("errors.As should find the HydrateError")
	}
	if he.Code != "E048" {
		t.Errorf("Code = %q, want E048", he.Code)
	}
}

func TestCode(t *testing.T) {
	if Code(nil) != "" {
		t.Error("Code(nil) should be empty")
	}
	if Code(stderrors.New("x")) != "" {
		t.Error("Code of a plain error should be empty")
	}
	wrapped := fmt.Errorf("outer: %w", New("E121"))
	if got := Code(wrapped); got != "E121" {
		t.Errorf("Code = %q, want E121", got)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E048") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	he := New("E040")
	if FromError(he, "E048") != he {
		t.Error("FromError should return HydrateError as-is")
	}

	plain := stderrors.New("plain")
	result := FromError(plain, "E048")
	if result.Wrapped != plain {
		t.Error("standard error should be wrapped")
	}
	if result.Code != "E048" {
		t.Errorf("Code = %q, want E048", result.Code)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E043").
		WithPath("div.parent > footer.3").
		WithExcerpt([]string{
			`  <div class="parent">`,
			`+   <footer class="3">`,
		})

	out := err.Format()
	for _, want := range []string{
		"ERROR E043: Hydration mismatch: extra element on client",
		"div.parent > footer.3",
		`+   <footer class="3">`,
		"Learn more: https://vango.dev/docs/errors/E043",
		"third-party scripts",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q\n%s", want, out)
		}
	}
}

func TestFormatWarning(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E042").FormatWarning()
	if !strings.Contains(out, "WARNING E042:") {
		t.Errorf("FormatWarning() = %q", out)
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E041").WithPath("main > p")
	if got, want := err.FormatCompact(), "main > p: E041: Hydration mismatch: text content differs"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E048").WithPath("root").Wrap(stderrors.New("timeout"))

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON() produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "E048" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["category"] != "provider" {
		t.Errorf("category = %v", decoded["category"])
	}
	if decoded["cause"] != "timeout" {
		t.Errorf("cause = %v", decoded["cause"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText of empty text should be nil")
	}
}

func TestRegistryHydrationCodesCarryCauses(t *testing.T) {
	for _, code := range []string{"E040", "E041", "E042", "E043", "E044"} {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Fatalf("code %s not registered", code)
		}
		if !strings.Contains(tmpl.Detail, "locale-dependent") {
			t.Errorf("%s detail should carry the explanatory template", code)
		}
	}
	if len(GetAllCodes()) != len(registry) {
		t.Error("GetAllCodes should list every registered code")
	}
}
