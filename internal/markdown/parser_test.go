package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-press/pkg/interfaces"
)

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_FencedCode(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("```js\nconst city = user?.address?.city;\n```\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, `<code class="language-js">`) {
		t.Fatalf("expected fenced block with language class, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_UnsafeHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	source := []byte("<aside>trusted</aside>\n")

	escaped, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(escaped), "<aside>") {
		t.Fatalf("raw HTML must be escaped by default, got %q", string(escaped))
	}

	raw, err := parser.ParseWithOptions(source, interfaces.ParseOptions{Unsafe: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(raw), "<aside>") {
		t.Fatalf("unsafe mode should pass raw HTML through, got %q", string(raw))
	}
}

func TestGoldmarkParser_ExtensionSelection(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	table := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")

	html, err := parser.ParseWithOptions(table, interfaces.ParseOptions{Extensions: []string{"table"}})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Fatalf("expected table extension output, got %q", string(html))
	}

	plain, err := parser.ParseWithOptions(table, interfaces.ParseOptions{Extensions: []string{"footnote"}})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(plain), "<table>") {
		t.Fatalf("table extension should be off when not requested, got %q", string(plain))
	}
}
