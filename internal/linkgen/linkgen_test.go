package linkgen

import (
	"strings"
	"testing"
)

func TestTo(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"root base", "https://example.com", "blog/posts", "https://example.com/blog/posts"},
		{"trailing slash base", "https://example.com/", "blog/posts", "https://example.com/blog/posts"},
		{"base with prefix", "https://example.com/app", "blog/posts", "https://example.com/app/blog/posts"},
		{"leading slash path", "https://example.com", "/about", "https://example.com/about"},
		{"empty path", "https://example.com", "", "https://example.com/"},
		{"dot segments dropped", "https://example.com/app", "../../admin/./x", "https://example.com/app/admin/x"},
		{"javascript scheme stays under base", "https://example.com", "javascript:alert(1)", "https://example.com/javascript:alert%281%29"},
		{"arbitrary scheme stays under base", "https://example.com", "foo:bar", "https://example.com/foo:bar"},
		{"absolute url stays under base", "https://example.com", "https:/other.org/x", "https://example.com/https:/other.org/x"},
		{"colon in first segment", "https://example.com", "10:30/meeting", "https://example.com/10:30/meeting"},
		{"percent sign", "https://example.com", "100%/done", "https://example.com/100%25/done"},
		{"question mark", "https://example.com", "what?/now", "https://example.com/what%3F/now"},
		{"hash", "https://example.com", "issue#12", "https://example.com/issue%2312"},
		{"space", "http://localhost:8080", "my page", "http://localhost:8080/my%20page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.base)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.base, err)
			}
			if got := g.To(tt.path); got != tt.want {
				t.Errorf("To(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestTo_AlwaysRootedAtBase(t *testing.T) {
	g, err := New("https://example.com/app")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inputs := []string{
		"javascript:alert(1)", "//evil.org/x", "http://evil.org", "mailto:a@b.c",
		"%zz", "a%2Fb", "?q=1", "#top", "..", "\\evil", "tel:123",
	}
	for _, in := range inputs {
		if got := g.To(in); !strings.HasPrefix(got, "https://example.com/app/") {
			t.Errorf("To(%q) = %q, expected a link under the base", in, got)
		}
	}
}

func TestNew_RejectsRelativeBase(t *testing.T) {
	for _, base := range []string{"", "/app", "example.com"} {
		if _, err := New(base); err == nil {
			t.Errorf("New(%q): expected error", base)
		}
	}
}
