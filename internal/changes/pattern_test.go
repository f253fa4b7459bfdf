package changes

import "testing"

func TestPatternSemantics(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"a/*.ts", "a/b.ts", true},
		{"a/*.ts", "a/b/c.ts", false},
		{"a/**", "a/b/c.ts", true},
		{"a/**", "a/x", true},
		{"lit.txt", "lit.txt", true},
		{"lit.txt", "xlit.txt", false},
		{"lit.txt", "lit.txtx", false},
		{"lit+plus.txt", "lit+plus.txt", true},
		{"lit+plus.txt", "litplus.txt", false},
		{"**/*.go", "a/b/c.go", true},
		{"*", "a", true},
		{"*", "a/b", false},
	}

	for _, tt := range tests {
		m, err := CompilePatterns([]string{tt.pattern})
		if err != nil {
			t.Fatalf("CompilePatterns(%q): %v", tt.pattern, err)
		}
		if got := m.Matches(tt.path); got != tt.want {
			t.Errorf("pattern %q against %q = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestMatcherFilter(t *testing.T) {
	entries := []Entry{
		{Destination: "src/a.go", Operation: OpModify},
		{Destination: "src/sub/b.go", Operation: OpModify},
		{Destination: "docs/c.md", Operation: OpCreate},
	}

	m, err := CompilePatterns([]string{"src/**"})
	if err != nil {
		t.Fatal(err)
	}
	matched := m.Filter(entries)
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}
	for _, entry := range matched {
		if entry.Destination == "docs/c.md" {
			t.Error("docs/c.md should not match src/**")
		}
	}
}

func TestMatcherMultiplePatterns(t *testing.T) {
	m, err := CompilePatterns([]string{"*.md", "src/*.go"})
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches("README.md") {
		t.Error("README.md should match *.md")
	}
	if !m.Matches("src/main.go") {
		t.Error("src/main.go should match src/*.go")
	}
	if m.Matches("src/sub/deep.go") {
		t.Error("src/sub/deep.go should not match either pattern")
	}
}
