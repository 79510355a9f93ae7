package source

import "testing"

func TestFileSetBasicClassLocation(t *testing.T) {
	fs := NewFileSet()
	if got := fs.Name(BasicClassFile); got != BasicClassName {
		t.Fatalf("Name(BasicClassFile) = %q", got)
	}
	if got := fs.Format(Span{File: BasicClassFile}); got != "<basic class>:0" {
		t.Errorf("Format = %q", got)
	}
}

func TestFileSetLocationDedup(t *testing.T) {
	fs := NewFileSet()
	a := fs.Location("good.cl")
	b := fs.Location("good.cl")
	c := fs.Location("other.cl")
	if a != b {
		t.Errorf("Location not idempotent: %d != %d", a, b)
	}
	if a == c {
		t.Error("distinct names share an id")
	}
	if got := fs.Format(Span{File: a, Line: 12}); got != "good.cl:12" {
		t.Errorf("Format = %q", got)
	}
	if fs.Get(c).Path != "other.cl" || fs.Len() != 3 {
		t.Errorf("files = %d", fs.Len())
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
		changed  bool
	}{
		{"\xEF\xBB\xBF#1\r\n_program\r\n", "#1\n_program\n", true},
		{"#1\n_program\n", "#1\n_program\n", false},
		{"a\rb\r\n", "a\rb\n", true},
	}
	for _, tc := range cases {
		got, changed := Normalize([]byte(tc.in))
		if string(got) != tc.want || changed != tc.changed {
			t.Errorf("Normalize(%q) = %q, %v", tc.in, got, changed)
		}
	}
}

func TestLineSpan(t *testing.T) {
	if got := LineSpan(2, 7); got != (Span{File: 2, Line: 7}) || got.String() != "2:7" {
		t.Errorf("LineSpan = %v", got)
	}
	if got := LineSpan(1, -4); got.Line != 0 {
		t.Errorf("LineSpan negative = %d", got.Line)
	}
}
