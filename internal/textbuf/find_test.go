package textbuf

import "testing"

func TestFindForward(t *testing.T) {
	text := "Hello World Hello"
	tests := []struct {
		name  string
		query string
		from  ByteOffset
		flags FindFlags
		want  Range
		ok    bool
	}{
		{"first", "hello", 0, FindFlags{}, NewRange(0, 5), true},
		{"second", "hello", 1, FindFlags{}, NewRange(12, 17), true},
		{"none after last", "hello", 13, FindFlags{}, Range{}, false},
		{"case sensitive miss", "hello", 0, FindFlags{CaseSensitive: true}, Range{}, false},
		{"case sensitive hit", "World", 0, FindFlags{CaseSensitive: true}, NewRange(6, 11), true},
		{"empty query", "", 0, FindFlags{}, Range{}, false},
		{"metacharacters literal", ".", 0, FindFlags{}, Range{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(WithText(text))
			got, ok := b.Find(tt.query, tt.from, tt.flags)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Find() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFindBackward(t *testing.T) {
	b := New(WithText("Hello World Hello"))
	back := FindFlags{Backward: true}

	if got, ok := b.Find("hello", 17, back); !ok || got != NewRange(12, 17) {
		t.Errorf("Find(back, 17) = %v, %v; want [12:17)", got, ok)
	}
	if got, ok := b.Find("hello", 12, back); !ok || got != NewRange(0, 5) {
		t.Errorf("Find(back, 12) = %v, %v; want [0:5)", got, ok)
	}
	if _, ok := b.Find("hello", 4, back); ok {
		t.Error("Find(back, 4) should not match")
	}
}

func TestFindWholeWord(t *testing.T) {
	b := New(WithText("cat concat cat_x cat"))
	ww := FindFlags{WholeWord: true}

	got, ok := b.Find("cat", 0, ww)
	if !ok || got != NewRange(0, 3) {
		t.Fatalf("first = %v, %v", got, ok)
	}
	got, ok = b.Find("cat", 1, ww)
	if !ok || got != NewRange(17, 20) {
		t.Errorf("second = %v, %v; want [17:20)", got, ok)
	}
	got, ok = b.Find("cat", 20, FindFlags{WholeWord: true, Backward: true})
	if !ok || got != NewRange(17, 20) {
		t.Errorf("backward = %v, %v; want [17:20)", got, ok)
	}
}

func TestFindUnicodeBoundaries(t *testing.T) {
	b := New(WithText("éa a"))
	got, ok := b.Find("a", 0, FindFlags{WholeWord: true})
	if !ok || got != NewRange(4, 5) {
		t.Errorf("Find() = %v, %v; want [4:5)", got, ok)
	}
}

func TestIsWholeWord(t *testing.T) {
	tests := []struct {
		text string
		r    Range
		want bool
	}{
		{"foo", NewRange(0, 3), true},
		{"foo bar", NewRange(4, 7), true},
		{"foobar", NewRange(0, 3), false},
		{"x_foo", NewRange(2, 5), false},
		{"(foo)", NewRange(1, 4), true},
		{"1foo", NewRange(1, 4), false},
	}
	for _, tt := range tests {
		if got := IsWholeWord(tt.text, tt.r); got != tt.want {
			t.Errorf("IsWholeWord(%q, %v) = %v, want %v", tt.text, tt.r, got, tt.want)
		}
	}
}

func TestRange(t *testing.T) {
	r := NewRange(5, 2)
	if r.IsValid() {
		t.Error("inverted range should be invalid")
	}
	n := r.Normalize()
	if n != NewRange(2, 5) || n.Len() != 3 {
		t.Errorf("Normalize() = %v, Len = %d", n, n.Len())
	}
	if n.String() != "[2:5)" {
		t.Errorf("String() = %q", n.String())
	}
	if !NewRange(1, 1).IsEmpty() {
		t.Error("zero-length range should be empty")
	}
}
