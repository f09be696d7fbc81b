package env

import "testing"

func TestFindWalksTopToBase(t *testing.T) {
	e := New[int]()
	e.BindBase("x", 1)
	e.Push()
	e.Bind("x", 2)
	if v, ok := e.Find("x"); !ok || v != 2 {
		t.Fatalf("Find(x) = (%d, %v), want (2, true)", v, ok)
	}
	e.Pop()
	if v, ok := e.Find("x"); !ok || v != 1 {
		t.Fatalf("after pop, Find(x) = (%d, %v), want (1, true)", v, ok)
	}
}

func TestPopCannotRemoveBaseScope(t *testing.T) {
	e := New[int]()
	if e.Pop() {
		t.Fatalf("Pop() on base scope returned true")
	}
	if e.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", e.Depth())
	}
}

func TestBindReturnsPrevious(t *testing.T) {
	e := New[string]()
	if _, had := e.Bind("a", "first"); had {
		t.Fatalf("unexpected previous binding")
	}
	prev, had := e.Bind("a", "second")
	if !had || prev != "first" {
		t.Fatalf("Bind previous = (%q, %v), want (\"first\", true)", prev, had)
	}
}

func TestBindBaseIgnoresCurrentScope(t *testing.T) {
	e := New[int]()
	e.Push()
	e.Push()
	e.BindBase("g", 5)
	e.Pop()
	e.Pop()
	if v, ok := e.Find("g"); !ok || v != 5 {
		t.Fatalf("Find(g) = (%d, %v), want (5, true)", v, ok)
	}
}
