package ir

import "testing"

func TestWellFormedKillIsLvalue(t *testing.T) {
	g := NewVarGen()
	r := g.Fresh("r")
	a := g.Fresh("a")
	b := g.Fresh("b")
	op := Add{Dest: VariablePort{Var: r}, Src1: VariablePort{Var: a}, Src2: VariablePort{Var: b}}
	if _, ok := KillVar(op); !ok {
		t.Fatalf("KillVar should report a kill for a variable destination")
	}
}

func TestGenUsedCollectsSources(t *testing.T) {
	g := NewVarGen()
	r, a, b := g.Fresh("r"), g.Fresh("a"), g.Fresh("b")
	op := Add{Dest: VariablePort{Var: r}, Src1: VariablePort{Var: a}, Src2: VariablePort{Var: b}}
	used := GenUsed(op)
	if len(used) != 2 || used[0] != a || used[1] != b {
		t.Fatalf("GenUsed = %v, want [%v %v]", used, a, b)
	}
}

func TestKillVarThroughAccessIsRootArray(t *testing.T) {
	g := NewVarGen()
	arr := g.Fresh("arr")
	i := g.Fresh("i")
	v := g.Fresh("v")
	op := Assign{
		Dest: Access{Array: arr, Indices: []Port{VariablePort{Var: i}}},
		Src:  VariablePort{Var: v},
	}
	kv, ok := KillVar(op)
	if !ok || kv != arr {
		t.Fatalf("KillVar through Access = (%v, %v), want (%v, true)", kv, ok, arr)
	}
	used := GenUsed(op)
	foundIdx, foundV := false, false
	for _, u := range used {
		if u == i {
			foundIdx = true
		}
		if u == v {
			foundV = true
		}
	}
	if !foundIdx || !foundV {
		t.Fatalf("GenUsed through Access write = %v, want to include index %v and value %v", used, i, v)
	}
}

func TestPartialAccessRootVarChainsThroughArray(t *testing.T) {
	g := NewVarGen()
	arr := g.Fresh("arr")
	pa := PartialAccess{Array: VariablePort{Var: arr}, Index: Constant{Value: 0}}
	root, ok := RootVar(pa)
	if !ok || root != arr {
		t.Fatalf("RootVar(PartialAccess) = (%v, %v), want (%v, true)", root, ok, arr)
	}
}

func TestConstantNeverHasRootVar(t *testing.T) {
	if _, ok := RootVar(Constant{Value: 5}); ok {
		t.Fatalf("Constant must never report a root variable")
	}
}

func TestMangleNameDistinctForDistinctSignatures(t *testing.T) {
	int64T := TypeDesc{Kind: Int64Kind}
	arrT := TypeDesc{Kind: ArrayKind, Elem: &int64T, Size: 4}

	m1 := MangleName("f", []TypeDesc{int64T}, []TypeDesc{int64T})
	m2 := MangleName("f", []TypeDesc{arrT}, []TypeDesc{int64T})
	m3 := MangleName("f", []TypeDesc{int64T}, []TypeDesc{arrT})
	m4 := MangleName("g", []TypeDesc{int64T}, []TypeDesc{int64T})

	seen := map[string]bool{}
	for _, m := range []string{m1, m2, m3, m4} {
		if seen[m] {
			t.Fatalf("mangled name collision: %q", m)
		}
		seen[m] = true
	}
}

func TestFlattenedAddrWidth(t *testing.T) {
	cases := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
	}
	for _, c := range cases {
		if got := FlattenedAddrWidth(c.length); got != c.want {
			t.Errorf("FlattenedAddrWidth(%d) = %d, want %d", c.length, got, c.want)
		}
	}
}

func TestMemoryFlattenedLength(t *testing.T) {
	m := Memory{Levels: []MemoryLevel{{Length: 4, Banks: 1}, {Length: 3, Banks: 1}}, ElemWidth: 64}
	if got := m.FlattenedLength(); got != 12 {
		t.Fatalf("FlattenedLength = %d, want 12", got)
	}
}

func TestTimingComposition(t *testing.T) {
	comb := Combinational()
	s4 := Sequential(4)
	s2 := Sequential(2)

	if got := comb.Then(s4); got != s4 {
		t.Fatalf("comb.Then(s4) = %v, want %v", got, s4)
	}
	if got := s4.Then(s2); got != Sequential(6) {
		t.Fatalf("s4.Then(s2) = %v, want seq(6)", got)
	}
	if got := s4.Max(s2); got != s4 {
		t.Fatalf("s4.Max(s2) = %v, want %v", got, s4)
	}
	if got := comb.Max(s4); got != s4 {
		t.Fatalf("comb.Max(s4) = %v, want %v", got, s4)
	}
}

func TestPortPoolInternsStructurallyEqualPorts(t *testing.T) {
	pp := NewPortPool()
	g := NewVarGen()
	v := g.Fresh("x")
	h1 := pp.Intern(VariablePort{Var: v})
	h2 := pp.Intern(VariablePort{Var: v})
	if h1 != h2 {
		t.Fatalf("structurally equal ports interned to different handles")
	}
	if pp.Len() != 1 {
		t.Fatalf("PortPool.Len() = %d, want 1", pp.Len())
	}
}
