package entity

import "testing"

func TestBuiltinTableInterning(t *testing.T) {
	a := NewArena()
	bt := NewBuiltinTable(a)

	i1 := bt.Prim(PrimInt32)
	i2 := bt.Prim(PrimInt32)
	if i1 != i2 {
		t.Fatalf("Prim(int32) should intern to the same handle, got %v and %v", i1, i2)
	}

	s1 := bt.Sequence(i1, 0, false)
	s2 := bt.Sequence(i1, 0, false)
	if s1 != s2 {
		t.Fatalf("Sequence(int32) should intern, got %v and %v", s1, s2)
	}
	s3 := bt.Sequence(i1, 4, true)
	if s1 == s3 {
		t.Fatalf("Sequence(int32,4) should not intern to the same handle as the unbounded sequence")
	}

	p1 := bt.Pointer(i1)
	p2 := bt.Pointer(i1)
	if p1 != p2 {
		t.Fatalf("Pointer(int32) should intern, got %v and %v", p1, p2)
	}

	if bt.Any() != bt.Any() {
		t.Fatalf("Any() should be a singleton")
	}

	if !PrimInt32.IsIntegral() {
		t.Fatalf("int32 should be integral")
	}
	if PrimFloat.IsIntegral() {
		t.Fatalf("float should not be integral")
	}
}
