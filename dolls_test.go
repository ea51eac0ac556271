package oceaninterp

import "testing"

func TestSelectDollPrefersLargest(t *testing.T) {
	dolls := DefaultRussianDoll()
	wet := make([]bool, 9)
	for i := range wet {
		wet[i] = true
	}
	if got := SelectDoll(wet, dolls); got != 0 {
		t.Errorf("fully wet stencil should select the largest doll (index 0), got %d", got)
	}
}

func TestSelectDollFallsBackToSmaller(t *testing.T) {
	dolls := DefaultRussianDoll()
	wet := make([]bool, 9)
	for i := range wet {
		wet[i] = true
	}
	// dry the node at index 8, which the largest doll (index 0) needs but
	// the second doll {0,1,2,3,5,7,8} still needs too; dry index 6 instead,
	// which only doll 0 touches.
	wet[6] = false
	if got := SelectDoll(wet, dolls); got != 1 {
		t.Errorf("drying a node only the largest doll needs should select doll 1, got %d", got)
	}
}

func TestSelectDollNoneFit(t *testing.T) {
	dolls := DefaultRussianDoll()
	wet := make([]bool, 9) // all dry, including the home cell
	if got := SelectDoll(wet, dolls); got != -1 {
		t.Errorf("an entirely dry stencil should fit no doll, got %d", got)
	}
}

func TestSelectDollPrefersLargerOverSmaller(t *testing.T) {
	// a stencil that fits both the 7-point and 5-point dolls should pick
	// the 7-point one (earlier in the slice), not the 5-point one.
	dolls := DefaultRussianDoll()
	wet := []bool{true, true, true, true, false, true, false, true, true}
	got := SelectDoll(wet, dolls)
	if got != 1 {
		t.Errorf("expected the 7-point doll (index 1) to win, got %d", got)
	}
}
