package token

import "testing"

func TestLeftBPZeroForNonOperator(t *testing.T) {
	if bp := LeftBP(IDENT); bp != 0 {
		t.Fatalf("expected 0 for IDENT, got %d", bp)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	left := LeftBP(ASSIGN)
	right := RightBP(ASSIGN)
	if right != left {
		t.Fatalf("expected right-assoc ASSIGN to have right == left (%d), got right=%d", left, right)
	}
}

func TestAdditiveIsLeftAssociative(t *testing.T) {
	left := LeftBP(PLUS)
	right := RightBP(PLUS)
	if right != left+1 {
		t.Fatalf("expected left-assoc PLUS to have right == left+1 (%d), got right=%d", left+1, right)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	left := LeftBP(STAR2)
	right := RightBP(STAR2)
	if right != left {
		t.Fatalf("expected right-assoc STAR2 (**) to have right == left (%d), got right=%d", left, right)
	}
}

func TestNonAssocOperatorsRejectChaining(t *testing.T) {
	for _, k := range []Kind{EQ, NEQ, EQQ, MATCH, NMATCH, CMP, DOT2, DOT3} {
		if !IsNonAssoc(k) {
			t.Errorf("expected %v to be non-associative", k)
		}
		left := LeftBP(k)
		right := RightBP(k)
		if right != left+1 {
			t.Errorf("%v: expected non-assoc right == left+1 (%d), got %d", k, left+1, right)
		}
	}
}

func TestComparisonOperatorsAreLeftAssociative(t *testing.T) {
	for _, k := range []Kind{LT, GT, LE, GE} {
		if IsNonAssoc(k) {
			t.Errorf("expected %v to be left-associative, not non-assoc", k)
		}
	}
}

func TestPrecedenceLadderOrdering(t *testing.T) {
	// Spot-check a handful of relative orderings from the ladder in
	// spec.md's precedence table: multiplicative binds tighter than
	// additive, which binds tighter than shift, which binds tighter
	// than comparison, which binds tighter than logical and/or.
	if !(LeftBP(STAR) > LeftBP(PLUS)) {
		t.Fatalf("expected * to bind tighter than +")
	}
	if !(LeftBP(PLUS) > LeftBP(LSHIFT)) {
		t.Fatalf("expected + to bind tighter than <<")
	}
	if !(LeftBP(LSHIFT) > LeftBP(LT)) {
		t.Fatalf("expected << to bind tighter than <")
	}
	if !(LeftBP(LT) > LeftBP(AMP2)) {
		t.Fatalf("expected < to bind tighter than &&")
	}
	if !(LeftBP(AMP2) > LeftBP(PIPE2)) {
		t.Fatalf("expected && to bind tighter than ||")
	}
	if !(LeftBP(PIPE2) > LeftBP(DOT2)) {
		t.Fatalf("expected || to bind tighter than ..")
	}
	if !(LeftBP(DOT2) > LeftBP(QUESTION)) {
		t.Fatalf("expected .. to bind tighter than ?:")
	}
	if !(LeftBP(QUESTION) > LeftBP(ASSIGN)) {
		t.Fatalf("expected ?: to bind tighter than =")
	}
}

func TestCallPrecedenceIsHighest(t *testing.T) {
	for _, k := range []Kind{DOT, COLON2, AMPDOT, LPAREN, LBRACKET_ARG} {
		if LeftBP(k) <= LeftBP(STAR2) {
			t.Errorf("expected %v to bind tighter than ** (power)", k)
		}
	}
}

func TestUnaryPrefixOperators(t *testing.T) {
	if _, ok := IsUnaryPrefix(IDENT); ok {
		t.Fatalf("IDENT should not be a unary prefix operator")
	}
	bp, ok := IsUnaryPrefix(UMINUS)
	if !ok || bp <= 0 {
		t.Fatalf("expected UMINUS to be a unary prefix operator with positive bp, got bp=%d ok=%v", bp, ok)
	}
}

func TestIsBinary(t *testing.T) {
	if !IsBinary(PLUS) {
		t.Fatalf("expected PLUS to be binary")
	}
	if IsBinary(UMINUS) {
		t.Fatalf("expected UMINUS (unary-only) to not be reported as binary")
	}
}
