package dice

import "fmt"

// Roll evaluates expr against src.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and every die is in [1, expr.Sides];
// returns an error if expr violates the Expression invariant.
func Roll(expr Expression, src Source) (RollResult, error) {
	if expr.Count < 1 || expr.Sides < 2 {
		return RollResult{}, fmt.Errorf("dice: invalid expression %q (count %d, sides %d)", expr.Raw, expr.Count, expr.Sides)
	}
	if expr.Count > MaxDice {
		return RollResult{}, fmt.Errorf("dice: %q asks for %d dice, limit %d: %w", expr.Raw, expr.Count, MaxDice, ErrTooManyDice)
	}
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}, nil
}

// RollExpr parses expr and rolls it against src in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}
