package entity

// Evaluator grades the drill from a fixed spot on the field. The flight
// must not march into it.
type Evaluator struct {
	Position Point
	Symbol   rune
}

// NewEvaluator creates an evaluator at the given position.
func NewEvaluator(pos Point) *Evaluator {
	return &Evaluator{Position: pos, Symbol: 'E'}
}
