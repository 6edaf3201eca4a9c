// Package interp implements two evaluators over the same builtin table: a
// pure partial evaluator (Eval) and a total runtime interpreter (used as a
// test oracle against the optimized, flattened form of a program).
// internal/passes folds constants by reading the PureBuiltins table itself.
package interp

import "math"

// PureBuiltins are builtins whose result depends only on their arguments —
// safe for the partial evaluator to fold at compile time. Keyed exactly by
// the Func.Name the builder emits.
var PureBuiltins = map[string]func(args []float64) (float64, bool){
	"Add":      variadic(func(a, b float64) float64 { return a + b }),
	"Multiply": variadic(func(a, b float64) float64 { return a * b }),
	"Subtract": binary(func(a, b float64) float64 { return a - b }),
	"Divide": func(args []float64) (float64, bool) {
		if len(args) != 2 || args[1] == 0 {
			return 0, false
		}
		return args[0] / args[1], true
	},
	"Mod": func(args []float64) (float64, bool) {
		if len(args) != 2 || args[1] == 0 {
			return 0, false
		}
		return math.Mod(args[0], args[1]), true
	},
	"Negate": unary(func(a float64) float64 { return -a }),
	"Not":    unary(func(a float64) float64 { return boolf(a == 0) }),
	"Equal":  compare(func(a, b float64) bool { return a == b }),
	"NotEqual": compare(func(a, b float64) bool { return a != b }),
	"Greater": compare(func(a, b float64) bool { return a > b }),
	"GreaterOr": compare(func(a, b float64) bool { return a >= b }),
	"Less":   compare(func(a, b float64) bool { return a < b }),
	"LessOr": compare(func(a, b float64) bool { return a <= b }),
	"And": func(args []float64) (float64, bool) {
		for _, a := range args {
			if a == 0 {
				return 0, true
			}
		}
		return 1, true
	},
	"Or": func(args []float64) (float64, bool) {
		for _, a := range args {
			if a != 0 {
				return 1, true
			}
		}
		return 0, true
	},
	"Min": func(args []float64) (float64, bool) { return fold(args, math.Min) },
	"Max": func(args []float64) (float64, bool) { return fold(args, math.Max) },
	"Abs":   unary(math.Abs),
	"Floor": unary(math.Floor),
	"Ceil":  unary(math.Ceil),
	"Round": unary(math.Round),
	"If": func(args []float64) (float64, bool) {
		if len(args) != 3 {
			return 0, false
		}
		if args[0] != 0 {
			return args[1], true
		}
		return args[2], true
	},
	"Sin": unary(math.Sin),
	"Cos": unary(math.Cos),
	"Tan": unary(math.Tan),
	"Arcsin": unary(math.Asin),
	"Arccos": unary(math.Acos),
	"Arctan": unary(math.Atan),
	"Power": func(args []float64) (float64, bool) {
		if len(args) != 2 {
			return 0, false
		}
		return math.Pow(args[0], args[1]), true
	},
	"Lerp": func(args []float64) (float64, bool) {
		if len(args) != 3 {
			return 0, false
		}
		from, to, ratio := args[0], args[1], args[2]
		return from + (to-from)*ratio, true
	},
	"Remap": func(args []float64) (float64, bool) {
		if len(args) != 5 {
			return 0, false
		}
		fromLow, fromHigh, toLow, toHigh, value := args[0], args[1], args[2], args[3], args[4]
		if fromHigh == fromLow {
			return toLow, true
		}
		ratio := (value - fromLow) / (fromHigh - fromLow)
		return toLow + (toHigh-toLow)*ratio, true
	},
	"Clamp": func(args []float64) (float64, bool) {
		if len(args) != 3 {
			return 0, false
		}
		v, lo, hi := args[0], args[1], args[2]
		if v < lo {
			return lo, true
		}
		if v > hi {
			return hi, true
		}
		return v, true
	},
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func variadic(op func(a, b float64) float64) func([]float64) (float64, bool) {
	return func(args []float64) (float64, bool) {
		if len(args) == 0 {
			return 0, false
		}
		acc := args[0]
		for _, a := range args[1:] {
			acc = op(acc, a)
		}
		return acc, true
	}
}

func binary(op func(a, b float64) float64) func([]float64) (float64, bool) {
	return func(args []float64) (float64, bool) {
		if len(args) != 2 {
			return 0, false
		}
		return op(args[0], args[1]), true
	}
}

func unary(op func(a float64) float64) func([]float64) (float64, bool) {
	return func(args []float64) (float64, bool) {
		if len(args) != 1 {
			return 0, false
		}
		return op(args[0]), true
	}
}

func compare(op func(a, b float64) bool) func([]float64) (float64, bool) {
	return func(args []float64) (float64, bool) {
		if len(args) != 2 {
			return 0, false
		}
		return boolf(op(args[0], args[1])), true
	}
}

func fold(args []float64, op func(a, b float64) float64) (float64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	acc := args[0]
	for _, a := range args[1:] {
		acc = op(acc, a)
	}
	return acc, true
}

// JudgeWindow describes one timing window's score and score-multiplier
// tier, the unit Judge/JudgeSimple classify a timing error against.
type JudgeWindow struct {
	MaxError float64
	Score    float64
}

// Judge returns the score of the first window whose MaxError is not
// exceeded by abs(errorSeconds), or the last window's score if every
// window is exceeded (the miss tier). Windows must be pre-sorted
// ascending by MaxError; this is the full scoring judge builtin, used by
// rhythm-accuracy callbacks that report every tier.
func Judge(errorSeconds float64, windows []JudgeWindow) float64 {
	abs := math.Abs(errorSeconds)
	for _, w := range windows {
		if abs <= w.MaxError {
			return w.Score
		}
	}
	if len(windows) == 0 {
		return 0
	}
	return windows[len(windows)-1].Score
}

// JudgeSimple is Judge's single-threshold form: 1 within the window,
// 0 outside it, used where only a hit/miss distinction is needed rather
// than Judge's full tiering.
func JudgeSimple(errorSeconds, window float64) float64 {
	if math.Abs(errorSeconds) <= window {
		return 1
	}
	return 0
}
