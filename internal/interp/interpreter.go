package interp

import (
	"fmt"
	"math"
	"math/rand"

	"nodegraph/internal/ir"
)

// World is the mutable state a CFGInterpreter run executes against: every
// ref's current value, a seeded source of randomness for RandomInteger/
// RandomFloat, and a log of effectful calls a test can assert against
// instead of observing a real engine's drawn frame or played sample.
type World struct {
	memory  map[string]float64
	Rand    *rand.Rand
	Effects []string
}

// NewWorld creates an empty World with a deterministically seeded RNG, the
// same reproducibility the original interpreter's seeded random.Random
// gives its test suite.
func NewWorld(seed int64) *World {
	return &World{memory: map[string]float64{}, Rand: rand.New(rand.NewSource(seed))}
}

func (w *World) Get(ref ir.Ref) float64 {
	return w.memory[ref.String()]
}

func (w *World) Set(ref ir.Ref, v float64) {
	w.memory[ref.String()] = v
}

// effectfulBuiltins are builtins the runtime interpreter evaluates that
// PureBuiltins cannot (either because they are genuinely effectful, like
// DebugLog, or because they depend on World state, like the RNG). Not every
// builtin blocks.IsEffectful names has an entry here (the DrawCurved*,
// PlayLooped/PlayScheduled variants and the particle-effect
// transform/move/destroy calls do not); a call to a name found in neither
// this table nor PureBuiltins makes the interpreter panic rather than
// silently treating an effect as a no-op.
var effectfulBuiltins = map[string]func(w *World, args []float64) float64{
	"RandomInteger": func(w *World, args []float64) float64 {
		lo, hi := args[0], args[1]
		return math.Floor(lo + w.Rand.Float64()*(hi-lo))
	},
	"RandomFloat": func(w *World, args []float64) float64 {
		lo, hi := args[0], args[1]
		return lo + w.Rand.Float64()*(hi-lo)
	},
	"Draw": func(w *World, args []float64) float64 {
		w.Effects = append(w.Effects, fmt.Sprintf("Draw%v", args))
		return 0
	},
	"Play": func(w *World, args []float64) float64 {
		w.Effects = append(w.Effects, fmt.Sprintf("Play%v", args))
		return 0
	},
	"SpawnParticleEffect": func(w *World, args []float64) float64 {
		w.Effects = append(w.Effects, fmt.Sprintf("SpawnParticleEffect%v", args))
		return 0
	},
	"SpawnArchetype": func(w *World, args []float64) float64 {
		w.Effects = append(w.Effects, fmt.Sprintf("SpawnArchetype%v", args))
		return 0
	},
	"DebugPause": func(w *World, args []float64) float64 {
		w.Effects = append(w.Effects, "DebugPause")
		return 0
	},
	"DebugLog": func(w *World, args []float64) float64 {
		w.Effects = append(w.Effects, fmt.Sprintf("DebugLog%v", args))
		return args[0]
	},
	"Judge": func(w *World, args []float64) float64 {
		if len(args) < 1 || (len(args)-1)%2 != 0 {
			return 0
		}
		var windows []JudgeWindow
		for i := 1; i < len(args); i += 2 {
			windows = append(windows, JudgeWindow{MaxError: args[i], Score: args[i+1]})
		}
		return Judge(args[0], windows)
	},
	"JudgeSimple": func(w *World, args []float64) float64 {
		if len(args) != 2 {
			return 0
		}
		return JudgeSimple(args[0], args[1])
	},
}

// CFGInterpreter is the total runtime evaluator used as a test oracle: it
// executes an entire ir.Cfg to completion, following the Branch value of
// each node to pick its successor, exactly as a real engine would.
type CFGInterpreter struct {
	World *World
}

func NewCFGInterpreter(world *World) *CFGInterpreter {
	return &CFGInterpreter{World: world}
}

// Run executes c starting at its entry node and returns the id of the node
// execution stopped at (the one with no outgoing edge). It returns an
// error once it has executed maxSteps nodes in total without stopping,
// which indicates an infinite loop in the program being interpreted rather
// than a bug in the interpreter.
func (in *CFGInterpreter) Run(c *ir.Cfg) (exitNode int, err error) {
	const maxSteps = 1_000_000
	id := c.Entry
	for step := 0; step < maxSteps; step++ {
		n, ok := c.Nodes[id]
		if !ok {
			return id, fmt.Errorf("interp: node %d not found", id)
		}
		for _, stmt := range n.Body {
			in.eval(stmt)
		}
		out := c.EdgesFrom(id)
		if len(out) == 0 {
			return id, nil
		}
		var branch float64
		if n.Branch != nil {
			branch = in.eval(n.Branch)
		}
		next := -1
		for _, e := range out {
			if e.Cond == nil {
				if next == -1 {
					next = e.To
				}
				continue
			}
			if *e.Cond == branch {
				next = e.To
			}
		}
		if next == -1 {
			return id, fmt.Errorf("interp: node %d has no edge matching branch value %g", id, branch)
		}
		id = next
	}
	return id, fmt.Errorf("interp: exceeded %d steps, program likely loops forever", maxSteps)
}

// eval evaluates a single Node against the interpreter's World, applying
// any effect and returning the Node's resulting value.
func (in *CFGInterpreter) eval(n ir.Node) float64 {
	switch v := n.(type) {
	case *ir.Const:
		return v.Value
	case *ir.Comment:
		return 0
	case *ir.Get:
		return in.World.Get(v.Ref)
	case *ir.Set:
		val := in.eval(v.Value)
		in.World.Set(v.Ref, val)
		return val
	case *ir.Func:
		args := make([]float64, len(v.Args))
		for i, a := range v.Args {
			args[i] = in.eval(a)
		}
		if impl, ok := effectfulBuiltins[v.Name]; ok {
			return impl(in.World, args)
		}
		if impl, ok := PureBuiltins[v.Name]; ok {
			val, ok := impl(args)
			if !ok {
				panic(fmt.Sprintf("interp: builtin %q rejected its arguments %v", v.Name, args))
			}
			return val
		}
		panic(fmt.Sprintf("interp: unknown builtin %q", v.Name))
	default:
		panic(fmt.Sprintf("interp: unsupported node type %T", n))
	}
}
