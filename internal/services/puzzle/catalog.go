package puzzle

import (
	"math"
	"strings"
)

// Mode selects which operation catalog a game is played with. The core
// never inspects the catalog; it exists for clients and for the CLI to
// present the available transforms.
type Mode string

const (
	ModeAlgebra  Mode = "algebra"
	ModeLambda   Mode = "lambda"
	ModeStrings  Mode = "strings"
	ModeEnhanced Mode = "enhanced"
)

// Domain is the value type an operation transforms
type Domain string

const (
	DomainNumber Domain = "number"
	DomainString Domain = "string"
)

// Operation is a named unary transform over a single domain. Exactly one
// of Number or Text is set, matching Domain.
type Operation struct {
	ID     int
	Name   string
	Domain Domain
	Number func(x float64) float64
	Text   func(x string) string
}

// Apply runs a number-domain operation
func (op Operation) Apply(x float64) float64 {
	return op.Number(x)
}

// ApplyText runs a string-domain operation
func (op Operation) ApplyText(x string) string {
	return op.Text(x)
}

// LevelConfig is one difficulty tier of the algebra mode: a move budget, a
// default target, and the transforms available at that tier.
type LevelConfig struct {
	Level        int
	Moves        int
	TargetOutput float64
	Operations   []Operation
}

func numberOp(id int, name string, fn func(float64) float64) Operation {
	return Operation{ID: id, Name: name, Domain: DomainNumber, Number: fn}
}

func stringOp(id int, name string, fn func(string) string) Operation {
	return Operation{ID: id, Name: name, Domain: DomainString, Text: fn}
}

// AlgebraLevels returns the five leveled algebra configurations
func AlgebraLevels() []LevelConfig {
	return []LevelConfig{
		{
			Level: 1, Moves: 10, TargetOutput: 25,
			Operations: []Operation{
				numberOp(1, "X^2", func(x float64) float64 { return math.Pow(x, 2) }),
				numberOp(2, "X^X", func(x float64) float64 { return math.Pow(x, x) }),
				numberOp(3, "X / 2", func(x float64) float64 { return x / 2 }),
				numberOp(4, "√X", math.Sqrt),
				numberOp(5, "X + 5", func(x float64) float64 { return x + 5 }),
				numberOp(6, "X - 3", func(x float64) float64 { return x - 3 }),
			},
		},
		{
			Level: 2, Moves: 8, TargetOutput: 16,
			Operations: []Operation{
				numberOp(1, "X^3", func(x float64) float64 { return math.Pow(x, 3) }),
				numberOp(2, "X * 2", func(x float64) float64 { return x * 2 }),
				numberOp(3, "X - 1", func(x float64) float64 { return x - 1 }),
				numberOp(4, "X / 4", func(x float64) float64 { return x / 4 }),
			},
		},
		{
			Level: 3, Moves: 6, TargetOutput: 81,
			Operations: []Operation{
				numberOp(1, "X * 3", func(x float64) float64 { return x * 3 }),
				numberOp(2, "X - 5", func(x float64) float64 { return x - 5 }),
				numberOp(3, "X / 3", func(x float64) float64 { return x / 3 }),
				numberOp(4, "√X", math.Sqrt),
			},
		},
		{
			Level: 4, Moves: 5, TargetOutput: 32,
			Operations: []Operation{
				numberOp(1, "X * 4", func(x float64) float64 { return x * 4 }),
				numberOp(2, "X + 10", func(x float64) float64 { return x + 10 }),
				numberOp(3, "X - 2", func(x float64) float64 { return x - 2 }),
			},
		},
		{
			Level: 5, Moves: 4, TargetOutput: 100,
			Operations: []Operation{
				numberOp(1, "X * X", func(x float64) float64 { return x * x }),
				numberOp(2, "X / 5", func(x float64) float64 { return x / 5 }),
				numberOp(3, "X + 7", func(x float64) float64 { return x + 7 }),
			},
		},
	}
}

// LambdaOperations returns the lambda-mode catalog
func LambdaOperations() []Operation {
	return []Operation{
		numberOp(1, "x => x * 2", func(x float64) float64 { return x * 2 }),
		numberOp(2, "x => x + 10", func(x float64) float64 { return x + 10 }),
		numberOp(3, "x => x - 5", func(x float64) float64 { return x - 5 }),
		numberOp(4, "x => x % 2", func(x float64) float64 { return math.Mod(x, 2) }),
	}
}

// StringOperations returns the string-mode catalog
func StringOperations() []Operation {
	return []Operation{
		stringOp(1, "ToUpper", strings.ToUpper),
		stringOp(2, "ToLower", strings.ToLower),
		stringOp(3, "Trim", strings.TrimSpace),
		stringOp(4, `Concat "!"`, func(x string) string { return x + "!" }),
	}
}

// Operations returns the catalog for a mode. Enhanced is the union of the
// first algebra tier and the lambda catalog, with ids renumbered.
func Operations(mode Mode) []Operation {
	switch mode {
	case ModeAlgebra:
		var ops []Operation
		for _, lvl := range AlgebraLevels() {
			ops = append(ops, lvl.Operations...)
		}
		return ops
	case ModeLambda:
		return LambdaOperations()
	case ModeStrings:
		return StringOperations()
	case ModeEnhanced:
		ops := append(AlgebraLevels()[0].Operations, LambdaOperations()...)
		for i := range ops {
			ops[i].ID = i + 1
		}
		return ops
	default:
		return nil
	}
}
