// Command cassotrace builds a small, fixed layout system (three widgets
// laid out left to right with a required container width and a weak
// preference for equal widths) and prints the three widget widths before
// and after an edit, colourised by whether they moved.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	casso "github.com/cassowary-go/casso"
)

func main() {
	debug := flag.Bool("debug", false, "log solver pivots and dump the tableau after resolving")
	flag.Parse()

	logger := zap.NewNop()
	if *debug {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cassotrace: failed to build logger:", err)
			os.Exit(1)
		}
	}

	s := casso.NewSolver(casso.WithLogger(logger))

	containerWidth := s.NewVar("container.width")
	left := s.NewVar("left.width")
	middle := s.NewVar("middle.width")
	right := s.NewVar("right.width")

	add := func(c casso.Constraint, err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, "cassotrace: failed to build constraint:", err)
			os.Exit(1)
		}
		if _, err := s.AddConstraint(c); err != nil {
			fmt.Fprintln(os.Stderr, "cassotrace: failed to add constraint:", err)
			os.Exit(1)
		}
	}

	add(casso.NewConstraint(casso.VarOperand(containerWidth), casso.EQ, casso.ConstOperand(300)))

	sum := casso.NewExpression(0, left.T(1), middle.T(1), right.T(1))
	add(casso.NewConstraint(casso.ExprOperand(sum), casso.EQ, casso.VarOperand(containerWidth)))

	add(casso.NewConstraint(casso.VarOperand(left), casso.GEQ, casso.ConstOperand(0)))
	add(casso.NewConstraint(casso.VarOperand(middle), casso.GEQ, casso.ConstOperand(0)))
	add(casso.NewConstraint(casso.VarOperand(right), casso.GEQ, casso.ConstOperand(0)))

	weakEqualC, err := casso.NewConstraint(casso.VarOperand(left), casso.EQ, casso.VarOperand(middle))
	if err != nil {
		fmt.Fprintln(os.Stderr, "cassotrace:", err)
		os.Exit(1)
	}
	add(weakEqualC.WithStrength(casso.Weak), nil)
	weakEqualC2, err := casso.NewConstraint(casso.VarOperand(middle), casso.EQ, casso.VarOperand(right))
	if err != nil {
		fmt.Fprintln(os.Stderr, "cassotrace:", err)
		os.Exit(1)
	}
	add(weakEqualC2.WithStrength(casso.Weak), nil)

	before := snapshotValues(s, left, middle, right)
	printRow("initial", before, before)

	if err := s.AddEditVar(left, casso.Strong, 1); err != nil {
		fmt.Fprintln(os.Stderr, "cassotrace:", err)
		os.Exit(1)
	}
	s.BeginEdit()
	if err := s.SuggestValue(left, 150); err != nil {
		fmt.Fprintln(os.Stderr, "cassotrace:", err)
		os.Exit(1)
	}
	if err := s.Resolve(); err != nil {
		fmt.Fprintln(os.Stderr, "cassotrace:", err)
		os.Exit(1)
	}
	if err := s.EndEdit(); err != nil {
		fmt.Fprintln(os.Stderr, "cassotrace:", err)
		os.Exit(1)
	}

	after := snapshotValues(s, left, middle, right)
	printRow("after drag", before, after)

	if *debug {
		fmt.Println(s.Dump())
	}
}

func snapshotValues(s *casso.Solver, vars ...casso.Var) []float64 {
	out := make([]float64, len(vars))
	for i, v := range vars {
		out[i] = s.Val(v)
	}
	return out
}

func printRow(label string, before, after []float64) {
	names := []string{"left", "middle", "right"}
	fmt.Printf("%-12s", label)
	for i, v := range after {
		c := color.New(color.FgWhite)
		if i < len(before) && before[i] != v {
			c = color.New(color.FgYellow, color.Bold)
		}
		c.Printf(" %s=%.1f", names[i], v)
	}
	fmt.Println()
}
