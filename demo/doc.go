// Package demo runs the lazy-versus-eager scenario: filter the source, scale
// each survivor while printing it, and keep the first few results.
//
// Under lazy evaluation only the values needed for the result are printed.
// Under eager evaluation every stage runs over the whole input first:
//
//	sc := demo.DefaultScenario()
//	cmp, err := demo.Compare(ctx, sc, os.Stdout)
//	// lazy: 4
//	// eager: 468
package demo
