// Package optimize provides a bounded, gradient-free nonlinear minimizer.
// The fit driver only relies on its contract: stay inside the box, finish
// within a finite iteration budget, and report failure explicitly.
package optimize

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// ErrInfeasibleBounds reports a box with a lower bound above its upper bound.
var ErrInfeasibleBounds = eris.New("optimize: infeasible bounds")

// ErrBudgetExhausted reports that the iteration cap was reached before the
// tolerance was met.
var ErrBudgetExhausted = eris.New("optimize: iteration budget exhausted")

// Objective evaluates the function being minimized at x. An error aborts
// the search immediately.
type Objective func(x []float64) (float64, error)

// Options tunes the minimizer.
type Options struct {
	MaxIter int     // iteration cap; 0 means 400
	Tol     float64 // convergence tolerance on the simplex value spread; 0 means 1e-7
}

func (o Options) withDefaults() Options {
	if o.MaxIter <= 0 {
		o.MaxIter = 400
	}
	if o.Tol <= 0 {
		o.Tol = 1e-7
	}
	return o
}

// Result is the outcome of a minimization. On error, X and F hold the best
// point seen so far so callers can report the last trial.
type Result struct {
	X         []float64
	F         float64
	Iters     int
	Converged bool
}

// Nelder-Mead coefficients (standard values).
const (
	coefReflect  = 1.0
	coefExpand   = 2.0
	coefContract = 0.5
	coefShrink   = 0.5
)

// Minimize runs a Nelder-Mead simplex search over the box [lower, upper],
// starting from x0. Candidate vertices are projected onto the box, so
// every objective evaluation respects the bounds.
func Minimize(obj Objective, x0, lower, upper []float64, opts Options) (Result, error) {
	n := len(x0)
	if n == 0 || len(lower) != n || len(upper) != n {
		return Result{}, eris.Errorf("optimize: dimension mismatch (x0 %d, lower %d, upper %d)", n, len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return Result{}, eris.Wrapf(ErrInfeasibleBounds, "dimension %d: [%g, %g]", i, lower[i], upper[i])
		}
	}
	opts = opts.withDefaults()

	clamp := func(x []float64) {
		for i := range x {
			x[i] = math.Max(lower[i], math.Min(upper[i], x[i]))
		}
	}

	eval := func(x []float64) (float64, error) {
		f, err := obj(x)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) {
			return 0, eris.Errorf("optimize: objective returned NaN at %v", x)
		}
		return f, nil
	}

	// Initial simplex: x0 plus one vertex per dimension, stepped by a
	// fraction of the box width along each axis.
	verts := make([][]float64, n+1)
	fvals := make([]float64, n+1)

	start := append([]float64(nil), x0...)
	clamp(start)
	verts[0] = start

	for i := 0; i < n; i++ {
		v := append([]float64(nil), start...)
		step := 0.05 * (upper[i] - lower[i])
		if step == 0 {
			step = 0.05 * math.Max(math.Abs(start[i]), 1)
		}
		if v[i]+step > upper[i] {
			v[i] -= step
		} else {
			v[i] += step
		}
		clamp(v)
		verts[i+1] = v
	}

	for i, v := range verts {
		f, err := eval(v)
		if err != nil {
			return Result{X: verts[0], F: math.NaN()}, err
		}
		fvals[i] = f
	}

	order := func() {
		idx := make([]int, n+1)
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return fvals[idx[a]] < fvals[idx[b]] })
		nv := make([][]float64, n+1)
		nf := make([]float64, n+1)
		for i, j := range idx {
			nv[i], nf[i] = verts[j], fvals[j]
		}
		copy(verts, nv)
		copy(fvals, nf)
	}

	centroid := make([]float64, n)
	point := func(coef float64) []float64 {
		// centroid + coef * (centroid - worst)
		x := make([]float64, n)
		for i := range x {
			x[i] = centroid[i] + coef*(centroid[i]-verts[n][i])
		}
		clamp(x)
		return x
	}

	var iters int
	for iters = 0; iters < opts.MaxIter; iters++ {
		order()

		if math.Abs(fvals[n]-fvals[0]) < opts.Tol {
			return Result{X: verts[0], F: fvals[0], Iters: iters, Converged: true}, nil
		}

		for i := range centroid {
			centroid[i] = 0
			for j := 0; j < n; j++ {
				centroid[i] += verts[j][i]
			}
			centroid[i] /= float64(n)
		}

		refl := point(coefReflect)
		fRefl, err := eval(refl)
		if err != nil {
			return Result{X: verts[0], F: fvals[0], Iters: iters}, err
		}

		switch {
		case fRefl < fvals[0]:
			exp := point(coefExpand)
			fExp, err := eval(exp)
			if err != nil {
				return Result{X: verts[0], F: fvals[0], Iters: iters}, err
			}
			if fExp < fRefl {
				verts[n], fvals[n] = exp, fExp
			} else {
				verts[n], fvals[n] = refl, fRefl
			}

		case fRefl < fvals[n-1]:
			verts[n], fvals[n] = refl, fRefl

		default:
			con := point(-coefContract)
			fCon, err := eval(con)
			if err != nil {
				return Result{X: verts[0], F: fvals[0], Iters: iters}, err
			}
			if fCon < fvals[n] {
				verts[n], fvals[n] = con, fCon
			} else {
				// Shrink toward the best vertex.
				for j := 1; j <= n; j++ {
					for i := range verts[j] {
						verts[j][i] = verts[0][i] + coefShrink*(verts[j][i]-verts[0][i])
					}
					clamp(verts[j])
					f, err := eval(verts[j])
					if err != nil {
						return Result{X: verts[0], F: fvals[0], Iters: iters}, err
					}
					fvals[j] = f
				}
			}
		}
	}

	order()
	return Result{X: verts[0], F: fvals[0], Iters: iters},
		eris.Wrapf(ErrBudgetExhausted, "%d iterations, best %g", iters, fvals[0])
}
