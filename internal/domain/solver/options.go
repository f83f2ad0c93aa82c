package solver

// Option applies a configuration option to the NelderMead solver.
type Option func(*NelderMead)

// WithMaxIterations bounds the number of simplex iterations.
func WithMaxIterations(n int) Option {
	return func(s *NelderMead) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithTolerance sets the absolute objective change below which the search
// is considered converged.
func WithTolerance(tol float64) Option {
	return func(s *NelderMead) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}

// WithSimplexSize sets the edge length of the initial simplex.
func WithSimplexSize(size float64) Option {
	return func(s *NelderMead) {
		if size > 0 {
			s.simplexSize = size
		}
	}
}
