package ports

// RandomSource yields uniform random integers. Game code must never draw
// dice or shuffle turn order from a predictable or client-supplied source.
type RandomSource interface {
	// Intn returns a uniform value in [0, n). n must be > 0.
	Intn(n int) int
}
