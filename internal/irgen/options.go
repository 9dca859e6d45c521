package irgen

// Options configures code generation for one context.
type Options struct {
	// VerifyAfterGen runs the SIR verifier on every finished function.
	VerifyAfterGen bool
}

// DefaultOptions returns the options used when no manifest overrides
// them.
func DefaultOptions() Options {
	return Options{VerifyAfterGen: true}
}
