package reconcile

// Step names one phase of the reconciliation run, used for structured
// logging and error context.
type Step string

// Pipeline steps in execution order.
const (
	StepFetching  Step = "fetching"
	StepResolving Step = "resolving"
	StepMerging   Step = "merging"
	StepRendering Step = "rendering"
	StepPatching  Step = "patching"
	StepVerifying Step = "verifying"
)

// Result summarizes one reconciliation run.
type Result struct {
	// NewVersion is true when this run discovered a version absent from
	// the history store and merged it.
	NewVersion bool

	// Version is the highest version resolved this cycle.
	Version string

	// Resolved counts platforms whose download link resolved.
	Resolved int

	// Failed counts platforms whose fetch was absorbed as a transient
	// failure.
	Failed int

	// Repaired is true when the verification sweep found the document
	// referencing a version missing from the store and synthesized it.
	Repaired bool
}
