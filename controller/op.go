package controller

// OpKind selects which of the three pin modes a slot currently holds.
type OpKind uint8

const (
	OpInput OpKind = iota
	OpOutput
	OpWatch
)

// SubMode refines an Input op.
type SubMode uint8

const (
	SubNone SubMode = iota
	SubRead
	SubWaitForState
	SubWaitForAnyEdge
	SubWaitForSpecificEdge
)

// Op is the comparable descriptor a handle publishes into its slot. It is
// deliberately free of pointers/slices so two Ops can be compared with ==,
// which is how slot.publish decides whether a request actually changed
// the currently installed configuration.
type Op struct {
	Kind OpKind

	// Output
	Latch bool

	// Input / Watch
	PullUp bool

	// Input only
	Sub    SubMode
	Target bool // the "s" of WaitForState(s) or the "final" of WaitForSpecificEdge(final)
}

// Response carries the data the runner hands back to a completed op.
type Response struct {
	Bit       bool  // Input{Read} result, or the satisfying level for a wait
	LastKnown *bool // Watch's last_known; nil until first populated
}

// defaultOp is the slot's op immediately after reset: every pin starts as
// an unconfigured input, matching the datasheet's IODIR reset default
// (all pins input) with no pending request.
var defaultOp = Op{Kind: OpInput, Sub: SubNone}
