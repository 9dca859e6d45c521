package sir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermUnreachable
)

type Terminator struct {
	Kind TermKind

	Return      ReturnTerm
	Goto        GotoTerm
	Unreachable struct{}
}

type ReturnTerm struct {
	HasValue bool
	Value    ValueID
}

type GotoTerm struct {
	Target BlockID
}
