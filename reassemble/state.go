package reassemble

// State is an archive's position in its reassembly lifecycle. There is no backward transition.
type State int

const (
	// StateNew is the archive's state immediately after EOCD discovery, before clustering has assigned it a CDH
	// silo.
	StateNew State = iota
	// StateCDGrouped is set once the ClusterAssigner has assigned this archive's CDH silo.
	StateCDGrouped
	// StateCDAssembled is set after Pass 1 has produced the archive's ordered central-directory page run.
	StateCDAssembled
	// StateLFHPlaced is set after Pass 2 has placed every LFH page it could unambiguously locate.
	StateLFHPlaced
	// StateRendered is set after the StreamRenderer has materialized the archive's output bytes.
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateCDGrouped:
		return "cd-grouped"
	case StateCDAssembled:
		return "cd-assembled"
	case StateLFHPlaced:
		return "lfh-placed"
	case StateRendered:
		return "rendered"
	default:
		return "unknown"
	}
}
