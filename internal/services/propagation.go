package services

// Gap records a mirrored update that could not be applied after the
// primary mutation of an operation had already committed. Gaps are
// surfaced to the caller as warnings alongside the primary result; they
// are never retried automatically. Because every propagation step is an
// idempotent set add/remove, replaying the whole operation with the
// same inputs converges without duplicating references.
type Gap struct {
	Kind string `json:"kind"`
	ID   uint64 `json:"id"`
	Step string `json:"step"`
	Err  string `json:"error"`
}

type gapList struct {
	gaps []Gap
}

func (g *gapList) add(kind string, id uint64, step string, err error) {
	g.gaps = append(g.gaps, Gap{Kind: kind, ID: id, Step: step, Err: err.Error()})
}

func (g *gapList) list() []Gap {
	return g.gaps
}
