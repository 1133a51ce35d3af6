package engine

// Cursor is the paging bookkeeping for the committed scope.
type Cursor struct {
	NextPageIndex int
	PageSize      int
	HasMore       bool
	IsLoading     bool
}

// Permit authorizes exactly one fetch. It must be resolved with Gate.Complete.
type Permit struct {
	Seq       uint64
	PageIndex int
	Scope     string
}

// OutcomeKind classifies how a fetch ended.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeEmpty
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

// Outcome is reported back to the gate when a fetch resolves.
type Outcome struct {
	Kind     OutcomeKind
	Items    int
	LastPage bool
}

// Gate allows at most one fetch at a time and tracks end-of-list.
type Gate struct {
	cursor  Cursor
	seq     uint64
	pending uint64
}

// NewGate creates a gate for the given page size.
func NewGate(pageSize int) *Gate {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Gate{cursor: Cursor{PageSize: pageSize, HasMore: true}}
}

// Cursor returns a copy of the current cursor.
func (g *Gate) Cursor() Cursor {
	return g.cursor
}

// TryBegin checks and claims the single fetch slot.
func (g *Gate) TryBegin(pageIndex int, scope string) (Permit, error) {
	if g.cursor.IsLoading {
		return Permit{}, ErrFetchInFlight
	}
	if pageIndex > 0 && !g.cursor.HasMore {
		return Permit{}, ErrExhausted
	}
	g.seq++
	g.pending = g.seq
	g.cursor.IsLoading = true
	return Permit{Seq: g.seq, PageIndex: pageIndex, Scope: scope}, nil
}

// Holds reports whether p is the permit currently in flight.
func (g *Gate) Holds(p Permit) bool {
	return g.cursor.IsLoading && p.Seq != 0 && p.Seq == g.pending
}

// Complete releases the slot. A permit issued before the last Reset is rejected
// with ErrStaleResponse and leaves the cursor untouched.
func (g *Gate) Complete(p Permit, o Outcome) error {
	if !g.Holds(p) {
		return ErrStaleResponse
	}
	g.pending = 0
	g.cursor.IsLoading = false

	switch o.Kind {
	case OutcomeSuccess:
		g.cursor.HasMore = !o.LastPage
		if o.Items > 0 {
			g.cursor.NextPageIndex++
		}
	case OutcomeEmpty, OutcomeFailure:
		g.cursor.HasMore = false
	}
	return nil
}

// Reset returns the cursor to page 0 and abandons any in-flight permit.
func (g *Gate) Reset() {
	g.pending = 0
	g.cursor = Cursor{PageSize: g.cursor.PageSize, HasMore: true}
}
