package youtube

// PaginationState is the immutable progress of a paginated fetch for one video.
// Advance returns a new value; the receiver is never modified.
type PaginationState struct {
	SourceID      string
	NextPageToken string
	PageCount     int
	Accumulated   []RawItem
	Done          bool

	// Fetched counts every item received, including those cut by the budget.
	Fetched int
}

// NewPaginationState returns the initial state for a video.
func NewPaginationState(sourceID string) PaginationState {
	return PaginationState{SourceID: sourceID}
}

// Advance folds one page into the state. The fetch is done when the page
// has no next token or the accumulated count reaches budget; in the latter
// case Accumulated is truncated to exactly budget items. budget <= 0 means
// no limit.
func (s PaginationState) Advance(p Page, budget int) PaginationState {
	acc := make([]RawItem, 0, len(s.Accumulated)+len(p.Items))
	acc = append(acc, s.Accumulated...)
	acc = append(acc, p.Items...)

	next := PaginationState{
		SourceID:      s.SourceID,
		NextPageToken: p.NextPageToken,
		PageCount:     s.PageCount + 1,
		Accumulated:   acc,
		Fetched:       s.Fetched + len(p.Items),
	}
	switch {
	case budget > 0 && len(acc) >= budget:
		next.Accumulated = acc[:budget:budget]
		next.Done = true
	case p.NextPageToken == "":
		next.Done = true
	}
	return next
}

// Reported is the number of items the service delivered before truncation.
func (s PaginationState) Reported() int { return s.Fetched }
