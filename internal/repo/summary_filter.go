package repo

// SummaryFilter narrows ListSummaries. Zero value lists everything.
type SummaryFilter struct {
	Category string
	Search   string
	Quantity *int
	Offset   *int
	Limit    *int
}
