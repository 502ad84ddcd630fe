package catalog

// FetchOutcome is the result of one catalog fetch: either a snapshot or the
// reason the catalog was unavailable. The reason is diagnostic text only.
type FetchOutcome struct {
	snapshot  Snapshot
	reason    string
	available bool
}

func Success(s Snapshot) FetchOutcome {
	return FetchOutcome{snapshot: s, available: true}
}

func Unavailable(reason string) FetchOutcome {
	return FetchOutcome{reason: reason}
}

func (o FetchOutcome) Available() bool {
	return o.available
}

func (o FetchOutcome) Snapshot() Snapshot {
	return o.snapshot
}

func (o FetchOutcome) Reason() string {
	return o.reason
}
