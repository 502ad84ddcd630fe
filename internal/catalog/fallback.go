package catalog

// SampleAdvisory is shown while the catalog falls back to the sample set.
const SampleAdvisory = "Could not connect to the server. Showing sample data."

// Fallback decides what the catalog shows for a fetch outcome and which
// advisory message goes with it.
type Fallback interface {
	Resolve(o FetchOutcome) (Snapshot, string)
}

// SampleFallback passes successful fetches through and substitutes the
// bundled sample set for everything else.
type SampleFallback struct{}

func (SampleFallback) Resolve(o FetchOutcome) (Snapshot, string) {
	if o.Available() {
		return o.Snapshot(), ""
	}
	return Samples(), SampleAdvisory
}
