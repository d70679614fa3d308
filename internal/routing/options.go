package routing

// DefaultLayoverMinutes is the minimum connection time added for every leg
// after the first.
const DefaultLayoverMinutes = 60

// SearchOption customises a single FindRoutes or FindCheapest call.
type SearchOption func(*searchOptions)

type searchOptions struct {
	layover int
}

func defaultSearchOptions() searchOptions {
	return searchOptions{layover: DefaultLayoverMinutes}
}

// WithLayover sets the connection penalty in minutes. Panics if minutes < 0.
func WithLayover(minutes int) SearchOption {
	if minutes < 0 {
		panic("routing: WithLayover requires minutes >= 0")
	}
	return func(o *searchOptions) {
		o.layover = minutes
	}
}

func applySearchOptions(opts []SearchOption) searchOptions {
	cfg := defaultSearchOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
