package model

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	// Labeler rewrites labels that were left at their default (the field id).
	// Nil keeps the id as the label.
	Labeler func(string) string
	// Namer derives the secondary field name from the label.
	Namer func(string) string
}

func defaultOptions() Options {
	return Options{
		Namer: DefaultNamer,
	}
}
