// Package observe fetches the source-of-truth view of a record from its
// public page. The extraction is heuristic by design: it confirms fields the
// page surfaces and stays silent about the rest.
package observe

import (
	"context"

	"github.com/sumeromer/10xgenomics-dataset-scraper/internal/dataset"
)

// Session observes records against their live source pages. Sessions are
// costly to establish and are reused across records; they are not safe for
// concurrent use unless documented otherwise.
type Session interface {
	// Observe fetches the record's URL and extracts the fields the page
	// surfaces. Fields the page does not confirm are empty strings.
	Observe(ctx context.Context, rec dataset.Record) (dataset.Record, error)

	Close() error
}

// Dialer opens an observation session.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}
