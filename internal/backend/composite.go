package backend

import (
	"errors"
	"io"
)

// DataStore is the table-backed half of a Backend.
type DataStore interface {
	ProfileDirectory
	NotificationStore
}

// Composite serves data from one implementation and auth from another, e.g.
// a direct postgres.Store paired with the hosted auth API.
type Composite struct {
	DataStore
	Authenticator

	closers []io.Closer
}

var _ Backend = (*Composite)(nil)

// NewComposite combines data and auth. closers are closed in order by Close.
func NewComposite(data DataStore, auth Authenticator, closers ...io.Closer) *Composite {
	return &Composite{DataStore: data, Authenticator: auth, closers: closers}
}

func (c *Composite) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
