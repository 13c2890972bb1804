// Package store holds the Record Store backends. Every backend keeps the whole
// lead collection as one document and rewrites it on each save.
package store

import (
	"context"
	"errors"
	"io"

	"github.com/imrishuroy/go-leadflow/internal/leads"
)

// ErrStore marks failures of the underlying resource (I/O, network, API).
var ErrStore = errors.New("record store failure")

// Store is a leads.Store that owns resources needing teardown.
type Store interface {
	leads.Store
	io.Closer
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*DynamoStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// nonNil makes sure an empty collection serializes as [] rather than null.
func nonNil(records []leads.Lead) []leads.Lead {
	if records == nil {
		return []leads.Lead{}
	}
	return records
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}
