package router

import (
	"context"

	"github.com/rmarquezdev/supplycart-backend/internal/analytics/types"
)

type fakeWriter struct {
	inserted []types.OrderEventRow
}

func (f *fakeWriter) InsertOrderEvent(_ context.Context, row types.OrderEventRow) error {
	f.inserted = append(f.inserted, row)
	return nil
}
