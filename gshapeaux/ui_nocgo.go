//go:build tinygo || !cgo

package gshapeaux

import (
	"context"
	"errors"
)

func ui(ctx context.Context, cfg Config, items []Item) error {
	return errors.New("require cgo for UI rendering")
}
