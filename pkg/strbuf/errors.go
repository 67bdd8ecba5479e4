package strbuf

import (
	"errors"
	"fmt"

	"typelib-go/pkg/buffers"
)

var (
	ErrOutOfMemory     = buffers.ErrOutOfMemory
	ErrInvalidArgument = buffers.ErrInvalidArgument
)

// outOfMemory makes sure an allocator failure matches ErrOutOfMemory.
func outOfMemory(err error) error {
	if errors.Is(err, ErrOutOfMemory) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrOutOfMemory, err)
}
