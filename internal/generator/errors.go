package generator

import (
	"errors"
	"fmt"
)

// ErrSameFile is returned when the copy source and destination are the same file.
var ErrSameFile = errors.New("source and destination are the same file")

// ErrEmptyToken is returned when authorization reports success but the token
// file is still empty.
var ErrEmptyToken = errors.New("authorization finished without writing a token")

// CopyError reports a failure to copy the client secret into the output folder.
type CopyError struct {
	Src string
	Dst string
	Err error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to copy %s to %s: %v", e.Src, e.Dst, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
