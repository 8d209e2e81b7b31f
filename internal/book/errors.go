package book

import "errors"

// ErrRender is the single error kind surfaced by rendering. Callers match it
// with errors.Is; the wrapped cause carries the failing I/O detail.
var ErrRender = errors.New("coursebook: unable to render book")
