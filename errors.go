package match

import "errors"

// Caller input problems and liquidity conditions are reported through
// outcome codes, never through these errors. The errors below are the
// fatal category: a corrupted index or an exhausted arena leaves the
// book unusable and must reach the caller unmasked.
var (
	ErrIndexCorrupted = errors.New("match: price index corrupted")
	ErrInvalidParam   = errors.New("match: the param is invalid")
	ErrSymbolExists   = errors.New("match: symbol already registered")
)
