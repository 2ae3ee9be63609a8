package zcore

import "errors"

// Sentinel errors returned by Load. Callers receive them as they are: zvm's
// VMError has no kind for them and does not wrap them.
var (
	ErrCouldNotReadHeader = errors.New("zcore: story file shorter than the 64-byte header")
	ErrFileTooShort       = errors.New("zcore: header file-length exceeds bytes provided")
)
