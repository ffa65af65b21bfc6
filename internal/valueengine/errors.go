package valueengine

import "errors"

// Errors returned by variant operations. internal/command maps these to the
// wire error prefixes from spec §7 (WrongType -> "WRONGTYPE", the rest ->
// generic "ERR").
var (
	// ErrWrongType is returned when an operation documented for one type is
	// applied to a key whose stored variant differs.
	ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

	// ErrNotAnInteger covers failed integer parses and INCR overflow.
	ErrNotAnInteger = errors.New("value is not an integer or out of range")

	// ErrNotAFloat covers failed float parses (INCRBYFLOAT, ZADD score syntax).
	ErrNotAFloat = errors.New("value is not a valid float")

	// ErrOutOfRange covers index/offset domain violations (LSET index out of
	// range, negative SETRANGE offset).
	ErrOutOfRange = errors.New("value is out of range")

	// ErrMaxSizeExceeded covers the 512 MiB string length cap.
	ErrMaxSizeExceeded = errors.New("string exceeds maximum allowed size (512MB)")

	// ErrNoSuchKey is returned by operations that require an existing value
	// (LSET on an absent list).
	ErrNoSuchKey = errors.New("no such key")

	// ErrSyntax covers malformed/incompatible arguments detected inside a
	// variant operation: ZADD with both NX and XX, ZADD INCR with more than
	// one pair, and a SETBIT value other than 0 or 1.
	ErrSyntax = errors.New("syntax error")
)
