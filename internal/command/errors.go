package command

import (
	"errors"
	"fmt"

	"github.com/edirooss/kvstore/internal/valueengine"
)

// WireError carries the RESP error prefix (spec §7) alongside the message
// text, so respio.WriteReply's generic error branch renders "-PREFIX msg".
type WireError struct {
	Prefix  string
	Message string
}

func (e *WireError) Error() string {
	if e.Prefix == "" {
		return e.Message
	}
	return e.Prefix + " " + e.Message
}

func newErr(prefix, format string, args ...any) *WireError {
	return &WireError{Prefix: prefix, Message: fmt.Sprintf(format, args...)}
}

func errSyntax() *WireError { return newErr("ERR", "syntax error") }

func errWrongArgs(cmd string) *WireError {
	return newErr("ERR", "wrong number of arguments for '%s' command", cmd)
}

func errNotInt() *WireError {
	return newErr("ERR", "value is not an integer or out of range")
}

func errNotFloat() *WireError {
	return newErr("ERR", "value is not a valid float")
}

func errUnknownCommand(name string, args [][]byte) *WireError {
	return newErr("ERR", "unknown command '%s', with args beginning with: %s", name, firstArgPreview(args))
}

func firstArgPreview(args [][]byte) string {
	if len(args) <= 1 {
		return ""
	}
	return "'" + string(args[1]) + "', "
}

func errNoAuth() *WireError {
	return newErr("NOAUTH", "Authentication required.")
}

func errNoSuchKey() *WireError {
	return newErr("ERR", "no such key")
}

func errOutOfRange() *WireError {
	return newErr("ERR", "index out of range")
}

func errNotMulti() *WireError {
	return newErr("ERR", "EXEC without MULTI")
}

func errNestedMulti() *WireError {
	return newErr("ERR", "MULTI calls can not be nested")
}

func errInvalidDBIndex() *WireError {
	return newErr("ERR", "DB index is out of range")
}

func errInsideMulti(name string) *WireError {
	return newErr("ERR", "%s is not allowed in transactions", name)
}

// asWireError converts a valueengine/store error into the appropriate wire
// prefix (spec §7 propagation: "each value operation returns a typed
// error; the handler converts it to the appropriate wire error").
func asWireError(err error) *WireError {
	if err == nil {
		return nil
	}
	var we *WireError
	if errors.As(err, &we) {
		return we
	}
	switch {
	case errors.Is(err, valueengine.ErrWrongType):
		return newErr("WRONGTYPE", "Operation against a key holding the wrong kind of value")
	case errors.Is(err, valueengine.ErrNotAnInteger):
		return errNotInt()
	case errors.Is(err, valueengine.ErrNotAFloat):
		return errNotFloat()
	case errors.Is(err, valueengine.ErrOutOfRange):
		return newErr("ERR", "value is out of range")
	case errors.Is(err, valueengine.ErrMaxSizeExceeded):
		return newErr("ERR", "string exceeds maximum allowed size (512MB)")
	case errors.Is(err, valueengine.ErrNoSuchKey):
		return errNoSuchKey()
	case errors.Is(err, valueengine.ErrSyntax):
		return errSyntax()
	default:
		return newErr("ERR", "%s", err.Error())
	}
}
