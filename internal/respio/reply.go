// Package respio is the RESP v2 wire boundary (spec §1/§6): parsing
// incoming command argument vectors and serializing the engine's response
// tree back onto the wire, plus a thin TCP acceptor. Per spec.md this
// boundary is explicitly out of the core's scope ("the RESP wire
// parser/serializer, the TCP acceptor...are deliberately out of scope"); this
// package exists only so the repository is a runnable server, not a library.
package respio

// Reply is the response tree the command executor builds and this package
// renders. Exactly one of the following concrete types (or nil, meaning a
// nil bulk string) is expected:
//
//	SimpleString  -> "+...\r\n"
//	Integer       -> ":...\r\n"
//	BulkString    -> "$<len>\r\n...\r\n", or "$-1\r\n" if nil
//	Array         -> "*<len>\r\n...", or "*-1\r\n" if nil
//	error         -> "-...\r\n"
type Reply any

// SimpleString is a RESP simple string ("+OK").
type SimpleString string

// Integer is a RESP integer (":1").
type Integer int64

// BulkString is a RESP bulk string. A nil slice renders as the null bulk
// string ($-1), distinguishing "absent" from "empty" ($0).
type BulkString []byte

// Array is a RESP array. A nil Array renders as the null array (*-1), used
// for aborted MULTI/EXEC and blocking-command timeouts.
type Array []Reply

// OK is the canonical "+OK\r\n" reply shared by most write commands.
const OK SimpleString = "OK"

// Queued is MULTI's per-command acknowledgement.
const Queued SimpleString = "QUEUED"

// NilBulk is the null bulk string reply.
var NilBulk = BulkString(nil)

// NilArray is the null array reply.
var NilArray = Array(nil)
