package respio

import (
	"bufio"
	"fmt"
	"strconv"
)

// WriteReply serializes r onto w per the RESP v2 grammar described in
// reply.go. Callers must Flush w themselves once a full response (which may
// be several WriteReply calls, e.g. pub/sub fan-out) is ready.
func WriteReply(w *bufio.Writer, r Reply) error {
	switch v := r.(type) {
	case nil:
		_, err := w.WriteString("$-1\r\n")
		return err

	case error:
		msg := v.Error()
		if _, err := w.WriteString("-"); err != nil {
			return err
		}
		if _, err := w.WriteString(msg); err != nil {
			return err
		}
		_, err := w.WriteString("\r\n")
		return err

	case SimpleString:
		_, err := fmt.Fprintf(w, "+%s\r\n", string(v))
		return err

	case Integer:
		_, err := fmt.Fprintf(w, ":%d\r\n", int64(v))
		return err

	case int64:
		_, err := fmt.Fprintf(w, ":%d\r\n", v)
		return err

	case int:
		_, err := fmt.Fprintf(w, ":%d\r\n", v)
		return err

	case BulkString:
		if v == nil {
			_, err := w.WriteString("$-1\r\n")
			return err
		}
		if _, err := fmt.Fprintf(w, "$%d\r\n", len(v)); err != nil {
			return err
		}
		if _, err := w.Write(v); err != nil {
			return err
		}
		_, err := w.WriteString("\r\n")
		return err

	case []byte:
		return WriteReply(w, BulkString(v))

	case string:
		return WriteReply(w, BulkString(v))

	case Array:
		if v == nil {
			_, err := w.WriteString("*-1\r\n")
			return err
		}
		if _, err := fmt.Fprintf(w, "*%d\r\n", len(v)); err != nil {
			return err
		}
		for _, elem := range v {
			if err := WriteReply(w, elem); err != nil {
				return err
			}
		}
		return nil

	case []Reply:
		return WriteReply(w, Array(v))

	case []any:
		arr := make(Array, len(v))
		for i, e := range v {
			arr[i] = e
		}
		return WriteReply(w, arr)

	default:
		_, err := w.WriteString("-ERR internal: unrenderable reply type " + strconv.Quote(fmt.Sprintf("%T", v)) + "\r\n")
		return err
	}
}
