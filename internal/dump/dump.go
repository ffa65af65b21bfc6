// Package dump implements the type-tagged, versioned, CRC64-trailed binary
// encoding used by the DUMP command (spec §4.J): a type tag byte, a
// type-specific payload, a 2-byte version marker, and a trailing CRC64
// (ECMA, init 0) over everything that precedes it. Lengths in the payload
// are unsigned LEB128 varints (encoding/binary Uvarint); they are not RDB's
// 6/14/32-bit length prefixes, so the bytes are not RDB-compatible.
package dump

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc64"
	"math"

	"github.com/edirooss/kvstore/internal/valueengine"
)

// Version is the current dump format version, written as the 2-byte marker.
const Version uint16 = 1

type tag byte

const (
	tagString tag = 1
	tagList   tag = 2
	tagSet    tag = 3
	tagZSet   tag = 4
)

var ecmaTable = crc64.MakeTable(crc64.ECMA)

// Errors returned by Parse.
var (
	ErrTruncated    = errors.New("dump: payload truncated")
	ErrChecksum     = errors.New("dump: CRC64 mismatch")
	ErrUnknownTag   = errors.New("dump: unknown type tag")
	ErrVersion      = errors.New("dump: unsupported version")
	ErrNilUndefined = errors.New("dump: dumping a Nil value is undefined")
)

func putUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func putBytes(buf *bytes.Buffer, b []byte) {
	putUvarint(buf, uint64(len(b)))
	buf.Write(b)
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, ErrTruncated
	}
	return v, nil
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := readFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	total := 0
	for total < len(b) {
		n, err := r.Read(b[total:])
		total += n
		if err != nil {
			if total == len(b) {
				break
			}
			return total, ErrTruncated
		}
	}
	return total, nil
}

// Dump serializes v into the wire format described in spec §4.J. Dumping a
// Nil value is a programmer error (the caller must check key existence
// first, exactly as the DUMP command does).
func Dump(v *valueengine.Value) ([]byte, error) {
	if v == nil || v.IsNil() {
		return nil, ErrNilUndefined
	}
	var payload bytes.Buffer
	var t tag

	switch v.Kind() {
	case valueengine.KindString:
		t = tagString
		s, _ := v.StrReadOnly()
		putBytes(&payload, s.Get())

	case valueengine.KindList:
		t = tagList
		l, _ := v.List(false)
		elems := l.Range(0, -1)
		putUvarint(&payload, uint64(len(elems)))
		for _, e := range elems {
			putBytes(&payload, e)
		}

	case valueengine.KindSet:
		t = tagSet
		s, _ := v.Set(false, 0)
		members := s.SMembers()
		putUvarint(&payload, uint64(len(members)))
		for _, m := range members {
			putBytes(&payload, m)
		}

	case valueengine.KindZSet:
		t = tagZSet
		z, _ := v.ZSet(false)
		members := z.ZRange(0, -1, false)
		putUvarint(&payload, uint64(len(members)))
		for _, m := range members {
			putBytes(&payload, []byte(m.Member))
			var scoreBuf [8]byte
			binary.LittleEndian.PutUint64(scoreBuf[:], math.Float64bits(m.Score))
			payload.Write(scoreBuf[:])
		}

	default:
		return nil, ErrUnknownTag
	}

	var out bytes.Buffer
	out.WriteByte(byte(t))
	out.Write(payload.Bytes())
	var versionBuf [2]byte
	binary.LittleEndian.PutUint16(versionBuf[:], Version)
	out.Write(versionBuf[:])

	crc := crc64.Checksum(out.Bytes(), ecmaTable)
	var crcBuf [8]byte
	binary.LittleEndian.PutUint64(crcBuf[:], crc)
	out.Write(crcBuf[:])
	return out.Bytes(), nil
}

// Parse validates the CRC64 trailer and version marker, then decodes the
// payload into a fresh Value. maxIntset configures the reconstructed Set
// variant's intset/hashtable promotion threshold.
func Parse(b []byte, maxIntset int) (*valueengine.Value, error) {
	if len(b) < 1+2+8 {
		return nil, ErrTruncated
	}
	body, crcBytes := b[:len(b)-8], b[len(b)-8:]
	wantCRC := binary.LittleEndian.Uint64(crcBytes)
	if crc64.Checksum(body, ecmaTable) != wantCRC {
		return nil, ErrChecksum
	}

	versionOff := len(body) - 2
	version := binary.LittleEndian.Uint16(body[versionOff:])
	if version != Version {
		return nil, ErrVersion
	}

	t := tag(body[0])
	r := bytes.NewReader(body[1:versionOff])
	v := valueengine.NewValue()

	switch t {
	case tagString:
		data, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		s, _ := v.Str(true)
		s.Set(data)

	case tagList:
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		l, _ := v.List(true)
		for i := uint64(0); i < n; i++ {
			elem, err := readBytes(r)
			if err != nil {
				return nil, err
			}
			l.PushRight(elem)
		}

	case tagSet:
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		s, _ := v.Set(true, maxIntset)
		for i := uint64(0); i < n; i++ {
			member, err := readBytes(r)
			if err != nil {
				return nil, err
			}
			s.SAdd([][]byte{member})
		}

	case tagZSet:
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		z, _ := v.ZSet(true)
		pairs := make([]valueengine.ScoreMember, 0, n)
		for i := uint64(0); i < n; i++ {
			member, err := readBytes(r)
			if err != nil {
				return nil, err
			}
			var scoreBuf [8]byte
			if _, err := readFull(r, scoreBuf[:]); err != nil {
				return nil, err
			}
			score := math.Float64frombits(binary.LittleEndian.Uint64(scoreBuf[:]))
			pairs = append(pairs, valueengine.ScoreMember{Member: string(member), Score: score})
		}
		if len(pairs) > 0 {
			z.ZAdd(pairs, false, false, false, false)
		}

	default:
		return nil, ErrUnknownTag
	}

	return v, nil
}
