package valueengine

// Kind tags which variant a Value currently holds.
type Kind int

const (
	KindNil Kind = iota
	KindString
	KindList
	KindSet
	KindZSet
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindZSet:
		return "zset"
	default:
		return "none"
	}
}

// Value is the type-discipline façade over the four stored variants (spec
// §4.G): exactly one of str/list/set/zset is non-nil whenever kind != KindNil.
// Callers (internal/command) never touch a variant directly; every access
// goes through Value so wrong-type errors and auto-create are enforced in
// one place.
type Value struct {
	kind Kind
	str  *StrVal
	list *ListVal
	set  *SetVal
	zset *ZSetVal
}

// NewValue returns a Nil-kind Value, representing an absent key.
func NewValue() *Value { return &Value{} }

// Kind reports the currently stored variant.
func (v *Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is absent.
func (v *Value) IsNil() bool { return v.kind == KindNil }

// Str returns the String variant, or ErrWrongType if another variant is
// stored. When the value is Nil and create is false it returns nil, nil.
// When create is true and the value is Nil, an empty String variant is created (String auto-create:
// SET, APPEND, first INCR/INCRBY/INCRBYFLOAT, first SETRANGE, first SETBIT).
func (v *Value) Str(create bool) (*StrVal, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindNil:
		if !create {
			return nil, nil
		}
		v.kind = KindString
		v.str = NewStrVal(nil)
		return v.str, nil
	default:
		return nil, ErrWrongType
	}
}

// StrReadOnly returns the String variant for read-only ops (GET, GETRANGE,
// STRLEN, GETBIT), treating Nil as an empty string without materializing it.
func (v *Value) StrReadOnly() (*StrVal, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindNil:
		return nil, nil
	default:
		return nil, ErrWrongType
	}
}

// List returns the List variant. When create is true and the value is Nil, a
// new empty list is created (LPUSH/RPUSH auto-create).
func (v *Value) List(create bool) (*ListVal, error) {
	switch v.kind {
	case KindList:
		return v.list, nil
	case KindNil:
		if !create {
			return nil, nil
		}
		v.kind = KindList
		v.list = NewListVal()
		return v.list, nil
	default:
		return nil, ErrWrongType
	}
}

// Set returns the Set variant. When create is true and the value is Nil, a
// new empty set is created (SADD auto-create). maxIntset only matters on
// creation.
func (v *Value) Set(create bool, maxIntset int) (*SetVal, error) {
	switch v.kind {
	case KindSet:
		return v.set, nil
	case KindNil:
		if !create {
			return nil, nil
		}
		v.kind = KindSet
		v.set = NewSetVal(maxIntset)
		return v.set, nil
	default:
		return nil, ErrWrongType
	}
}

// ZSet returns the SortedSet variant. When create is true and the value is
// Nil, a new empty sorted set is created (ZADD-style auto-create).
func (v *Value) ZSet(create bool) (*ZSetVal, error) {
	switch v.kind {
	case KindZSet:
		return v.zset, nil
	case KindNil:
		if !create {
			return nil, nil
		}
		v.kind = KindZSet
		v.zset = NewZSetVal()
		return v.zset, nil
	default:
		return nil, ErrWrongType
	}
}

// ResetStr unconditionally replaces v with a fresh String variant,
// discarding whatever was previously stored. SET overwrites a key
// regardless of its prior type (spec §4.C "replaces contents"), unlike
// every other write operation which enforces type discipline.
func (v *Value) ResetStr() *StrVal {
	v.kind = KindString
	v.str = NewStrVal(nil)
	v.list = nil
	v.set = nil
	v.zset = nil
	return v.str
}

// ResetSet unconditionally replaces v with a fresh, empty Set variant,
// discarding whatever was previously stored. Used by SDIFFSTORE/SINTERSTORE/
// SUNIONSTORE, which overwrite the destination key regardless of its prior
// type.
func (v *Value) ResetSet(maxIntset int) *SetVal {
	v.kind = KindSet
	v.set = NewSetVal(maxIntset)
	v.str = nil
	v.list = nil
	v.zset = nil
	return v.set
}

// ResetZSet unconditionally replaces v with a fresh, empty SortedSet variant,
// discarding whatever was previously stored. Used by ZUNIONSTORE/
// ZINTERSTORE, which overwrite the destination key regardless of its prior
// type.
func (v *Value) ResetZSet() *ZSetVal {
	v.kind = KindZSet
	v.zset = NewZSetVal()
	v.str = nil
	v.list = nil
	v.set = nil
	return v.zset
}

// NewHLL replaces v with a fresh HyperLogLog-backed String variant. PFADD's
// auto-create (spec §4.G) needs HLL register bytes in place from the start,
// unlike SET/APPEND's auto-create which starts from a plain empty string.
func (v *Value) NewHLL() *StrVal {
	v.kind = KindString
	v.str = NewHLLStrVal()
	v.list = nil
	v.set = nil
	v.zset = nil
	return v.str
}

// Empty reports whether the stored variant has become empty and should be
// removed from its namespace (last list element popped, last set/zset member
// removed). Strings are never auto-removed on emptiness — an empty string is
// a valid value distinct from absence.
func (v *Value) Empty() bool {
	switch v.kind {
	case KindList:
		return v.list.Len() == 0
	case KindSet:
		return v.set.Card() == 0
	case KindZSet:
		return v.zset.Card() == 0
	default:
		return false
	}
}
