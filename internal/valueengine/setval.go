package valueengine

import (
	"math/rand"
	"sort"
	"strconv"
)

// SetVal is the Set variant: a sorted-intset encoding while every member
// parses as a canonical i64 and the threshold hasn't been exceeded, promoted
// permanently to a hashed byte set otherwise (spec §4.E). Promotion never
// reverses within a value's lifetime.
type SetVal struct {
	ints      []int64 // sorted ascending; nil once promoted
	hash      map[string]struct{}
	promoted  bool
	maxIntset int
}

// NewSetVal returns an empty set. maxIntset is set_max_intset_entries from
// configuration.
func NewSetVal(maxIntset int) *SetVal {
	if maxIntset <= 0 {
		maxIntset = 512
	}
	return &SetVal{maxIntset: maxIntset}
}

func (s *SetVal) Card() int {
	if s.promoted {
		return len(s.hash)
	}
	return len(s.ints)
}

func (s *SetVal) intSearch(v int64) (int, bool) {
	i := sort.Search(len(s.ints), func(i int) bool { return s.ints[i] >= v })
	return i, i < len(s.ints) && s.ints[i] == v
}

// promote migrates the intset encoding to a hashed byte set.
func (s *SetVal) promote() {
	if s.promoted {
		return
	}
	s.hash = make(map[string]struct{}, len(s.ints))
	for _, v := range s.ints {
		s.hash[strconv.FormatInt(v, 10)] = struct{}{}
	}
	s.ints = nil
	s.promoted = true
}

// SAdd adds members, returning the number newly added.
func (s *SetVal) SAdd(members [][]byte) int {
	added := 0
	for _, m := range members {
		if s.add(m) {
			added++
		}
	}
	return added
}

func (s *SetVal) add(m []byte) bool {
	if !s.promoted {
		n, ok := parseCanonicalInt(m)
		if ok && s.Card() < s.maxIntset {
			i, exists := s.intSearch(n)
			if exists {
				return false
			}
			s.ints = append(s.ints, 0)
			copy(s.ints[i+1:], s.ints[i:])
			s.ints[i] = n
			return true
		}
		s.promote()
	}
	key := string(m)
	if _, exists := s.hash[key]; exists {
		return false
	}
	s.hash[key] = struct{}{}
	return true
}

// SRem removes members, returning the number removed.
func (s *SetVal) SRem(members [][]byte) int {
	removed := 0
	for _, m := range members {
		if s.remove(m) {
			removed++
		}
	}
	return removed
}

func (s *SetVal) remove(m []byte) bool {
	if !s.promoted {
		n, ok := parseCanonicalInt(m)
		if !ok {
			return false
		}
		i, exists := s.intSearch(n)
		if !exists {
			return false
		}
		s.ints = append(s.ints[:i], s.ints[i+1:]...)
		return true
	}
	key := string(m)
	if _, exists := s.hash[key]; !exists {
		return false
	}
	delete(s.hash, key)
	return true
}

// SIsMember reports membership.
func (s *SetVal) SIsMember(m []byte) bool {
	if !s.promoted {
		n, ok := parseCanonicalInt(m)
		if !ok {
			return false
		}
		_, exists := s.intSearch(n)
		return exists
	}
	_, exists := s.hash[string(m)]
	return exists
}

// SMembers returns every member's byte representation. Order is unspecified.
func (s *SetVal) SMembers() [][]byte {
	out := make([][]byte, 0, s.Card())
	if !s.promoted {
		for _, v := range s.ints {
			out = append(out, []byte(strconv.FormatInt(v, 10)))
		}
		return out
	}
	for k := range s.hash {
		out = append(out, []byte(k))
	}
	return out
}

// SRandMember samples up to count members. allowDuplicates samples with
// replacement; otherwise sampling is without replacement, capped at scard.
func (s *SetVal) SRandMember(count int, allowDuplicates bool) [][]byte {
	all := s.SMembers()
	if len(all) == 0 || count == 0 {
		return [][]byte{}
	}
	if allowDuplicates {
		out := make([][]byte, count)
		for i := range out {
			out[i] = all[rand.Intn(len(all))]
		}
		return out
	}
	if count > len(all) {
		count = len(all)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:count]
}

// SPop samples like SRandMember (without replacement) then removes the
// sampled members.
func (s *SetVal) SPop(count int) [][]byte {
	picked := s.SRandMember(count, false)
	for _, m := range picked {
		s.remove(m)
	}
	return picked
}

// SetLike is the minimal read-only view SDiff/SInter/SUnion operate over; a
// nil set (absent key) behaves as empty.
type SetLike interface {
	SMembers() [][]byte
	SIsMember([]byte) bool
}

// SDiff returns members of the first set not present in any of the others.
func SDiff(first SetLike, others []SetLike) [][]byte {
	if first == nil {
		return [][]byte{}
	}
	out := make([][]byte, 0)
	for _, m := range first.SMembers() {
		in := false
		for _, o := range others {
			if o != nil && o.SIsMember(m) {
				in = true
				break
			}
		}
		if !in {
			out = append(out, m)
		}
	}
	return out
}

// SInter returns members present in every source set.
func SInter(sets []SetLike) [][]byte {
	for _, s := range sets {
		if s == nil {
			return [][]byte{}
		}
	}
	if len(sets) == 0 {
		return [][]byte{}
	}
	out := make([][]byte, 0)
	for _, m := range sets[0].SMembers() {
		in := true
		for _, s := range sets[1:] {
			if !s.SIsMember(m) {
				in = false
				break
			}
		}
		if in {
			out = append(out, m)
		}
	}
	return out
}

// SUnion returns the union of every source set; nil contributes nothing.
func SUnion(sets []SetLike) [][]byte {
	seen := make(map[string]struct{})
	out := make([][]byte, 0)
	for _, s := range sets {
		if s == nil {
			continue
		}
		for _, m := range s.SMembers() {
			k := string(m)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// Encoding reports the current encoding name, for OBJECT ENCODING/DEBUG OBJECT.
func (s *SetVal) Encoding() string {
	if s.promoted {
		return "hashtable"
	}
	return "intset"
}
