package valueengine

import (
	"math"

	"github.com/edirooss/kvstore/internal/skiplist"
)

// memberKind lets a bound's member component act as a sentinel that compares
// less than (or greater than) every real member at the same score, without
// needing an artificial "maximum string". Score-only range queries (ZCOUNT,
// ZRANGEBYSCORE, ZREMRANGEBYSCORE) rely on this to stay O(log n): they never
// touch the member field of real elements, only the sentinel kind.
type memberKind int8

const (
	memberNormal memberKind = 0
	memberNegInf memberKind = -1
	memberPosInf memberKind = 1
)

// scoreMember is the skiplist element for a sorted set: ordered primarily by
// an order-preserving encoding of the float64 score (so -Inf < finite <
// +Inf), then by memberKind, then by member bytes (spec §4.B/§4.F).
type scoreMember struct {
	score  float64
	member string
	kind   memberKind
}

func scoreBits(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

func lessScoreMember(a, b scoreMember) bool {
	ab, bb := scoreBits(a.score), scoreBits(b.score)
	if ab != bb {
		return ab < bb
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	return a.member < b.member
}

// ScoreMember is a (member, score) pair, used for ZAdd input and ZRange*
// output with scores.
type ScoreMember struct {
	Member string
	Score  float64
}

// ZSetVal is the SortedSet variant: a member->score mapping kept in lockstep
// with an indexed skiplist ordered by (score, member), per spec §4.F.
type ZSetVal struct {
	scores map[string]float64
	idx    *skiplist.SkipList[scoreMember]
}

// NewZSetVal returns an empty sorted set.
func NewZSetVal() *ZSetVal {
	return &ZSetVal{
		scores: make(map[string]float64),
		idx:    skiplist.New(lessScoreMember),
	}
}

func (z *ZSetVal) Card() int { return len(z.scores) }

func (z *ZSetVal) elem(member string, score float64) scoreMember {
	return scoreMember{score: score, member: member, kind: memberNormal}
}

// ZAdd applies one or more (score, member) pairs. incr requires exactly one
// pair and returns its resulting score; nx&&xx is a caller-level syntax
// error (validated by internal/command) and rejected here too, defensively.
// Returns the number of added (or, if ch, added-or-changed) members, the
// resulting score for an INCR call, and whether that INCR call actually
// applied (false if an NX/XX precondition vetoed it).
func (z *ZSetVal) ZAdd(pairs []ScoreMember, nx, xx, ch, incr bool) (count int, incrScore float64, incrApplied bool, err error) {
	if nx && xx {
		return 0, 0, false, ErrSyntax
	}
	if incr && len(pairs) != 1 {
		return 0, 0, false, ErrSyntax
	}
	for _, p := range pairs {
		old, exists := z.scores[p.Member]
		if nx && exists {
			continue
		}
		if xx && !exists {
			continue
		}
		newScore := p.Score
		if incr {
			if exists {
				newScore = old + p.Score
			}
			if math.IsNaN(newScore) {
				return 0, 0, false, ErrNotAFloat
			}
			incrApplied = true
			incrScore = newScore
		}
		switch {
		case !exists:
			z.scores[p.Member] = newScore
			z.idx.Insert(z.elem(p.Member, newScore))
			count++
		case old != newScore:
			z.idx.Remove(z.elem(p.Member, old))
			z.scores[p.Member] = newScore
			z.idx.Insert(z.elem(p.Member, newScore))
			if ch {
				count++
			}
		}
	}
	return count, incrScore, incrApplied, nil
}

// ZRem removes members, returning the number removed.
func (z *ZSetVal) ZRem(members []string) int {
	removed := 0
	for _, m := range members {
		if score, ok := z.scores[m]; ok {
			z.idx.Remove(z.elem(m, score))
			delete(z.scores, m)
			removed++
		}
	}
	return removed
}

// ZScore returns a member's score.
func (z *ZSetVal) ZScore(member string) (float64, bool) {
	s, ok := z.scores[member]
	return s, ok
}

// ZIncrBy adds delta to member's score (creating it with score delta if
// absent) and returns the resulting score.
func (z *ZSetVal) ZIncrBy(member string, delta float64) (float64, error) {
	_, incrScore, _, err := z.ZAdd([]ScoreMember{{Member: member, Score: delta}}, false, false, false, true)
	return incrScore, err
}

// ZRank returns the 0-based ascending rank of member.
func (z *ZSetVal) ZRank(member string) (int, bool) {
	score, ok := z.scores[member]
	if !ok {
		return 0, false
	}
	return z.idx.Rank(z.elem(member, score))
}

func scoreLowerBound(b skiplist.Bound[float64]) skiplist.Bound[scoreMember] {
	switch b.Kind {
	case skiplist.Included:
		return skiplist.Inc(scoreMember{score: b.Value, kind: memberNegInf})
	case skiplist.Excluded:
		return skiplist.Exc(scoreMember{score: b.Value, kind: memberPosInf})
	default:
		return skiplist.Unb[scoreMember]()
	}
}

func scoreUpperBound(b skiplist.Bound[float64]) skiplist.Bound[scoreMember] {
	switch b.Kind {
	case skiplist.Included:
		return skiplist.Inc(scoreMember{score: b.Value, kind: memberPosInf})
	case skiplist.Excluded:
		return skiplist.Exc(scoreMember{score: b.Value, kind: memberNegInf})
	default:
		return skiplist.Unb[scoreMember]()
	}
}

// ZCount counts members whose score falls in [min, max].
func (z *ZSetVal) ZCount(min, max skiplist.Bound[float64]) int {
	return z.idx.CountInRange(scoreLowerBound(min), scoreUpperBound(max))
}

// lexMemberBound assumes the uniform-score convention documented for
// ZRANGEBYLEX (spec §4.F): all members share score; bounds compare member
// bytes directly while holding score fixed at the set's first element.
func (z *ZSetVal) lexMemberBound(b skiplist.Bound[string], score float64) skiplist.Bound[scoreMember] {
	switch b.Kind {
	case skiplist.Included:
		return skiplist.Inc(scoreMember{score: score, member: b.Value, kind: memberNormal})
	case skiplist.Excluded:
		return skiplist.Exc(scoreMember{score: score, member: b.Value, kind: memberNormal})
	default:
		return skiplist.Unb[scoreMember]()
	}
}

func (z *ZSetVal) uniformScore() float64 {
	if z.idx.Len() == 0 {
		return 0
	}
	first, _ := z.idx.GetByRank(0)
	return first.score
}

// ZLexCount counts members in [min, max] under the uniform-score lex
// convention.
func (z *ZSetVal) ZLexCount(min, max skiplist.Bound[string]) int {
	score := z.uniformScore()
	return z.idx.CountInRange(z.lexMemberBound(min, score), z.lexMemberBound(max, score))
}

// ZRange returns members by 0-based rank range, Python-style, optionally
// reversed and with scores.
func (z *ZSetVal) ZRange(start, stop int, rev bool) []ScoreMember {
	n := z.idx.Len()
	start = normListIndex(start, n)
	stop = normListIndex(stop, n)
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return []ScoreMember{}
	}
	out := make([]ScoreMember, 0, stop-start+1)
	if rev {
		for i := n - 1 - start; i >= n-1-stop; i-- {
			v, ok := z.idx.GetByRank(i)
			if !ok {
				break
			}
			out = append(out, ScoreMember{Member: v.member, Score: v.score})
		}
		return out
	}
	for i := start; i <= stop; i++ {
		v, ok := z.idx.GetByRank(i)
		if !ok {
			break
		}
		out = append(out, ScoreMember{Member: v.member, Score: v.score})
	}
	return out
}

// ZRangeByScore returns members in [min, max] with offset/count pagination;
// rev also reverses min/max interpretation (caller passes them pre-swapped).
func (z *ZSetVal) ZRangeByScore(min, max skiplist.Bound[float64], offset, count int, rev bool) []ScoreMember {
	vals := z.idx.RangeByValue(scoreLowerBound(min), scoreUpperBound(max), offset, count, rev)
	out := make([]ScoreMember, len(vals))
	for i, v := range vals {
		out[i] = ScoreMember{Member: v.member, Score: v.score}
	}
	return out
}

// ZRangeByLex returns members in [min, max] under the uniform-score
// convention, with offset/count pagination.
func (z *ZSetVal) ZRangeByLex(min, max skiplist.Bound[string], offset, count int, rev bool) []ScoreMember {
	score := z.uniformScore()
	vals := z.idx.RangeByValue(z.lexMemberBound(min, score), z.lexMemberBound(max, score), offset, count, rev)
	out := make([]ScoreMember, len(vals))
	for i, v := range vals {
		out[i] = ScoreMember{Member: v.member, Score: v.score}
	}
	return out
}

// ZRemRangeByScore removes members in [min, max], returning the count removed.
func (z *ZSetVal) ZRemRangeByScore(min, max skiplist.Bound[float64]) int {
	vals := z.idx.RangeByValue(scoreLowerBound(min), scoreUpperBound(max), 0, -1, false)
	for _, v := range vals {
		delete(z.scores, v.member)
		z.idx.Remove(v)
	}
	return len(vals)
}

// ZRemRangeByLex removes members in [min, max] under the uniform-score
// convention, returning the count removed.
func (z *ZSetVal) ZRemRangeByLex(min, max skiplist.Bound[string]) int {
	score := z.uniformScore()
	vals := z.idx.RangeByValue(z.lexMemberBound(min, score), z.lexMemberBound(max, score), 0, -1, false)
	for _, v := range vals {
		delete(z.scores, v.member)
		z.idx.Remove(v)
	}
	return len(vals)
}

// ZRemRangeByRank removes members by 0-based rank range, returning the count
// removed.
func (z *ZSetVal) ZRemRangeByRank(start, stop int) int {
	members := z.ZRange(start, stop, false)
	for _, m := range members {
		score := z.scores[m.Member]
		delete(z.scores, m.Member)
		z.idx.Remove(z.elem(m.Member, score))
	}
	return len(members)
}

// Aggregate combines multiplied scores across sources for ZUNION/ZINTER.
type Aggregate int

const (
	AggSum Aggregate = iota
	AggMin
	AggMax
)

func (a Aggregate) combine(acc, v float64) float64 {
	switch a {
	case AggMin:
		return math.Min(acc, v)
	case AggMax:
		return math.Max(acc, v)
	default:
		return acc + v
	}
}

// ZUnion combines sources (nil => empty) with per-source weights (default 1)
// and the given aggregation, returning every member reachable from any
// source.
func ZUnion(sources []*ZSetVal, weights []float64, agg Aggregate) []ScoreMember {
	acc := make(map[string]float64)
	seen := make(map[string]bool)
	for i, src := range sources {
		if src == nil {
			continue
		}
		w := weight(weights, i)
		for member, score := range src.scores {
			v := score * w
			if !seen[member] {
				acc[member] = v
				seen[member] = true
			} else {
				acc[member] = agg.combine(acc[member], v)
			}
		}
	}
	return sortedPairs(acc)
}

// ZInter combines sources the same way as ZUnion but includes only members
// present in every source.
func ZInter(sources []*ZSetVal, weights []float64, agg Aggregate) []ScoreMember {
	if len(sources) == 0 {
		return []ScoreMember{}
	}
	for _, s := range sources {
		if s == nil {
			return []ScoreMember{}
		}
	}
	acc := make(map[string]float64)
	for member, score := range sources[0].scores {
		acc[member] = score * weight(weights, 0)
	}
	for i := 1; i < len(sources); i++ {
		next := make(map[string]float64)
		w := weight(weights, i)
		for member, v := range acc {
			if score, ok := sources[i].scores[member]; ok {
				next[member] = agg.combine(v, score*w)
			}
		}
		acc = next
	}
	return sortedPairs(acc)
}

func weight(weights []float64, i int) float64 {
	if i < len(weights) {
		return weights[i]
	}
	return 1.0
}

func sortedPairs(m map[string]float64) []ScoreMember {
	out := make([]ScoreMember, 0, len(m))
	for member, score := range m {
		out = append(out, ScoreMember{Member: member, Score: score})
	}
	return out
}
