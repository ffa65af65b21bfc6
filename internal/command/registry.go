package command

// buildTable assembles the static command table (spec §4.I/§6): one Props
// entry per supported command, naming its handler, arity, flags, and key
// positions for WATCH/MULTI bookkeeping and future cluster-style key
// extraction.
func buildTable() map[string]*Props {
	cmds := []*Props{
		// Connection / server
		{Name: "ping", Handler: cmdPing, Arity: -1, Flags: FlagFast},
		{Name: "auth", Handler: cmdAuth, Arity: 2, Flags: FlagFast | FlagNoScript | FlagLoading | FlagStale},
		{Name: "select", Handler: cmdSelect, Arity: 2, Flags: FlagFast | FlagLoading | FlagStale},
		{Name: "info", Handler: cmdInfo, Arity: -1, Flags: FlagSkipMonitor},

		// Transactions
		{Name: "multi", Handler: cmdMulti, Arity: 1, Flags: FlagFast},
		{Name: "discard", Handler: cmdDiscard, Arity: 1, Flags: FlagFast},
		{Name: "exec", Handler: cmdExec, Arity: 1},
		{Name: "watch", Handler: cmdWatch, Arity: -2, Flags: FlagFast},
		{Name: "unwatch", Handler: cmdUnwatch, Arity: 1, Flags: FlagFast},

		// Generic key space
		{Name: "del", Handler: cmdDel, Arity: -2, Flags: FlagWrite, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "exists", Handler: cmdExists, Arity: -2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "dbsize", Handler: cmdDBSize, Arity: 1, Flags: FlagReadonly | FlagFast},
		{Name: "keys", Handler: cmdKeys, Arity: 2, Flags: FlagReadonly},
		{Name: "flushdb", Handler: cmdFlushDB, Arity: 1, Flags: FlagWrite},
		{Name: "flushall", Handler: cmdFlushAll, Arity: 1, Flags: FlagWrite},
		{Name: "type", Handler: cmdType, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "expire", Handler: cmdExpire, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "pexpire", Handler: cmdPExpire, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "expireat", Handler: cmdExpireAt, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "pexpireat", Handler: cmdPExpireAt, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "ttl", Handler: cmdTTL, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "pttl", Handler: cmdPTTL, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "persist", Handler: cmdPersist, Arity: 2, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "rename", Handler: cmdRename, Arity: 3, Flags: FlagWrite, FirstKey: 1, LastKey: 2, KeyStep: 1},
		{Name: "renamenx", Handler: cmdRenameNX, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 2, KeyStep: 1},
		{Name: "dump", Handler: cmdDump, Arity: 2, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "object", Handler: cmdObject, Arity: 3, Flags: FlagReadonly},
		{Name: "debug", Handler: cmdDebugObject, Arity: 3, Flags: FlagAdmin | FlagSkipMonitor},

		// Strings
		{Name: "set", Handler: cmdSet, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "get", Handler: cmdGet, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "strlen", Handler: cmdStrlen, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "append", Handler: cmdAppend, Arity: 3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "getrange", Handler: cmdGetRange, Arity: 4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "setrange", Handler: cmdSetRange, Arity: 4, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "getbit", Handler: cmdGetBit, Arity: 3, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "setbit", Handler: cmdSetBit, Arity: 4, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "incr", Handler: cmdIncr, Arity: 2, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "decr", Handler: cmdDecr, Arity: 2, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "incrby", Handler: cmdIncrBy, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "decrby", Handler: cmdDecrBy, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "incrbyfloat", Handler: cmdIncrByFloat, Arity: 3, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "mget", Handler: cmdMGet, Arity: -2, Flags: FlagReadonly, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "mset", Handler: cmdMSet, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: -1, KeyStep: 2},
		{Name: "pfadd", Handler: cmdPFAdd, Arity: -2, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "pfcount", Handler: cmdPFCount, Arity: -2, Flags: FlagReadonly, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "pfmerge", Handler: cmdPFMerge, Arity: -2, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: -1, KeyStep: 1},

		// Lists
		{Name: "lpush", Handler: cmdLPush, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "rpush", Handler: cmdRPush, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "lpushx", Handler: cmdLPushX, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "rpushx", Handler: cmdRPushX, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "lpop", Handler: cmdLPop, Arity: -2, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "rpop", Handler: cmdRPop, Arity: -2, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "llen", Handler: cmdLLen, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "lindex", Handler: cmdLIndex, Arity: 3, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "lrange", Handler: cmdLRange, Arity: 4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "lset", Handler: cmdLSet, Arity: 4, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "linsert", Handler: cmdLInsert, Arity: 5, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "lrem", Handler: cmdLRem, Arity: 4, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "ltrim", Handler: cmdLTrim, Arity: 4, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "rpoplpush", Handler: cmdRPopLPush, Arity: 3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 2, KeyStep: 1},
		{Name: "blpop", Handler: cmdBLPop, Arity: -3, FirstKey: 1, LastKey: -2, KeyStep: 1},
		{Name: "brpop", Handler: cmdBRPop, Arity: -3, FirstKey: 1, LastKey: -2, KeyStep: 1},
		{Name: "brpoplpush", Handler: cmdBRPopLPush, Arity: 4, Flags: FlagDenyOOM, FirstKey: 1, LastKey: 2, KeyStep: 1},

		// Sets
		{Name: "sadd", Handler: cmdSAdd, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "srem", Handler: cmdSRem, Arity: -3, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "sismember", Handler: cmdSIsMember, Arity: 3, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "scard", Handler: cmdSCard, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "smembers", Handler: cmdSMembers, Arity: 2, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "srandmember", Handler: cmdSRandMember, Arity: -2, Flags: FlagReadonly | FlagRandom, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "spop", Handler: cmdSPop, Arity: -2, Flags: FlagWrite | FlagRandom | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "smove", Handler: cmdSMove, Arity: 4, Flags: FlagWrite | FlagFast, FirstKey: 1, LastKey: 2, KeyStep: 1},
		{Name: "sdiff", Handler: cmdSDiff, Arity: -2, Flags: FlagReadonly | FlagSortForScript, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "sinter", Handler: cmdSInter, Arity: -2, Flags: FlagReadonly | FlagSortForScript, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "sunion", Handler: cmdSUnion, Arity: -2, Flags: FlagReadonly | FlagSortForScript, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "sdiffstore", Handler: cmdSDiffStore, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "sinterstore", Handler: cmdSInterStore, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: -1, KeyStep: 1},
		{Name: "sunionstore", Handler: cmdSUnionStore, Arity: -3, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: -1, KeyStep: 1},

		// Sorted sets
		{Name: "zadd", Handler: cmdZAdd, Arity: -4, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrem", Handler: cmdZRem, Arity: -3, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zscore", Handler: cmdZScore, Arity: 3, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zincrby", Handler: cmdZIncrBy, Arity: 4, Flags: FlagWrite | FlagDenyOOM | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zcard", Handler: cmdZCard, Arity: 2, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrank", Handler: cmdZRank, Arity: 3, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrevrank", Handler: cmdZRevRank, Arity: 3, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zcount", Handler: cmdZCount, Arity: 4, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zlexcount", Handler: cmdZLexCount, Arity: 4, Flags: FlagReadonly | FlagFast, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrange", Handler: cmdZRange, Arity: -4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrevrange", Handler: cmdZRevRange, Arity: -4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrangebyscore", Handler: cmdZRangeByScore, Arity: -4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrevrangebyscore", Handler: cmdZRevRangeByScore, Arity: -4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrangebylex", Handler: cmdZRangeByLex, Arity: -4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zrevrangebylex", Handler: cmdZRevRangeByLex, Arity: -4, Flags: FlagReadonly, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zremrangebyscore", Handler: cmdZRemRangeByScore, Arity: 4, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zremrangebylex", Handler: cmdZRemRangeByLex, Arity: 4, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zremrangebyrank", Handler: cmdZRemRangeByRank, Arity: 4, Flags: FlagWrite, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zunionstore", Handler: cmdZUnionStore, Arity: -4, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},
		{Name: "zinterstore", Handler: cmdZInterStore, Arity: -4, Flags: FlagWrite | FlagDenyOOM, FirstKey: 1, LastKey: 1, KeyStep: 1},

		// Pub/sub
		{Name: "subscribe", Handler: cmdSubscribe, Arity: -2, Flags: FlagPubSub | FlagNoScript | FlagLoading | FlagStale, NotForMulti: true},
		{Name: "psubscribe", Handler: cmdPSubscribe, Arity: -2, Flags: FlagPubSub | FlagNoScript | FlagLoading | FlagStale, NotForMulti: true},
		{Name: "unsubscribe", Handler: cmdUnsubscribe, Arity: -1, Flags: FlagPubSub | FlagNoScript | FlagLoading | FlagStale, NotForMulti: true},
		{Name: "punsubscribe", Handler: cmdPUnsubscribe, Arity: -1, Flags: FlagPubSub | FlagNoScript | FlagLoading | FlagStale, NotForMulti: true},
		{Name: "publish", Handler: cmdPublish, Arity: 3, Flags: FlagPubSub | FlagLoading | FlagStale | FlagFast},
		{Name: "monitor", Handler: cmdMonitor, Arity: 1, Flags: FlagAdmin | FlagNoScript | FlagLoading | FlagStale | FlagSkipMonitor, NotForMulti: true},
	}

	table := make(map[string]*Props, len(cmds))
	for _, p := range cmds {
		table[p.Name] = p
	}
	return table
}
