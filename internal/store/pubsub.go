package store

import "github.com/edirooss/kvstore/internal/glob"

// Subscribe registers sink against channel, returning a subscriber id used
// to unsubscribe later.
func (d *Database) Subscribe(channel string, sink Sink) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextSub++
	id := d.nextSub
	m, ok := d.channels[channel]
	if !ok {
		m = make(map[int64]Sink)
		d.channels[channel] = m
	}
	m[id] = sink
	return id
}

// PSubscribe registers sink against a glob pattern.
func (d *Database) PSubscribe(pattern string, sink Sink) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextSub++
	id := d.nextSub
	m, ok := d.patterns[pattern]
	if !ok {
		m = make(map[int64]Sink)
		d.patterns[pattern] = m
	}
	m[id] = sink
	return id
}

// Unsubscribe removes a channel subscription.
func (d *Database) Unsubscribe(channel string, id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := d.channels[channel]; ok {
		delete(m, id)
		if len(m) == 0 {
			delete(d.channels, channel)
		}
	}
}

// PUnsubscribe removes a pattern subscription.
func (d *Database) PUnsubscribe(pattern string, id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := d.patterns[pattern]; ok {
		delete(m, id)
		if len(m) == 0 {
			delete(d.patterns, pattern)
		}
	}
}

// Publish delivers message to every channel subscriber of channel and every
// pattern subscriber whose pattern glob-matches channel (spec §4.H). Sinks
// whose Send fails are dropped. Returns the number of successful
// deliveries.
func (d *Database) Publish(channel, message string) int {
	d.mu.Lock()
	type target struct {
		id   int64
		sink Sink
	}
	var channelTargets, patternTargets []target
	var patternNames []string
	for id, sink := range d.channels[channel] {
		channelTargets = append(channelTargets, target{id, sink})
	}
	for pattern, subs := range d.patterns {
		if !glob.Match(pattern, channel) {
			continue
		}
		for id, sink := range subs {
			patternTargets = append(patternTargets, target{id, sink})
			patternNames = append(patternNames, pattern)
		}
	}
	d.mu.Unlock()

	delivered := 0
	var deadChannel []int64
	for _, t := range channelTargets {
		if err := t.sink([]Reply{"message", channel, message}); err != nil {
			deadChannel = append(deadChannel, t.id)
			continue
		}
		delivered++
	}
	var deadPatternIdx []int
	for i, t := range patternTargets {
		if err := t.sink([]Reply{"pmessage", patternNames[i], channel, message}); err != nil {
			deadPatternIdx = append(deadPatternIdx, i)
			continue
		}
		delivered++
	}

	if len(deadChannel) > 0 || len(deadPatternIdx) > 0 {
		d.mu.Lock()
		for _, id := range deadChannel {
			if m, ok := d.channels[channel]; ok {
				delete(m, id)
			}
		}
		for _, i := range deadPatternIdx {
			if m, ok := d.patterns[patternNames[i]]; ok {
				delete(m, patternTargets[i].id)
			}
		}
		d.mu.Unlock()
	}
	return delivered
}
