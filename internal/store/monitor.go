package store

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MonitorAdd subscribes sink to the monitor stream, returning an id usable
// for later removal (client disconnect).
func (d *Database) MonitorAdd(sink Sink) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextMonID++
	id := d.nextMonID
	d.monitors[id] = sink
	return id
}

// MonitorRemove drops a monitor sink.
func (d *Database) MonitorRemove(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.monitors, id)
}

// LogCommand renders args as a human-readable line and streams it to every
// surviving monitor sink, then (for write commands) forwards the raw
// argument vector to the append-only writer (spec §4.H "Monitor fan-out").
// A write failure from the AOF writer permanently disables further
// append-only writes, with a logged warning.
func (d *Database) LogCommand(ns int, args [][]byte, isWrite bool) {
	d.mu.Lock()
	var dead []int64
	targets := make(map[int64]Sink, len(d.monitors))
	for id, sink := range d.monitors {
		targets[id] = sink
	}
	aofWriter := d.aofWriter
	aofDisabled := d.aofDisabled
	d.mu.Unlock()

	if len(targets) > 0 {
		line := renderMonitorLine(ns, args)
		for id, sink := range targets {
			if err := sink(line); err != nil {
				dead = append(dead, id)
			}
		}
	}
	if len(dead) > 0 {
		d.mu.Lock()
		for _, id := range dead {
			delete(d.monitors, id)
		}
		d.mu.Unlock()
	}

	if isWrite && aofWriter != nil && aofWriter.Enabled() && !aofDisabled {
		if err := aofWriter.Append(args); err != nil {
			d.log.Warn("append-only write failed, disabling further writes", zap.Error(err))
			d.mu.Lock()
			d.aofDisabled = true
			d.mu.Unlock()
		}
	}
}

func renderMonitorLine(ns int, args [][]byte) string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(ns))
	b.WriteByte(']')
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteByte('"')
		b.Write(a)
		b.WriteByte('"')
	}
	return b.String()
}
