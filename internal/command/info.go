package command

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/edirooss/kvstore/pkg/runid"
)

var processRunID = runid.New()

// renderInfo produces the INFO textual report (spec §4.I) with a # Server
// and a # Keyspace section. Both sections are always emitted: INFO's
// optional section argument does not select or filter sections. Only the
// fields spec §4.I enumerates as minimum
// are populated; this is a diagnostics surface, not a full Redis INFO
// clone.
func (ex *Executor) renderInfo() string {
	var b strings.Builder
	uptime := time.Since(ex.start)

	b.WriteString("# Server\r\n")
	fmt.Fprintf(&b, "redis_version:%s\r\n", "7.0.0-kvstore")
	fmt.Fprintf(&b, "os:%s\r\n", runtime.GOOS)
	fmt.Fprintf(&b, "arch_bits:%d\r\n", 32<<(^uint(0)>>63))
	fmt.Fprintf(&b, "process_id:%d\r\n", os.Getpid())
	fmt.Fprintf(&b, "run_id:%s\r\n", processRunID)
	fmt.Fprintf(&b, "tcp_port:%d\r\n", ex.cfg.Get().Port)
	fmt.Fprintf(&b, "uptime_in_seconds:%d\r\n", int64(uptime.Seconds()))
	fmt.Fprintf(&b, "uptime_in_days:%d\r\n", int64(uptime.Hours()/24))
	b.WriteString("\r\n# Keyspace\r\n")
	for _, row := range ex.db.Stats().Namespaces {
		fmt.Fprintf(&b, "db%d:keys=%d,expires=%d\r\n", row.Index, row.Keys, row.Expires)
	}
	return b.String()
}
