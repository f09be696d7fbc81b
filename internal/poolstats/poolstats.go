// Package poolstats renders an end-of-run summary of arena utilization for
// the CLI's diagnostic output: live handle counts per pool and the bytes
// their backing arenas hold, against the 64 MiB figure a fixed-capacity
// arena deployment would reserve per pool.
package poolstats

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/dustin/go-humanize"

	"pulsar/internal/ir"
)

// ReferenceArenaCap is the per-arena capacity a fixed-mapping deployment
// reserves, shown alongside the measured sizes so utilization reads as
// "used of N".
const ReferenceArenaCap = 64 << 20

// Summary renders a multi-line utilization report over pools.
func Summary(pools ir.Pools) string {
	var sb strings.Builder
	sb.WriteString("arena utilization:\n")
	writeLine(&sb, "control", pools.Control.Len(), int(unsafe.Sizeof(ir.Node{})))
	writeLine(&sb, "cells", pools.Cells.Len(), int(unsafe.Sizeof(ir.Register{})))
	writeLine(&sb, "ports", pools.Ports.Len(), int(unsafe.Sizeof(ir.Access{})))
	return sb.String()
}

func writeLine(sb *strings.Builder, name string, count, elemSize int) {
	used := uint64(count * elemSize)
	fmt.Fprintf(sb, "  %-8s %s handles, ~%s of %s\n",
		name,
		humanize.Comma(int64(count)),
		humanize.IBytes(used),
		humanize.IBytes(ReferenceArenaCap))
}
