// Package report renders cache statistics for humans.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/dmcachesim/directmapped"
)

const notAvailable = "n/a"

// Rate formats a rate, or "n/a" if the rate could not be computed.
func Rate(rate float64, err error) string {
	if err != nil {
		return notAvailable
	}

	return strconv.FormatFloat(rate, 'g', 6, 64)
}

// Header writes the line that introduces a run of dimension n.
func Header(w io.Writer, n int) error {
	_, err := fmt.Fprintf(w, "n=%d\n", n)
	return err
}

// Summary writes, one per line and in this order, the compulsory misses,
// conflict misses, total misses, total accesses, miss rate and hit rate,
// followed by an empty line.
func Summary(w io.Writer, s directmapped.Stats) error {
	_, err := fmt.Fprintf(w,
		"%d compulsory misses\n"+
			"%d conflict misses\n"+
			"%d total misses\n"+
			"%d total accesses\n"+
			"%s miss rate\n"+
			"%s hit rate\n\n",
		s.CompulsoryMisses,
		s.ConflictMisses,
		s.TotalMisses(),
		s.Accesses,
		Rate(s.MissRate()),
		Rate(s.HitRate()),
	)

	return err
}

// Geometry describes a cache geometry, e.g. "4.0 KiB cache, 16 B blocks,
// 256 lines".
func Geometry(totalByteSize, blockByteSize uint64) string {
	lines := uint64(0)
	if blockByteSize > 0 {
		lines = totalByteSize / blockByteSize
	}

	return fmt.Sprintf("%s cache, %s blocks, %s lines",
		humanize.IBytes(totalByteSize),
		humanize.IBytes(blockByteSize),
		humanize.Comma(int64(lines)))
}

// A Run is one labeled set of statistics.
type Run struct {
	Label string
	Stats directmapped.Stats
}

// WriteRunTable renders several runs side by side as a table.
func WriteRunTable(w io.Writer, title string, runs []Run) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)

	t.AppendHeader(table.Row{
		"Run", "Compulsory", "Conflict", "Total Misses", "Accesses",
		"Miss Rate", "Hit Rate",
	})

	for _, r := range runs {
		t.AppendRow(table.Row{
			r.Label,
			humanize.Comma(int64(r.Stats.CompulsoryMisses)),
			humanize.Comma(int64(r.Stats.ConflictMisses)),
			humanize.Comma(int64(r.Stats.TotalMisses())),
			humanize.Comma(int64(r.Stats.Accesses)),
			Rate(r.Stats.MissRate()),
			Rate(r.Stats.HitRate()),
		})
	}

	t.Render()
}
