package format

import (
	"fmt"
	"io"

	"github.com/RamXX/backplan/internal/model"
	"github.com/RamXX/backplan/internal/ui"
)

var lifecycle = []model.Status{
	model.StatusBacklog,
	model.StatusScaffolded,
	model.StatusMVP,
	model.StatusHardened,
	model.StatusShipped,
}

// Progress writes publish totals followed by a per-status breakdown.
func Progress(w io.Writer, entries []model.PublishStatus) {
	published, drifted := 0, 0
	byStatus := make(map[model.Status]int)
	for _, e := range entries {
		if e.Published {
			published++
		}
		if e.Drifted {
			drifted++
		}
		row := model.SummaryRow{Labels: e.Labels}
		if st, ok := row.StatusLabel(); ok {
			byStatus[st]++
		}
	}
	fmt.Fprintln(w, ui.RenderBold(fmt.Sprintf("Total: %d | Published: %d | Pending: %d | Drifted: %d",
		len(entries), published, len(entries)-published, drifted)))

	for _, st := range lifecycle {
		if n := byStatus[st]; n > 0 {
			fmt.Fprintf(w, "  %-11s %d\n", st, n)
		}
	}
}
