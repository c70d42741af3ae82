package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/ralt/pkgcompare/internal/compare"
)

// SummaryOptions controls console rendering
type SummaryOptions struct {
	UseColors bool // Enable colored counts, even when stdout is not a terminal
	Base      string
	Candidate string
}

// WriteSummary prints one row per bucket and architecture with the package counts.
func WriteSummary(w io.Writer, report *compare.Report, opts SummaryOptions) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Bucket", "Arch", "Count"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignRight}
	})

	var red, green, yellow func(...any) string
	if opts.UseColors {
		red = forcedColor(color.FgRed)
		green = forcedColor(color.FgGreen)
		yellow = forcedColor(color.FgYellow)
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}
	// only in base, only in candidate, upgrades
	paint := []func(...any) string{red, yellow, green}

	var data [][]string
	total := 0
	for i, name := range report.Names {
		bucket, _ := report.Bucket(name)
		colorize := fmt.Sprint
		if i < len(paint) {
			colorize = paint[i]
		}

		if grouped, ok := bucket.(compare.GroupedBucket); ok {
			for _, arch := range grouped.ArchNames() {
				data = append(data, []string{name, arch, colorize(strconv.Itoa(grouped.Arches[arch].Count))})
			}
		}
		data = append(data, []string{name, allArches, colorize(strconv.Itoa(bucket.Total()))})
		total += bucket.Total()
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if opts.Base != "" && opts.Candidate != "" {
		if _, err := fmt.Fprintf(w, "Compared %s with %s: %d entries in %d buckets\n", opts.Base, opts.Candidate, total, len(report.Names)); err != nil {
			return err
		}
	}
	return nil
}

// forcedColor colors output regardless of the global color.NoColor setting
func forcedColor(attr color.Attribute) func(...any) string {
	c := color.New(attr)
	c.EnableColor()
	return c.SprintFunc()
}
