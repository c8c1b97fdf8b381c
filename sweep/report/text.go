package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/common"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/types"
	"github.com/ZanzyTHEbar/dupesweep/sweep/query"
)

const timeLayout = "2006-01-02 15:04:05"

func scanText(r *types.ScanResult) string {
	var sb strings.Builder

	header(&sb, "DUPLICATE SCAN REPORT")

	section(&sb, "SUMMARY")
	sb.WriteString(fmt.Sprintf("Root:             %s\n", r.Root))
	sb.WriteString(fmt.Sprintf("Scan ID:          %s\n", r.ID))
	sb.WriteString(fmt.Sprintf("Started:          %s\n", r.StartedAt.Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(r.Duration)))
	sb.WriteString(fmt.Sprintf("Files Scanned:    %d\n", r.FilesScanned))
	sb.WriteString(fmt.Sprintf("Skipped:          %d\n", len(r.Skipped)))
	sb.WriteString(fmt.Sprintf("Duplicate Groups: %d\n", r.Summary.GroupCount))
	sb.WriteString(fmt.Sprintf("Duplicates:       %d\n", r.Summary.TotalDuplicates))
	sb.WriteString(fmt.Sprintf("Reclaimable:      %s\n", common.FormatBytes(r.Summary.ReclaimableBytes)))
	sb.WriteString("\n")

	if len(r.DuplicateGroups) == 0 {
		sb.WriteString("No duplicates found.\n")
	} else {
		section(&sb, "GROUPS")
		for i, g := range r.DuplicateGroups {
			sb.WriteString(fmt.Sprintf("[%d] %s  %d files, %s reclaimable\n",
				i+1, shortHash(g.Hash()), g.Len(), common.FormatBytes(g.DuplicateSize())))
			original := g.Original()
			sb.WriteString(fmt.Sprintf("  KEEP    %s  (%s, %s)\n",
				original.Path, common.FormatBytes(original.Size), original.Modified.Format(timeLayout)))
			for _, d := range g.Duplicates() {
				sb.WriteString(fmt.Sprintf("  DELETE  %s  (%s, %s)\n",
					d.Path, common.FormatBytes(d.Size), d.Modified.Format(timeLayout)))
			}
			sb.WriteString("\n")
		}
	}

	if len(r.Skipped) > 0 {
		section(&sb, "SKIPPED")
		for _, s := range r.Skipped {
			sb.WriteString(fmt.Sprintf("  %-15s %s\n", s.KindName(), s.Path))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func cleanupText(r *types.CleanupResult) string {
	var sb strings.Builder

	header(&sb, "CLEANUP REPORT")

	section(&sb, "SUMMARY")
	sb.WriteString(fmt.Sprintf("Cleanup ID:       %s\n", r.ID))
	sb.WriteString(fmt.Sprintf("Deleted:          %d\n", r.DeletedCount))
	sb.WriteString(fmt.Sprintf("Freed:            %s\n", common.FormatBytes(r.FreedSpace)))
	sb.WriteString(fmt.Sprintf("Failed:           %d\n", len(r.Errors)))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(r.Duration)))
	sb.WriteString("\n")

	if len(r.Errors) > 0 {
		section(&sb, "ERRORS")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", e.File, e.Error))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func filesText(files []types.FileRecord) string {
	var sb strings.Builder

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED\tEXTENSION\tPATH")
	for _, f := range files {
		ext := f.Extension
		if ext == "" {
			ext = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			f.Name, common.FormatBytes(f.Size), f.Modified.Format(timeLayout), ext, f.Path)
	}
	tw.Flush()

	sb.WriteString(fmt.Sprintf("\n%d files\n", len(files)))
	return sb.String()
}

func presetsText(presets []query.Preset) string {
	var sb strings.Builder

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tQUERY\tDESCRIPTION")
	for _, p := range presets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Query, p.Label)
	}
	tw.Flush()

	return sb.String()
}
