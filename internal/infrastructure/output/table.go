package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// TableFormatter formats results for humans.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) status(ok bool) string {
	if ok {
		return f.colorize("✓", colorGreen)
	}
	return f.colorize("✗", colorRed)
}

// FormatProfiles writes one row per profile.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatProfiles(profiles []dto.ProfileSummary) error {
	if len(profiles) == 0 {
		fmt.Fprintln(f.writer, "No profiles registered.")
		return nil
	}

	w := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDEVICE\tBOOT IMAGE\tRAMDISK\tMATCHER")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, orDash(p.Device), yesNo(p.HasBootImage), orDash(p.Ramdisk), p.Matcher)
	}
	return w.Flush()
}

// FormatMatches writes the resolution of each filename.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatMatches(matches []dto.MatchResult) error {
	for _, m := range matches {
		if m.Error != "" {
			fmt.Fprintf(f.writer, "%s %s\n", f.status(false), m.Filename)
			fmt.Fprintf(f.writer, "  %s\n", f.colorize(m.Error, colorRed))
			continue
		}
		fmt.Fprintf(f.writer, "%s %s -> %s %s\n",
			f.status(true), m.Filename, f.colorize(m.ProfileID, colorBold), f.colorize("("+m.Name+")", colorGray))
	}
	return nil
}

// FormatPatchResults writes one block per dispatch followed by a summary.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatPatchResults(results []dto.PatchResult) error {
	failed := 0
	for _, r := range results {
		fmt.Fprintf(f.writer, "%s %s\n", f.status(!r.Failed()), r.ArchivePath)
		if r.ProfileID != "" {
			fmt.Fprintf(f.writer, "  Profile: %s (%s)\n", r.ProfileID, r.ProfileName)
		}
		if r.Failed() {
			failed++
			fmt.Fprintf(f.writer, "  %s: %s\n", f.colorize("Error", colorRed), r.Error)
			if r.State != "" {
				fmt.Fprintf(f.writer, "  State: %s\n", r.State)
			}
			continue
		}
		fmt.Fprintf(f.writer, "  Output: %s\n", r.OutputPath)
		if r.Digest != "" {
			fmt.Fprintf(f.writer, "  Digest: %s\n", f.colorize(r.Digest, colorGray))
		}
		if len(r.Entries) > 0 {
			fmt.Fprintf(f.writer, "  Patched: %s\n", strings.Join(r.Entries, ", "))
		}
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 60), colorGray))
	fmt.Fprintf(f.writer, "%d patched, %d failed\n", len(results)-failed, failed)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
