package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"schedguard/internal/store"
	"schedguard/internal/validation"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func blockLabel(i int) string {
	if i == validation.BatchLevel {
		return "batch"
	}
	return fmt.Sprintf("block %d", i)
}

// printResult renders a result for humans.
func printResult(w io.Writer, runID, userID string, res validation.Result) {
	if res.Valid {
		_, _ = successColor.Fprintf(w, "✓ valid")
	} else {
		_, _ = errorColor.Fprintf(w, "✗ invalid")
	}
	_, _ = dimColor.Fprintf(w, "  user=%s run=%s\n", userID, runID)

	check := string(res.ConflictCheck.Status)
	if res.ConflictCheck.Reason != "" {
		check += " (" + res.ConflictCheck.Reason + ")"
	}
	_, _ = labelColor.Fprint(w, "  conflict check: ")
	_, _ = fmt.Fprintln(w, check)

	if len(res.Errors) > 0 {
		_, _ = labelColor.Fprintf(w, "  errors (%d, %d critical):\n", len(res.Errors), len(res.Critical()))
		for _, e := range res.Errors {
			c := warningColor
			if e.Severity == validation.SeverityCritical {
				c = errorColor
			}
			_, _ = c.Fprintf(w, "    %-20s", e.Kind)
			_, _ = fmt.Fprintf(w, " %-8s %s\n", blockLabel(e.BlockIndex), e.Message)
		}
	}
	if len(res.Warnings) > 0 {
		_, _ = labelColor.Fprintf(w, "  warnings (%d):\n", len(res.Warnings))
		for _, wr := range res.Warnings {
			_, _ = warningColor.Fprintf(w, "    %-20s", wr.Kind)
			_, _ = fmt.Fprintf(w, " %-8s %s\n", blockLabel(wr.BlockIndex), wr.Message)
		}
	}
}

func printAudit(w io.Writer, entries []store.AuditEntry) {
	if len(entries) == 0 {
		_, _ = dimColor.Fprintln(w, "no validation runs recorded")
		return
	}
	for _, e := range entries {
		mark := successColor.Sprint("✓")
		if !e.Valid {
			mark = errorColor.Sprint("✗")
		}
		_, _ = fmt.Fprintf(w, "%s %s  %-12s errors=%d warnings=%d conflict=%s  %s\n",
			mark,
			e.At.UTC().Format("2006-01-02T15:04:05Z"),
			e.UserID,
			e.Errors,
			e.Warnings,
			e.ConflictCheck,
			dimColor.Sprint(strings.TrimSpace(e.Source)),
		)
	}
}
