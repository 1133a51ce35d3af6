package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/ui/components"
)

// RunList loads pages through eng and prints them. pages <= 0 loads until the
// server reports the last page. A non-empty scope is an exact id search.
func RunList(ctx context.Context, eng *engine.Engine, f engine.Fetcher, out io.Writer, scope string, pages int) error {
	var scoped *engine.FetchRequest
	if scope = strings.TrimSpace(scope); scope != "" {
		r, err := eng.RequestScope(scope)
		if err != nil {
			return err
		}
		scoped = r
	}
	var req engine.FetchRequest
	if scoped != nil {
		req = *scoped
	} else {
		// a blank scope, or one the engine already cleared, lists everything
		r, err := eng.Start()
		if err != nil {
			return err
		}
		req = r
	}

	for loaded := 0; ; {
		res := eng.Fetch(ctx, f, req)
		if errors.Is(res.Err, engine.ErrFetchFailure) {
			return fmt.Errorf("load page %d: %w", req.Request.PageIndex, res.Err)
		}
		loaded++
		if pages > 0 && loaded >= pages {
			break
		}
		next, err := eng.LoadMore()
		if errors.Is(err, engine.ErrExhausted) {
			break
		}
		if err != nil {
			return err
		}
		req = next
	}

	snap := eng.Snapshot()
	if len(snap.Records) == 0 {
		if snap.Scope != "" {
			fmt.Fprintf(out, "No record found with ID: %s\n", components.SanitizeOneLine(snap.Scope))
		} else {
			fmt.Fprintln(out, "No records found.")
		}
		return nil
	}

	for _, r := range snap.Records {
		printRecord(out, r)
	}
	if snap.Cursor.HasMore {
		fmt.Fprintf(out, "\n%d employees shown, more available (--pages 0 loads all)\n", len(snap.Records))
	} else {
		fmt.Fprintf(out, "\n%d employees\n", len(snap.Records))
	}
	return nil
}

func printRecord(out io.Writer, r engine.Record) {
	fmt.Fprintf(out, "  %-6s %-24s %-16s %s\n",
		components.SanitizeOneLine(r.ID),
		components.ClampTextWidth(r.DisplayName(), 24),
		components.ClampTextWidth(r.Get(engine.FieldDepartment), 16),
		components.SanitizeOneLine(r.Get(engine.FieldEmail)),
	)
}

// ListCmd returns the `roster list` command.
func ListCmd() *cobra.Command {
	var (
		flags clientFlags
		scope string
		pages int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print employees page by page",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			s, err := flags.session()
			if err != nil {
				return err
			}
			if err := RunList(c.Context(), s.Engine, s.Client, c.OutOrStdout(), scope, pages); err != nil {
				return err
			}
			return s.WriteMetrics(flags.metricsFile)
		},
	}
	flags.register(cmd)
	flags.registerMetrics(cmd)
	cmd.Flags().StringVar(&scope, "scope", "", "show only the employee with this id")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load (0 for all)")
	return cmd
}
