package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/roster/internal/api"
	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/ui/components"
)

// RecordGetter reads one employee straight from the server.
type RecordGetter interface {
	GetRecord(ctx context.Context, id string) (engine.Record, error)
}

// RunShow prints every field of one employee. It bypasses the engine cache
// and always reflects the server's current copy.
func RunShow(ctx context.Context, g RecordGetter, out io.Writer, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("employee id must not be empty")
	}
	rec, err := g.GetRecord(ctx, id)
	if err != nil {
		var status *api.StatusError
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return fmt.Errorf("no record found with ID: %s", components.SanitizeOneLine(id))
		}
		return fmt.Errorf("get employee %s: %w", id, err)
	}

	fmt.Fprintf(out, "#%s %s\n", components.SanitizeOneLine(rec.ID), components.SanitizeOneLine(rec.DisplayName()))
	order := slices.Clone(engine.EditableFields)
	for _, k := range rec.Fields.Keys() {
		if !slices.Contains(order, k) {
			order = append(order, k)
		}
	}
	for _, name := range order {
		value := components.SanitizeOneLine(rec.Get(name))
		if strings.TrimSpace(value) == "" {
			value = "N/A"
		}
		fmt.Fprintf(out, "  %-12s %s\n", name+":", value)
	}
	return nil
}

// ShowCmd returns the `roster show` command.
func ShowCmd() *cobra.Command {
	var flags clientFlags
	cmd := &cobra.Command{
		Use:     "show <id>",
		Short:   "Print one employee as the server has it",
		Example: `  roster show 7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := flags.session()
			if err != nil {
				return err
			}
			return RunShow(c.Context(), s.Client, c.OutOrStdout(), args[0])
		},
	}
	flags.register(cmd)
	return cmd
}
