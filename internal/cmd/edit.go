package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/ui/components"
)

// parseSets turns field=value pairs into draft changes.
func parseSets(sets []string) (engine.Fields, error) {
	if len(sets) == 0 {
		return nil, errors.New("nothing to change: pass --set field=value")
	}
	out := engine.Fields{}
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want field=value", s)
		}
		if !slices.Contains(engine.EditableFields, name) {
			return nil, fmt.Errorf("unknown field %q (editable: %s)", name, strings.Join(engine.EditableFields, ", "))
		}
		out[name] = value
	}
	return out, nil
}

// RunEdit loads employee id, applies changes to a draft and commits it.
func RunEdit(ctx context.Context, eng *engine.Engine, d Directory, out io.Writer, id string, sets []string) error {
	changes, err := parseSets(sets)
	if err != nil {
		return err
	}

	req, err := eng.RequestScope(id)
	if err != nil {
		return err
	}
	if req == nil {
		return errors.New("employee id is required")
	}
	if res := eng.Fetch(ctx, d, *req); errors.Is(res.Err, engine.ErrFetchFailure) {
		return fmt.Errorf("load employee %s: %w", id, res.Err)
	}

	if err := eng.BeginEdit(id); err != nil {
		if errors.Is(err, engine.ErrRecordNotFound) {
			return fmt.Errorf("no record found with ID: %s", id)
		}
		return err
	}
	before := eng.Snapshot().Draft

	for _, name := range changes.Keys() {
		if err := eng.UpdateField(name, changes[name]); err != nil {
			return err
		}
	}
	res, err := eng.Commit(ctx, d)
	if err != nil {
		return fmt.Errorf("save employee %s: %w", id, err)
	}

	fmt.Fprintf(out, "Saved employee #%s\n", components.SanitizeOneLine(id))
	for _, name := range changes.Keys() {
		fmt.Fprintf(out, "  %s: %s -> %s\n", name,
			components.SanitizeOneLine(before[name]),
			components.SanitizeOneLine(res.Fields[name]))
	}
	return nil
}

// EditCmd returns the `roster edit` command.
func EditCmd() *cobra.Command {
	var (
		flags clientFlags
		sets  []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of one employee",
		Example: `  roster edit 7 --set lastName=Hopper
  roster edit 7 --set department=Finance --set email=ada@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := flags.session()
			if err != nil {
				return err
			}
			if err := RunEdit(c.Context(), s.Engine, s.Client, c.OutOrStdout(), args[0], sets); err != nil {
				return err
			}
			return s.WriteMetrics(flags.metricsFile)
		},
	}
	flags.register(cmd)
	flags.registerMetrics(cmd)
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to change (repeatable)")
	return cmd
}
