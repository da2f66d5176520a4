package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// historyCommand creates the history inspection command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded diagram generations",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent generations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := newHistoryStore(ctx, cfg.History)
			if err != nil {
				return fmt.Errorf("initialize history: %w", err)
			}
			defer store.Close(ctx)

			entries, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No recorded generations")
				return nil
			}

			for _, e := range entries {
				fmt.Println(StyleValue.Render(e.ID))
				printDetail("%s · %d nodes · %d edges", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Nodes, e.Edges)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries to show")
	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one recorded generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := newHistoryStore(ctx, cfg.History)
			if err != nil {
				return fmt.Errorf("initialize history: %w", err)
			}
			defer store.Close(ctx)

			e, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleValue.Render(e.ID))
			printDetail("Created: %s", e.CreatedAt.Format("2006-01-02 15:04:05"))
			printStats(e.Nodes, e.Edges, len(e.URL))
			printLink(e.URL)
			return nil
		},
	}
}
