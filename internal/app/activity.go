package app

import (
	"storefront_backend/internal/output"

	"github.com/spf13/cobra"
)

func (a *App) activityCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the agent activity log, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.leadsService()
			if err != nil {
				return err
			}
			entries, err := svc.RecentActivity(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.flagJSON {
				return output.JSON(a.stdout, entries)
			}
			if len(entries) == 0 {
				a.println(output.StyleMuted.Render("No activity yet."))
				return nil
			}

			tbl := output.NewTable("TIME", "AGENT", "ACTION", "SUMMARY")
			for _, e := range entries {
				tbl.AddRow(e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Agent, e.Action, e.Summary)
			}
			return tbl.Fprint(a.stdout)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries (0 for all)")
	return cmd
}
