package app

import (
	"sort"
	"strconv"
	"strings"

	"storefront_backend/internal/leads/domain"
	"storefront_backend/internal/leads/funnel"
	"storefront_backend/internal/leads/service"
	"storefront_backend/internal/leads/transport"
	"storefront_backend/internal/output"
	"storefront_backend/internal/scheduler"

	"github.com/spf13/cobra"
)

func (a *App) leadsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Score, import and move sales leads",
	}
	cmd.AddCommand(
		a.leadsListCommand(),
		a.leadsScoreCommand(),
		a.leadsFunnelCommand(),
		a.leadsGenerateCommand(),
		a.leadsImportCommand(),
		a.leadsStatusCommand(),
	)
	return cmd
}

func (a *App) leadsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored leads",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.leadsService()
			if err != nil {
				return err
			}
			leads, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if a.flagJSON {
				return output.JSON(a.stdout, transport.ToLeadResponses(leads))
			}
			return a.renderLeads(leads)
		},
	}
}

func (a *App) leadsScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score <file>...",
		Short: "Explain lead scores without storing anything",
		Long: `Score the leads in one or more JSON files and show which rules fired.
The lead store is not modified.

Example:
  storefront leads score prospects.json`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.leadsService()
			if err != nil {
				return err
			}
			leads, err := svc.LoadFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			scores := svc.Score(leads)
			if a.flagJSON {
				return output.JSON(a.stdout, scores)
			}

			tbl := output.NewTable("ID", "NAME", "SCORE", "RULES")
			for _, s := range scores {
				tbl.AddRow(s.LeadID, s.Name, strconv.Itoa(s.Score), formatFactors(s.Factors))
			}
			if err := tbl.Fprint(a.stdout); err != nil {
				return err
			}
			if len(scores) > 0 {
				a.println(output.StyleMuted.Render("rules " + scores[0].Version))
			}
			return nil
		},
	}
}

func (a *App) leadsFunnelCommand() *cobra.Command {
	var enqueue bool

	cmd := &cobra.Command{
		Use:   "funnel",
		Short: "Score stored leads and promote NEW leads to HOT",
		Long: `Score every stored lead and promote NEW leads whose score exceeds the HOT
threshold. With --enqueue the run is queued for the scheduler worker instead
of running here.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if enqueue {
				return a.enqueueFunnel(cmd)
			}

			svc, err := a.leadsService()
			if err != nil {
				return err
			}
			report, err := svc.AnalyzeAndStore(cmd.Context())
			if err != nil {
				return err
			}
			if a.flagJSON {
				return output.JSON(a.stdout, report)
			}
			return a.renderFunnel(report)
		},
	}
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "Queue the run on the scheduler instead of running it now")
	return cmd
}

func (a *App) enqueueFunnel(cmd *cobra.Command) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	id, err := client.EnqueueFunnelAnalysis(cmd.Context(), scheduler.TriggerManual)
	if err != nil {
		return err
	}
	if a.flagJSON {
		return output.JSON(a.stdout, map[string]string{"taskId": id, "task": scheduler.TaskAnalyzeFunnel})
	}
	a.printf("Queued %s as task %s\n", scheduler.TaskAnalyzeFunnel, id)
	return nil
}

func (a *App) leadsGenerateCommand() *cobra.Command {
	var (
		count int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Harvest mock leads into the store",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.leadsService()
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = uint64(a.now().UnixNano())
			}
			leads, err := svc.Generate(cmd.Context(), count, seed)
			if err != nil {
				return err
			}
			if a.flagJSON {
				return output.JSON(a.stdout, transport.ToLeadResponses(leads))
			}
			a.printf("Generated %s leads (seed %d)\n", output.Number(len(leads)), seed)
			return a.renderLeads(leads)
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "Number of leads to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Generator seed (0 picks one)")
	return cmd
}

func (a *App) leadsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Merge lead files into the store",
		Long: `Merge one or more JSON lead files into the store. Leads already in the
store keep their score and status; everything else is refreshed.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.leadsService()
			if err != nil {
				return err
			}
			res, err := svc.ImportFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			if a.flagJSON {
				return output.JSON(a.stdout, res)
			}
			a.printf("Imported %s leads: %s new, %s updated\n",
				output.Number(res.Added+res.Updated), output.Number(res.Added), output.Number(res.Updated))
			return nil
		},
	}
}

func (a *App) leadsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a lead to another funnel stage",
		Long: `Move a lead to another funnel stage. Allowed moves:
  NEW       -> HOT, CONTACTED, COLD
  HOT       -> CONTACTED, COLD
  CONTACTED -> CONVERTED, COLD
  COLD      -> CONTACTED
CONVERTED is final.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.leadsService()
			if err != nil {
				return err
			}
			lead, err := svc.UpdateStatus(cmd.Context(), transport.UpdateStatusRequest{
				LeadID: args[0],
				Status: strings.ToUpper(strings.TrimSpace(args[1])),
			})
			if err != nil {
				return err
			}
			if a.flagJSON {
				return output.JSON(a.stdout, transport.ToLeadResponse(lead))
			}
			a.printf("%s is now %s\n", lead.Name, statusLabel(lead.Status))
			return nil
		},
	}
}

func (a *App) renderLeads(leads []domain.Lead) error {
	tbl := output.NewTable("ID", "NAME", "COMPANY", "SOURCE", "SCORE", "STATUS")
	for _, lead := range leads {
		score := "-"
		if lead.IsScored() {
			score = strconv.Itoa(lead.ScoreValue())
		}
		tbl.AddRow(lead.ID, lead.Name, lead.Company, lead.Source, score, statusLabel(lead.Status))
	}
	return tbl.Fprint(a.stdout)
}

func (a *App) renderFunnel(report service.FunnelReport) error {
	s := report.Summary
	a.println(output.Header("Funnel"))
	a.println(output.KeyValue("Leads", output.Number(s.Total)))
	a.println(output.KeyValue("Average score", strconv.FormatFloat(s.AverageScore, 'f', 1, 64)))
	a.println(output.KeyValue("Promoted", output.Number(len(report.Promoted))))
	for _, status := range []domain.Status{domain.StatusNew, domain.StatusHot, domain.StatusContacted, domain.StatusConverted, domain.StatusCold} {
		a.println(output.KeyValue(string(status), output.Number(s.ByStatus[status])))
	}
	if len(report.Promoted) > 0 {
		a.println()
		a.println(output.StyleHot.Render("New HOT leads (score > " + strconv.Itoa(funnel.HotThreshold) + ")"))
		names := make(map[string]domain.Lead, len(report.Leads))
		for _, lead := range report.Leads {
			names[lead.ID] = lead
		}
		for _, id := range report.Promoted {
			lead := names[id]
			a.printf("  %s  %s, %s (%d)\n", id, lead.Name, lead.Company, lead.ScoreValue())
		}
	}
	return nil
}

func statusLabel(status domain.Status) string {
	if status == domain.StatusHot {
		return output.StyleHot.Render(string(status))
	}
	return string(status)
}

func formatFactors(factors map[string]int) string {
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "+" + strconv.Itoa(factors[name])
	}
	return strings.Join(parts, " ")
}
