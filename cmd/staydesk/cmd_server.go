package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/staydesk/staydesk/app/jobs"
	"github.com/staydesk/staydesk/config"
	"github.com/staydesk/staydesk/internal/kernel"
	"github.com/staydesk/staydesk/internal/server"
	"github.com/staydesk/staydesk/pkg/app"
	"github.com/staydesk/staydesk/pkg/queue"
	"github.com/staydesk/staydesk/pkg/storage"
)

// staydesk serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		jobs.Register(queue.Default(), a.Disk)
		queue.StartWorkers(cmd.Context(), config.QueueWorkers())

		return server.Start(cmd.Context(), kernel.NewHTTPKernel(a.DB, a.Disk))
	},
}

// staydesk route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Routes are only registered, never served, so no connection is needed.
		k := kernel.NewHTTPKernel(nil, storage.Default())

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Router().Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

// staydesk queue:failed: list background jobs that exhausted their retries.
var queueFailedCmd = &cobra.Command{
	Use:   "queue:failed",
	Short: "List failed background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB(cmd.Context())
		if err != nil {
			return err
		}
		m := queue.New(queue.NewMemoryDriver())
		m.UseDB(db)

		rows, err := m.Failed(cmd.Context())
		if err != nil {
			return fmt.Errorf("list failed jobs: %w", err)
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No failed jobs.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tATTEMPTS\tFAILED AT\tPAYLOAD\tERROR")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n", r.ID, r.JobType, r.Attempts, r.FailedAt.Format(time.RFC3339), r.Payload, r.Error)
		}
		return w.Flush()
	},
}
