package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazaar/app/jobs"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
	"github.com/shashiranjanraj/bazaar/pkg/schedule"
)

var queueWorkersFlag int

// bazaar queue:work processes jobs outside the API process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			return fmt.Errorf("queue:work needs redis: %w", err)
		}

		jobs.Register()
		queue.UseDB(database.DB)
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// bazaar queue:failed
var queueFailedCmd = &cobra.Command{
	Use:   "queue:failed",
	Short: "List failed queue jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		queue.UseDB(database.DB)

		records, err := queue.ListFailed(50)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No failed jobs.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tATTEMPTS\tFAILED AT\tERROR")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
				r.ID, r.JobType, r.Attempts, r.FailedAt.Format(time.DateTime), r.Error)
		}
		return w.Flush()
	},
}

// bazaar queue:retry <id>
var queueRetryCmd = &cobra.Command{
	Use:   "queue:retry <id>",
	Short: "Re-dispatch a failed queue job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid job id %q", args[0])
		}

		if err := bootDB(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			return fmt.Errorf("queue:retry needs redis: %w", err)
		}
		queue.UseDB(database.DB)
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))

		if err := queue.RetryFailed(uint(id)); err != nil {
			return err
		}
		fmt.Printf("Failed job %d pushed back onto the queue.\n", id)
		return nil
	},
}

// bazaar schedule:run runs the scheduler outside the API process.
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tasks := schedule.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered.")
		} else {
			fmt.Println("Registered scheduled tasks:")
			for _, t := range tasks {
				fmt.Println("  •", t)
			}
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
