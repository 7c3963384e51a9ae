package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockpilot/quant/internal/scheduler"
	"github.com/stockpilot/quant/internal/scheduler/jobs"
)

// schedulerCmd manages the cron daemon that drives the nightly batch.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduler management",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- eod_analysis: weekday evenings (full indicator batch)

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - run a job immediately
  status  - show job execution history

Example:
  go run ./cmd/quant scheduler start
  go run ./cmd/quant scheduler run eod_analysis`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution history",
		RunE:  showJobStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func initScheduler() (*scheduler.Scheduler, *app, error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log)
	if err := sched.AddJob(jobs.NewAnalysisJob(a.orchestrator, a.cfg, a.log)); err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("register analysis job: %w", err)
	}

	return sched, a, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== StockPilot scheduler ===")

	sched, a, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	sched.Start()

	fmt.Println("\nScheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, a, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, a, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Printf("Running job: %s\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob is asynchronous. Block until the job records a result so the
	// process does not exit with the run still in flight.
	waitForResult(sched, jobName)
	return nil
}

func waitForResult(sched *scheduler.Scheduler, jobName string) {
	for {
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			return
		}
		if result, ok := history.LastResult(); ok {
			if result.Success {
				fmt.Printf("Job %s finished in %s\n", jobName, result.Duration)
			} else {
				fmt.Printf("Job %s failed: %s\n", jobName, result.Error)
			}
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func showJobStatus(cmd *cobra.Command, args []string) error {
	sched, a, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Println("Job status:")
	fmt.Println()

	for _, jobName := range sched.GetAllJobs() {
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			continue
		}

		fmt.Printf("%s\n", jobName)
		result, ok := history.LastResult()
		if !ok {
			fmt.Println("   no runs recorded")
			continue
		}

		status := "success"
		if !result.Success {
			status = "failed: " + result.Error
		}
		fmt.Printf("   Last Run: %s (%s, %s)\n",
			result.StartTime.Format("2006-01-02 15:04:05"), status, result.Duration)
	}

	return nil
}
