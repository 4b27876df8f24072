package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fitza/batchtrace-go/internal/adapters/export"
	"github.com/fitza/batchtrace-go/internal/adapters/jobs"
	"github.com/fitza/batchtrace-go/internal/adapters/persistence"
	appbatch "github.com/fitza/batchtrace-go/internal/application/batch"
	"github.com/fitza/batchtrace-go/internal/application/common"
	appplanning "github.com/fitza/batchtrace-go/internal/application/planning"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
	"github.com/fitza/batchtrace-go/internal/infrastructure/config"
	"github.com/fitza/batchtrace-go/internal/infrastructure/database"
	"github.com/fitza/batchtrace-go/internal/infrastructure/logging"
	"github.com/fitza/batchtrace-go/internal/infrastructure/pidfile"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "batchtrace-daemon",
		Short: "Production batch traceability worker",
		Long: `batchtrace-daemon runs the traceability core of the pizza factory:
it drains the job queue, consolidates batch contributions, drives the
approve/discard lifecycle and exports finalized batches for audit.

Examples:
  batchtrace-daemon migrate
  batchtrace-daemon migrate --seed-stock 500
  batchtrace-daemon run
  batchtrace-daemon enqueue batch.create '{"batchId":"BATCH-001","productType":"PEPPERONI","producedQuantity":120}'`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ./config.yaml, ./configs, /etc/batchtrace)")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newEnqueueCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the worker loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			pf := pidfile.New(cfg.Worker.PIDFile)
			if err := pf.Acquire(); err != nil {
				if !force {
					return fmt.Errorf("another instance appears to be running: %w", err)
				}
				_ = os.Remove(cfg.Worker.PIDFile)
				if err := pf.Acquire(); err != nil {
					return err
				}
			}
			defer func() {
				if err := pf.Release(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to release PID file: %v\n", err)
				}
			}()

			return runWorker(cfg)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove a stale PID file and start anyway")
	return cmd
}

func runWorker(cfg *config.Config) error {
	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	logger.Log("INFO", "database connected", map[string]interface{}{"type": cfg.Database.Type})

	mediator, err := buildMediator(db, cfg)
	if err != nil {
		return err
	}

	worker := jobs.NewWorker(
		persistence.NewJobQueue(db),
		jobs.NewDispatcher(mediator),
		logger,
		jobs.WorkerOptions{
			PollInterval:    cfg.Worker.PollInterval,
			JobsPerSecond:   cfg.Worker.RateLimit.Jobs,
			Burst:           cfg.Worker.RateLimit.Burst,
			MaxJobsPerPoll:  cfg.Worker.MaxJobsPerPoll,
			ShutdownTimeout: cfg.Worker.ShutdownTimeout,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log("INFO", "worker started", map[string]interface{}{
		"pollInterval": cfg.Worker.PollInterval.String(),
	})

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Log("INFO", "worker stopped", nil)
	return nil
}

func buildMediator(db *gorm.DB, cfg *config.Config) (common.Mediator, error) {
	clock := shared.NewRealClock()

	batchRepo := persistence.NewBatchRepository(db, clock)
	orderRepo := persistence.NewOrderRepository(db)
	oracle := persistence.NewStockOracle(db)

	fileMode := parseFileMode(cfg.Export.FileMode)
	exporter := export.NewFileAuditExporter(cfg.Export.Directory, fileMode)

	calculator := planning.NewCalculator(planning.NewCatalog())
	gate := planning.NewStockGate(oracle)
	estimator := planning.NewEstimator(planning.NewRandomLoadSource(time.Now().UnixNano()))

	m := common.NewMediator()

	registrations := []struct {
		request common.Request
		handler common.RequestHandler
	}{
		{&appbatch.CreateBatchCommand{}, appbatch.NewCreateBatchHandler(batchRepo, clock)},
		{&appbatch.MergeContributionsCommand{}, appbatch.NewMergeContributionsHandler(batchRepo)},
		{&appbatch.FinalizeBatchCommand{}, appbatch.NewFinalizeBatchHandler(batchRepo, exporter)},
		{&appbatch.GetBatchQuery{}, appbatch.NewGetBatchHandler(batchRepo)},
		{&appplanning.RegisterOrderCommand{}, appplanning.NewRegisterOrderHandler(orderRepo, clock)},
		{&appplanning.ComputeRequirementsCommand{}, appplanning.NewComputeRequirementsHandler(calculator, orderRepo)},
		{&appplanning.CheckStockCommand{}, appplanning.NewCheckStockHandler(gate)},
		{&appplanning.EstimateDeliveryCommand{}, appplanning.NewEstimateDeliveryHandler(estimator, clock)},
	}

	for _, r := range registrations {
		if err := m.Register(reflect.TypeOf(r.request), r.handler); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func parseFileMode(s string) os.FileMode {
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0o644
	}
	return os.FileMode(mode)
}

func newMigrateCommand() *cobra.Command {
	var seedStock int64

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("schema migrated")

			if seedStock > 0 {
				oracle := persistence.NewStockOracle(db)
				for _, material := range planning.NewCatalog().Materials() {
					if err := oracle.SetLevel(cmd.Context(), material, seedStock); err != nil {
						return err
					}
				}
				fmt.Printf("stock seeded: %d units per catalog material\n", seedStock)
			}

			return nil
		},
	}

	cmd.Flags().Int64Var(&seedStock, "seed-stock", 0,
		"Seed every catalog material with this stock quantity")
	return cmd
}

func newEnqueueCommand() *cobra.Command {
	var retries int

	cmd := &cobra.Command{
		Use:   "enqueue <job-type> <payload-json>",
		Short: "Enqueue a job for the worker loop",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			key, err := persistence.NewJobQueue(db).Enqueue(cmd.Context(), args[0], []byte(args[1]), retries)
			if err != nil {
				return err
			}

			fmt.Printf("job %d enqueued\n", key)
			return nil
		},
	}

	cmd.Flags().IntVar(&retries, "retries", 3, "Retries before the job is parked as failed")
	return cmd
}
