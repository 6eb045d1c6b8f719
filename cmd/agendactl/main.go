package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/agenda-generator/internal/agenda"
	"github.com/example/agenda-generator/internal/config"
	"github.com/example/agenda-generator/internal/persistence"
	"github.com/example/agenda-generator/internal/persistence/sqlite"
	"github.com/example/agenda-generator/internal/persistence/sqlite/migration"
	"github.com/example/agenda-generator/internal/solver"
)

// app holds the dependencies shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	pool    *sqlite.ConnectionPool
	service *agenda.Service
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	a := &app{logger: logger}

	rootCmd := &cobra.Command{
		Use:   "agendactl",
		Short: "Operate the agenda generation service from the command line",
		Long:  `agendactl triggers and inspects agenda generation runs outside the HTTP surface.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.AddCommand(generateCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(listCmd(a))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("agendactl command failed", "error", err)
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.cfg = cfg

	sqliteConfig := migration.DefaultSQLiteConfig(cfg.SQLiteDSN)
	if err := migration.RequireForeignKeys(sqliteConfig); err != nil {
		return fmt.Errorf("invalid sqlite configuration: %w", err)
	}
	pool, err := sqlite.NewConnectionPool(sqliteConfig)
	if err != nil {
		return fmt.Errorf("open connection pool: %w", err)
	}
	a.pool = pool

	roleRepo := sqlite.NewRoleRepository(pool)
	availabilityRepo := sqlite.NewAvailabilityRepository(pool)
	businessRepo := sqlite.NewBusinessRepository(pool)
	agendaRepo := sqlite.NewAgendaRepository(pool)

	idGenerator := func() string { return uuid.NewString() }
	solverDriver := solver.New(cfg.SolverTimeBudget)

	a.service = agenda.NewServiceWithLogger(
		roleRepo, availabilityRepo, businessRepo, agendaRepo,
		solverDriver, idGenerator, time.Now, a.logger,
	)

	return nil
}

func (a *app) close() error {
	if a.pool == nil {
		return nil
	}
	return a.pool.Close()
}

func generateCmd(a *app) *cobra.Command {
	var roleID string
	var weeks []int
	var year int
	var strategy string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an agenda for a role over the given weeks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if roleID == "" {
				return fmt.Errorf("--role-id is required")
			}
			if len(weeks) == 0 {
				return fmt.Errorf("--weeks is required")
			}

			result, err := a.service.Generate(cmd.Context(), agenda.GenerateParams{
				RoleID:               roleID,
				Weeks:                weeks,
				Year:                 year,
				OptimizationStrategy: strategy,
			})
			if err != nil {
				return fmt.Errorf("generate agenda: %w", err)
			}

			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&roleID, "role-id", "", "role to generate the agenda for (required)")
	cmd.Flags().IntSliceVar(&weeks, "weeks", nil, "week numbers to generate (non-ISO, see calendar.WeekStart), comma separated (required)")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year the weeks belong to")
	cmd.Flags().StringVar(&strategy, "strategy", "maximize_coverage", "solver optimization strategy")

	return cmd
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <agenda-id>",
		Short: "Show a previously generated agenda by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.service.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get agenda: %w", err)
			}
			return printJSON(cmd, result)
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var roleID string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agendas for a role, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if roleID == "" {
				return fmt.Errorf("--role-id is required")
			}

			var statusFilter *persistence.AgendaStatus
			if status != "" {
				s := persistence.AgendaStatus(strings.ToLower(status))
				statusFilter = &s
			}

			agendas, err := a.service.List(cmd.Context(), roleID, statusFilter)
			if err != nil {
				return fmt.Errorf("list agendas: %w", err)
			}
			return printJSON(cmd, agendas)
		},
	}

	cmd.Flags().StringVar(&roleID, "role-id", "", "role to list agendas for (required)")
	cmd.Flags().StringVar(&status, "status", "", "filter by agenda status (draft, published, archived)")

	return cmd
}

func printJSON(cmd *cobra.Command, payload interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
