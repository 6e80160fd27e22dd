package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/db"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/httpapi"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/repository"
	"github.com/Peak-Offshorly/transcend-backend-services-sub000/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "transcend",
		Short:         "Trait scoring and development-plan lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background statistics refresher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.String("db", "", "sqlite database path (default ~/.transcend/transcend.db)")
	flags.String("listen", ":8080", "listen address")
	flags.Bool("debug", false, "verbose request logging")
	flags.StringSlice("allowed-origins", nil, "CORS allowlist (empty allows all)")

	v.SetEnvPrefix("TRANSCEND")
	v.AutomaticEnv()
	_ = v.BindPFlag("db", flags.Lookup("db"))
	_ = v.BindPFlag("listen", flags.Lookup("listen"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("allowed_origins", flags.Lookup("allowed-origins"))

	return cmd
}

func serve(ctx context.Context, v *viper.Viper) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	dbPath := v.GetString("db")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".transcend", "transcend.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	traitRepo := repository.NewSQLiteTraitRepo(database)
	formRepo := repository.NewSQLiteFormRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	chosenTraitRepo := repository.NewSQLiteChosenTraitRepo(database)
	practiceRepo := repository.NewSQLitePracticeRepo(database)
	sprintRepo := repository.NewSQLiteSprintRepo(database)
	personalRepo := repository.NewSQLitePersonalPracticeRepo(database)
	pendingRepo := repository.NewSQLitePendingActionRepo(database)

	observer := service.MultiUseCaseObserver{
		service.NewLogUseCaseObserver(os.Stderr),
		service.NewPrometheusUseCaseObserver(prometheus.DefaultRegisterer),
	}

	refresher := service.NewStatsRefresher(userRepo, traitRepo, uow, logger)

	svcs := httpapi.Services{
		Users:             service.NewUserService(userRepo, uow, observer),
		Assessments:       service.NewAssessmentService(formRepo, uow, refresher, observer),
		Traits:            service.NewTraitService(traitRepo, planRepo, chosenTraitRepo, uow, observer),
		Practices:         service.NewPracticeService(chosenTraitRepo, practiceRepo, formRepo, planRepo, sprintRepo, uow, observer),
		Plans:             service.NewPlanService(planRepo, uow, observer),
		Sprints:           service.NewSprintService(planRepo, sprintRepo, uow, observer),
		PendingActions:    service.NewPendingActionService(pendingRepo, uow, observer),
		PersonalPractices: service.NewPersonalPracticeService(personalRepo, planRepo, uow, observer),
	}

	server := httpapi.NewServer(httpapi.Config{
		Listen:         v.GetString("listen"),
		Debug:          v.GetBool("debug"),
		AllowedOrigins: v.GetStringSlice("allowed_origins"),
	}, svcs, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		err := refresher.Run(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
