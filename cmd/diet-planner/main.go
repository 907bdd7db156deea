package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ai-diet-planner/internal/app"
	"ai-diet-planner/internal/config"
	"ai-diet-planner/internal/logging"
	"ai-diet-planner/internal/planner"
	"ai-diet-planner/internal/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reg prometheus.Registerer
	if os.Args[1] == "serve" {
		reg = prometheus.DefaultRegisterer
	}

	application, closeApp, err := app.NewFromConfig(ctx, cfg, logger, reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer closeApp()

	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, application, os.Args[2:])
	case "serve":
		err = runServe(ctx, application, cfg, logger)
	case "usage":
		err = runUsage(ctx, application, os.Args[2:])
	case "metrics-cleanup":
		err = runCleanup(ctx, application, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		closeApp()
		os.Exit(1)
	}

	if err != nil {
		logger.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		closeApp()
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	condition := fs.String("condition", "", "Primary health condition (required)")
	age := fs.Int("age", 0, "Age in years (required)")
	comorbidity := fs.String("comorbidity", "", "Additional conditions")
	preferences := fs.String("preferences", "", "Comma-separated dietary preferences: "+joinValues(planner.DietaryPreferences))
	allergies := fs.String("allergies", "", "Allergies or foods to avoid")
	goals := fs.String("goals", "", "Primary goals")
	duration := fs.String("duration", string(planner.DurationShort), "Plan duration: "+joinValues(planner.PlanDurations))
	language := fs.String("language", string(planner.LanguageEnglish), "Output language: "+joinValues(planner.Languages))
	asJSON := fs.Bool("json", false, "Print the plan as JSON")
	fs.Parse(args)

	input := planner.UserInput{
		Condition:   *condition,
		Age:         *age,
		Comorbidity: *comorbidity,
		Allergies:   *allergies,
		Goals:       *goals,
	}

	d, err := planner.ParseDuration(*duration)
	if err != nil {
		return err
	}
	input.Duration = d

	l, err := planner.ParseLanguage(*language)
	if err != nil {
		return err
	}
	input.Language = l

	for _, item := range strings.Split(*preferences, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		p, err := planner.ParsePreference(item)
		if err != nil {
			return err
		}
		input.Preferences = append(input.Preferences, p)
	}

	fmt.Fprintf(os.Stderr, "Generating %s diet plan for %q...\n", input.Duration, input.Condition)
	plan, err := a.GeneratePlan(ctx, input)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	return app.WritePlan(os.Stdout, plan)
}

func runServe(ctx context.Context, a *app.App, cfg *config.Config, logger zerolog.Logger) error {
	server := web.NewServer(a, logger,
		web.WithMetricsHandler(promhttp.Handler()),
		web.WithAllowedOrigins(cfg.CORSAllowedOrigins...),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Diet planner listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info().Msg("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info().Msg("Server exiting")
	return nil
}

func runUsage(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("usage", flag.ExitOnError)
	days := fs.Int("days", 7, "Show the last N days")
	fs.Parse(args)

	usage, err := a.DailyUsage(ctx, *days)
	if err != nil {
		return err
	}
	if len(usage) == 0 {
		fmt.Println("No usage recorded yet.")
		return nil
	}

	fmt.Printf("%-10s  %8s  %8s  %12s  %12s\n", "DATE", "PLANS", "FAILED", "PROMPT", "COMPLETION")
	for _, d := range usage {
		fmt.Printf("%-10s  %8d  %8d  %12d  %12d\n", d.Date, d.TotalExecution, d.Failures, d.TotalPrompt, d.TotalCompletion)
	}
	return nil
}

func runCleanup(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("days", 30, "Keep records for the last N days")
	fs.Parse(args)

	affected, err := a.CleanupMetrics(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
	return nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func printUsage() {
	fmt.Println("Usage: diet-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate           Generate a diet plan (see generate -h)")
	fmt.Println("  serve              Serve the web form and JSON API")
	fmt.Println("  usage              Show daily token usage")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
