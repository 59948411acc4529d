package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rfones/scheduler/internal/profile"
	"github.com/rfones/scheduler/server/ai"
	apiv1 "github.com/rfones/scheduler/server/router/api/v1"
	"github.com/rfones/scheduler/store"
	"github.com/rfones/scheduler/store/db"
)

const (
	version = "0.3.0"

	gracefulShutdownTimeout = 10 * time.Second
)

var rootCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Natural-language availability scheduler",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:      viper.GetString("mode"),
			Addr:      viper.GetString("addr"),
			Port:      viper.GetInt("port"),
			Data:      viper.GetString("data"),
			DSN:       viper.GetString("dsn"),
			Driver:    viper.GetString("driver"),
			Version:   version,
			AIAPIKey:  viper.GetString("ai-api-key"),
			AIBaseURL: viper.GetString("ai-base-url"),
			AIModel:   viper.GetString("ai-model"),
		}
		if err := instanceProfile.Validate(); err != nil {
			return err
		}
		return run(instanceProfile)
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server: "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the server")
	rootCmd.PersistentFlags().Int("port", 8081, "binding port for the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "", `persistence driver: "sqlite" or empty for memory-only`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetDefault("ai-base-url", "https://api.openai.com/v1")
	viper.SetDefault("ai-model", "gpt-4.1")
	viper.SetEnvPrefix("scheduler")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run(instanceProfile *profile.Profile) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(instanceProfile),
	}))
	slog.SetDefault(logger)

	if !instanceProfile.IsAIEnabled() {
		return fmt.Errorf("reasoning service is not configured, set SCHEDULER_AI_API_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := db.NewDriver(instanceProfile)
	if err != nil {
		return err
	}
	if driver != nil {
		defer driver.Close()
	}

	intervalStore, err := store.NewIntervalStoreWithDriver(ctx, driver)
	if err != nil {
		return err
	}

	completer, err := ai.NewProvider(&ai.Config{
		BaseURL: instanceProfile.AIBaseURL,
		APIKey:  instanceProfile.AIAPIKey,
		Model:   instanceProfile.AIModel,
	})
	if err != nil {
		return err
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())

	apiService := apiv1.NewAPIV1Service(instanceProfile, intervalStore, completer, logger)
	apiService.Register(echoServer)

	address := fmt.Sprintf("%s:%d", instanceProfile.Addr, instanceProfile.Port)
	go func() {
		logger.Info("scheduler started",
			slog.String("address", address),
			slog.String("version", version),
			slog.String("mode", instanceProfile.Mode))
		if err := echoServer.Start(address); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("scheduler stopped")
	return nil
}

func logLevel(instanceProfile *profile.Profile) slog.Level {
	if instanceProfile.IsDev() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
