package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"quizsolver-backend/lib/browser"
	"quizsolver-backend/lib/configutil"
	"quizsolver-backend/lib/osutil"
	"quizsolver-backend/lib/telemetry"
	"quizsolver-backend/services/solver"

	"github.com/gin-gonic/gin"
)

func fatalerr(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

// loadConfig reads solver.json5 (plus its .local override), then lets
// environment variables win over both. A missing config file is fine as
// long as the environment provides the secret.
func loadConfig() (solver.Config, error) {
	cfg, err := configutil.Load[solver.Config]("solver.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	if v := os.Getenv("QUIZ_SECRET"); v != "" {
		cfg.Secret = v
	}
	if n, ok := envInt("QUIZ_MAX_SECONDS"); ok {
		cfg.MaxSeconds = n
	}
	if n, ok := envInt("RENDER_TIMEOUT_MS"); ok {
		cfg.Browser.NavigationTimeoutMs = n
	}
	if n, ok := envInt("PORT"); ok {
		cfg.Port = n
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	return cfg, nil
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fatalerr("parse "+key, err)
	}
	return n, true
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging.")
	flag.Parse()

	ctx := osutil.SignalContext()

	t, err := telemetry.SetupFromEnv(ctx, "quizd")
	if err != nil {
		fatalerr("setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)
	telemetry.InitSlog(*verbose)

	cfg, err := loadConfig()
	if err != nil {
		fatalerr("read config", err)
	}
	if cfg.Secret == "" {
		fatalerr("read config", errors.New("no shared secret configured"))
	}

	chrome := browser.New(cfg.Browser)
	if err := chrome.Start(ctx); err != nil {
		fatalerr("start browser", err)
	}
	defer chrome.Close()

	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	solver.NewService(cfg, chrome).RegisterRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}
	go func() {
		slog.Info("listening for quiz requests...", "port", cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatalerr("serve http", err)
		}
	}()

	<-ctx.Done()
	server.Shutdown(context.Background())
}
