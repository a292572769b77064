package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/biafin/bia/internal/agent"
	"github.com/biafin/bia/internal/api"
	"github.com/biafin/bia/internal/config"
	"github.com/biafin/bia/internal/history"
	"github.com/biafin/bia/internal/ingest"
	"github.com/biafin/bia/internal/llm"
	"github.com/biafin/bia/internal/profile"
	"github.com/biafin/bia/internal/storage"
	"github.com/biafin/bia/internal/validate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bia server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running bia server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bia system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also serve MCP over stdio")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "bia.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(withMCP bool) error {
	fmt.Fprintf(os.Stderr, "bia version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	})))

	// Refuse to start twice: probe the health endpoint before claiming the
	// PID file.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("bia is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("bia is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	profileMgr := profile.NewManager(store)
	gen := llm.NewClientWithBaseURL(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	limits := validate.Limits{
		MaxIncome: cfg.Limits.MaxIncome,
		MaxGoal:   cfg.Limits.MaxGoal,
		MinAge:    cfg.Limits.MinAge,
		MaxAge:    cfg.Limits.MaxAge,
	}
	compactor := history.NewCompactor(gen, cfg.History.MaxMessages, cfg.History.KeepLast, slog.Default())
	ag := agent.New(profileMgr, gen, agent.Options{
		Recorder:  store,
		Compactor: compactor,
		Limits:    limits,
	})

	handler := api.NewAppHandler(api.AppDeps{
		Store:   store,
		Profile: profileMgr,
		Agent:   ag,
		Token:   cfg.Server.APIToken,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	worker := ingest.NewWorker(store, ag, limits, 500*time.Millisecond)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "bia listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Store:   store,
			Profile: profileMgr,
			Agent:   ag,
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP stdio server: %w", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("bia is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop bia (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to bia (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	printStatus("Model", "%s", cfg.LLM.Model)
	printStatus("LLM endpoint", "%s", cfg.LLM.BaseURL)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
