package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biafin/bia/internal/agent"
	"github.com/biafin/bia/internal/config"
	"github.com/biafin/bia/internal/history"
	"github.com/biafin/bia/internal/llm"
	"github.com/biafin/bia/internal/profile"
	"github.com/biafin/bia/internal/storage"
	"github.com/biafin/bia/internal/validate"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to BIA in the terminal",
	Long: `Talk to BIA in the terminal.

Opens the local profile store directly; the server does not need to be
running. Type "sair" or press Ctrl-D to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	})))

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	profileMgr := profile.NewManager(store)
	gen := llm.NewClientWithBaseURL(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	ag := agent.New(profileMgr, gen, agent.Options{
		Recorder:  store,
		Compactor: history.NewCompactor(gen, cfg.History.MaxMessages, cfg.History.KeepLast, slog.Default()),
		Limits: validate.Limits{
			MaxIncome: cfg.Limits.MaxIncome,
			MaxGoal:   cfg.Limits.MaxGoal,
			MinAge:    cfg.Limits.MinAge,
			MaxAge:    cfg.Limits.MaxAge,
		},
	})

	welcome, err := ag.Welcome()
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	fmt.Println(colorize(colorCyan, "BIA: ") + welcome)

	ctx := cmd.Context()
	var hist []llm.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(colorize(colorBold, "Você: "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if isExitWord(message) {
			fmt.Println(colorize(colorCyan, "BIA: ") + "Até logo! Qualquer coisa, é só chamar.")
			return nil
		}

		reply, _, err := ag.ProcessTurn(ctx, message, hist)
		if err != nil {
			printError("processing message: %v", err)
			continue
		}
		fmt.Println(colorize(colorCyan, "BIA: ") + reply)

		hist = append(hist,
			llm.Message{Role: llm.RoleUser, Content: message},
			llm.Message{Role: llm.RoleAssistant, Content: reply},
		)
	}
}

func isExitWord(message string) bool {
	switch strings.ToLower(message) {
	case "sair", "tchau", "exit", "quit":
		return true
	}
	return false
}
