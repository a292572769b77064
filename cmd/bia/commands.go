package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biafin/bia/internal/config"
)

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect the stored financial profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile")
		if err != nil {
			return err
		}

		var prof any
		if err := decodeJSON(resp, &prof); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prof)
	},
}

var profileSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a human-readable profile summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile/summary")
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result["summary"])
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSummaryCmd)
}

// --- interactions ---

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Inspect the conversation audit log",
}

var interactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/interactions?limit=%d", limit)
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var interactions []struct {
			ID          string `json:"id"`
			CreatedAt   string `json:"created_at"`
			UserMessage string `json:"user_message"`
		}
		if err := decodeJSON(resp, &interactions); err != nil {
			return err
		}

		if len(interactions) == 0 {
			fmt.Println("No interactions found.")
			return nil
		}

		for _, ix := range interactions {
			message := ix.UserMessage
			if len(message) > 80 {
				message = message[:80] + "..."
			}
			fmt.Printf("%s  %s  %s\n",
				colorize(colorCyan, ix.ID[:8]),
				ix.CreatedAt,
				message,
			)
		}
		return nil
	},
}

var interactionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single interaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/interactions/"+args[0])
		if err != nil {
			return err
		}

		var interaction any
		if err := decodeJSON(resp, &interaction); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(interaction)
	},
}

func init() {
	interactionsListCmd.Flags().Int("limit", 20, "maximum number of interactions to list")
	interactionsCmd.AddCommand(interactionsListCmd)
	interactionsCmd.AddCommand(interactionsShowCmd)
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a financial document for extraction",
	Long: `Import a financial document for extraction.

The document is processed in the background; any extracted fields are
staged for confirmation in the next chat session.

Examples:
  bia import --pdf ./extrato.pdf
  bia import --url https://example.com/relatorio
  bia import --text "Renda mensal: R$ 8.500,00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath, _ := cmd.Flags().GetString("pdf")
		url, _ := cmd.Flags().GetString("url")
		text, _ := cmd.Flags().GetString("text")

		if pdfPath == "" && url == "" && text == "" {
			return fmt.Errorf("one of --pdf, --url, or --text is required")
		}

		req := map[string]any{}
		switch {
		case pdfPath != "":
			abs, err := filepath.Abs(pdfPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if _, err := os.Stat(abs); err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			req["kind"] = "pdf"
			req["path"] = abs
		case url != "":
			req["kind"] = "url"
			req["url"] = url
		case text != "":
			req["kind"] = "text"
			req["text"] = text
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/import", req)
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Queued import job %s", result["job_id"])
		return nil
	},
}

func init() {
	importCmd.Flags().String("pdf", "", "path to a PDF document")
	importCmd.Flags().String("url", "", "URL to fetch and import")
	importCmd.Flags().String("text", "", "raw text to import")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
