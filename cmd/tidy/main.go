package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tidy-go/internal/app"
	"tidy-go/internal/autorun"
	"tidy-go/internal/config"
	"tidy-go/internal/server"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file from its default (or env-overridden) path.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a TidyApp. The caller must defer
// a.Close(). operation identifies the CLI command being run (e.g. "Scan").
func newApp(operation string) (*app.TidyApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewTidyApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// noneToNil maps the CLI sentinel "none" to a cleared field.
func noneToNil(value string) *string {
	if value == "none" {
		return nil
	}
	return &value
}

var rootCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Desktop clutter triage",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"], defaults["watch_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID:   %s\n", hostID)
		fmt.Printf("Watch Dir: %s\n", cfg.WatchDir)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:    %s\n", cfg.HostID)
		fmt.Printf("Watch Dir:  %s\n", cfg.WatchDir)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("State Path: %s\n", cfg.StatePath)
		fmt.Printf("Listen:     %s\n", cfg.Server.Listen)
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the watched directory and score files",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp("Scan")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Scan()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		// Pipes get machine-readable output; terminals get a table.
		if asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
			out := map[string]any{
				"files":   result.Files,
				"skipped": result.Skipped,
			}
			if result.SaveErr != nil {
				out["save_error"] = result.SaveErr.Error()
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		if len(result.Files) == 0 {
			fmt.Println("No files found.")
			return nil
		}

		fmt.Printf("%-5s  %-9s  %-40s  %s\n", "SCORE", "LABEL", "NAME", "REASONS")
		for _, f := range result.Files {
			label := "-"
			if f.UserLabel != nil {
				label = *f.UserLabel
			}
			fmt.Printf("%5.2f  %-9s  %-40s  %s\n",
				f.TrashScore, label, f.Name, strings.Join(f.TrashReasons, ","))
		}
		if result.Skipped > 0 {
			fmt.Printf("\n%d entr(ies) skipped.\n", result.Skipped)
		}
		if result.SaveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: tracking state not saved: %v\n", result.SaveErr)
		}
		return nil
	},
}

// label command
var labelCmd = &cobra.Command{
	Use:   "label PATH (pinned|keep|trash|organize|none)",
	Short: "Set or clear the user label for a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetLabel")
		if err != nil {
			return err
		}
		defer a.Close()

		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		if err := a.SetLabel(absPath, noneToNil(args[1])); err != nil {
			return fmt.Errorf("setting label: %w", err)
		}

		fmt.Printf("Label for %s: %s\n", absPath, args[1])
		return nil
	},
}

// category command
var categoryCmd = &cobra.Command{
	Use:   "category PATH (study|work|personal|games|none)",
	Short: "Set or clear the user category for a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetCategory")
		if err != nil {
			return err
		}
		defer a.Close()

		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		if err := a.SetCategory(absPath, noneToNil(args[1])); err != nil {
			return fmt.Errorf("setting category: %w", err)
		}

		fmt.Printf("Category for %s: %s\n", absPath, args[1])
		return nil
	},
}

// summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "View the tracking profile summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Summary")
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.Summary()
		if err != nil {
			return err
		}

		fmt.Printf("Records:     %d (%d labeled, %d categorized)\n",
			s.TotalRecords, s.LabeledRecords, s.CategorizedRecords)
		for label, count := range s.Labels {
			fmt.Printf("  label %-9s %d\n", label, count)
		}
		for category, count := range s.Categories {
			fmt.Printf("  category %-9s %d\n", category, count)
		}
		if s.TopLabel != nil {
			fmt.Printf("Top label:    %s\n", *s.TopLabel)
		}
		if s.TopCategory != nil {
			fmt.Printf("Top category: %s\n", *s.TopCategory)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View scan pass history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		passes, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(passes) == 0 {
			fmt.Println("No scans recorded.")
			return nil
		}

		for _, p := range passes {
			duration := p.FinishedAt.Sub(p.StartedAt)
			saved := ""
			if !p.StateSaved {
				saved = "  [state not saved]"
			}
			fmt.Printf("#%d  %s  files:%d  flagged:%d  mean:%.2f  %s%s\n",
				p.ID,
				p.StartedAt.Format("2006-01-02 15:04:05"),
				p.FileCount,
				p.FlaggedCount,
				p.MeanScore,
				duration.String(),
				saved,
			)
		}
		return nil
	},
}

// autorun command
var autorunCmd = &cobra.Command{
	Use:   "autorun",
	Short: "Manage launch at login",
}

var autorunStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether tidy launches at login",
	Run: func(cmd *cobra.Command, args []string) {
		if autorun.IsEnabled() {
			fmt.Println("enabled")
		} else {
			fmt.Println("disabled")
		}
	},
}

var autorunEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Launch tidy at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AutorunEnable")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println(autorun.Enable(a.AutorunTarget()))
		return nil
	},
}

var autorunDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop launching tidy at login",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(autorun.Disable())
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the desktop UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = a.Config().Server.Listen
		}

		srv := server.New(a, version)
		fmt.Printf("Listening on %s\n", listen)
		return http.ListenAndServe(listen, srv)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	autorunCmd.AddCommand(autorunStatusCmd)
	autorunCmd.AddCommand(autorunEnableCmd)
	autorunCmd.AddCommand(autorunDisableCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("json", false, "Emit JSON even on a terminal")
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of passes to show")
	rootCmd.AddCommand(autorunCmd)
	rootCmd.AddCommand(serveCmd)
}
