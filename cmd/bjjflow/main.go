package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bjjflow/internal/bootstrap"
	journaldto "bjjflow/internal/modules/journal/dto"
	"bjjflow/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "bjjflow",
		Short:         "Brazilian jiu-jitsu training journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", config.DefaultDataDir(), "directory holding the journal database, log and config.yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug|info|warn|error")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newDeleteCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newInsightCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.dataDir)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(opts *rootOptions, fn func(app *bootstrap.App) error) (err error) {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(app)
}

func runTUI(opts *rootOptions) error {
	return withApp(opts, bootstrap.RunTUI)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal journal",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var input journaldto.AddSessionInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a training session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.Add(cmd.Context(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %q on %s (%s, %d min)\n", out.ID, out.DisplayTitle, out.Date, out.Type, out.Duration)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.Title, "title", "", "session title (optional)")
	cmd.Flags().StringVar(&input.Date, "date", "", "training date YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&input.Type, "type", "Gi", "Gi|No-Gi|Drill/Technique|Open Mat|Competition")
	cmd.Flags().IntVar(&input.Duration, "duration", 60, "minutes on the mat")
	cmd.Flags().IntVar(&input.Intensity, "intensity", 3, "perceived intensity 1..5")
	cmd.Flags().StringSliceVar(&input.Positions, "positions", nil, "positions worked")
	cmd.Flags().StringSliceVar(&input.Drills, "drills", nil, "drills practiced")
	cmd.Flags().StringSliceVar(&input.Partners, "partners", nil, "training partners")
	cmd.Flags().StringVar(&input.Coach, "coach", "", "coach or instructor")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "free-form notes")
	return cmd
}

type filterFlags struct {
	query string
	from  string
	to    string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.query, "query", "", "case-insensitive text over title, notes, type, positions and drills")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest date YYYY-MM-DD, inclusive")
	cmd.Flags().StringVar(&f.to, "to", "", "latest date YYYY-MM-DD, inclusive")
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var filter filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.List(cmd.Context(), filter.query, filter.from, filter.to)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				if len(out.Sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, s := range out.Sessions {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%d min\t%d/5\t%s\t%s\n", s.Date, s.Type, s.Duration, s.Intensity, s.DisplayTitle, s.ID)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d of %d sessions\n", len(out.Sessions), out.Total)
				return nil
			})
		},
	}
	filter.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				s, err := app.JournalCLI.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), s)
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "%s\n%s · %s · %d min · intensity %d/5\n", s.DisplayTitle, s.Date, s.Type, s.Duration, s.Intensity)
				printList(out, "positions", s.Positions)
				printList(out, "drills", s.Drills)
				printList(out, "partners", s.Partners)
				if s.Coach != "" {
					_, _ = fmt.Fprintf(out, "coach: %s\n", s.Coach)
				}
				if strings.TrimSpace(s.Notes) != "" {
					_, _ = fmt.Fprintf(out, "\n%s\n", s.Notes)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				ctx := cmd.Context()
				confirmed := yes
				if !confirmed {
					s, err := app.JournalCLI.Get(ctx, args[0])
					if err != nil {
						return err
					}
					input := newLineInput(cmd.InOrStdin(), cmd.OutOrStdout())
					defer func() { _ = input.Close() }()
					confirmed, err = confirm(input, fmt.Sprintf("Delete %q from %s?", s.DisplayTitle, s.Date))
					if err != nil {
						return err
					}
					if !confirmed {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "kept")
						return nil
					}
				}
				out, err := app.JournalCLI.Remove(ctx, args[0], confirmed)
				if err != nil {
					return err
				}
				if !out.Removed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no session %s\n", out.ID)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", out.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var filter filterFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize training volume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				s, err := app.JournalCLI.Stats(cmd.Context(), filter.query, filter.from, filter.to)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), s)
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(out, app.Profile)
				_, _ = fmt.Fprintf(out, "sessions: %s\nmat time: %s\npositions: %s\ndrills: %s\naverage intensity: %.1f\n",
					humanize.Comma(int64(s.Count)), s.MatTime, humanize.Comma(int64(s.TotalPositions)), humanize.Comma(int64(s.TotalDrills)), s.AverageIntensity)
				for _, tc := range s.PerType {
					_, _ = fmt.Fprintf(out, "  %-16s %d\n", tc.Type, tc.Count)
				}
				if len(s.TopPositions) > 0 {
					_, _ = fmt.Fprintln(out, "top positions:")
					for i, p := range s.TopPositions {
						_, _ = fmt.Fprintf(out, "  %d. %s (%d)\n", i+1, p.Position, p.Count)
					}
				}
				return nil
			})
		},
	}
	filter.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newInsightCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Ask Sensei AI for feedback on the latest sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				out := app.InsightCLI.Request(ctx)
				if out.Outcome == "cancelled" {
					return errors.New("insight request cancelled")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
				return nil
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export --dir <vault>",
		Short: "Write the journal as Markdown notes into a vault",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(dir) == "" {
				return fmt.Errorf("--dir is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.Export(cmd.Context(), dir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\nindex: %s\n", out.Notes, out.Dir, out.IndexPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "vault directory")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timeline page and JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				listen := addr
				if listen == "" {
					listen = app.Config.Server.Addr
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "serving on http://%s\n", listen)
				return bootstrap.RunServer(ctx, app, listen)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr)")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg)
		},
	})
	return cfgCmd
}

func writeConfig(w io.Writer, cfg config.Config) error {
	view := map[string]any{
		"data_dir":    cfg.DataDir,
		"db_path":     cfg.DBPath,
		"log_path":    cfg.LogPath,
		"config_path": cfg.ConfigPath,
		"log_level":   cfg.LogLevel,
		"storage": map[string]any{
			"key":         cfg.Storage.Key,
			"legacy_keys": cfg.Storage.LegacyKeys,
		},
		"insight": map[string]any{
			"base_url":          cfg.Insight.BaseURL,
			"model":             cfg.Insight.Model,
			"api_key":           cfg.MaskedAPIKey(),
			"language":          cfg.Insight.Language,
			"timeout":           cfg.Insight.Timeout.String(),
			"max_prompt_tokens": cfg.Insight.MaxPromptTokens,
		},
		"server": map[string]any{"addr": cfg.Server.Addr},
		"profile": map[string]any{
			"name":    cfg.Profile.Name,
			"belt":    cfg.Profile.Belt,
			"stripes": cfg.Profile.Stripes,
			"academy": cfg.Profile.Academy,
		},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", label, strings.Join(items, ", "))
}
