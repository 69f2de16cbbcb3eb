// Command regform serves the registration form over HTTP or runs it as a
// terminal prompt.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-regform/components/countries"
	"github.com/goliatone/go-regform/internal/config"
	"github.com/goliatone/go-regform/internal/logging"
	"github.com/goliatone/go-regform/internal/server"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd()); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

func (a *app) load(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	logger, err := logging.New(stderr, level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) component() *countries.Component {
	return countries.New(
		countries.WithEndpoint(a.cfg.Countries.Endpoint),
		countries.WithTimeout(a.cfg.Countries.Timeout),
		countries.WithDefaultLimit(a.cfg.Countries.SearchLimit),
		countries.WithMaxLimit(a.cfg.Countries.SearchLimit),
		countries.WithLogger(a.logger),
	)
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "regform",
		Short: "Registration form with country dial codes",
		Long: `regform renders a registration form (name, email, age, gender, hobbies,
country, phone), validates each field and logs accepted submissions.

The country list is fetched once from restcountries at startup; the selected
country's dial code and flag are shown next to the phone field.

Configuration is read from defaults, then an optional YAML or TOML file
(--config or REGFORM_CONFIG), then REGFORM_* environment variables.`,
		Version:       fmt.Sprintf("%s (%s) %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("regform %s (%s) %s\n", version, commit, date))
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (.yaml, .yml or .toml)")

	cmd.AddCommand(serveCmd(a))
	cmd.AddCommand(promptCmd(a))
	cmd.AddCommand(countriesCmd(a))
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP",
		Example: `  regform serve
  regform serve --addr :9090
  REGFORM_THEME_VARIANT=dark regform serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			selection, err := vanilla.SelectTheme(a.cfg.Theme.Name, a.cfg.Theme.Variant)
			if err != nil {
				return err
			}
			renderer, err := vanilla.New(
				vanilla.WithTheme(vanilla.ThemeConfig(selection)),
				vanilla.WithTemplatesDir(a.cfg.Theme.TemplatesDir),
			)
			if err != nil {
				return err
			}

			srv, err := server.New(cmd.Context(), a.component(),
				server.WithAddr(a.cfg.Server.Addr),
				server.WithReadTimeout(a.cfg.Server.ReadTimeout),
				server.WithShutdownTimeout(a.cfg.Server.ShutdownTimeout),
				server.WithLogger(a.logger),
				server.WithRenderer(renderer),
				server.WithVersion(version),
			)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func promptCmd(a *app) *cobra.Command {
	var noConfirm bool

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the form interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			component := a.component()
			component.Start(ctx)
			defer component.Close()

			fmt.Fprintln(cmd.ErrOrStderr(), "Loading countries...")
			if err := component.Loader().Wait(ctx); err != nil {
				return err
			}

			form, err := registration.NewForm(
				registration.WithCountryState(component.Snapshot()),
				registration.WithSubmitFunc(registration.LogSubmitter(a.logger)),
			)
			if err != nil {
				return err
			}

			renderer := tui.New(
				tui.WithConfirmSubmit(!noConfirm),
				tui.WithLogger(a.logger),
			)
			_, err = renderer.Run(ctx, form)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&noConfirm, "yes", false, "Submit without asking for confirmation")
	return cmd
}

func countriesCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		query      string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "Fetch the country list and print dial codes",
		Example: `  regform countries
  regform countries --query united
  regform countries --json | jq '.[0]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			component := a.component()
			defer component.Close()

			state := component.Loader().Load(cmd.Context())
			if len(state.Countries) == 0 {
				return errors.New("no countries loaded")
			}
			list := countries.Search(state.Countries, query, limit, component.Options())

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCODE\tDIAL CODE")
			for _, country := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", country.Name, country.Code, country.DialCode)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	cmd.Flags().StringVar(&query, "query", "", "Filter by name or code")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows (0 uses countries.search_limit)")
	return cmd
}
