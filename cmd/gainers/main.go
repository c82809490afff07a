package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/komsit37/gainers/pkg/gainers/columns"
	"github.com/komsit37/gainers/pkg/gainers/config"
	"github.com/komsit37/gainers/pkg/gainers/logger"
	"github.com/komsit37/gainers/pkg/gainers/metrics"
	"github.com/komsit37/gainers/pkg/gainers/pipeline"
	"github.com/komsit37/gainers/pkg/gainers/render"
	"github.com/komsit37/gainers/pkg/gainers/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var ae *pipeline.AlertError
		if errors.As(err, &ae) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	a := &app{v: v}

	root := &cobra.Command{
		Use:           "gainers",
		Short:         "Browse today's market gainers with live quotes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), cmd.Name() == "gainers")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := a.workflow(cmd.Context(), "")
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.New(wf, a.log))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./gainers.yaml or ~/.config/gainers/gainers.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "log file (interactive mode defaults to a file in the temp dir)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	pf.Bool("gate-alerts", false, "only show fetch alerts while the network is unreachable")
	pf.String("symbols", "", "YAML file or directory of companies to use instead of the gainers list")
	pf.String("filter", "", "keep companies matching: substring, glob, /regex/ or comma-separated tickers")
	pf.Bool("offline", false, "treat the network as unreachable")
	pf.Int("decimals", -1, "fixed decimals for prices; -1 prints the shortest form")
	pf.StringSlice("fallback", nil, "extra quote backends tried after IEX (yahoo)")

	for key, flag := range map[string]string{
		"log.level":                   "log-level",
		"log.file":                    "log-file",
		"metrics.addr":                "metrics-addr",
		"alerts.gate_on_connectivity": "gate-alerts",
		"symbols.file":                "symbols",
		"symbols.filter":              "filter",
		"connectivity.offline":        "offline",
		"display.decimals":            "decimals",
		"quote.fallback":              "fallback",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(newQuoteCmd(a), newListCmd(a))
	return root
}

type outputFlags struct {
	output  string
	columns []string
	noColor bool
	pretty  bool
}

func (o *outputFlags) register(cmd *cobra.Command, outputs string) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "table", "output format: "+outputs)
	cmd.Flags().StringSliceVar(&o.columns, "columns", nil, "columns or column sets ("+strings.Join(setNames(), ", ")+")")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "disable colors")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "indent JSON output")
}

func (o *outputFlags) options(list bool) (render.Renderer, pipeline.ExecuteOptions, error) {
	r, ok := render.New(o.output)
	if !ok {
		return nil, pipeline.ExecuteOptions{}, fmt.Errorf("unknown output %q", o.output)
	}
	cols, err := columns.ExpandSets(o.columns)
	if err != nil {
		return nil, pipeline.ExecuteOptions{}, err
	}
	width, tty := stdoutTerminal()
	opts := pipeline.ExecuteOptions{
		Index:      -1,
		List:       list,
		Columns:    cols,
		Color:      tty && !o.noColor,
		PrettyJSON: o.pretty,
	}
	if width > 0 {
		opts.MaxColWidth = width / 3
	}
	return r, opts, nil
}

func newQuoteCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "quote [index|SYMBOL]",
		Short: "Fetch one quote and print it",
		Long: "Fetch one quote and print it. An integer selects a company from the list by " +
			"position; anything else is fetched as a ticker. Without an argument the default symbol is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, opts, err := out.options(false)
			if err != nil {
				return err
			}
			sym := ""
			if len(args) == 1 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					opts.Index = n
				} else {
					sym = strings.ToUpper(strings.TrimSpace(args[0]))
				}
			}
			wf, err := a.workflow(cmd.Context(), sym)
			if err != nil {
				return err
			}
			defer wf.Close()
			runner := &pipeline.Runner{Workflow: wf, Renderer: r, Writer: cmd.OutOrStdout()}
			return runner.Execute(cmd.Context(), opts)
		},
	}
	out.register(cmd, "table, json, syms")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the companies offered by the picker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, opts, err := out.options(true)
			if err != nil {
				return err
			}
			wf, err := a.workflow(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer wf.Close()
			runner := &pipeline.Runner{Workflow: wf, Renderer: r, Writer: cmd.OutOrStdout()}
			err = runner.Execute(cmd.Context(), opts)
			var ae *pipeline.AlertError
			if errors.As(err, &ae) && len(wf.Symbols()) > 0 {
				// The list printed fine; only the start-up quote failed.
				a.log.Warn("quote failed while listing", zap.Error(err))
				return nil
			}
			return err
		},
	}
	out.register(cmd, "table, json, syms")
	return cmd
}

func setNames() []string {
	names := make([]string, 0, len(columns.Sets))
	for k := range columns.Sets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type app struct {
	v          *viper.Viper
	configFile string

	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
}

func (a *app) setup(ctx context.Context, interactive bool) error {
	cfg, err := config.Load(a.v, config.LoadOptions{File: a.configFile})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logFile := cfg.Log.File
	if logFile == "" && interactive {
		logFile = filepath.Join(os.TempDir(), "gainers.log")
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = log

	a.metrics = metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}
