package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"mealsexplorer/internal/catalog"
	"mealsexplorer/internal/config"
	"mealsexplorer/internal/domain"
	"mealsexplorer/internal/eventbus"
	"mealsexplorer/internal/export"
	"mealsexplorer/internal/query"
	"mealsexplorer/internal/ui"
)

// options holds the command line flags
type options struct {
	configPath  string
	apiURL      string
	pageSize    int
	search      string
	category    string
	sort        string
	exportPath  string
	logFile     string
	writeConfig bool
}

func parseFlags(args []string) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	flags := pflag.NewFlagSet("mealsexplorer", pflag.ContinueOnError)
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: user config dir)")
	flags.StringVar(&opts.apiURL, "api", "", "Catalog base URL")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Meals per page")
	flags.StringVarP(&opts.search, "search", "s", "", "Initial search term")
	flags.StringVar(&opts.category, "category", "", "Initial category")
	flags.StringVar(&opts.sort, "sort", "asc", "Sort order: asc, desc or none")
	flags.StringVarP(&opts.exportPath, "export", "o", "", "Write the results to FILE (.xlsx or .csv) and exit")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file (default from config)")
	flags.BoolVar(&opts.writeConfig, "write-config", false, "Save the effective configuration and exit")
	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, flags, nil
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(cfg *config.Config, opts *options, flags *pflag.FlagSet) error {
	if flags.Changed("api") {
		cfg.API.BaseURL = opts.apiURL
	}
	if flags.Changed("page-size") {
		cfg.Query.PageSize = opts.pageSize
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	return cfg.Validate()
}

func main() {
	opts, flags, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	// Load configuration
	configSvc := config.NewConfigService(opts.configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(cfg, opts, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	sortOrder, ok := domain.ParseSortOrder(opts.sort)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown sort order %q\n", opts.sort)
		os.Exit(2)
	}

	// Set up logging
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	if opts.writeConfig {
		if err := configSvc.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", configSvc.Path())
		return
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	client, err := newCatalogClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	orch := query.New(client,
		query.WithPageSize(cfg.Query.PageSize),
		query.WithDefaultTerm(cfg.Query.DefaultTerm),
		query.WithSuggestionLimit(cfg.Query.SuggestionLimit),
		query.WithStaleGuard(cfg.Query.StaleGuard),
		query.WithSortOrder(sortOrder),
		query.WithInitialQuery(opts.search, opts.category),
		query.WithEventBus(bus),
	)

	if opts.exportPath != "" {
		if err := runExport(ctx, orch, opts.exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTUI(ctx, bus, orch, cfg); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// newCatalogClient builds the HTTP client with retries and the caching layer
func newCatalogClient(cfg *config.Config) (catalog.Client, error) {
	httpClient, err := catalog.NewHTTPClient(cfg.API.BaseURL,
		catalog.WithHTTPClient(catalog.NewStdClient(cfg.API.Timeout(), cfg.API.Retries)),
		catalog.WithUserAgent(cfg.API.UserAgent),
	)
	if err != nil {
		return nil, err
	}
	return catalog.NewCachingClient(httpClient, cfg.Cache.Size), nil
}

// runExport performs one reload and writes every result row to path
func runExport(ctx context.Context, orch *query.Orchestrator, path string) error {
	if err := orch.Reload(ctx); err != nil {
		return err
	}
	meals := orch.State().Results
	if err := export.Write(path, meals); err != nil {
		return err
	}
	log.Printf("Exported %d meals to %s", len(meals), path)
	fmt.Printf("OK: %d meals -> %s\n", len(meals), path)
	return nil
}

func runTUI(ctx context.Context, bus eventbus.EventBus, orch *query.Orchestrator, cfg *config.Config) error {
	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(ctx, orch, cfg)

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Create event channel for UI
	eventChan := make(chan eventbus.DomainEvent, 100)

	// Forward events to the event channel
	for _, et := range eventbus.AllEventTypes {
		bus.Subscribe(et, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				log.Println("Event channel full, dropping event")
			}
		})
	}

	// Start forwarding events to UI in background
	done := make(chan struct{})
	go func() {
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	log.Printf("UI exited normally")
	return nil
}
