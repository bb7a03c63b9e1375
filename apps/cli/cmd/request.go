package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/restflow/packages/core/config"
	"github.com/abdul-hamid-achik/restflow/packages/history"
	"github.com/abdul-hamid-achik/restflow/packages/metrics"
	"github.com/abdul-hamid-achik/restflow/packages/output"
	"github.com/abdul-hamid-achik/restflow/packages/rest"
	"github.com/abdul-hamid-achik/restflow/packages/schema"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	headerFlags   []string
	queryFlags    []string
	dataFlag      string
	baseURLFlag   string
	bearerFlag    string
	basicFlag     string
	extractFlag   string
	schemaFlag    string
	repeatFlag    int
	watchFlag     bool
	historyFlag   bool
	verboseFlag   bool
	noColorFlag   bool
	configFlag    string
	timeoutFlag   int
	rateLimitFlag float64
)

func newMethodCommand(method string) *cobra.Command {
	use := strings.ToLower(method)
	cmd := &cobra.Command{
		Use:   use + " <url|path>",
		Short: "Send a " + method + " request",
		Long: fmt.Sprintf(`Send a %s request and print the response.

The target is either a full URL or a path resolved against --base-url
(or the baseURL from the config file).

Examples:
  restflow %s https://api.example.com/widgets
  restflow %s /widgets --base-url https://api.example.com
  restflow %s /widgets -q page=2 -H "X-Tenant: acme"
  restflow %s /widgets -d '{"name":"w"}' --extract id
  restflow %s /widgets -d @widget.json --watch`, method, use, use, use, use, use),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0])
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Request header as "Name: value" (repeatable)`)
	cmd.Flags().StringArrayVarP(&queryFlags, "query", "q", nil, `Query parameter as "name=value" (repeatable)`)
	cmd.Flags().StringVarP(&dataFlag, "data", "d", "", "Request body; literal text or @file")
	cmd.Flags().StringVar(&baseURLFlag, "base-url", getEnvString("RESTFLOW_BASE_URL", ""), "Base URL for path targets (env: RESTFLOW_BASE_URL)")
	cmd.Flags().StringVar(&bearerFlag, "bearer", getEnvString("RESTFLOW_BEARER", ""), "Bearer token for the Authorization header (env: RESTFLOW_BEARER)")
	cmd.Flags().StringVar(&basicFlag, "basic", "", `Basic auth credentials as "user:password"`)
	cmd.Flags().StringVar(&extractFlag, "extract", "", "Print only the value at this gjson path")
	cmd.Flags().StringVar(&schemaFlag, "schema", "", "Validate the response body against this JSON Schema file")
	cmd.Flags().IntVar(&repeatFlag, "repeat", 1, "Send the request N times and print latency statistics")
	cmd.Flags().BoolVar(&watchFlag, "watch", false, "Re-send whenever the @file body changes")
	cmd.Flags().BoolVar(&historyFlag, "history", false, "Record the exchange in the history store")
	cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Include response headers in output")
	cmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("RESTFLOW_NO_COLOR", false), "Disable colored output (env: RESTFLOW_NO_COLOR)")
	cmd.Flags().StringVar(&configFlag, "config", getEnvString("RESTFLOW_CONFIG", ""), "Path to config file (env: RESTFLOW_CONFIG)")
	cmd.Flags().IntVar(&timeoutFlag, "timeout", 0, "Request timeout in milliseconds (overrides config)")
	cmd.Flags().Float64Var(&rateLimitFlag, "rate-limit", 0, "Max requests per second (overrides config)")
}

func runRequest(cmd *cobra.Command, method, target string) error {
	cfg, err := loadMergedConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfigError)
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(verboseFlag || cfg.GetVerbose()),
		output.WithNoColor(noColorFlag || cfg.GetNoColor()),
	)

	client := buildClient(cfg)

	bodyFile := ""
	if strings.HasPrefix(dataFlag, "@") {
		bodyFile = strings.TrimPrefix(dataFlag, "@")
	}

	exchange := func(ctx context.Context) (*rest.Response, error) {
		req, err := buildRequest(client, method, target)
		if err != nil {
			return nil, err
		}
		resp, err := req.Do(ctx)
		if err == nil {
			recordHistory(cfg, method, req.URL(), resp)
		}
		return resp, err
	}

	if watchFlag {
		return runWatch(cmd, formatter, bodyFile, exchange)
	}

	ctx := context.Background()

	if repeatFlag > 1 {
		collector := metrics.NewCollector()
		for i := 0; i < repeatFlag; i++ {
			start := time.Now()
			resp, err := exchange(ctx)
			switch {
			case err != nil:
				collector.Record(time.Since(start), err)
			case !resp.IsSuccess():
				collector.Record(resp.Duration, errors.New(resp.Status))
			default:
				collector.Record(resp.Duration, nil)
			}
		}
		formatter.FormatSummary(collector.Summary())
		return nil
	}

	resp, err := exchange(ctx)
	if err != nil {
		formatter.FormatError(err)
		os.Exit(ExitNetworkError)
	}

	failed := !resp.IsSuccess()
	renderResponse(cmd, formatter, resp)

	if schemaFlag != "" {
		result, err := schema.Validate(resp.Body, schemaFlag)
		if err != nil {
			formatter.FormatError(err)
			os.Exit(ExitConfigError)
		}
		if !result.Valid {
			for _, msg := range result.Errors {
				fmt.Fprintf(os.Stderr, "schema: %s\n", msg)
			}
			failed = true
		}
	}

	if failed {
		os.Exit(ExitRequestFailed)
	}
	return nil
}

func loadMergedConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := &config.Config{
		BaseURL:   baseURLFlag,
		Timeout:   timeoutFlag,
		RateLimit: rateLimitFlag,
	}
	if historyFlag {
		overrides.History = config.BoolPtr(true)
	}
	return cfg.Merge(overrides), nil
}

func buildClient(cfg *config.Config) *rest.Client {
	opts := []rest.ClientOption{
		rest.WithTimeout(time.Duration(cfg.Timeout) * time.Millisecond),
		rest.WithUserAgent("restflow/" + version),
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, rest.WithDefaultHeaders(cfg.Headers))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, rest.WithRateLimit(cfg.RateLimit))
	}
	return rest.NewClient(cfg.BaseURL, opts...)
}

func buildRequest(client *rest.Client, method, target string) (*rest.Request, error) {
	var req *rest.Request
	switch method {
	case "GET":
		req = client.Get(target)
	case "POST":
		req = client.Post(target)
	case "PUT":
		req = client.Put(target)
	case "PATCH":
		req = client.Patch(target)
	case "DELETE":
		req = client.Delete(target)
	default:
		return nil, fmt.Errorf("unsupported method: %s", method)
	}

	for _, h := range headerFlags {
		key, value, err := parseHeaderFlag(h)
		if err != nil {
			return nil, err
		}
		req.Header(key, value)
	}

	for _, q := range queryFlags {
		key, value, err := parseQueryFlag(q)
		if err != nil {
			return nil, err
		}
		req.Query(key, value)
	}

	if bearerFlag != "" {
		req.BearerAuth(bearerFlag)
	}
	if basicFlag != "" {
		user, pass, ok := strings.Cut(basicFlag, ":")
		if !ok {
			return nil, fmt.Errorf(`invalid --basic value %q, expected "user:password"`, basicFlag)
		}
		req.BasicAuth(user, pass)
	}

	if dataFlag != "" {
		data, err := resolveBodyData(dataFlag)
		if err != nil {
			return nil, err
		}
		applyBody(req, data)
	}

	return req, nil
}

// parseHeaderFlag splits "Name: value" (the space is optional).
func parseHeaderFlag(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf(`invalid header %q, expected "Name: value"`, raw)
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

// parseQueryFlag splits "name=value".
func parseQueryFlag(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf(`invalid query parameter %q, expected "name=value"`, raw)
	}
	return key, value, nil
}

// resolveBodyData returns the literal flag value, or the contents of the
// referenced file for "@file" values.
func resolveBodyData(raw string) ([]byte, error) {
	if !strings.HasPrefix(raw, "@") {
		return []byte(raw), nil
	}

	path := strings.TrimPrefix(raw, "@")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read body file: %w", err)
	}
	return data, nil
}

// applyBody sends valid JSON through the JSON path (which sets
// Content-Type) and everything else through as raw text.
func applyBody(req *rest.Request, data []byte) {
	if json.Valid(data) {
		req.Body(json.RawMessage(data))
		return
	}
	req.Body(string(data))
}

func renderResponse(cmd *cobra.Command, formatter *output.ConsoleFormatter, resp *rest.Response) {
	if extractFlag != "" {
		result := resp.Get(extractFlag)
		if result.Exists() {
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
		}
		return
	}
	formatter.FormatResponse(resp)
}

func recordHistory(cfg *config.Config, method, url string, resp *rest.Response) {
	if !cfg.GetHistory() {
		return
	}

	path := cfg.HistoryPath
	if path == "" {
		path = history.DefaultPath()
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Save(history.Entry{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		DurationMs: resp.DurationMs(),
		Size:       int64(len(resp.Body)),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

func runWatch(cmd *cobra.Command, formatter *output.ConsoleFormatter, bodyFile string, exchange func(context.Context) (*rest.Response, error)) error {
	if bodyFile == "" {
		return fmt.Errorf("--watch requires a file body (-d @file)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	send := func() {
		resp, err := exchange(ctx)
		if err != nil {
			formatter.FormatError(err)
			return
		}
		renderResponse(cmd, formatter, resp)
	}

	send()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(bodyFile)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", bodyFile, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", bodyFile)

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && filepath.Clean(event.Name) == filepath.Clean(bodyFile) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-sending...\n\n", event.Name)
					send()
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			formatter.FormatError(err)

		case <-ctx.Done():
			return nil
		}
	}
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
