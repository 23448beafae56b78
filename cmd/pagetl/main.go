// Command pagetl translates HTML pages and serves click-to-translate pages.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ZaguanLabs/pagetl"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = pagetl.Version
	commit    = pagetl.GitCommit
	buildDate = pagetl.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	provider   string
	apiKey     string
	endpoint   string
	sourceLang string
	cacheType  string
	redisURL   string
	retries    int
	rpm        int
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   pagetl.Name,
		Short: pagetl.Description,
		Long: `pagetl translates the content of an HTML page through a translation API.

Commands:
  translate   Translate an HTML file once and print the result
  serve       Serve a page whose translate button works over HTTP
  version     Show version information

Providers:
  google   Google Cloud Translation v2 (GOOGLE_TRANSLATE_API_KEY)
  openai   OpenAI chat completions (OPENAI_API_KEY)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file (default: ./pagetl.yaml when present)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&g.provider, "provider", "", "Translation provider: google or openai")
	pf.StringVar(&g.apiKey, "api-key", "", "API key for the selected provider")
	pf.StringVar(&g.endpoint, "endpoint", "", "Translation endpoint (google) or base URL (openai)")
	pf.StringVar(&g.sourceLang, "source", "", "Source language code (default: auto-detect)")
	pf.StringVar(&g.cacheType, "cache", "", "Cache: none, memory or redis")
	pf.StringVar(&g.redisURL, "redis-url", "", "Redis URL for --cache redis")
	pf.IntVar(&g.retries, "retries", -1, "Retries on transient failures (default from config: 0)")
	pf.IntVar(&g.rpm, "rpm", -1, "Requests per minute limit, 0 disables (default from config)")

	root.AddCommand(
		newTranslateCmd(g),
		newServeCmd(g),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", pagetl.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", buildDate)
			}
		},
	}
}
