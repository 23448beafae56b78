package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaguanLabs/pagetl"
	"github.com/ZaguanLabs/pagetl/page"
	"github.com/ZaguanLabs/pagetl/trigger"
	"github.com/spf13/cobra"
)

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Content    string `json:"content"`
	TargetLang string `json:"target_lang"`
	Direction  string `json:"dir"`
	Cached     bool   `json:"cached"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

func newTranslateCmd(g *globalFlags) *cobra.Command {
	var (
		targetLang string
		output     string
		contentID  string
		jsonOutput bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate an HTML page once",
		Long: `Translate an HTML page and write the translated page.

The whole <html> element is sent unless --content names an element, in which
case only that element's inner HTML is translated. The language radio group,
when present, is left with the target language checked. Reads stdin when no
file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetLang == "" {
				return fmt.Errorf("--lang is required")
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if contentID != "" {
				cfg.Page.ContentID = contentID
			}
			logger := cfg.Log.NewLogger(cmd.ErrOrStderr())

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			input, inputName, err := readInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}

			doc, err := page.Parse(input)
			if err != nil {
				return err
			}

			tr, closer, err := newTranslator(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closer.Close()

			h := trigger.NewHandler(doc, tr, triggerConfig(cfg),
				trigger.WithLogger(logger),
				trigger.WithContext(cmd.Context()),
			)
			defer h.Close()

			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "Translating %s to %s...\n", inputName, targetLang)
			}

			start := time.Now()
			out, err := h.Translate(targetLang)
			if err != nil {
				return err
			}
			if out.Err != nil {
				return fmt.Errorf("translation failed: %w", out.Err)
			}
			elapsed := time.Since(start)

			markup, err := doc.HTML()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(JSONOutput{
					Content:    markup,
					TargetLang: out.TargetLang,
					Direction:  pagetl.GetDirection(out.TargetLang),
					Cached:     out.Cached,
					ElapsedMs:  elapsed.Milliseconds(),
				})
			}

			fmt.Fprint(w, markup)
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nDone in %v\n", elapsed.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language code (e.g. ja, es, zh-CN)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&contentID, "content", "", "Translate only the element with this id")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	_ = cmd.RegisterFlagCompletionFunc("lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return pagetl.SupportedLanguages(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
