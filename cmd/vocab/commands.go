package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/vibevocab/internal/app"
	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/importer"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
	"github.com/heartmarshall/vibevocab/internal/wordlist"
)

// --- serve ---

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return app.Serve(cmd.Context(), cfg, app.NewLogger(cfg.Log))
		},
	}
}

// --- mcp ---

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run the MCP server over stdin/stdout.

Logs go to stderr. Without --session or mcp.session_id the notebook
only lives for this run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return a.ServeMCP(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// --- lookup ---

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var (
		language string
		strict   bool
		save     bool
		tags     string
	)

	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look up a word and print its entry as JSON",
		Long: `Look up a word and print its entry as JSON.

Examples:
  vocab lookup serendipity
  vocab lookup recieve --lang ja
  vocab lookup ephemeral --save --tags Daily,Work --session <uuid>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if language == "" {
				language = a.Lookup.DefaultLanguage()
			}
			in := lookup.Input{Query: args[0], Language: language}

			// Saving needs a real entry, so it never accepts a fallback card.
			var res *domain.LookupResult
			if strict || save {
				res, err = a.Lookup.Lookup(cmd.Context(), in)
			} else {
				res, err = a.Lookup.LookupOrFallback(cmd.Context(), in)
			}
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			if notice := res.CorrectionNotice(); notice != "" {
				printWarning(stderr, "%s", notice)
			}
			if res.Fallback {
				printWarning(stderr, "dictionary unavailable; showing a fallback card")
			}

			if save {
				ctx, pinned := sessionContext(cmd.Context(), a.Config)
				if !pinned {
					printWarning(stderr, "no --session given; the word is saved to a throwaway notebook")
				}
				saved, err := a.Notebook.Save(ctx, notebook.SaveInput{
					Word:  res.Entry.Word(),
					Entry: res.Entry,
					Tags:  config.ParseList(tags),
				})
				if err != nil {
					return err
				}
				printSuccess(stderr, "Saved %q", saved.Word)
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&language, "lang", "", "output language (default is lookup.default_language)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of returning a fallback card")
	cmd.Flags().BoolVar(&save, "save", false, "save the word to the notebook")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags for --save")
	return cmd
}

// --- import ---

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		file     string
		words    string
		language string
		tags     string
		commit   bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Resolve a batch of words and optionally save them",
		Long: `Resolve a batch of words and optionally save them.

Examples:
  vocab import --words "cat, dog; bird"
  vocab import --file ./list.txt --tags Travel --commit --session <uuid>
  vocab import --file ./chapter1.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := readWordList(file, words)
			if err != nil {
				return err
			}

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if language == "" {
				language = a.Lookup.DefaultLanguage()
			}

			ctx, pinned := sessionContext(cmd.Context(), a.Config)
			stderr := cmd.ErrOrStderr()
			if commit && !pinned {
				printWarning(stderr, "no --session given; words are saved to a throwaway notebook")
			}

			res, err := a.Importer.Import(ctx, importer.Input{
				Words:    list,
				Language: language,
				Tags:     config.ParseList(tags),
				Commit:   commit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range res.Entries {
				fmt.Fprintf(out, "%s\t%s\n", e.Word, firstMeaning(e.Entry))
			}

			printStatus(stderr, "requested", "%d", res.Requested)
			printStatus(stderr, "existing", "%d", res.Existing)
			printStatus(stderr, "failed", "%d", res.Failed)
			if res.Committed {
				printSuccess(stderr, "Saved %d words", len(res.Entries))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "word list file (text or PDF)")
	cmd.Flags().StringVar(&words, "words", "", "words separated by commas, semicolons or tabs")
	cmd.Flags().StringVar(&language, "lang", "", "output language (default is lookup.default_language)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags (default is import.default_tag)")
	cmd.Flags().BoolVar(&commit, "commit", false, "save the resolved words to the notebook")
	return cmd
}

func readWordList(file, words string) ([]string, error) {
	switch {
	case file != "" && words != "":
		return nil, fmt.Errorf("--file and --words are mutually exclusive")
	case file != "":
		return wordlist.ReadFile(file)
	case words != "":
		return wordlist.Parse(strings.NewReader(words))
	default:
		return nil, fmt.Errorf("one of --file or --words is required")
	}
}

func firstMeaning(e domain.LexicalEntry) string {
	if len(e.Meanings) == 0 {
		return ""
	}
	return e.Meanings[0].Meaning
}

// --- scan ---

func newScanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Print the words recognized in an image",
		Long: `Print the words recognized in an image, one per line.

The output can be piped into a file for "vocab import --file".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			if info.Size() > a.Scan.MaxBytes() {
				return fmt.Errorf("image is %d bytes; the limit is %d", info.Size(), a.Scan.MaxBytes())
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			words, err := a.Scan.ExtractWords(cmd.Context(), data, "")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range words {
				fmt.Fprintln(out, w)
			}
			return nil
		},
	}
}

// --- migrate ---

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the notebook database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			v, err := app.Migrate(cmd.Context(), cfg, app.NewLogger(cfg.Log))
			if err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "%s schema at version %d", cfg.Notebook.Storage, v)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			statuses, err := app.MigrationStatus(cmd.Context(), cfg, app.NewLogger(cfg.Log))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range statuses {
				applied := "-"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(out, "%05d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
			}
			return nil
		},
	}

	cmd.AddCommand(up, status)
	return cmd
}

// --- purge ---

func newPurgeCmd(opts *rootOptions) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete stored notebooks that have been idle too long",
		Long: `Delete stored notebooks that have been idle too long.

Intended to be invoked by an external cron job.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			n, err := app.Purge(cmd.Context(), cfg, app.NewLogger(cfg.Log), olderThan)
			if err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Purged %d entries from notebooks idle for more than %s", n, olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "idle time after which a notebook is deleted")
	return cmd
}
