package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"wallpapers/internal/catalog"
	"wallpapers/internal/config"
	"wallpapers/internal/gateway"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	api     string
	verbose bool
	noColor bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "gallery",
		Short:         "Browse and upload wallpapers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return opts.init(cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.api, "api", "", "API base URL (default $GALLERY_API or http://localhost:3001)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newListCmd(opts),
		newUploadCmd(opts),
		newCategoriesCmd(),
	)
	return root
}

func newListCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallpapers, optionally in one category",
		Long: `List wallpapers, newest first.

When the API cannot be reached the bundled sample wallpapers are shown.

Examples:
  gallery list
  gallery list --category Pastel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("category")
			category, err := catalog.ParseCategory(name)
			if err != nil {
				return errors.Wrapf(err, "--category %q", name)
			}

			store := opts.store()
			store.Load(cmd.Context())

			out := opts.printer(cmd)
			if advisory := store.Advisory(); advisory != "" {
				out.warning("%s", advisory)
			}
			return printWallpapers(cmd, store.FilterBy(category))
		},
	}
	cmd.Flags().String("category", string(catalog.All), "category filter")
	return cmd
}

func newUploadCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a wallpaper image",
		Long: `Upload a wallpaper image.

Examples:
  gallery upload ./dusk.jpg --title "Dusk" --author "Ana" --category Pastel`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			author, _ := cmd.Flags().GetString("author")
			category, _ := cmd.Flags().GetString("category")

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(err, "read image")
			}

			u := catalog.Upload{
				File:        data,
				Filename:    filepath.Base(path),
				ContentType: contentType(path, data),
				Title:       title,
				Author:      author,
				Category:    catalog.Category(category),
			}
			if err := u.Validate(); err != nil {
				return err
			}

			store := opts.store()
			store.Load(cmd.Context())

			out := opts.printer(cmd)
			w, err := store.Upload(cmd.Context(), u)
			if err != nil {
				if ue, ok := gateway.AsUploadError(err); ok && ue.Details != "" {
					out.status("details", "%s", ue.Details)
				}
				return err
			}

			out.success("Uploaded %s (%dx%d)", w.ID, w.Width, w.Height)
			out.status("url", "%s", w.URL)
			out.status(string(w.Category), "%d wallpapers", len(store.FilterBy(w.Category)))
			return nil
		},
	}
	cmd.Flags().String("title", "", "wallpaper title (required)")
	cmd.Flags().String("author", "", "author name (required)")
	cmd.Flags().String("category", "", "one of Abstract, Pastel, Minimalist, Interiors (required)")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the filter categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range catalog.FilterCategories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

// init fills in what the flags left unset from cfg. Logging is off unless
// --verbose is given, in which case it runs at debug level.
func (o *options) init(cfg config.Config) error {
	if o.api == "" {
		o.api = cfg.Client.BaseURL
	}

	o.logger = zap.NewNop()
	if !o.verbose {
		return nil
	}

	cfg.LogLevel = "debug"
	l, err := cfg.Logger()
	if err != nil {
		return errors.Wrap(err, "logger")
	}
	o.logger = l
	return nil
}

func (o *options) store() *catalog.Store {
	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	remote := gateway.New(o.api, &http.Client{Timeout: 30 * time.Second})
	return catalog.NewStore(remote, catalog.WithLogger(logger))
}

func (o *options) printer(cmd *cobra.Command) printer {
	return printer{w: cmd.ErrOrStderr(), noColor: o.noColor}
}

func printWallpapers(cmd *cobra.Command, s catalog.Snapshot) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tSIZE")
	for _, w := range s {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dx%d\n", w.ID, w.Title, w.Author, w.Category, w.Width, w.Height)
	}
	return tw.Flush()
}

func contentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
