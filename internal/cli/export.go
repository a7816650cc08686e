// internal/cli/export.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/law-makers/plexport/internal/app"
	"github.com/law-makers/plexport/internal/auth"
	"github.com/law-makers/plexport/internal/config"
	"github.com/law-makers/plexport/internal/engine"
	"github.com/law-makers/plexport/internal/engine/dynamic"
	"github.com/law-makers/plexport/internal/runctx"
	"github.com/law-makers/plexport/internal/settings"
	"github.com/law-makers/plexport/internal/ui"
	"github.com/law-makers/plexport/internal/utils/output"
	urlutil "github.com/law-makers/plexport/internal/utils/url"
	"github.com/law-makers/plexport/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	exportFormat  string
	exportFields  string
	exportSave    bool
	exportSession string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <playlist-url>",
	Short: "Scroll a playlist and export its tracks",
	Long: `Opens the playlist page, scrolls its track grid from top to bottom and
writes one row per track, ordered by the position shown in the grid.

The grid only renders the rows near the viewport, so the page is scrolled in
overlapping steps and every step's rows are collected. Each track is kept
once, as first seen.

Columns come from the saved settings unless --fields is given.`,
	Example: `  # Export with the saved columns to spotify_playlist.csv
  $ plexport export https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M

  # Only titles and links, as JSON
  $ plexport export https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M --fields=index,title,url -o tracks.json

  # Use a saved login and watch the browser work
  $ plexport export https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M --session=spotify --headless=false`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file or directory (default spotify_playlist.csv)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv, json, md (default from the output extension)")
	exportCmd.Flags().StringVar(&exportFields, "fields", "", "Comma-separated columns for this run (e.g. index,title,url or all)")
	exportCmd.Flags().BoolVar(&exportSave, "save", false, "Save --fields as the default columns")
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "Name of a saved login session to use")
}

func runExport(cmd *cobra.Command, args []string) error {
	defer closeApp(cmd)

	pageURL := args[0]
	if err := urlutil.ValidateURL(pageURL); err != nil {
		return err
	}
	if id, ok := urlutil.PlaylistID(pageURL); ok {
		log.Debug().Str("playlist", id).Msg("Playlist URL recognized")
	} else {
		log.Warn().Str("url", pageURL).Msg("URL does not look like a playlist page")
	}

	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	cfg := a.Config

	runCfg, err := resolveColumns(a.Settings)
	if err != nil {
		return err
	}
	log.Debug().Str("columns", settings.Describe(runCfg)).Msg("Run configuration")

	sink, err := newSink(cfg)
	if err != nil {
		return err
	}

	cookies, err := sessionCookies(a)
	if err != nil {
		return err
	}

	interactive := cfg.LogLevel != "error" && !cfg.JSONLog

	browser, err := a.EnsureBrowser(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	stop := ui.StartSpinner(os.Stderr, "Opening "+pageURL, interactive)
	openCtx, cancel := context.WithTimeout(browser.Context(), cfg.PageTimeout)
	page, err := dynamic.Open(openCtx, pageURL, dynamic.PageOptions{
		GridWait:      cfg.GridWaitTime,
		NavigateTries: cfg.NavigateTries,
		Cookies:       cookies,
		MinGridWidth:  cfg.MinGridWidth,
		LibraryLabel:  cfg.LibraryGridLabel,
	})
	cancel()
	stop()
	if err != nil {
		return err
	}

	alerter := ui.Alerters(ui.TerminalAlerter{W: os.Stderr})
	if !browser.Headless() {
		alerter = ui.Alerters(alerter, page)
	}

	progress := ui.NewProgress(os.Stderr, interactive)
	controller := a.NewController(pageURL, page, sink,
		engine.WithAlerter(ui.Once(alerter)),
		engine.WithObserver(progress.Observe),
	)

	ctx := runctx.WithRun(browser.Context(), pageURL)
	log.Debug().Str("run_id", runctx.ID(ctx)).Str("url", pageURL).Msg("Starting export")

	res, err := controller.Handle(ctx, engine.Command{Action: engine.ActionStart, Config: runCfg})
	progress.Finish()
	if err != nil {
		if engine.CodeOf(err) == engine.ErrCodeNotFound && !browser.Headless() {
			fmt.Fprintln(os.Stderr, ui.Info("Press Enter to close the browser..."))
			fmt.Scanln()
		}
		return runctx.NewRunError(ctx, err)
	}

	printSummary(res, sink.Written())
	return nil
}

// resolveColumns picks the run's columns from --fields or the saved settings
func resolveColumns(store *settings.Store) (models.RunConfiguration, error) {
	if exportFields == "" {
		if exportSave {
			return models.RunConfiguration{}, fmt.Errorf("--save requires --fields")
		}
		cfg, err := store.Load()
		if err != nil {
			return cfg, err
		}
		if len(cfg.Columns()) == 0 {
			return cfg, fmt.Errorf("every column is disabled; enable some with \"plexport settings set\"")
		}
		return cfg, nil
	}

	cfg, err := settings.ParseFieldList(exportFields)
	if err != nil {
		return cfg, err
	}
	if exportSave {
		if err := store.Save(cfg); err != nil {
			return cfg, err
		}
		log.Info().Str("path", store.Path()).Msg("Columns saved")
	}
	return cfg, nil
}

// newSink builds the file sink from -o/--format. PLEXPORT_OUTPUT replaces the
// suggested filename when -o is not given.
func newSink(cfg *config.Config) (*output.FileSink, error) {
	sink := &output.FileSink{Path: exportOutput}
	if sink.Path == "" && cfg.OutputFile != config.DefaultOutputFile {
		sink.Path = cfg.OutputFile
	}
	if exportFormat != "" {
		format, err := output.ParseFormat(exportFormat)
		if err != nil {
			return nil, err
		}
		sink.Format = format
	}
	return sink, nil
}

// sessionCookies loads --session, if given
func sessionCookies(a *app.Application) ([]*network.CookieParam, error) {
	if exportSession == "" {
		return nil, nil
	}

	store, err := a.Sessions()
	if err != nil {
		return nil, err
	}
	session, err := store.Load(exportSession)
	if errors.Is(err, auth.ErrSessionExpired) {
		return nil, fmt.Errorf("session '%s' expired on %s; log in again with \"plexport login\"",
			exportSession, session.ExpiresAt.Format(time.RFC1123))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session '%s': %w", exportSession, err)
	}

	cookies := session.CookieParams()
	log.Debug().Str("session", exportSession).Int("cookies", len(cookies)).Msg("Session cookies prepared")
	return cookies, nil
}

func printSummary(res *engine.Result, path string) {
	fmt.Fprintf(os.Stderr, "%s %s\n",
		ui.Success(fmt.Sprintf("✓ Exported %d tracks", len(res.Records))),
		ui.Bold(path))
	fmt.Fprintf(os.Stderr, "%s\n", ui.Info(fmt.Sprintf("  %d cycles, finished at %s (%s)",
		res.Cycles, res.Reason, res.Elapsed.Round(time.Millisecond))))
}
