package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/plexport/pkg/models"
	"github.com/rs/zerolog/log"
)

// SuggestedFilename is the export's fixed default name. Existing files are overwritten.
const SuggestedFilename = "spotify_playlist.csv"

// FileSink writes the finished export to disk
type FileSink struct {
	// Path is a file path or an existing directory; empty means the
	// suggested filename in the working directory
	Path string
	// Format overrides the format implied by the file extension
	Format Format

	written string
}

// Export renders records and writes them in one shot. There is no retry.
func (s *FileSink) Export(ctx context.Context, records []models.TrackRecord, cfg models.RunConfiguration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, format := s.resolve()
	payload, err := Render(format, records, cfg)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}

	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	s.written = path

	log.Info().
		Str("file", path).
		Str("format", string(format)).
		Int("records", len(records)).
		Msg("Export saved")
	return nil
}

// Written returns the path of the last successful export
func (s *FileSink) Written() string {
	return s.written
}

func (s *FileSink) resolve() (string, Format) {
	format := s.Format
	path := s.Path

	if path == "" || isDir(path) {
		if format == "" {
			format = FormatCSV
		}
		name := strings.TrimSuffix(SuggestedFilename, filepath.Ext(SuggestedFilename)) + format.Extension()
		return filepath.Join(path, name), format
	}
	if format == "" {
		format = FormatFromPath(path)
	}
	return path, format
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
