// Package cmd implements the CLI application to value a portfolio document.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/worth"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands lists every subcommand of the application. A main package
// registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&snapshotCmd{},
	&snapshotsCmd{},
	&rmSnapshotCmd{},
	&returnsCmd{},
	&historyCmd{},
	&forecastCmd{},
	&chartCmd{},
	&accountsCmd{},
	&fmtCmd{},
	&topicCmd{},
}

// As a CLI application the lifecycle is very short lived, so globals are fine.

var documentFile = flag.String("f", "", "path to the portfolio document (JSONL format)")
var verbose = flag.Bool("v", false, "enable verbose logging")

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(zerolog.WarnLevel)
}

// SetupLogging applies the verbosity flag; call after flag.Parse.
func SetupLogging() {
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}
}

// DecodeDocument loads the portfolio document selected by flags and config.
// A missing file yields an empty document, so every command works on a fresh
// setup.
func DecodeDocument() (*worth.BaseModel, error) {
	path := DocumentPath()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		logger.Warn().Str("file", path).Msg("document does not exist, starting empty")
		return &worth.BaseModel{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open document %q: %w", path, err)
	}
	defer f.Close()

	m, err := worth.DecodeModel(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode document %q: %w", path, err)
	}
	logger.Debug().Str("file", path).
		Int("snapshots", len(m.ValuationSnapshots)).
		Int("holdings", len(m.Holdings)).
		Msg("document loaded")
	return m, nil
}

// EncodeDocument writes the document back, atomically via a temp file rename.
func EncodeDocument(m *worth.BaseModel) error {
	path := DocumentPath()
	tmp, err := os.CreateTemp(".", ".worth-*")
	if err != nil {
		return fmt.Errorf("could not create temp document: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := worth.EncodeModel(tmp, m); err != nil {
		tmp.Close()
		return fmt.Errorf("could not encode document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace document %q: %w", path, err)
	}
	logger.Debug().Str("file", path).Msg("document saved")
	return nil
}

// NewAppContext builds the computation context from the document and config.
func NewAppContext(m *worth.BaseModel) *worth.Context {
	cfg := Config()
	tz, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Warn().Str("timezone", cfg.TimeZone).Msg("unknown time zone, using local")
		tz = time.Local
	}
	return worth.NewContext(m, worth.ModelSettings{ActiveStrategyID: cfg.ActiveStrategy}, tz)
}
