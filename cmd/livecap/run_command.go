package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"livecap/internal/config"
	"livecap/internal/engine"
	"livecap/internal/logging"
	"livecap/internal/snapshot"
	"livecap/internal/store"
	"livecap/internal/transcript"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		titleFlag  string
		sourceFlag string
		inputFlag  string
		modeFlag   string
		followFlag bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Capture caption snapshots into a new session",
		Long: `Run starts a capture session: snapshots of the caption region are read
from stdin or a file, deduplicated, and committed to the session database.
With --follow the input file is polled and re-read as it changes, which
suits captures that overwrite a single file in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runCapture(cmd, cfg, captureOptions{
				title:  strings.TrimSpace(titleFlag),
				source: strings.TrimSpace(sourceFlag),
				input:  strings.TrimSpace(inputFlag),
				mode:   modeFlag,
				follow: followFlag,
			})
		},
	}

	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Session title")
	cmd.Flags().StringVar(&sourceFlag, "source", "", "Capture source description (URL, window title, ...)")
	cmd.Flags().StringVarP(&inputFlag, "input", "i", "-", "Snapshot input: a file path or - for stdin")
	cmd.Flags().StringVar(&modeFlag, "mode", "line", "Snapshot split mode: line or block")
	cmd.Flags().BoolVarP(&followFlag, "follow", "f", false, "Poll the input file for changes instead of reading it once")
	return cmd
}

type captureOptions struct {
	title  string
	source string
	input  string
	mode   string
	follow bool
}

func runCapture(cmd *cobra.Command, cfg *config.Config, opts captureOptions) error {
	mode, err := snapshot.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.follow && (opts.input == "" || opts.input == "-") {
		return errors.New("--follow requires --input to name a file")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire capture lock: %w", err)
	}
	if !locked {
		return errors.New("another capture session is already running")
	}
	defer func() { _ = lock.Unlock() }()

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "livecap.log")},
	})
	if err != nil {
		return err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	title := opts.title
	if title == "" {
		title = cfg.Capture.DefaultTitle
	}
	if title == "" {
		title = time.Now().Format("2006-01-02 15:04")
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := st.CreateSession(runCtx, title, opts.source)
	if err != nil {
		return err
	}
	logger.Info("session started",
		logging.String(logging.FieldSessionID, session.ID),
		logging.String("title", title))

	eng := engine.New(engine.FromConfig(cfg), logger)
	sink := newStoreSink(cmd.OutOrStdout(), st, session.ID, logger)

	snapshots := make(chan string, 64)
	producerErr := make(chan error, 1)
	go func() {
		producerErr <- produceSnapshots(runCtx, cfg, opts, mode, logger)(snapshots)
	}()

	runErr := eng.Run(runCtx, snapshots, sink)

	if err := st.EndSession(context.Background(), session.ID, time.Now()); err != nil {
		logger.Warn("end session", logging.Error(err))
	}

	totals := eng.Totals()
	logger.Info("session finished",
		logging.String(logging.FieldSessionID, session.ID),
		logging.Int(logging.FieldEntryCount, totals.Entries),
		logging.Int("chars", totals.Chars),
		logging.Int("words", totals.Words))

	if sink.err != nil {
		return sink.err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if err := <-producerErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func produceSnapshots(ctx context.Context, cfg *config.Config, opts captureOptions, mode snapshot.Mode, logger *slog.Logger) func(chan string) error {
	return func(out chan string) error {
		if opts.follow {
			interval := time.Duration(cfg.Capture.PollIntervalMillis) * time.Millisecond
			return snapshot.Poll(ctx, opts.input, interval, logging.NewComponentLogger(logger, "snapshot"), out)
		}

		var reader io.Reader = os.Stdin
		if opts.input != "" && opts.input != "-" {
			file, err := os.Open(opts.input)
			if err != nil {
				close(out)
				return fmt.Errorf("open input: %w", err)
			}
			defer file.Close()
			reader = file
		}
		return snapshot.Stream(ctx, reader, mode, out)
	}
}

// storeSink persists entry transitions and echoes closed entries. The open
// entry is upserted on every update so a crash loses at most the delta in
// flight.
type storeSink struct {
	out     io.Writer
	store   *store.Store
	session string
	logger  *slog.Logger

	seqs    map[*transcript.Entry]int
	nextSeq int
	err     error
}

func newStoreSink(out io.Writer, st *store.Store, sessionID string, logger *slog.Logger) *storeSink {
	return &storeSink{
		out:     out,
		store:   st,
		session: sessionID,
		logger:  logging.NewComponentLogger(logger, "sink"),
		seqs:    map[*transcript.Entry]int{},
	}
}

func (s *storeSink) EntryUpdated(entry *transcript.Entry) {
	s.persist(entry)
}

func (s *storeSink) EntryClosed(entry *transcript.Entry) {
	s.persist(entry)
	delete(s.seqs, entry)
	fmt.Fprintf(s.out, "[%s] %s\n", entry.StartTime.Local().Format("15:04:05"), entry.Text)
}

func (s *storeSink) persist(entry *transcript.Entry) {
	if entry == nil {
		return
	}
	seq, ok := s.seqs[entry]
	if !ok {
		seq = s.nextSeq
		s.nextSeq++
		s.seqs[entry] = seq
	}
	// Persistence outlives the run context so the final flush still lands
	// after an interrupt.
	if err := s.store.AppendEntry(context.Background(), s.session, seq, entry); err != nil {
		if s.err == nil {
			s.err = err
		}
		s.logger.Error("persist entry", logging.Int("seq", seq), logging.Error(err))
	}
}
