package build

// Reference database build: reads every source table and writes them into a
// fresh SQLite destination.

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/teranos/xraydb/am"
	"github.com/teranos/xraydb/db"
	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/ixgest/chantler"
	"github.com/teranos/xraydb/ixgest/elam"
	"github.com/teranos/xraydb/ixgest/krause"
	"github.com/teranos/xraydb/ixgest/types"
	"github.com/teranos/xraydb/ixgest/waasmaier"
	"github.com/teranos/xraydb/logger"
	"github.com/teranos/xraydb/store"
)

const (
	hintForce  = "use --force to overwrite the existing database"
	hintSilent = "pass --silent to skip missing sources"
)

// Options control one build run.
type Options struct {
	// Destination overrides database.path when set
	Destination string
	Force       bool
	Silent      bool
	DryRun      bool
}

// Processor builds the reference database from the configured sources.
type Processor struct {
	cfg    *am.Config
	dest   string
	force  bool
	silent bool
	dryRun bool
	open   func(path string, log *zap.SugaredLogger) (*sql.DB, error)
	logger *zap.SugaredLogger
}

// Result represents the result of a build
type Result struct {
	Destination string         `json:"destination"`
	DryRun      bool           `json:"dry_run"`
	Skipped     bool           `json:"skipped"`
	Sources     []SourceResult `json:"sources"`
	TotalRows   int            `json:"total_rows"`
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
}

// SourceResult represents the result of ingesting a single source
type SourceResult struct {
	Name       string         `json:"name"`
	Label      string         `json:"label"`
	Path       string         `json:"path"`
	Skipped    bool           `json:"skipped"`
	Tables     map[string]int `json:"tables,omitempty"`
	Rows       int            `json:"rows"`
	DurationMS int64          `json:"duration_ms"`
}

// NewProcessor creates a build processor. Options override the matching
// config settings when set.
func NewProcessor(cfg *am.Config, opts Options, log *zap.SugaredLogger) *Processor {
	dest := opts.Destination
	if dest == "" {
		dest = cfg.GetDatabasePath()
	}
	return &Processor{
		cfg:    cfg,
		dest:   dest,
		force:  opts.Force || cfg.Build.Force,
		silent: opts.Silent || cfg.Build.Silent,
		dryRun: opts.DryRun,
		open:   db.Open,
		logger: logger.OrNop(log),
	}
}

// loaded is one source read into memory, ready to write.
type loaded struct {
	result  SourceResult
	records []store.Record
}

// Process runs the build. Every source is parsed before the destination is
// touched; a failed write removes the destination so no partial database
// remains. Each source is committed in its own transaction.
//
// When the Elam source is missing or the destination already exists and the
// processor is silent, the whole build is skipped without error.
func (p *Processor) Process(ctx context.Context) (*Result, error) {
	result := &Result{
		Destination: p.dest,
		DryRun:      p.dryRun,
		StartTime:   time.Now(),
	}
	finish := func(msg string) *Result {
		result.EndTime = time.Now()
		result.Message = msg
		return result
	}

	elamPath := p.cfg.ElamPath()
	if _, err := os.Stat(elamPath); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", elamPath)
		}
		if p.silent {
			result.Skipped = true
			p.logger.Infow("Elam source missing, build skipped", logger.FieldPath, elamPath)
			return finish("Elam source missing, nothing built"), nil
		}
		return nil, errors.WithHint(errors.Wrapf(errors.ErrSourceMissing, "%s", elamPath), hintSilent)
	}

	if !p.dryRun {
		skip, err := p.checkDestination()
		if err != nil {
			return nil, err
		}
		if skip {
			result.Skipped = true
			return finish("Destination exists, nothing built"), nil
		}
	}

	sources, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	if !p.dryRun {
		if err := p.write(ctx, sources); err != nil {
			return nil, err
		}
	}

	for _, s := range sources {
		result.Sources = append(result.Sources, s.result)
		result.TotalRows += s.result.Rows
	}
	result.Success = true

	msg := "Database built"
	if p.dryRun {
		msg = "Dry run, nothing written"
	}
	p.logger.Infow(msg,
		logger.FieldDestination, p.dest,
		logger.FieldTotalCount, result.TotalRows,
		logger.FieldDurationMS, time.Since(result.StartTime).Milliseconds(),
	)
	return finish(msg), nil
}

// checkDestination applies the overwrite policy before any work is done.
// It reports skip when the destination exists and the build should silently
// do nothing. With force an existing destination is left for write to remove.
func (p *Processor) checkDestination() (bool, error) {
	_, err := os.Stat(p.dest)
	switch {
	case os.IsNotExist(err):
		return false, nil
	case err != nil:
		return false, errors.Wrapf(err, "stat %s", p.dest)
	case p.force:
		return false, nil
	case p.silent:
		p.logger.Infow("Destination exists, build skipped", logger.FieldDestination, p.dest)
		return true, nil
	default:
		return false, errors.WithHint(errors.Wrapf(errors.ErrAlreadyExists, "%s", p.dest), hintForce)
	}
}

// load reads every source in build order. A missing auxiliary source is
// skipped with a warning when silent.
func (p *Processor) load(ctx context.Context) ([]loaded, error) {
	readers := map[string]struct {
		path string
		read func() ([]store.Record, error)
	}{
		types.Elam.Name:          {p.cfg.ElamPath(), p.readElam},
		types.Waasmaier.Name:     {p.cfg.WaasmaierPath(), p.readWaasmaier},
		types.KeskiRahkonen.Name: {p.cfg.KeskiRahkonenPath(), p.readKrause},
		types.ChantlerOrig.Name: {p.cfg.ChantlerPath(), func() ([]store.Record, error) {
			return p.readChantler(ctx, chantler.Orig)
		}},
		types.Chantler.Name: {p.cfg.ChantlerPath(), func() ([]store.Record, error) {
			return p.readChantler(ctx, chantler.Fine)
		}},
	}

	defs := types.All()
	out := make([]loaded, 0, len(defs))
	for _, def := range defs {
		step := readers[def.Name]
		log := logger.ChildLogger(p.logger, logger.FieldSource, def.Name)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		res := SourceResult{Name: def.Name, Label: def.Label, Path: step.path}

		records, err := step.read()
		if err != nil {
			if errors.IsSourceMissing(err) && p.silent {
				log.Warnw("Source missing, skipped",
					logger.FieldError, err.Error(),
				)
				res.Skipped = true
				out = append(out, loaded{result: res})
				continue
			}
			if errors.IsSourceMissing(err) {
				err = errors.WithHint(err, hintSilent)
			}
			return nil, errors.Wrapf(err, "%s", def.Name)
		}

		res.Tables = lo.CountValuesBy(records, func(r store.Record) string { return r.Table() })
		res.Rows = len(records)
		res.DurationMS = time.Since(start).Milliseconds()
		out = append(out, loaded{result: res, records: records})

		log.Debugw("Source loaded",
			logger.FieldRows, res.Rows,
			logger.FieldDurationMS, res.DurationMS,
		)
	}
	return out, nil
}

func (p *Processor) readElam() ([]store.Record, error) {
	in, err := elam.ReadFile(p.cfg.ElamPath())
	if err != nil {
		return nil, err
	}
	doc, err := elam.NewParser(p.logger.Named("elam")).ParseInput(in)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", in.Path)
	}
	return doc.Records(), nil
}

func (p *Processor) readWaasmaier() ([]store.Record, error) {
	path := p.cfg.WaasmaierPath()
	lines, err := types.ReadLines(path)
	if err != nil {
		return nil, err
	}
	recs, err := waasmaier.NewParser(p.logger.Named("waasmaier")).Parse(lines)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return toRecords(recs), nil
}

func (p *Processor) readKrause() ([]store.Record, error) {
	path := p.cfg.KeskiRahkonenPath()
	lines, err := types.ReadLines(path)
	if err != nil {
		return nil, err
	}
	recs, err := krause.NewParser(p.logger.Named("krause")).Parse(lines)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return toRecords(recs), nil
}

func (p *Processor) readChantler(ctx context.Context, v chantler.Variant) ([]store.Record, error) {
	parser := chantler.NewParser(p.logger.Named("chantler"), p.cfg.GetWorkers())
	recs, err := parser.Load(ctx, p.cfg.ChantlerPath(), v, p.cfg.GetChantlerElements())
	if err != nil {
		return nil, err
	}
	return toRecords(recs), nil
}

func toRecords[T store.Record](recs []T) []store.Record {
	return lo.Map(recs, func(r T, _ int) store.Record { return r })
}

// write replaces the destination and commits each source in turn.
// On any failure the destination file is removed.
func (p *Processor) write(ctx context.Context, sources []loaded) (err error) {
	if err := os.Remove(p.dest); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", p.dest)
	}

	database, err := p.open(p.dest, p.logger.Named("db"))
	if err != nil {
		// sql.Open may have created the file before a PRAGMA failed
		p.discard()
		return err
	}
	defer func() {
		if cerr := database.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close database")
		}
		if err != nil {
			p.discard()
		}
	}()

	st := store.NewSQLStore(database, p.logger.Named("store"))
	if err := st.CreateSchema(ctx); err != nil {
		return err
	}

	for _, s := range sources {
		if s.result.Skipped {
			continue
		}
		if err := commitSource(ctx, st, s); err != nil {
			return errors.Wrapf(err, "write %s", s.result.Name)
		}
	}
	return nil
}

func commitSource(ctx context.Context, st *store.SQLStore, s loaded) error {
	sess, err := st.Begin(ctx)
	if err != nil {
		return err
	}
	if err := store.AppendAll(ctx, sess, s.records...); err != nil {
		_ = sess.Rollback()
		return err
	}
	return sess.Commit()
}

// discard removes a partially written destination and its journal.
func (p *Processor) discard() {
	for _, path := range []string{p.dest, p.dest + "-journal"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warnw("Failed to remove partial database",
				logger.FieldPath, path,
				logger.FieldError, err.Error(),
			)
		}
	}
}
