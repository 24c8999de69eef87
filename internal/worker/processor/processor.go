package processor

import (
	"context"
	"fmt"
	"time"

	"veoworker/internal/pkg/errors"
	"veoworker/internal/pkg/logger"
	"veoworker/internal/ports"
)

// writeTimeout bounds the outcome writes of a row, which outlive a
// canceled scan.
const writeTimeout = 15 * time.Second

type Deps struct {
	Sheet     ports.Sheet
	Generator ports.VideoGenerator
	// MaxJobsPerRun caps successful generations per invocation (default 1).
	MaxJobsPerRun int
	Now           func() time.Time
	Location      *time.Location
	Log           *logger.Logger
}

type Processor struct {
	sheet     ports.Sheet
	generator ports.VideoGenerator
	maxJobs   int
	now       func() time.Time
	loc       *time.Location
	log       *logger.Logger
}

// Summary reports one scan.
type Summary struct {
	Processed int
	Attempted int
	Message   string
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}

	p := &Processor{
		sheet:     d.Sheet,
		generator: d.Generator,
		maxJobs:   d.MaxJobsPerRun,
		now:       d.Now,
		loc:       d.Location,
		log:       log.WithComponent("processor"),
	}
	if p.maxJobs <= 0 {
		p.maxJobs = 1
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.loc == nil {
		p.loc = parisLocation()
	}
	return p
}

// ProcessSheet scans the sheet top to bottom and generates videos for
// eligible rows until maxJobs of them succeeded. Per-row failures are
// written into the row's status cell and never abort the scan.
func (p *Processor) ProcessSheet(ctx context.Context) (*Summary, error) {
	log := p.log.FromContext(ctx)

	// 1. Read the whole range
	rows, err := p.sheet.ReadRows(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "processor.read", "failed to read sheet")
	}
	if len(rows) <= 1 {
		log.Info("no rows to process")
		return &Summary{Message: "Aucune vidéo en attente"}, nil
	}

	// 2. Resolve columns from the header
	cols, err := ResolveColumns(rows[0])
	if err != nil {
		log.Error("missing column", "error", err.Error())
		return nil, err
	}

	// 3. Scan data rows; spreadsheet numbering puts the header at row 1
	sum := &Summary{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if !cols.Eligible(row) {
			continue
		}
		if ctx.Err() != nil {
			log.Warn("scan interrupted", "row", rowNum, "error", ctx.Err().Error())
			break
		}

		sum.Attempted++
		if p.processRow(ctx, cols, rowNum, row) {
			sum.Processed++
		}
		if sum.Processed >= p.maxJobs {
			break
		}
	}

	sum.Message = fmt.Sprintf("%d vidéo(s) traitée(s)", sum.Processed)
	log.Info("scan completed",
		"rows", len(rows)-1,
		"attempted", sum.Attempted,
		"videos_processed", sum.Processed,
	)
	return sum, nil
}

// processRow runs one job and reports whether it succeeded.
func (p *Processor) processRow(ctx context.Context, cols *Columns, rowNum int, row []string) bool {
	log := p.log.FromContext(ctx).WithRow(rowNum)

	prompt := row[cols.Prompt]
	format := cell(row, cols.Format, DefaultFormat)

	log.Info("generating video", "prompt", truncateRunes(prompt, 50), "format", format)

	out := p.generate(ctx, prompt, format)

	// The outcome is written even when ctx ended during generation.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	switch out.Kind {
	case ports.OutcomeSuccess:
		if err := p.markGenerated(ctx, cols, rowNum, out.URI); err != nil {
			log.Error("failed to record generated video", "error", err.Error(), "uri", out.URI)
			p.writeStatus(ctx, log, cols, rowNum, ErrorStatus(err.Error()))
			return false
		}
		if cols.GeneratedAt >= 0 {
			if err := p.sheet.WriteCell(ctx, rowNum, cols.GeneratedAt, FormatGeneratedAt(p.now(), p.loc)); err != nil {
				log.Warn("failed to write generation date", "error", err.Error())
			}
		}
		log.Info("video generated", "uri", out.URI)
		return true

	case ports.OutcomeFailure:
		log.Error("video generation error", "error", out.Message)
		p.writeStatus(ctx, log, cols, rowNum, ErrorStatus(out.Message))
		return false

	default:
		log.Warn("video generation returned no result")
		p.writeStatus(ctx, log, cols, rowNum, StatusGenerationError)
		return false
	}
}

// generate calls the generator. A panic becomes a Failure carrying the
// panic value.
func (p *Processor) generate(ctx context.Context, prompt, format string) (out ports.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = ports.Failure(fmt.Sprint(r))
		}
	}()
	return p.generator.Generate(ctx, prompt, format)
}

// markGenerated writes the status then the URL. Writes are independent: a
// failure after the status write leaves the row marked generated without a
// URL until the error status overwrites it.
func (p *Processor) markGenerated(ctx context.Context, cols *Columns, rowNum int, uri string) error {
	if err := p.sheet.WriteCell(ctx, rowNum, cols.Status, StatusGenerated); err != nil {
		return err
	}
	return p.sheet.WriteCell(ctx, rowNum, cols.URL, uri)
}

func (p *Processor) writeStatus(ctx context.Context, log *logger.Logger, cols *Columns, rowNum int, status string) {
	if err := p.sheet.WriteCell(ctx, rowNum, cols.Status, status); err != nil {
		log.Error("failed to write status", "status", status, "error", err.Error())
	}
}
