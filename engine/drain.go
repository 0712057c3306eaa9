package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dogechain-lab/elasticdb/elastic"
	"github.com/dogechain-lab/elasticdb/helper/telemetry"
	"github.com/dogechain-lab/elasticdb/streamer"
	"github.com/dogechain-lab/elasticdb/types"
)

var (
	ErrReadActivation  = errors.New("index read stream activation failed")
	ErrClearActivation = errors.New("index clear stream activation failed")
)

// DrainReport summarizes a range drain
type DrainReport struct {
	Range    types.HashRange `json:"-"`
	RangeStr string          `json:"range"`
	Calls    int             `json:"calls"`
	Chunks   int             `json:"chunks"`
	Rows     int             `json:"rows"`
	Bytes    int             `json:"bytes"`
	Cleared  bool            `json:"cleared"`
	Duration time.Duration   `json:"duration"`
}

// DrainRange streams every row of the "<low>:<high>" range into w, one closed
// output stream of at most capacity bytes per chunk, and deletes the streamed
// rows afterwards when clear is set.
//
// The context is checked between stream-more calls. A cancelled or failed
// drain abandons the read stream and leaves the table untouched.
func (e *Engine) DrainRange(
	ctx context.Context,
	predicate string,
	capacity int,
	w io.Writer,
	clear bool,
) (*DrainReport, error) {
	span := e.tracer.StartWithContext(ctx, "engine.DrainRange")
	defer span.End()

	span.SetAttributes(map[string]interface{}{
		"predicate": predicate,
		"capacity":  capacity,
		"clear":     clear,
	})

	report, err := e.drainRange(span, predicate, capacity, w, clear)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(telemetry.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(map[string]interface{}{
		"rows":    report.Rows,
		"chunks":  report.Chunks,
		"bytes":   report.Bytes,
		"cleared": report.Cleared,
	})
	span.SetStatus(telemetry.Ok, "")

	return report, nil
}

func (e *Engine) drainRange(
	span telemetry.Span,
	predicate string,
	capacity int,
	w io.Writer,
	clear bool,
) (*DrainReport, error) {
	ctx := span.Context()

	rng, err := elastic.ParseHashRange([]string{predicate})
	if err != nil {
		return nil, err
	}

	e.drainLock.Lock()
	defer e.drainLock.Unlock()

	start := time.Now()
	report := &DrainReport{Range: rng, RangeStr: rng.String()}

	logger := e.logger.Named("drain").With("range", rng.String())

	result := e.streamer.Activate(streamer.StreamElasticIndexRead, false, []string{predicate})
	if result != streamer.ActivationSucceeded {
		return nil, fmt.Errorf("%w: %s", ErrReadActivation, result)
	}

	if err := e.streamRange(ctx, span, capacity, w, report); err != nil {
		e.streamer.Discard(streamer.StreamElasticIndexRead)

		logger.Error("range drain abandoned", "calls", report.Calls, "err", err)

		return nil, err
	}

	e.streamer.Deactivate(streamer.StreamElasticIndexRead)

	if !clear {
		// the context only stays alive to serve a clear
		e.streamer.Discard(streamer.StreamElasticIndexRead)
	} else {
		result = e.streamer.Activate(streamer.StreamElasticIndexClear, false, nil)
		if result != streamer.ActivationSucceeded {
			e.streamer.Discard(streamer.StreamElasticIndexRead)

			return nil, fmt.Errorf("%w: %s", ErrClearActivation, result)
		}

		e.streamer.Deactivate(streamer.StreamElasticIndexClear)

		span.AddEvent("cleared", nil)

		report.Cleared = true
	}

	report.Duration = time.Since(start)

	logger.Info("range drained",
		"rows", report.Rows,
		"chunks", report.Chunks,
		"bytes", report.Bytes,
		"cleared", report.Cleared,
		"elapsed", report.Duration,
	)

	return report, nil
}

func (e *Engine) streamRange(
	ctx context.Context,
	span telemetry.Span,
	capacity int,
	w io.Writer,
	report *DrainReport,
) error {
	output := streamer.NewTupleOutputStream(capacity)
	outputs := streamer.NewOutputStreams(output)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, positions := e.streamer.StreamMore(streamer.StreamElasticIndexRead, outputs)
		report.Calls++

		if result.IsError() {
			return fmt.Errorf("stream more: %w", result.Err)
		}

		if len(positions) == 1 && positions[0] > 0 {
			if _, err := w.Write(output.Bytes()[:positions[0]]); err != nil {
				return fmt.Errorf("write chunk: %w", err)
			}

			report.Chunks++
			report.Rows += output.RowCount()
			report.Bytes += positions[0]

			span.AddEvent("chunk", map[string]interface{}{
				"rows":  output.RowCount(),
				"bytes": positions[0],
			})
		}

		if result.IsDone() {
			return nil
		}
	}
}
