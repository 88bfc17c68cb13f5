package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/multiservicios-web/valida-curp-go/internal/batch"
	"github.com/multiservicios-web/valida-curp-go/pkg/publishers"
)

// Summary reports the outcome of a batch run.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Published int `json:"published"`
}

// Batch runs every lookup of the batch file at path. Each result is written
// to out as one JSON event per line and published to the enabled publishers.
// A failed lookup does not stop the run.
func (r *Runner) Batch(ctx context.Context, path string) (Summary, error) {
	var summary Summary

	reqs, err := batch.Load(path)
	if err != nil {
		return summary, err
	}

	fanout, err := r.buildFanout(ctx)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := fanout.Close(); err != nil {
			r.log.WarnObj("publisher close failed", "error", err)
		}
	}()

	stopMetrics, err := r.serveMetrics(r.cfg.MetricsAddr)
	if err != nil {
		return summary, err
	}
	defer stopMetrics()

	r.log.InfoObj("batch started", "batch_meta", map[string]any{
		"file":       path,
		"requests":   len(reqs),
		"publishers": fanout.Size(),
	})

	enc := json.NewEncoder(r.out)
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		evt := r.lookup(ctx, req)
		summary.Total++
		if evt.Failed() {
			summary.Failed++
			r.log.WarnObj("batch lookup failed", "batch_error", map[string]any{
				"index":     i,
				"operation": req.Operation,
				"error":     evt.Error,
			})
		} else {
			summary.Succeeded++
		}

		if err := enc.Encode(evt); err != nil {
			return summary, fmt.Errorf("write result: %w", err)
		}

		if fanout.Size() == 0 {
			continue
		}
		delivered, err := fanout.Publish(ctx, evt)
		r.metrics.ObservePublished(delivered, fanout.Size()-delivered)
		summary.Published += delivered
		if err != nil {
			r.log.WarnObj("event publish failed", "publish_error", map[string]any{
				"event_id": evt.ID,
				"error":    err.Error(),
			})
		}
	}

	r.log.InfoObj("batch finished", "batch_summary", summary)
	return summary, nil
}

// lookup runs one batch request and captures its outcome as an event.
func (r *Runner) lookup(ctx context.Context, req batch.Request) publishers.Event {
	var (
		raw json.RawMessage
		err error
	)
	switch req.Operation {
	case batch.OpValidate:
		raw, err = r.client.IsValid(ctx, req.CURP)
	case batch.OpData:
		raw, err = r.client.GetData(ctx, req.CURP)
	case batch.OpCalculate:
		raw, err = r.client.Calculate(ctx, *req.Input)
	case batch.OpEntities:
		raw, err = r.entities(ctx)
	default:
		err = fmt.Errorf("unsupported operation %q", req.Operation)
	}

	var input any
	if req.Input != nil {
		input = req.Input
	}
	return publishers.NewEvent(req.Operation, r.client.Version(), req.CURP, input, raw, err)
}

// buildFanout loads the publishers file, if configured, and builds the enabled publishers.
func (r *Runner) buildFanout(ctx context.Context) (*publishers.Fanout, error) {
	path := strings.TrimSpace(r.cfg.PublishersFile)
	if path == "" {
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	enabled := reg.Enabled()
	if len(enabled) == 0 {
		r.log.WarnObj("no enabled publishers", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, r.log)
	if err != nil {
		return nil, errors.Join(errors.New("build publishers"), err)
	}
	return publishers.NewFanout(pubs), nil
}
