// Package pivot implements the cross-tabulated summary core: request
// validation, row filtering, group key discovery, parallel accumulation, and
// deterministic result assembly.
package pivot

import (
	"fmt"
	"runtime"

	"github.com/paveg/crosstab/internal/config"
	"github.com/paveg/crosstab/internal/dataset"
	"github.com/paveg/crosstab/internal/errors"
	"github.com/paveg/crosstab/internal/monitoring"
	"github.com/paveg/crosstab/internal/parallel"
	"github.com/paveg/crosstab/internal/validation"
)

const (
	computeOp = "pivot"

	// defaultGroupEstimate seeds the group map before the distinct key count
	// is known.
	defaultGroupEstimate = 64
)

// valueSpec binds one requested value-field/aggregation pair to its resolved
// column.
type valueSpec struct {
	field     string
	agg       AggregationType
	col       *dataset.Column
	kind      dataset.Kind
	resultKey string
}

// Compute runs one pivot computation with the global configuration.
func Compute(ds *dataset.Dataset, req Request) (*Result, error) {
	return ComputeWithConfig(ds, req, config.OperationConfig{})
}

// ComputeWithConfig runs one pivot computation with per-call overrides. The
// request either fully succeeds or is fully rejected; no partial results.
func ComputeWithConfig(ds *dataset.Dataset, req Request, opCfg config.OperationConfig) (*Result, error) {
	cfg := config.GetGlobalConfig()

	var result *Result
	compute := func() (monitoring.OperationStats, error) {
		r, ranParallel, err := computePivot(ds, req, cfg, opCfg)
		result = r
		return monitoring.OperationStats{
			Rows:     int64(ds.Len()),
			Parallel: ranParallel,
		}, err
	}

	if cfg.MetricsCollection {
		if err := monitoring.Default().RecordOperationStats(computeOp, compute); err != nil {
			return nil, err
		}
		return result, nil
	}

	_, err := compute()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func computePivot(
	ds *dataset.Dataset,
	req Request,
	cfg config.Config,
	opCfg config.OperationConfig,
) (*Result, bool, error) {
	if err := validateRequest(ds, req); err != nil {
		return nil, false, err
	}

	mask, included, err := buildFilterMask(ds, req.Filters)
	if err != nil {
		return nil, false, err
	}

	specs := buildValueSpecs(ds, req.Values)
	rowKeys := newKeyExtractor(ds, req.Rows)
	colKeys := newKeyExtractor(ds, req.Columns)

	useParallel := shouldParallelize(cfg, opCfg, included)

	var groups *groupMap
	if useParallel {
		groups = scanParallel(ds.Len(), mask, rowKeys, colKeys, specs, cfg, opCfg)
	} else {
		groups = scanRange(0, ds.Len(), mask, rowKeys, colKeys, specs)
	}

	return buildResult(req, specs, groups), useParallel, nil
}

// validateRequest runs every eager check so no scan work is wasted on a
// rejected request. Order: empty value fields, unknown columns (rows, then
// columns, then values, then filters), request shape, aggregation
// applicability.
func validateRequest(ds *dataset.Dataset, req Request) error {
	if len(req.Values) == 0 {
		return errors.NewEmptyValueFieldsError(computeOp)
	}

	if err := validation.ValidateColumns(ds, computeOp, req.Rows...); err != nil {
		return err
	}
	if err := validation.ValidateColumns(ds, computeOp, req.Columns...); err != nil {
		return err
	}
	for _, vf := range req.Values {
		if err := validation.ValidateColumns(ds, computeOp, vf.Field); err != nil {
			return err
		}
	}
	for _, fc := range req.Filters {
		if err := validation.ValidateColumns(ds, computeOp, fc.Column); err != nil {
			return err
		}
	}

	dims := make([]string, 0, len(req.Rows)+len(req.Columns))
	dims = append(dims, req.Rows...)
	dims = append(dims, req.Columns...)
	if err := validation.ValidateUniqueColumns(computeOp, dims...); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(req.Values))
	for _, vf := range req.Values {
		if !vf.Aggregation.IsValid() {
			message := fmt.Sprintf("unknown aggregation type %d", int(vf.Aggregation))
			return errors.NewInvalidRequestError(computeOp, message)
		}
		key := vf.ResultKey()
		if _, dup := seen[key]; dup {
			message := fmt.Sprintf("duplicate value field '%s' with aggregation %s", vf.Field, vf.Aggregation)
			return errors.NewInvalidRequestError(computeOp, message)
		}
		seen[key] = struct{}{}
	}

	for _, fc := range req.Filters {
		if !fc.Operator.IsValid() {
			message := fmt.Sprintf("unknown filter operator %d", int(fc.Operator))
			return errors.NewInvalidRequestError(computeOp, message)
		}
		_, isList := fc.Value.([]any)
		if fc.Operator == FilterIn && !isList {
			if _, ok := CoerceList(fc.Value); !ok {
				return errors.NewInvalidRequestError(computeOp, "In requires a list value")
			}
		}
		if fc.Operator != FilterIn && isList {
			message := fmt.Sprintf("%s requires a scalar value, got a list", fc.Operator)
			return errors.NewInvalidRequestError(computeOp, message)
		}
	}

	for _, vf := range req.Values {
		col, _ := ds.Column(vf.Field)
		if vf.Aggregation.RequiresNumeric() && !col.Kind().IsNumeric() {
			return errors.NewAggregationNotApplicableError(computeOp, vf.Field, vf.Aggregation.String())
		}
	}

	return nil
}

func buildValueSpecs(ds *dataset.Dataset, values []ValueField) []valueSpec {
	specs := make([]valueSpec, len(values))
	for i, vf := range values {
		col, _ := ds.Column(vf.Field)
		specs[i] = valueSpec{
			field:     vf.Field,
			agg:       vf.Aggregation,
			col:       col,
			kind:      col.Kind(),
			resultKey: vf.ResultKey(),
		}
	}
	return specs
}

func newCells(specs []valueSpec) []accumulator {
	cells := make([]accumulator, len(specs))
	for i, spec := range specs {
		cells[i] = newAccumulator(spec.agg, spec.kind)
	}
	return cells
}

// scanRange accumulates one contiguous row range into a fresh group map. The
// composite key buffer is reused across rows; the group map copies on insert.
func scanRange(start, end int, mask []bool, rowKeys, colKeys *keyExtractor, specs []valueSpec) *groupMap {
	gm := newGroupMap(defaultGroupEstimate)
	var keyBuf []byte

	for row := start; row < end; row++ {
		if !mask[row] {
			continue
		}

		keyBuf = keyBuf[:0]
		keyBuf = rowKeys.appendKeyBytes(keyBuf, row)
		keyBuf = colKeys.appendKeyBytes(keyBuf, row)

		g := gm.findOrCreate(keyBuf, func() *group {
			return &group{
				rowKey: rowKeys.keyAt(row),
				colKey: colKeys.keyAt(row),
				cells:  newCells(specs),
			}
		})

		for i := range specs {
			if specs[i].col.IsNull(row) {
				continue
			}
			g.cells[i].update(ScalarFromColumn(specs[i].col, row), row)
		}
	}

	return gm
}

// scanParallel partitions the row space into contiguous ranges, scans them on
// the worker pool, and merges the partial group maps.
func scanParallel(
	n int,
	mask []bool,
	rowKeys, colKeys *keyExtractor,
	specs []valueSpec,
	cfg config.Config,
	opCfg config.OperationConfig,
) *groupMap {
	pool := parallel.NewWorkerPool(poolSize(cfg))
	defer pool.Close()

	parts := pool.NumWorkers()
	chunkSize := cfg.ChunkSize
	if opCfg.CustomChunkSize > 0 {
		chunkSize = opCfg.CustomChunkSize
	}
	if chunkSize > 0 {
		parts = (n + chunkSize - 1) / chunkSize
	}

	ranges := parallel.Partition(n, parts)
	partials := parallel.Process(pool, ranges, func(r parallel.Range) *groupMap {
		return scanRange(r.Start, r.End, mask, rowKeys, colKeys, specs)
	})

	merged := newGroupMap(defaultGroupEstimate)
	for _, partial := range partials {
		merged.mergeFrom(partial)
	}
	return merged
}

func poolSize(cfg config.Config) int {
	size := cfg.WorkerPoolSize
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if cfg.MaxParallelism > 0 && size > cfg.MaxParallelism {
		size = cfg.MaxParallelism
	}
	return size
}

func shouldParallelize(cfg config.Config, opCfg config.OperationConfig, rows int) bool {
	if opCfg.DisableParallel {
		return false
	}
	if opCfg.ForceParallel {
		return true
	}
	threshold := cfg.ParallelThreshold
	if threshold <= 0 {
		threshold = config.DefaultParallelThreshold
	}
	return rows >= threshold
}
