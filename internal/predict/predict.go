// Package predict holds the placeholder "model" that labels transactions.
//
// Seeded is not a classifier. It assigns pseudo-random labels that are stable
// for a given set of identifiers so the dashboard can demonstrate the
// prediction flow. Swap in a real Predictor to get real results.
package predict

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strconv"

	"fraudview/internal/model"

	"github.com/google/uuid"
)

// Predictor labels transactions by identifier. The result is parallel to ids.
type Predictor interface {
	Predict(ctx context.Context, ids []string) ([]int, error)
}

// Seeded derives its labels from a hash of the identifier set.
type Seeded struct {
	FraudRate float64
}

// NewSeeded returns a stub predictor labelling roughly rate of inputs as fraud.
func NewSeeded(rate float64) *Seeded {
	if rate < 0 || rate > 1 {
		rate = 0.3
	}
	return &Seeded{FraudRate: rate}
}

// Predict is deterministic for a given set of ids, whatever their order.
func (s *Seeded) Predict(ctx context.Context, ids []string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	r := rand.New(rand.NewSource(seedFor(sorted)))
	byID := make(map[string]int, len(sorted))
	for _, id := range sorted {
		label := model.LabelLegit
		if r.Float64() < s.FraudRate {
			label = model.LabelFraud
		}
		if _, dup := byID[id]; !dup {
			byID[id] = label
		}
	}

	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out, nil
}

func seedFor(sortedIDs []string) int64 {
	h := fnv.New64a()
	for _, id := range sortedIDs {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return int64(h.Sum64())
}

// Run labels every row of ds with p and returns the labelled copy.
func Run(ctx context.Context, p Predictor, ds model.Dataset) (model.Dataset, error) {
	ids := make([]string, len(ds.Rows))
	for i, r := range ds.Rows {
		ids[i] = r.ID
	}
	labels, err := p.Predict(ctx, ids)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("predict %d rows: %w", len(ids), err)
	}
	return Apply(ds, labels)
}

// Apply writes labels into a copy of ds. The input dataset is left untouched
// and the copy gets a fresh id, being a new load event.
func Apply(ds model.Dataset, labels []int) (model.Dataset, error) {
	if len(labels) != len(ds.Rows) {
		return model.Dataset{}, fmt.Errorf("got %d labels for %d rows", len(labels), len(ds.Rows))
	}

	out := ds
	out.ID = uuid.NewString()
	out.Columns = append([]string(nil), ds.Columns...)
	if !ds.HasColumn(model.ColumnLabel) {
		out.Columns = append(out.Columns, model.ColumnLabel)
	}

	out.Rows = make([]model.Row, len(ds.Rows))
	for i, r := range ds.Rows {
		if labels[i] != model.LabelLegit && labels[i] != model.LabelFraud {
			return model.Dataset{}, fmt.Errorf("row %d: label %d is not binary", i, labels[i])
		}
		values := make(map[string]string, len(r.Values)+1)
		for k, v := range r.Values {
			values[k] = v
		}
		values[model.ColumnLabel] = strconv.Itoa(labels[i])

		l := labels[i]
		r.Label = &l
		r.Values = values
		out.Rows[i] = r
	}
	return out, nil
}
