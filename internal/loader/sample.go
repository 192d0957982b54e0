package loader

import (
	"math/rand"
	"strconv"

	"fraudview/internal/model"

	"github.com/google/uuid"
)

// SampleSource is the Dataset.Source of generated data.
const SampleSource = "sample"

// Metric columns carried by the metrics flavour of result files.
var MetricColumns = []string{"precision", "recall", "f1_score", "auc_roc"}

// SampleOptions control the synthetic dataset.
type SampleOptions struct {
	Rows      int
	Seed      int64
	FraudRate float64 // probability of label 1
	Metrics   bool    // add MetricColumns
}

// DefaultSampleOptions matches the demo data shown when nothing is loaded.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{Rows: 1000, Seed: 42, FraudRate: 0.3}
}

// Sample generates a deterministic synthetic dataset: the same options always
// produce the same ids and labels.
func (l *Loader) Sample(opts SampleOptions) model.Dataset {
	ds := GenerateSample(opts)
	ds.LoadedAt = l.now()
	l.log.Info("generated sample id=%s rows=%d seed=%d metrics=%t", ds.ID, ds.Len(), opts.Seed, opts.Metrics)
	return ds
}

// GenerateSample is Sample without a loader.
func GenerateSample(opts SampleOptions) model.Dataset {
	if opts.Rows < 0 {
		opts.Rows = 0
	}
	if opts.FraudRate < 0 || opts.FraudRate > 1 {
		opts.FraudRate = DefaultSampleOptions().FraudRate
	}

	r := rand.New(rand.NewSource(opts.Seed))
	columns := []string{model.ColumnID, model.ColumnLabel}
	if opts.Metrics {
		columns = append(columns, MetricColumns...)
	}

	rows := make([]model.Row, 0, opts.Rows)
	for i := 0; i < opts.Rows; i++ {
		id := strconv.Itoa(1000000 + r.Intn(9000000))
		label := model.LabelLegit
		if r.Float64() < opts.FraudRate {
			label = model.LabelFraud
		}

		values := map[string]string{
			model.ColumnID:    id,
			model.ColumnLabel: strconv.Itoa(label),
		}
		if opts.Metrics {
			for _, c := range MetricColumns {
				values[c] = strconv.FormatFloat(r.Float64(), 'f', 4, 64)
			}
		}

		l := label
		rows = append(rows, model.Row{Index: i, ID: id, Label: &l, Values: values})
	}

	return model.Dataset{
		ID:      uuid.NewString(),
		Source:  SampleSource,
		Columns: columns,
		Rows:    rows,
	}
}
