package predict

import (
	"context"
	"errors"
	"testing"

	"fraudview/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idsDataset(ids ...string) model.Dataset {
	ds := model.Dataset{ID: "orig", Columns: []string{model.ColumnID}}
	for i, id := range ids {
		ds.Rows = append(ds.Rows, model.Row{Index: i, ID: id, Values: map[string]string{model.ColumnID: id}})
	}
	return ds
}

func TestSeededDeterministicForSameSet(t *testing.T) {
	p := NewSeeded(0.5)
	ctx := context.Background()

	a, err := p.Predict(ctx, []string{"a", "b", "c", "d", "e", "f"})
	require.NoError(t, err)
	b, err := p.Predict(ctx, []string{"f", "e", "d", "c", "b", "a"})
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i], b[len(b)-1-i], "labels follow ids, not positions")
		assert.Contains(t, []int{0, 1}, a[i])
	}
}

func TestSeededRates(t *testing.T) {
	ids := make([]string, 2000)
	for i := range ids {
		ids[i] = string(rune('A'+i%26)) + string(rune('a'+i/26%26)) + string(rune('0'+i/676))
	}

	for _, rate := range []float64{0, 1} {
		labels, err := NewSeeded(rate).Predict(context.Background(), ids)
		require.NoError(t, err)
		for _, l := range labels {
			assert.Equal(t, int(rate), l)
		}
	}
}

func TestSeededHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSeeded(0.3).Predict(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyCopiesAndLabels(t *testing.T) {
	ds := idsDataset("1", "2", "3")
	out, err := Apply(ds, []int{1, 0, 1})
	require.NoError(t, err)

	assert.NotEqual(t, ds.ID, out.ID)
	assert.Equal(t, []string{model.ColumnID, model.ColumnLabel}, out.Columns)
	assert.True(t, out.Rows[0].LabelIs(1))
	assert.Equal(t, "0", out.Rows[1].Value(model.ColumnLabel))

	assert.False(t, ds.Rows[0].HasLabel(), "input untouched")
	assert.Equal(t, "", ds.Rows[0].Value(model.ColumnLabel))
	assert.Equal(t, []string{model.ColumnID}, ds.Columns)
}

func TestApplyRejectsMismatch(t *testing.T) {
	_, err := Apply(idsDataset("1", "2"), []int{1})
	assert.Error(t, err)

	_, err = Apply(idsDataset("1"), []int{3})
	assert.Error(t, err)
}

type failing struct{}

func (failing) Predict(context.Context, []string) ([]int, error) {
	return nil, errors.New("boom")
}

func TestRun(t *testing.T) {
	ds := idsDataset("10", "11")
	out, err := Run(context.Background(), NewSeeded(0.3), ds)
	require.NoError(t, err)
	for _, r := range out.Rows {
		assert.True(t, r.HasLabel())
	}

	_, err = Run(context.Background(), failing{}, ds)
	assert.ErrorContains(t, err, "boom")
}
