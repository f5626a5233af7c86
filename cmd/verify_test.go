package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/uhi-synth/internal/model"
	"github.com/sells-group/uhi-synth/internal/synth"
)

func TestInferGrid(t *testing.T) {
	ds, err := synth.Generate(6, 9, 3)
	require.NoError(t, err)

	rows, cols := inferGrid(ds.Records)
	assert.Equal(t, 6, rows)
	assert.Equal(t, 9, cols)

	rows, cols = inferGrid(nil)
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}

func TestCompareTables(t *testing.T) {
	ds, err := synth.Generate(4, 4, 5)
	require.NoError(t, err)

	require.NoError(t, compareTables(ds.Records, ds.Records))

	shorter := ds.Records[:len(ds.Records)-1]
	err = compareTables(ds.Records, shorter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row counts differ")

	swapped := make([]model.GridCellRecord, len(ds.Records))
	copy(swapped, ds.Records)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	err = compareTables(ds.Records, swapped)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coordinates differ")

	drifted := make([]model.GridCellRecord, len(ds.Records))
	copy(drifted, ds.Records)
	drifted[2].LST += 0.001
	err = compareTables(ds.Records, drifted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LST differs")
}
