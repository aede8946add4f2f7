package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"phonedrain-sim/internal/fault"
)

func TestNumericExactAtWaypoints(t *testing.T) {
	pts := []Point[float64]{{0, -60}, {1, -85}, {2, -100}, {3, -80}}
	n, err := NewNumeric(pts)
	require.NoError(t, err)
	for _, p := range pts {
		assert.Equal(t, p.V, n.At(p.T))
	}
}

func TestNumericLinearAndClamped(t *testing.T) {
	n, err := NewNumeric([]Point[float64]{{0, 10}, {2, 20}})
	require.NoError(t, err)
	assert.InDelta(t, 15, n.At(1), 1e-12)
	assert.InDelta(t, 12.5, n.At(0.5), 1e-12)
	assert.Equal(t, 10.0, n.At(-5))
	assert.Equal(t, 20.0, n.At(7))
}

func TestNumericDuplicateTimesStep(t *testing.T) {
	n, err := NewNumeric([]Point[float64]{{0, 0}, {1, 5}, {1, 50}, {2, 60}})
	require.NoError(t, err)
	assert.Equal(t, 50.0, n.At(1))
	assert.InDelta(t, 2.5, n.At(0.5), 1e-12)
	assert.InDelta(t, 55, n.At(1.5), 1e-12)
}

func TestCategoricalNearestAndTie(t *testing.T) {
	c, err := NewCategorical([]Point[string]{{0, "4g"}, {1, "3g"}, {2, "2g"}})
	require.NoError(t, err)
	assert.Equal(t, "4g", c.At(0.4))
	assert.Equal(t, "3g", c.At(0.6))
	assert.Equal(t, "4g", c.At(0.5))
	assert.Equal(t, "3g", c.At(1.5))
	assert.Equal(t, "2g", c.At(9))
	assert.Equal(t, "4g", c.At(-3))

	allowed := map[string]bool{"4g": true, "3g": true, "2g": true}
	for t0 := -1.0; t0 <= 3; t0 += 0.125 {
		assert.True(t, allowed[c.At(t0)])
	}
}

func TestEmptyAndUnorderedRejected(t *testing.T) {
	_, err := NewNumeric(nil)
	require.ErrorIs(t, err, fault.ErrConfiguration)
	_, err = NewCategorical[int](nil)
	require.ErrorIs(t, err, fault.ErrConfiguration)
	_, err = NewNumeric([]Point[float64]{{1, 0}, {0, 1}})
	if !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error for decreasing times, got %v", err)
	}
}

func TestPointYAML(t *testing.T) {
	var doc struct {
		RSSI []Point[float64] `yaml:"rssi"`
		Net  []Point[string]  `yaml:"net"`
	}
	src := "rssi: [[0, -60], [1.5, -85]]\nnet: [[0, 4g], [2, 3g]]\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	assert.Equal(t, []Point[float64]{{0, -60}, {1.5, -85}}, doc.RSSI)
	assert.Equal(t, []Point[string]{{0, "4g"}, {2, "3g"}}, doc.Net)

	var bad struct {
		RSSI []Point[float64] `yaml:"rssi"`
	}
	require.Error(t, yaml.Unmarshal([]byte("rssi: [[0, -60, 1]]\n"), &bad))
}
