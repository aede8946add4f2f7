package activity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonedrain-sim/internal/fault"
)

func TestPeriodic(t *testing.T) {
	p := Periodic{Period: 60, On: 45, High: 1, Low: 0.2}
	assert.Equal(t, 1.0, p.At(0))
	assert.Equal(t, 1.0, p.At(44.9))
	assert.Equal(t, 0.2, p.At(45))
	assert.Equal(t, 1.0, p.At(120))
}

func TestCoupledFollowsSource(t *testing.T) {
	screen := Periodic{Period: 60, On: 45, High: 1}
	cpu := Coupled{Source: screen, Gain: 0.7, Offset: 0.1}
	mem := Coupled{Source: cpu, Gain: 0.5}
	assert.InDelta(t, 0.8, cpu.At(10), 1e-12)
	assert.InDelta(t, 0.1, cpu.At(50), 1e-12)
	assert.InDelta(t, 0.4, mem.At(10), 1e-12)
}

type fixedSource []float64

func (f *fixedSource) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestChoiceBuckets(t *testing.T) {
	src := fixedSource{0.1, 0.75, 0.95}
	c := Choice{Levels: []float64{0, 0.3, 1}, Weights: []float64{0.7, 0.2, 0.1}, Rand: &src}
	assert.Equal(t, 0.0, c.At(0))
	assert.Equal(t, 0.3, c.At(0))
	assert.Equal(t, 1.0, c.At(0))
}

func TestBuiltInProfilesAreValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, id := range IDs() {
		app, err := New(id, rng)
		require.NoError(t, err)
		assert.Equal(t, id, app.Name())
		for ts := 0.0; ts < 1200; ts += 7.5 {
			s, err := app.At(ts)
			require.NoError(t, err, "%s at %g", id, ts)
			for _, w := range []float64{s.Display.Activity, s.Processor.Activity, s.Memory.Activity, s.Cellular.Activity} {
				assert.GreaterOrEqual(t, w, 0.0)
				assert.LessOrEqual(t, w, 1.0)
			}
		}
	}
}

func TestVideoSnapshot(t *testing.T) {
	app, err := New(VideoStream, nil)
	require.NoError(t, err)
	s, err := app.At(2)
	require.NoError(t, err)
	assert.Equal(t, 80.0, s.Display.State.Brightness)
	assert.Equal(t, 1.0, s.Display.Activity)
	assert.InDelta(t, 0.8, s.Processor.Activity, 1e-12)
	assert.InDelta(t, 0.4, s.Memory.Activity, 1e-12)
	assert.Equal(t, 1.0, s.Cellular.Activity)
	assert.InDelta(t, 1.2, s.Cellular.Weight(), 1e-12)
	assert.Zero(t, s.Storage.Activity)

	rest, err := app.At(595)
	require.NoError(t, err)
	assert.Zero(t, rest.Display.Activity)
	assert.InDelta(t, 0.1, rest.Processor.Activity, 1e-12)
}

func TestBrowserDeterministicWithSeed(t *testing.T) {
	sample := func(seed int64) []float64 {
		app, err := New(WebBrowser, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		var out []float64
		for i := 0; i < 50; i++ {
			s, err := app.At(float64(i) * 10)
			require.NoError(t, err)
			out = append(out, s.Cellular.Activity)
		}
		return out
	}
	assert.Equal(t, sample(42), sample(42))
}

func TestNewRejectsUnknownAndMissingSource(t *testing.T) {
	_, err := New("podcast", nil)
	require.ErrorIs(t, err, fault.ErrConfiguration)
	_, err = New(WebBrowser, nil)
	require.ErrorIs(t, err, fault.ErrConfiguration)
}

func TestChannelRejectsOutOfRange(t *testing.T) {
	app := &App{ID: "bad"}
	app.Display.Activity = Constant(1.5)
	app.Display.Efficiency = 1
	_, err := app.At(0)
	require.ErrorIs(t, err, fault.ErrDomain)

	app.Display.Activity = Constant(0.5)
	app.Display.Efficiency = 0.5
	_, err = app.At(0)
	require.ErrorIs(t, err, fault.ErrDomain)
}
