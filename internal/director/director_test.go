package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/pcoa2video/internal/ordination"
	"github.com/ivlev/pcoa2video/internal/testutil"
	"github.com/ivlev/pcoa2video/internal/trajectory"
)

func newTreatmentDirector(t *testing.T, suppliedN int, opts ...Option) *AnimationDirector {
	t.Helper()
	d, err := New(testutil.Table(t), testutil.Coordinates(), "DOB", "Treatment", suppliedN, opts...)
	require.NoError(t, err)
	return d
}

func categories(d *AnimationDirector) []string {
	var out []string
	for _, tr := range d.Trajectories() {
		out = append(out, tr.Category())
	}
	return out
}

func TestDirectorFixture(t *testing.T) {
	d := newTreatmentDirector(t, 10)

	assert.Equal(t, 92.0, d.MinimumDelta())
	assert.Equal(t, 2064, d.MaximumTrajectoryLength())
	assert.Equal(t, []string{"Control", "Fast"}, categories(d))
	assert.Equal(t, -1, d.CurrentFrame())
	assert.Equal(t, "DOB", d.GradientCategory())
	assert.Equal(t, "Treatment", d.TrajectoryCategory())
	assert.Equal(t, 10, d.SuppliedN())

	frames := []int{}
	for _, tr := range d.Trajectories() {
		frames = append(frames, tr.FrameCount())
		assert.Equal(t, 92.0, tr.MinimumDelta())
		assert.Equal(t, 10, tr.SuppliedN())
		assert.Equal(t, trajectory.Uncapped, tr.MaxN())
	}
	// Control: 10 + 0 + 988 + (97+1). Fast: 1085 + 978 + 0 + (0+1).
	assert.Equal(t, []int{1096, 2064}, frames)
}

func TestDirectorMaximumTrajectoryLength(t *testing.T) {
	tests := []struct {
		name       string
		trajectory string
		suppliedN  int
		want       int
		count      int
	}{
		{"treatment fast", "Treatment", 10, 2064, 2},
		{"treatment slow", "Treatment", 1, 206, 2},
		{"single trajectory", "LinkerPrimerSequence", 100, 20640, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(testutil.Table(t), testutil.Coordinates(), "DOB", tt.trajectory, tt.suppliedN)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.MaximumTrajectoryLength())
			assert.Len(t, d.Trajectories(), tt.count)
			assert.Equal(t, 92.0, d.MinimumDelta())
		})
	}
}

func TestDirectorMaxNOption(t *testing.T) {
	d := newTreatmentDirector(t, 10, WithMaxN(20))

	// Control steps become 10, 0, 20, 20.
	assert.Equal(t, 51, d.MaximumTrajectoryLength())

	d = newTreatmentDirector(t, 10, WithMaxN(10))
	assert.Equal(t, 31, d.MaximumTrajectoryLength())
}

func TestDirectorMinStepsOption(t *testing.T) {
	d := newTreatmentDirector(t, 1, WithMinSteps(1))

	// Each of Fast's two tied segments gains a frame.
	fast := d.Trajectories()[1]
	assert.Equal(t, 208, fast.FrameCount())
	assert.Equal(t, 208, d.MaximumTrajectoryLength())
}

func TestDirectorPaddingOption(t *testing.T) {
	d := newTreatmentDirector(t, 10, WithPadding(trajectory.NoPadding{}))

	fast := d.Trajectories()[1]
	assert.Equal(t, []string{"PC.607", "PC.634", "PC.635", "PC.636"}, fast.SampleNames())
}

func TestDirectorExcludesSingleTimepointCategory(t *testing.T) {
	data := testutil.MappingData()
	data["PC.900"] = []string{"PC.900", "YATGCTGCCTCCCGTAGGAGT", "Broken", "20070314"}
	data["PC.901"] = []string{"PC.901", "YATGCTGCCTCCCGTAGGAGT", "Broken", "20070314"}
	coords := testutil.Coordinates()
	coords["PC.900"] = ordination.Point{X: 0.1, Y: 0.2, Z: 0.3}
	coords["PC.901"] = ordination.Point{X: 0.3, Y: 0.2, Z: 0.1}

	d, err := NewFromMaps(testutil.MappingHeaders, data, coords, "DOB", "Treatment", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Control", "Fast"}, categories(d))
}

func TestDirectorGradientPoints(t *testing.T) {
	d := newTreatmentDirector(t, 10)

	assert.Equal(t, []float64{20061126, 20061218, 20070314, 20071112, 20071210, 20080116}, d.GradientPoints())
}

func TestDirectorMissingArguments(t *testing.T) {
	headers := testutil.MappingHeaders
	data := testutil.MappingData()
	coords := testutil.Coordinates()

	tests := []struct {
		name  string
		build func() (*AnimationDirector, error)
	}{
		{"headers", func() (*AnimationDirector, error) {
			return NewFromMaps(nil, data, coords, "DOB", "Treatment", 10)
		}},
		{"data", func() (*AnimationDirector, error) {
			return NewFromMaps(headers, nil, coords, "DOB", "Treatment", 10)
		}},
		{"coordinates", func() (*AnimationDirector, error) {
			return NewFromMaps(headers, data, nil, "DOB", "Treatment", 10)
		}},
		{"gradient category", func() (*AnimationDirector, error) {
			return NewFromMaps(headers, data, coords, "", "Treatment", 10)
		}},
		{"trajectory category", func() (*AnimationDirector, error) {
			return NewFromMaps(headers, data, coords, "DOB", "", 10)
		}},
		{"supplied N", func() (*AnimationDirector, error) {
			return NewFromMaps(headers, data, coords, "DOB", "Treatment", 0)
		}},
		{"table", func() (*AnimationDirector, error) {
			return New(nil, coords, "DOB", "Treatment", 10)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.build()
			require.ErrorIs(t, err, ErrArgumentMissing)
			assert.Nil(t, d)
		})
	}
}

func TestDirectorCategoryNotFound(t *testing.T) {
	_, err := New(testutil.Table(t), testutil.Coordinates(), "Age", "Treatment", 10)
	require.ErrorIs(t, err, trajectory.ErrCategoryNotFound)
}

func TestDirectorInsufficientData(t *testing.T) {
	data := testutil.MappingData()
	for id, row := range data {
		row[3] = "20070101"
		data[id] = row
	}

	_, err := NewFromMaps(testutil.MappingHeaders, data, testutil.Coordinates(), "DOB", "Treatment", 10)
	require.ErrorIs(t, err, trajectory.ErrInsufficientData)
}

func TestUpdateFrameStopsAtMaximum(t *testing.T) {
	d := newTreatmentDirector(t, 10, WithMaxN(10))

	assert.False(t, d.AnimationCycleFinished())
	for i := 0; i < 1000; i++ {
		d.UpdateFrame()
		require.LessOrEqual(t, d.CurrentFrame(), d.MaximumTrajectoryLength())
	}
	assert.Equal(t, d.MaximumTrajectoryLength(), d.CurrentFrame())
	assert.True(t, d.AnimationCycleFinished())

	d.Reset()
	assert.Equal(t, -1, d.CurrentFrame())
	assert.False(t, d.AnimationCycleFinished())
	assert.Len(t, d.Trajectories(), 2)
}

func TestCurrentFrameIsGradientPoint(t *testing.T) {
	d := newTreatmentDirector(t, 10, WithMaxN(10))

	assert.False(t, d.CurrentFrameIsGradientPoint())

	// Control enters new segments at 10 and 20 and ends at 30; Fast ends at 20.
	want := map[int]bool{0: true, 10: true, 20: true, 30: true}
	for f := 0; f <= d.MaximumTrajectoryLength(); f++ {
		d.UpdateFrame()
		require.Equal(t, f, d.CurrentFrame())
		assert.Equal(t, want[f], d.CurrentFrameIsGradientPoint(), "frame %d", f)
	}

	assert.Equal(t, []int{0, 10, 20, 30}, d.GradientPointFrames())

	d = newTreatmentDirector(t, 10)
	assert.Equal(t, []int{0, 10, 998, 1085, 1095, 2063}, d.GradientPointFrames())
}

func TestFrame(t *testing.T) {
	d := newTreatmentDirector(t, 10)

	for _, tf := range d.Frame() {
		assert.Empty(t, tf.Points, tf.Category)
	}

	d.UpdateFrame()
	frame := d.Frame()
	require.Len(t, frame, 2)
	assert.Equal(t, "Control", frame[0].Category)
	assert.Equal(t, []ordination.Point{testutil.Coordinates()["PC.356"]}, frame[0].Points)
	assert.Len(t, frame[1].Points, 1)

	for !d.AnimationCycleFinished() {
		d.UpdateFrame()
	}
	for i, tr := range d.Trajectories() {
		assert.Equal(t, tr.Coordinates(), d.Frame()[i].Points)
	}
}
