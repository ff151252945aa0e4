package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/pcoa2video/internal/director"
	"github.com/ivlev/pcoa2video/internal/renderer"
	"github.com/ivlev/pcoa2video/internal/testutil"
)

func newStoryboard(t *testing.T) *Storyboard {
	t.Helper()
	d, err := director.New(testutil.Table(t), testutil.Coordinates(), "DOB", "Treatment", 10, director.WithMaxN(10))
	require.NoError(t, err)
	r, err := renderer.New(d, 320, 240)
	require.NoError(t, err)

	sb := &Storyboard{Plan: director.PlanFor(d)}
	for _, frame := range d.GradientPointFrames()[:2] {
		data, err := r.RenderPNG(frame, d.FrameAt(frame))
		require.NoError(t, err)
		sb.Shots = append(sb.Shots, Shot{Frame: frame, PNG: data})
	}
	return sb
}

func TestStoryboardWriteTo(t *testing.T) {
	sb := newStoryboard(t)

	var buf bytes.Buffer
	n, err := sb.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestStoryboardSave(t *testing.T) {
	sb := newStoryboard(t)
	path := filepath.Join(t.TempDir(), "storyboard.pdf")

	require.NoError(t, sb.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestStoryboardWithoutPlan(t *testing.T) {
	_, err := (&Storyboard{}).WriteTo(&bytes.Buffer{})
	require.Error(t, err)
}

func TestStoryboardBadImage(t *testing.T) {
	sb := newStoryboard(t)
	sb.Shots = append(sb.Shots, Shot{Frame: 5, PNG: []byte("not a png")})

	_, err := sb.WriteTo(&bytes.Buffer{})
	require.Error(t, err)
}
