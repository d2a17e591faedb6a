package jobfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/animflatten/internal/flatten/diag"
	"github.com/banshee-data/animflatten/internal/flatten/l1curves"
	"github.com/banshee-data/animflatten/internal/flatten/pipeline"
	"github.com/banshee-data/animflatten/internal/monitoring"
)

func TestNewResult_OrdersChannels(t *testing.T) {
	set := l1curves.NewChannelSet()
	b := l1curves.ChannelKey{Path: "B", Kind: l1curves.KindObject, Property: "x"}
	a := l1curves.ChannelKey{Path: "A", Kind: l1curves.KindObject, Property: "x"}
	set.Set(b, l1curves.NewCurve(l1curves.FlatKey(0, 2)))
	set.Set(a, l1curves.NewCurve(l1curves.FlatKey(0, 1)))

	report := diag.NewReport()
	report.Add("paths", diag.PathNotFound, &b, "no node %q", "B")

	res := NewResult("demo", set, report)
	require.Len(t, res.Channels, 2)
	assert.Equal(t, a, res.Channels[0].ChannelKey)
	assert.Equal(t, b, res.Channels[1].ChannelKey)
	assert.Equal(t, report.RunID, res.RunID)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.PathNotFound, res.Diagnostics[0].Kind)
}

func TestResult_WriteRead(t *testing.T) {
	set := l1curves.NewChannelSet()
	key := l1curves.ChannelKey{Path: "Face/FaceMesh", Kind: l1curves.KindBlendShape, Property: "smile"}
	set.Set(key, l1curves.NewCurve(
		l1curves.Keyframe{Time: 0, Value: 0, OutTangent: 0.5},
		l1curves.Keyframe{Time: 2, Value: 1, InTangent: 0.5},
	))

	var buf bytes.Buffer
	require.NoError(t, NewResult("", set, nil).Write(&buf))
	assert.Contains(t, buf.String(), `"kind": "blendshape"`)
	assert.Contains(t, buf.String(), `"diagnostics": []`)

	back, err := ReadResult(&buf)
	require.NoError(t, err)
	assert.True(t, back.ChannelSet().Equal(set))
}

func TestResult_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	res := NewResult("x", l1curves.NewChannelSet(), diag.NewReport())
	require.NoError(t, res.WriteFile(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := ReadResult(f)
	require.NoError(t, err)
	assert.Equal(t, "x", back.Name)
	assert.Empty(t, back.Channels)
}

func TestReadResult_Invalid(t *testing.T) {
	_, err := ReadResult(bytes.NewBufferString("{"))
	assert.Error(t, err)
}

func TestJobThroughPipeline(t *testing.T) {
	orig := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = orig })

	job, err := Load(filepath.Join("testdata", "walk_smile.yaml"))
	require.NoError(t, err)

	set, report := pipeline.Merge(job.BuildStacks(), job.Hierarchy, job.Offset())
	res := NewResult(job.Name, set, report)

	var keys []l1curves.ChannelKey
	for _, c := range res.Channels {
		keys = append(keys, c.ChannelKey)
	}
	assert.Contains(t, keys, l1curves.ChannelKey{Path: "Face/FaceMesh", Kind: l1curves.KindBlendShape, Property: "smile"})
	assert.NotContains(t, keys, l1curves.ChannelKey{Path: "Hips", Kind: l1curves.KindObject, Property: "localScale.y"})
	assert.Equal(t, 0, report.Count(diag.InvalidPlacement))
}
