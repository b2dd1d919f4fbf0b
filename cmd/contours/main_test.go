package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorustyt/navcontour/common/message"
	"github.com/gorustyt/navcontour/common/rw"
	"github.com/gorustyt/navcontour/debug_utils"
	"github.com/gorustyt/navcontour/recast"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeField dumps a 6x4 field split into regions 1 and 2 to dir.
func writeField(t *testing.T, dir string) string {
	t.Helper()
	hf := recast.RcCreateHeightfield(6, 4, mgl64.Vec3{}, mgl64.Vec3{6, 4, 4}, 1, 1)
	for z := 0; z < 4; z++ {
		for x := 0; x < 6; x++ {
			require.NoError(t, recast.RcAddSpan(hf, x, z, 0, 1, recast.RC_WALKABLE_AREA, 1))
		}
	}
	chf, err := recast.RcBuildCompactHeightfield(2, 1, hf)
	require.NoError(t, err)
	for z := 0; z < 4; z++ {
		for x := 0; x < 6; x++ {
			c := chf.Cells[x+z*6]
			for i := c.Index; i < c.Index+c.Count; i++ {
				chf.Spans[i].Reg = 1 + x/3
			}
		}
	}
	chf.UpdateMaxRegions()

	w := rw.NewWriter()
	require.NoError(t, debug_utils.DuDumpCompactHeightfield(chf, w))
	path := filepath.Join(dir, "field.chf")
	require.NoError(t, os.WriteFile(path, w.Bytes(), 0o644))
	return path
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	in := writeField(t, dir)
	cfgPath := filepath.Join(dir, "contours.yaml")
	logPath := filepath.Join(dir, "contours.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  format: json\n  file: "+logPath+"\n"), 0o644))

	out := filepath.Join(dir, "field.cset")
	protoOut := filepath.Join(dir, "field.pb")
	geojsonOut := filepath.Join(dir, "field.json")
	require.NoError(t, run([]string{
		"-in", in,
		"-config", cfgPath,
		"-max-error", "0.5",
		"-out", out,
		"-proto", protoOut,
		"-geojson", geojsonOut,
	}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	dumped, err := debug_utils.DuReadContourSet(rw.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, dumped.Conts, 2)

	data, err = os.ReadFile(protoOut)
	require.NoError(t, err)
	decoded, err := message.DecodeContourSet(data)
	require.NoError(t, err)
	assert.Equal(t, 0.5, decoded.MaxError)
	dumped.MaxError = decoded.MaxError
	assert.Equal(t, dumped, decoded)

	data, err = os.ReadFile(geojsonOut)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"msg":"built contours"`)
	assert.Contains(t, string(logData), `"contours":2`)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	assert.ErrorContains(t, run(nil), "-in")
	assert.Error(t, run([]string{"-in", filepath.Join(dir, "missing.chf")}))

	bad := filepath.Join(dir, "bad.chf")
	require.NoError(t, os.WriteFile(bad, []byte("not a field"), 0o644))
	assert.Error(t, run([]string{"-in", bad}))

	in := writeField(t, dir)
	assert.ErrorContains(t, run([]string{"-in", in, "-max-edge-len", "-3"}), "max_edge_len")
}
