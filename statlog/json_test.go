package statlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

func TestJSONWritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf, "main", "inst-1")
	require.NoError(t, j.Log(testID, testSnap, testTime))
	require.NoError(t, j.Log(testID, testSnap, testTime.Add(5e9)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var p Payload
	require.NoError(t, sonnet.Unmarshal([]byte(lines[0]), &p))
	assert.Equal(t, testTime.UnixMilli(), p.Timestamp)
	assert.Equal(t, "inst-1", p.Instance)
	assert.Equal(t, "latency", p.Tracker)
	assert.Equal(t, 7, p.UID)
	require.Len(t, p.Stats, 4)
	assert.Equal(t, "sum", p.Stats[0].Name)
	assert.EqualValues(t, 10, p.Stats[0].Value)
	assert.Nil(t, p.Stats[2].Value)
	assert.Equal(t, "ok", p.Stats[3].Value)
}

func TestJSONFileSinkAppendsAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.jsonl")
	l, err := Open("json", Options{JSON: JSONConfig{Path: path}})
	require.NoError(t, err)
	require.NoError(t, l.Log(testID, testSnap, testTime))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tracker":"latency"`)
}
