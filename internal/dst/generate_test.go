// internal/dst/generate_test.go
package dst

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

func TestLastSunday_KnownDates(t *testing.T) {
	assert.Equal(t, calendar.Instant(1711843200), LastSunday(2024, time.March))   // 31 Mar 2024
	assert.Equal(t, calendar.Instant(1729987200), LastSunday(2024, time.October)) // 27 Oct 2024
	assert.Equal(t, calendar.Instant(1679788800), LastSunday(2023, time.March))   // 26 Mar 2023
	assert.Equal(t, calendar.Instant(1698537600), LastSunday(2023, time.October)) // 29 Oct 2023
}

func TestGenerate_AllSundaysAtMidnight(t *testing.T) {
	tbl, err := Generate(2000, 100)
	require.NoError(t, err)

	for y := tbl.StartYear(); y <= tbl.LastYear(); y++ {
		w, err := tbl.Lookup(y)
		require.NoError(t, err)
		require.Less(t, w.Start, w.End, "year %d", y)

		for _, in := range []calendar.Instant{w.Start, w.End} {
			d := calendar.FromInstant(in)
			assert.Equal(t, 0, d.Weekday, "year %d", y)
			assert.Equal(t, 0, d.Hour+d.Minute+d.Second)
			assert.Greater(t, d.Day, 24, "must be within the last week")
		}
	}
}

func TestGenerate_Rejects(t *testing.T) {
	_, err := Generate(2024, 0)
	assert.Error(t, err)

	_, err = Generate(1969, 2)
	assert.Error(t, err)

	_, err = Generate(2100, 10)
	assert.Error(t, err)
}

func TestWriteLoad_File(t *testing.T) {
	tbl, err := Generate(2023, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))

	out := buf.String()
	assert.True(t, strings.Contains(out, "Sun 26 Mar 2023"), out)
	assert.True(t, strings.Contains(out, "Sun 27 Oct 2024"), out)

	path := filepath.Join(t.TempDir(), "bst.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tbl, loaded)
}

func TestLoad_CountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "start_year: 2024\ncount: 2\nstart_times: [1711843200]\nend_times: [1729987200]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
