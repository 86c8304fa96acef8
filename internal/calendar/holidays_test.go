package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)
	return t
}

func TestDefault(t *testing.T) {
	h := Default()

	assert.Equal(t, "2022-EC", h.Version)
	assert.Equal(t, 11, h.Len())
	assert.True(t, h.Contains(day("2022-12-25")))
	assert.True(t, h.Contains(time.Date(2022, 8, 10, 15, 30, 0, 0, time.UTC)))
	assert.False(t, h.Contains(day("2023-12-25")), "holidays are year specific")
	assert.False(t, h.Contains(day("2022-03-01")))
}

func TestNew_InvalidDate(t *testing.T) {
	_, err := New("bad", "2022-13-01")
	assert.Error(t, err)
}

func TestNilHolidays(t *testing.T) {
	var h *Holidays
	assert.False(t, h.Contains(day("2022-01-01")))
	assert.Empty(t, h.Dates())
	assert.Equal(t, 0, h.Len())
}

func TestMerge(t *testing.T) {
	a, err := New("a", "2023-01-01", "2023-02-20")
	require.NoError(t, err)
	b, err := New("b", "2023-02-20", "2023-04-07")
	require.NoError(t, err)

	merged := a.Merge(b)
	assert.Equal(t, "a+b", merged.Version)
	assert.Equal(t, []string{"2023-01-01", "2023-02-20", "2023-04-07"}, merged.Dates())
	assert.Equal(t, 2, a.Len(), "merge must not modify its receiver")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "holidays.yaml")
		content := "version: 2023-EC\nholidays:\n  - \"2023-01-01\"\n  - 2023-02-20\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		h, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "2023-EC", h.Version)
		assert.True(t, h.Contains(day("2023-02-20")))
	})

	t.Run("json without version", func(t *testing.T) {
		path := filepath.Join(dir, "holidays.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"holidays": ["2024-05-24"]}`), 0600))

		h, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, path, h.Version)
		assert.True(t, h.Contains(day("2024-05-24")))
	})

	t.Run("empty", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: x\n"), 0600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrEmptyCalendar)
	})

	t.Run("numeric dates are rejected", func(t *testing.T) {
		path := filepath.Join(dir, "numeric.yaml")
		require.NoError(t, os.WriteFile(path, []byte("holidays:\n  - 20230101\n"), 0600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrInvalidCalendar)
	})

	t.Run("day first dates are rejected", func(t *testing.T) {
		path := filepath.Join(dir, "dayfirst.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"holidays": ["24/05/2024"]}`), 0600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrInvalidCalendar)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
