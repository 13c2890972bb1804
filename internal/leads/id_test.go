package leads

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Format(t *testing.T) {
	now := time.UnixMilli(1714557600123)
	id := NewID(now)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "REQ", parts[0])
	assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), parts[1])
	assert.Len(t, parts[2], 9)
	assert.Regexp(t, idPattern, id)
}

func TestNewID_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id := NewID(now)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("Pending")
	assert.True(t, IsValidation(err))
}
