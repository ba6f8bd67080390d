package region

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizerName(t *testing.T) {
	n := NewNormalizer(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	tests := []struct {
		code string
		want string
	}{
		{"maharashtra", "Maharashtra"},
		{"andaman-&-nicobar-islands", "Andaman & Nicobar Island"},
		{"dadra-&-nagar-haveli-&-daman-&-diu", "Dadra and Nagar Haveli"},
		{"tamil-nadu", "Tamil Nadu"},
		{"atlantis", "atlantis"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Name(tt.code))
		})
	}
}

func TestNormalizerIdempotent(t *testing.T) {
	n := NewNormalizer(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	for _, e := range Entries() {
		once := n.Name(e.Code)
		assert.Equal(t, once, n.Name(once), "code %s", e.Code)
	}
	assert.Equal(t, "new-region", n.Name(n.Name("new-region")))
}

func TestNormalizerLogsUnmappedOnce(t *testing.T) {
	var buf bytes.Buffer
	n := NewNormalizer(slog.New(slog.NewTextHandler(&buf, nil)))

	n.Name("new-region")
	n.Name("new-region")
	n.Name("Maharashtra")

	assert.Equal(t, 1, strings.Count(buf.String(), "unmapped region code"))
	assert.Equal(t, []string{"new-region"}, n.Unmapped())
}

func TestEntriesSortedAndOneToOne(t *testing.T) {
	entries := Entries()
	require.Len(t, entries, len(stateNames))

	seen := make(map[string]bool)
	for i, e := range entries {
		if i > 0 {
			assert.Less(t, entries[i-1].Code, e.Code)
		}
		assert.False(t, seen[e.Name], "duplicate display name %s", e.Name)
		seen[e.Name] = true
		_, isCode := stateNames[e.Name]
		assert.False(t, isCode, "display name %s collides with a code", e.Name)
	}
}
