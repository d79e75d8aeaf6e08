package slug

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Hello   World  ", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"HELLO WORLD", "hello-world"},
		{"Go 1.24 — what's new?", "go-1-24-what-s-new"},
		{"Café résumé", "cafe-resume"},
		{"---", ""},
		{"", ""},
		{"a b", "a-b"},
		{"100% coverage", "100-coverage"},
		{"chapter ١٢٣", "chapter"},
		{"１２３ fullwidth", "fullwidth"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Normalize(tc.title), "title %q", tc.title)
	}
}

func TestAssignDeterministicWhenFree(t *testing.T) {
	none := func(string) (bool, error) { return false, nil }

	s1, err := Assign("Hello World", none, nil)
	require.NoError(t, err)
	s2, err := Assign("Hello World", none, nil)
	require.NoError(t, err)

	require.Equal(t, "hello-world", s1)
	require.Equal(t, s1, s2, "empty existing set yields the same slug every time")
}

func TestAssignAppendsNonceOnCollision(t *testing.T) {
	taken := func(s string) (bool, error) { return s == "hello-world", nil }
	clock := func() time.Time { return time.UnixMilli(1717243200123) }

	s, err := Assign("Hello, World!", taken, clock)
	require.NoError(t, err)
	require.Equal(t, "hello-world-1717243200123", s)
}

func TestAssignSequentialTitlesDistinct(t *testing.T) {
	existing := map[string]bool{}
	exists := func(s string) (bool, error) { return existing[s], nil }
	ms := int64(1000)
	clock := func() time.Time { ms++; return time.UnixMilli(ms) }

	s1, err := Assign("Same Title", exists, clock)
	require.NoError(t, err)
	existing[s1] = true

	s2, err := Assign("same title", exists, clock)
	require.NoError(t, err)

	require.NotEqual(t, s1, s2)
}

func TestAssignEmptyTitle(t *testing.T) {
	none := func(string) (bool, error) { return false, nil }
	s, err := Assign("!!!", none, nil)
	require.NoError(t, err)
	require.Equal(t, "untitled", s)
}
