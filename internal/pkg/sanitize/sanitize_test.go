package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainTextStripsMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"<b>hello</b>", "hello"},
		{"<script>alert(1)</script>ok", "ok"},
		{"a < b > c", "a  b  c"},
		{"  padded  ", "padded"},
		{"<img src=x onerror=alert(1)>plain", "plain"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, PlainText(tc.in, 0), "input %q", tc.in)
	}
}

func TestPlainTextCapsLength(t *testing.T) {
	long := strings.Repeat("x", 1200)
	require.Len(t, PlainText(long, 1000), 1000)

	// Cap counts runes, not bytes.
	require.Equal(t, "héé", PlainText("hééllo", 3))
}
