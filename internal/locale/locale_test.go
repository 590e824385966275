package locale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_Negotiate(t *testing.T) {
	t.Parallel()

	s := NewSet([]string{"fr", "en"}, "fr")

	cases := map[string]string{
		"":                        "fr",
		"en":                      "en",
		"en-US,en;q=0.9":          "en",
		"de-DE,de;q=0.9,en;q=0.5": "en",
		"de, es":                  "fr",
		"en;q=0.2, fr-CA;q=0.8":   "fr",
		"*":                       "fr",
		"en;q=0, fr;q=bad, en-GB": "en",
		"EN":                      "en",
	}
	for header, want := range cases {
		require.Equal(t, want, s.Negotiate(header), "header %q", header)
	}
}

func TestSet_Supported(t *testing.T) {
	t.Parallel()

	s := NewSet([]string{" FR ", "en"}, "FR")
	require.True(t, s.Supported("fr"))
	require.True(t, s.Supported("EN"))
	require.False(t, s.Supported("de"))
	require.Equal(t, "fr", s.Default())
	require.Equal(t, []string{"fr", "en"}, s.All())
}

func TestContext(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", FromContext(context.Background()))
	require.Equal(t, "en", FromContext(WithLocale(context.Background(), "en")))
}
