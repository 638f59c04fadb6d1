package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchTopic(t *testing.T) {
	testCases := []struct {
		topic   string
		pattern string
		match   bool
	}{
		{"dev1/rx", "dev1/rx", true},
		{"dev1/rx", "dev1/tx", false},
		{"dev1/rx", "+/rx", true},
		{"dev1/tx", "+/rx", false},
		{"dev1/meta", "+/+", true},
		{"dev1/rx", "#", true},
		{"dev1/a/b", "dev1/#", true},
		{"dev1", "dev1/rx", false},
		{"dev1/rx", "dev1", false},
		{"dev1/rx/extra", "+/rx", false},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.match, MatchTopic(tc.topic, tc.pattern),
			"topic %q pattern %q", tc.topic, tc.pattern)
	}
}

func TestClientOptionsFromURL(t *testing.T) {
	opts, prefix, err := ClientOptionsFromURL("mqtt://user:pw@localhost:1883/console/?client-id=c1")
	require.NoError(t, err)
	require.Equal(t, "console/", prefix)
	require.Equal(t, "c1", opts.ClientID)
	require.Equal(t, "user", opts.Username)
	require.Equal(t, "pw", opts.Password)
	require.Len(t, opts.Servers, 1)
	require.Equal(t, "tcp", opts.Servers[0].Scheme)

	_, _, err = ClientOptionsFromURL("://bad")
	require.Error(t, err)
}
