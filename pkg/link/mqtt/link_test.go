package mqtt

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchTopic(t *testing.T) {
	testCases := []struct {
		topic, pattern string
		match          bool
	}{
		{"dev/rx", "dev/rx", true},
		{"dev/rx", "dev/tx", false},
		{"dev/rx", "+/rx", true},
		{"dev/rx/x", "+/rx", false},
		{"dev", "dev/rx", false},
		{"dev/rx", "#", true},
		{"dev/rx", "dev/#", true},
		{"a/b/c", "a/+/c", true},
	}
	for _, tc := range testCases {
		t.Run(tc.topic+" "+tc.pattern, func(t *testing.T) {
			require.Equal(t, tc.match, MatchTopic(tc.topic, tc.pattern))
		})
	}
}

func TestClientOptionsFromURL(t *testing.T) {
	opts, prefix, err := ClientOptionsFromURL("mqtt://u:p@broker:1883/calc/?client-id=dev1")
	require.NoError(t, err)
	require.Equal(t, "calc/", prefix)
	require.Equal(t, "dev1", opts.ClientID)
	require.Equal(t, "u", opts.Username)
	require.Equal(t, "p", opts.Password)
	require.Len(t, opts.Servers, 1)
	require.Equal(t, "tcp://broker:1883", opts.Servers[0].String())
}

func TestLinkTopics(t *testing.T) {
	l := NewLink(nil).ForDevice("dev1")
	require.Equal(t, "dev1/rx", l.RxTopic)
	require.Equal(t, "dev1/tx", l.TxTopic)
	l.ForTerminal("dev1")
	require.Equal(t, "dev1/tx", l.RxTopic)
	require.Equal(t, "dev1/rx", l.TxTopic)
}

func TestLinkRead(t *testing.T) {
	l := NewLink(nil)
	l.Receive("", []byte("1+"))
	l.Receive("", nil)
	l.Receive("", []byte("2\n"))
	var out []byte
	buf := make([]byte, 1)
	for len(out) < 4 {
		n, err := l.Read(buf)
		require.NoError(t, err)
		out = append(out, buf[:n]...)
	}
	require.Equal(t, "1+2\n", string(out))
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	_, err := l.Read(buf)
	require.Equal(t, io.EOF, err)
}
