package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reverse-short-url/biliutil"
)

func TestVideoMatcher_Convert(t *testing.T) {
	m := newVideoMatcher(defaultBiliHosts)

	tests := []struct {
		url      string
		from, to string
	}{
		{"https://www.bilibili.com/video/BV17x411w7KC", "BV17x411w7KC", "av170001"},
		{"https://m.bilibili.com/video/bv1xx411c7XW?p=1", "bv1xx411c7XW", "av314"},
		{"https://WWW.Bilibili.com/video/BV1xx411c7XW/", "BV1xx411c7XW", "av314"},
		{"https://www.bilibili.com/video/av170001/", "av170001", "BV17x411w7KC"},
		{"http://bilibili.com/video/AV314", "AV314", "BV1xx411c7XW"},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			from, to, err := m.convert(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.from, from)
			assert.Equal(t, tc.to, to)
		})
	}
}

func TestVideoMatcher_NotVideo(t *testing.T) {
	m := newVideoMatcher(defaultBiliHosts)

	for _, u := range []string{
		"https://example.com/video/BV17x411w7KC",
		"https://www.bilibili.com/bangumi/play/ep123",
		"https://www.bilibili.com/video/avatar",
		"https://www.bilibili.com/video/BV17x411",
		"https://www.bilibili.com/",
	} {
		t.Run(u, func(t *testing.T) {
			_, _, err := m.convert(u)
			assert.ErrorIs(t, err, errNotVideo)
		})
	}
}

func TestVideoMatcher_CodecErrors(t *testing.T) {
	m := newVideoMatcher(defaultBiliHosts)

	_, _, err := m.convert("https://www.bilibili.com/video/BV17x411w7K0")
	assert.ErrorIs(t, err, biliutil.ErrInvalidSymbol)

	_, _, err = m.convert("https://www.bilibili.com/video/BV1ff4f1f7ff")
	assert.ErrorIs(t, err, biliutil.ErrUnderflow)

	_, _, err = m.convert("https://www.bilibili.com/video/av99999999999")
	assert.ErrorIs(t, err, biliutil.ErrOverflow)

	_, _, err = m.convert("http://[::1")
	assert.Error(t, err)
}
