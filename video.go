package main

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bobg/errors"

	"reverse-short-url/biliutil"
)

var errNotVideo = errors.New("not a bilibili video url")

type videoMatcher struct {
	hosts map[string]struct{}
}

func newVideoMatcher(hosts []string) videoMatcher {
	m := videoMatcher{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		m.hosts[strings.ToLower(h)] = struct{}{}
	}
	return m
}

// convert finds a BV code or av number in the path of a bilibili URL and
// returns it together with the other form, e.g. "BV17x411w7KC", "av170001".
func (m videoMatcher) convert(rawurl string) (from string, to string, err error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", "", err
	}
	if _, ok := m.hosts[strings.ToLower(u.Hostname())]; !ok {
		return "", "", errors.Wrapf(errNotVideo, "host %s", u.Hostname())
	}

	for _, e := range strings.Split(u.Path, "/") {
		if len(e) < 3 {
			continue
		}
		switch strings.ToLower(e[:2]) {
		case "bv":
			if len(e) != 2+biliutil.CodeLen {
				continue
			}
			av, err := biliutil.Decode(e[2:])
			if err != nil {
				return "", "", errors.Wrapf(err, "decoding %s", e)
			}
			return e, "av" + strconv.FormatUint(av, 10), nil

		case "av":
			n, err := strconv.ParseUint(e[2:], 10, 64)
			if err != nil {
				continue
			}
			bv, err := biliutil.Encode(n)
			if err != nil {
				return "", "", errors.Wrapf(err, "encoding %s", e)
			}
			return e, "BV" + bv, nil
		}
	}

	return "", "", errors.Wrapf(errNotVideo, "path %s", u.Path)
}
