package yt

import (
	"net/url"
	"regexp"
	"strings"
)

type linkPattern struct {
	re *regexp.Regexp
	// shorts links keep their own form and ignore list=
	shorts bool
}

// Порядок важливий: перший збіг виграє.
var linkPatterns = []linkPattern{
	{re: regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([a-zA-Z0-9_-]{11})`), shorts: true},
	{re: regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`)},
	{re: regexp.MustCompile(`(?:https?://)?youtu\.be/([a-zA-Z0-9_-]{11})`)},
	{re: regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/embed/([a-zA-Z0-9_-]{11})`)},
	{re: regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/v/([a-zA-Z0-9_-]{11})`)},
	{re: regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/[^/\s]+\?v=([a-zA-Z0-9_-]{11})`)},
}

func IsUrl(str string) bool {
	u, err := url.Parse(str)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// listFollows reports whether "list=" appears after pos on the same line.
func listFollows(text string, pos int) bool {
	rest := text[pos:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.Contains(rest, "list=")
}

// IsYoutubeLink reports whether str starts with a single-video YouTube link.
// Playlist links (list=) are rejected, shorts are always accepted.
func IsYoutubeLink(str string) bool {
	for _, p := range linkPatterns {
		loc := p.re.FindStringSubmatchIndex(str)
		if loc == nil || loc[0] != 0 {
			continue
		}
		if p.shorts || !listFollows(str, loc[1]) {
			return true
		}
	}
	return false
}

// ExtractYoutubeURL finds the first YouTube link anywhere in text and returns
// its canonical form.
func ExtractYoutubeURL(text string) (string, bool) {
	for _, p := range linkPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if !p.shorts && listFollows(text, loc[1]) {
				continue
			}
			id := text[loc[2]:loc[3]]
			if p.shorts {
				return ShortsURL(id), true
			}
			return WatchURL(id), true
		}
	}
	return "", false
}

func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func ShortsURL(id string) string {
	return "https://www.youtube.com/shorts/" + id
}

var idPrefixes = []string{
	"https://www.youtube.com/watch?v=",
	"https://www.youtube.com/shorts/",
	"https://youtube.com/watch?v=",
	"https://youtube.com/shorts/",
	"https://m.youtube.com/watch?v=",
	"https://youtu.be/",
	"http://youtu.be/",
}

// NormalizeVideoID strips the known URL prefixes and any ?si= / & tail.
// Unknown shapes come back trimmed but otherwise untouched.
func NormalizeVideoID(link string) string {
	id := strings.TrimSpace(link)
	id = strings.SplitN(id, "?si=", 2)[0]
	for _, prefix := range idPrefixes {
		if strings.HasPrefix(id, prefix) {
			id = strings.TrimPrefix(id, prefix)
			break
		}
	}
	id = strings.SplitN(id, "&", 2)[0]
	id = strings.SplitN(id, "?", 2)[0]
	return id
}
