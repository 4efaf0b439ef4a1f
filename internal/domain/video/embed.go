// Package video turns a lesson video URL into something a page can embed.
package video

import (
	"regexp"
	"strings"
)

// Kind names how a video is rendered.
type Kind string

const (
	KindNone    Kind = ""
	KindYouTube Kind = "youtube"
	KindVimeo   Kind = "vimeo"
	KindDirect  Kind = "direct"
	KindIframe  Kind = "iframe"
)

// Embed is a resolved video source.
type Embed struct {
	Kind Kind
	Src  string
}

var (
	youtubePattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	vimeoPattern   = regexp.MustCompile(`vimeo\.com/(?:channels/(?:\w+/)?|groups/(?:[^/]*)/videos/|album/(?:\d+)/video/|)(\d+)(?:$|/|\?)`)
)

var directExtensions = []string{".mp4", ".mov", ".webm"}

// Resolve classifies rawURL and returns the source to embed.
// PRE: none
// POST: KindNone for blank input; YouTube and Vimeo links map to their player URLs;
// links to video files are played directly; anything else is framed as-is
func Resolve(rawURL string) Embed {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return Embed{Kind: KindNone}
	}
	if m := youtubePattern.FindStringSubmatch(u); m != nil {
		return Embed{
			Kind: KindYouTube,
			Src:  "https://www.youtube.com/embed/" + m[1] + "?rel=0&modestbranding=1&showinfo=0",
		}
	}
	if m := vimeoPattern.FindStringSubmatch(u); m != nil {
		return Embed{Kind: KindVimeo, Src: "https://player.vimeo.com/video/" + m[1]}
	}
	lower := strings.ToLower(u)
	for _, ext := range directExtensions {
		if strings.Contains(lower, ext) {
			return Embed{Kind: KindDirect, Src: u}
		}
	}
	return Embed{Kind: KindIframe, Src: u}
}
