// Package extract pulls SAT XML download links out of message HTML.
package extract

import "regexp"

// NoLinkFound is returned when the HTML contains no matching anchor
const NoLinkFound = "No link found"

// The anchor syntax matches case-insensitively and tolerates attributes
// before href (SAT notifications carry target/style on the anchor); the
// SAT download host and path must match literally.
var xmlLinkPattern = regexp.MustCompile(`(?i:<a\s+[^>]*href=)"(https://felav02\.c\.sat\.gob\.gt/[^"]+)"`)

// XMLLink returns the first SAT XML download URL found in html, or
// NoLinkFound. Pure function: no state, no network.
func XMLLink(html string) string {
	match := xmlLinkPattern.FindStringSubmatch(html)
	if match == nil {
		return NoLinkFound
	}
	return match[1]
}

// Found reports whether an extraction result is a real link
func Found(link string) bool {
	return link != "" && link != NoLinkFound
}
