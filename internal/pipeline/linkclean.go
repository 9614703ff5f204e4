package pipeline

import (
	"net/url"
	"strings"
)

var cafeLandingMarkers = []string{"/ca-fe/", "/MyCafeIntro/", "/Entry/", "/cafes/"}

// CanonicalizeLink rewrites Naver blog and cafe redirect/landing URLs to
// their canonical per-post form so landing-page variants of the same post
// collide on the dedup link key. Links it does not recognize pass through
// untouched.
func CanonicalizeLink(link string) string {
	if link == "" {
		return link
	}

	if strings.Contains(link, "blog.naver.com/") {
		return canonicalizeBlogLink(link)
	}
	if strings.Contains(link, "cafe.naver.com/") {
		return canonicalizeCafeLink(link)
	}
	return link
}

func canonicalizeBlogLink(link string) string {
	if !strings.Contains(link, "/Promotion") && !strings.Contains(link, "blogId=") {
		return link
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	query := parsed.Query()
	blogID := query.Get("blogId")
	logNo := query.Get("logNo")
	if blogID == "" || logNo == "" {
		return link
	}
	return "https://blog.naver.com/" + blogID + "/" + logNo
}

func canonicalizeCafeLink(link string) string {
	isLanding := false
	for _, marker := range cafeLandingMarkers {
		if strings.Contains(link, marker) {
			isLanding = true
			break
		}
	}
	if !isLanding {
		return link
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}

	var cafeID, articleID string
	parts := strings.Split(parsed.Path, "/")
	for i, part := range parts {
		switch part {
		case "cafes":
			if i+1 < len(parts) {
				cafeID = parts[i+1]
			}
		case "articles":
			if i+1 < len(parts) {
				articleID = parts[i+1]
			}
		}
	}

	query := parsed.Query()
	if cafeID == "" {
		cafeID = query.Get("cafeId")
	}
	if articleID == "" {
		articleID = query.Get("articleId")
	}
	if cafeID == "" || articleID == "" {
		return link
	}
	return "https://cafe.naver.com/" + cafeID + "/" + articleID
}
