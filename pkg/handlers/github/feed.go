package github

import (
	"context"
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/beevik/etree"
)

// LatestTag reads the newest release tag from the repository's Atom feed.
// Tags without a digit ("nightly", "stable") are rolling aliases and skipped.
func LatestTag(ctx context.Context, client *handlers.Client, baseURL, repo string) (string, error) {
	feedURL := strings.TrimRight(baseURL, "/") + "/" + repo + "/releases.atom"
	data, err := client.Fetch(ctx, feedURL)
	if err != nil {
		return "", err
	}

	tags, err := ParseFeed(data)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDownload, "invalid release feed for %s", repo)
	}
	for _, tag := range tags {
		if strings.IndexFunc(tag, unicode.IsDigit) >= 0 {
			return tag, nil
		}
	}
	return "", errors.Newf(errors.ErrDownload, "no versioned release found for %s", repo).
		WithDetail("repo", repo)
}

// ParseFeed returns release tags in feed order, newest first
func ParseFeed(data []byte) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	feed := doc.SelectElement("feed")
	if feed == nil {
		return nil, errors.New(errors.ErrDownload, "document is not an Atom feed")
	}

	var tags []string
	for _, entry := range feed.SelectElements("entry") {
		if tag := entryTag(entry); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// entryTag reads the tag from the entry's release link, falling back to its id
// ("tag:github.com,2008:Repository/123/v1.2.3")
func entryTag(entry *etree.Element) string {
	if link := entry.SelectElement("link"); link != nil {
		href := link.SelectAttrValue("href", "")
		if i := strings.Index(href, "/releases/tag/"); i >= 0 {
			if tag, err := url.PathUnescape(href[i+len("/releases/tag/"):]); err == nil && tag != "" {
				return tag
			}
		}
	}
	if id := entry.SelectElement("id"); id != nil {
		return path.Base(strings.TrimSpace(id.Text()))
	}
	return ""
}
