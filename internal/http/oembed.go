package http

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ErrNoTitle is returned when the lookup succeeds but carries no title.
var ErrNoTitle = errors.New("no title in oembed response")

// OEmbed is the subset of an oEmbed document used here.
type OEmbed struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
}

// LookupOEmbed queries the oEmbed endpoint for videoURL.
func (c *Client) LookupOEmbed(ctx context.Context, videoURL string) (OEmbed, error) {
	q := url.Values{}
	q.Set("url", videoURL)
	q.Set("format", "json")

	var doc OEmbed
	if err := c.GetJSON(ctx, c.OEmbedEndpoint+"?"+q.Encode(), &doc); err != nil {
		return OEmbed{}, err
	}
	return doc, nil
}

// VideoTitle returns the trimmed title of videoURL.
func (c *Client) VideoTitle(ctx context.Context, videoURL string) (string, error) {
	doc, err := c.LookupOEmbed(ctx, videoURL)
	if err != nil {
		return "", err
	}
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		return "", ErrNoTitle
	}
	return title, nil
}
