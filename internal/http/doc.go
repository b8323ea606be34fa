// Package http provides a small HTTP client for video metadata lookups.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - oEmbed title lookups
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Title of a video, without launching a browser
//	title, err := client.VideoTitle(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
//
// The oEmbed endpoint can be pointed elsewhere, which tests use with
// net/http/httptest:
//
//	client.OEmbedEndpoint = server.URL
package http
