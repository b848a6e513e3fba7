package tmdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/streamline-io/streamline/internal/models"
)

// NetflixNetworkID is the discover filter used for the home rows.
const NetflixNetworkID = 213

func (c *Client) endpoint(path string, query url.Values) string {
	query.Set("language", "en-US")
	return c.apiURL + "/" + path + "?" + query.Encode()
}

// Search looks up query in one catalogue.
func (c *Client) Search(ctx context.Context, kind models.ContentKind, query string) (*Page, error) {
	return c.Fetch(ctx, c.endpoint("search/"+string(kind), url.Values{
		"query":         {query},
		"include_adult": {"false"},
		"page":          {"1"},
	}))
}

// Trending returns the day's trending titles.
func (c *Client) Trending(ctx context.Context, kind models.ContentKind) (*Page, error) {
	return c.Fetch(ctx, c.endpoint(fmt.Sprintf("trending/%s/day", kind), url.Values{}))
}

// Trailers returns the videos attached to a title.
func (c *Client) Trailers(ctx context.Context, kind models.ContentKind, id string) (*Page, error) {
	return c.Fetch(ctx, c.endpoint(fmt.Sprintf("%s/%s/videos", kind, url.PathEscape(id)), url.Values{}))
}

// Details returns the full record for a title in Page.Raw.
func (c *Client) Details(ctx context.Context, kind models.ContentKind, id string) (*Page, error) {
	return c.Fetch(ctx, c.endpoint(fmt.Sprintf("%s/%s", kind, url.PathEscape(id)), url.Values{}))
}

func (c *Client) Similar(ctx context.Context, kind models.ContentKind, id string) (*Page, error) {
	return c.Fetch(ctx, c.endpoint(fmt.Sprintf("%s/%s/similar", kind, url.PathEscape(id)), url.Values{"page": {"1"}}))
}

// Category returns a list such as now_playing, popular, or top_rated.
func (c *Client) Category(ctx context.Context, kind models.ContentKind, category string) (*Page, error) {
	return c.Fetch(ctx, c.endpoint(fmt.Sprintf("%s/%s", kind, url.PathEscape(category)), url.Values{"page": {"1"}}))
}

// Discover lists Netflix titles, optionally restricted to a region.
func (c *Client) Discover(ctx context.Context, kind models.ContentKind, region string) (*Page, error) {
	query := url.Values{
		"with_networks": {fmt.Sprint(NetflixNetworkID)},
		"page":          {"1"},
	}
	if region != "" {
		query.Set("region", region)
	}
	return c.Fetch(ctx, c.endpoint("discover/"+string(kind), query))
}
