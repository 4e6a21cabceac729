package brew

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	searchTimeout    = 15 * time.Second
	searchResultCap  = 30
	formulaIndexPath = "/formula.json"
)

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: searchTimeout}
}

func (c *Client) apiBase() string {
	if c.APIBase != "" {
		return strings.TrimRight(c.APIBase, "/")
	}
	return DefaultAPIBase
}

// Search queries the formula API index and filters it by substring on
// name and description, case-insensitively. Results are capped; an
// empty query is rejected.
func (c *Client) Search(ctx context.Context, query string) ([]Package, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil, &Error{Op: "search", Message: "empty query"}
	}

	url := c.apiBase() + formulaIndexPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Op: "search", Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &Error{Op: "search", Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "search", Message: fmt.Sprintf("formula API returned %s", resp.Status)}
	}

	var index []struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
		Desc     string `json:"desc"`
		Homepage string `json:"homepage"`
		Versions struct {
			Stable string `json:"stable"`
		} `json:"versions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, &Error{Op: "search", Message: "parse index: " + err.Error()}
	}

	var out []Package
	for _, f := range index {
		if !strings.Contains(strings.ToLower(f.Name), query) &&
			!strings.Contains(strings.ToLower(f.Desc), query) {
			continue
		}
		out = append(out, Package{
			Name:        f.Name,
			Current:     f.Versions.Stable,
			Description: f.Desc,
			Homepage:    f.Homepage,
		})
		if len(out) >= searchResultCap {
			break
		}
	}
	return out, nil
}
