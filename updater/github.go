package updater

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
)

// GitHubFetcher fetches the latest commit hash of a branch through the
// GitHub commits API.
type GitHubFetcher struct {
	Owner  string
	Repo   string
	Branch string

	Client *http.Client
}

var _ RefFetcher = (*GitHubFetcher)(nil)

// NewGitHubFetcher creates a fetcher for owner/repo@branch with a bounded
// request timeout.
func NewGitHubFetcher(owner, repo, branch string) *GitHubFetcher {
	return &GitHubFetcher{
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchRef returns the commit hash the remote branch currently points at.
func (g *GitHubFetcher) FetchRef(ctx context.Context) (string, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%v/%v/commits/%v", g.Owner, g.Repo, g.Branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fetching remote ref")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("fetching remote ref: unexpected status %v", resp.Status)
	}

	var body struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decoding response")
	}
	if body.SHA == "" {
		return "", errors.New("decoding response: empty commit hash")
	}

	return body.SHA, nil
}
