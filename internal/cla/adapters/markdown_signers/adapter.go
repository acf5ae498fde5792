// Package markdownsigners reads signer identities from published markdown agreement records.
package markdownsigners

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

// rowPattern matches a table cell holding a markdown link, e.g.
//
//	| [alice](https://github.com/alice) | 2024-01-01 |
//
// The link text is the signer identity. Neither the text nor the target may
// contain whitespace, Unicode spaces and separators included.
var rowPattern = regexp.MustCompile(`\| *\[(` + nonSpace + `+)\]\(` + nonSpace + `+\) *\|`)

// nonSpace excludes every Unicode whitespace rune, not only the ASCII set \s covers.
const nonSpace = `[^\s\v\p{Z}\x{1c}-\x{1f}\x{85}]`

// Adapter implements ports.SignerSourcePort by downloading a markdown
// document over HTTP and scanning it for signer table rows.
type Adapter struct {
	client *http.Client
	logger *slog.Logger
}

// New creates a new markdown signer adapter. A nil client falls back to
// http.DefaultClient.
func New(client *http.Client, logger *slog.Logger) *Adapter {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{client: client, logger: logger}
}

// FetchSigners downloads the document at url and returns the identities it lists.
// Network errors and non-2xx responses are returned as errors; there is no retry.
func (a *Adapter) FetchSigners(ctx context.Context, url string) (domain.SignerSet, error) {
	a.logger.Info("fetching agreement record", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status downloading %s: %d", url, resp.StatusCode)
	}

	signers, err := ParseSigners(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}

	a.logger.Info("agreement record parsed", "url", url, "signers", signers.Len())
	return signers, nil
}

// ParseSigners scans r line by line and collects the link text of every
// pipe-delimited cell of the form "| [identity](link) |".
func ParseSigners(r io.Reader) (domain.SignerSet, error) {
	signers := domain.NewSignerSet()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, m := range rowPattern.FindAllStringSubmatch(scanner.Text(), -1) {
			signers.Add(m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return signers, nil
}
