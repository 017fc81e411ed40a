package moex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
)

// DefaultBaseURL is the public ISS endpoint.
const DefaultBaseURL = "https://iss.moex.com"

// ISS paths. All respond with the columns/data JSON envelope.
const (
	searchPath      = "/iss/securities.json"
	descriptionPath = "/iss/securities/%s.json"
	marketDataPath  = "/iss/engines/stock/markets/bonds/securities/%s.json"
	historyPath     = "/iss/history/engines/stock/markets/bonds/securities/%s.json"
	bondizationPath = "/iss/statistics/engines/stock/markets/bonds/bondization/%s.json"
)

// Security codes: uppercase letters, digits and a dash, as MOEX issues them.
var codePattern = regexp.MustCompile(`^[A-Z0-9-]{1,20}$`)

// ValidateCode checks a SECID/ISIN for shape before it reaches a URL.
func ValidateCode(code string) error {
	if code == "" {
		return apperrors.NewValidationError("code", code, "code cannot be empty")
	}
	if !codePattern.MatchString(code) {
		return apperrors.NewValidationError("code", code, "invalid security code format")
	}
	return nil
}

// NormalizeCode uppercases and trims an identifier the way the exchange
// directory stores it.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Config holds configuration for the ISS client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client implements the ISS interface against the live data feed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     zerolog.Logger
}

var _ ISS = (*Client)(nil)

// NewClient creates a new ISS client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     logger.With().Str("component", "moex").Logger(),
	}
}

// fetch issues one GET against the ISS and decodes the JSON envelope into out.
func (c *Client) fetch(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apperrors.NewAPIError(path, 0, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewAPIError(path, 0, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewAPIError(path, resp.StatusCode, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.NewAPIError(path, resp.StatusCode, "unexpected status", nil)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewAPIError(path, resp.StatusCode, "malformed response", err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("iss request")
	return nil
}

// Search queries the securities directory for a code or name fragment.
func (c *Client) Search(ctx context.Context, query string) ([]models.SecurityMatch, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("iss.meta", "off")

	var env struct {
		Securities Table `json:"securities"`
	}
	if err := c.fetch(ctx, searchPath, q, &env); err != nil {
		return nil, err
	}

	matches := make([]models.SecurityMatch, 0, env.Securities.Len())
	for i := 0; i < env.Securities.Len(); i++ {
		secID, _ := env.Securities.String(i, "secid")
		isin, _ := env.Securities.String(i, "isin")
		short, _ := env.Securities.String(i, "shortname")
		name, _ := env.Securities.String(i, "name")
		emitent, _ := env.Securities.String(i, "emitent_title")
		matches = append(matches, models.SecurityMatch{
			SecID:     secID,
			ISIN:      isin,
			ShortName: short,
			Name:      name,
			Emitent:   emitent,
		})
	}
	return matches, nil
}

// Lookup resolves an ISIN to its SECID (direction isin2secid) or a SECID
// to its ISIN (secid2isin) via the securities directory.
func (c *Client) Lookup(ctx context.Context, code string, direction models.LookupDirection) (string, error) {
	if direction != models.ISINToSecID && direction != models.SecIDToISIN {
		return "", apperrors.NewValidationError("direction", string(direction),
			"direction should be either 'isin2secid' or 'secid2isin'")
	}

	code = NormalizeCode(code)
	if err := ValidateCode(code); err != nil {
		return "", err
	}

	matches, err := c.Search(ctx, code)
	if err != nil {
		return "", err
	}

	for _, m := range matches {
		switch direction {
		case models.ISINToSecID:
			if m.ISIN == code {
				return m.SecID, nil
			}
		case models.SecIDToISIN:
			if m.SecID == code {
				return m.ISIN, nil
			}
		}
	}
	return "", apperrors.Wrapf(apperrors.ErrSecurityNotFound, "no match for %s", code)
}

// Description returns the reference block of /iss/securities/{secid}.
func (c *Client) Description(ctx context.Context, secID string) (*Table, error) {
	var env struct {
		Description Table `json:"description"`
	}
	path := fmt.Sprintf(descriptionPath, url.PathEscape(secID))
	if err := c.fetch(ctx, path, nil, &env); err != nil {
		return nil, err
	}
	return &env.Description, nil
}

// MarketData returns the per-board securities block of the bonds market.
func (c *Client) MarketData(ctx context.Context, secID string) (*Table, error) {
	q := url.Values{}
	q.Set("iss.only", "securities")

	var env struct {
		Securities Table `json:"securities"`
	}
	path := fmt.Sprintf(marketDataPath, url.PathEscape(secID))
	if err := c.fetch(ctx, path, q, &env); err != nil {
		return nil, err
	}
	return &env.Securities, nil
}

// History returns daily trade history rows on the main board between two
// ISS dates, inclusive.
func (c *Client) History(ctx context.Context, secID, from, till string) (*Table, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("till", till)
	q.Set("marketprice_board", "1")

	var env struct {
		History Table `json:"history"`
	}
	path := fmt.Sprintf(historyPath, url.PathEscape(secID))
	if err := c.fetch(ctx, path, q, &env); err != nil {
		return nil, err
	}
	return &env.History, nil
}

// Bondization returns the coupon, amortization and offer schedule blocks.
func (c *Client) Bondization(ctx context.Context, secID string) (*Bondization, error) {
	q := url.Values{}
	q.Set("limit", "100")

	var env Bondization
	path := fmt.Sprintf(bondizationPath, url.PathEscape(secID))
	if err := c.fetch(ctx, path, q, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
