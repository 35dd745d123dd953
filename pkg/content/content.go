package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/google/go-querystring/query"
	"github.com/sony/gobreaker"
)

type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type SiteContent struct {
	AppName      string    `json:"appName"`
	HeroTitle    string    `json:"heroTitle"`
	HeroSubtitle string    `json:"heroSubtitle"`
	NavLinks     []NavLink `json:"navLinks"`
}

// Fallback is served whenever the content source is unconfigured or failing.
func Fallback() SiteContent {
	return SiteContent{
		AppName:      "Dalmatia Stays",
		HeroTitle:    "Find Your Perfect Getaway",
		HeroSubtitle: "Discover amazing accommodations in beautiful Dalmatia",
		NavLinks: []NavLink{
			{Label: "Home", Href: "/"},
			{Label: "Explore", Href: "/accommodations"},
			{Label: "About", Href: "/about"},
		},
	}
}

type Source interface {
	SiteContent(ctx context.Context) SiteContent
}

// Static always answers with fixed content.
type Static SiteContent

func (s Static) SiteContent(context.Context) SiteContent {
	return SiteContent(s)
}

// New returns the fallback source when Contentful is not configured.
func New(cfg config.ContentConfig) Source {
	if cfg.SpaceID == "" || cfg.AccessToken == "" {
		return Static(Fallback())
	}
	return NewContentful(cfg, &http.Client{Timeout: cfg.Timeout})
}

type entriesQuery struct {
	ContentType string `url:"content_type"`
	Limit       int    `url:"limit"`
	Include     int    `url:"include"`
}

type link struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

type entriesResponse struct {
	Items []struct {
		Fields struct {
			AppName      string `json:"appName"`
			HeroTitle    string `json:"heroTitle"`
			HeroSubtitle string `json:"heroSubtitle"`
			NavLinks     []link `json:"navLinks"`
		} `json:"fields"`
	} `json:"items"`
	Includes struct {
		Entry []struct {
			Sys struct {
				ID string `json:"id"`
			} `json:"sys"`
			Fields NavLink `json:"fields"`
		} `json:"Entry"`
	} `json:"includes"`
}

var errNoEntries = errors.New("no siteSettings entry")

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("contentful responded %d", e.code)
}

// Contentful reads the single siteSettings entry from the delivery API.
type Contentful struct {
	cfg    config.ContentConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

func NewContentful(cfg config.ContentConfig, client *http.Client) *Contentful {
	return &Contentful{
		cfg:    cfg,
		client: client,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "contentful",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
			// An empty space or a rejected token is not an outage.
			IsSuccessful: func(err error) bool {
				if err == nil || errors.Is(err, errNoEntries) {
					return true
				}
				var se statusError
				return errors.As(err, &se) && se.code >= 400 && se.code < 500
			},
		}),
	}
}

// SiteContent never fails: every error is logged and answered with the
// fallback. Missing fields fall back individually.
func (c *Contentful) SiteContent(ctx context.Context) SiteContent {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		logger.WarnContext(ctx, "site content unavailable, using fallback", "error", err)
		return Fallback()
	}
	return merge(res.(*entriesResponse))
}

func (c *Contentful) fetch(ctx context.Context) (*entriesResponse, error) {
	v, err := query.Values(entriesQuery{ContentType: "siteSettings", Limit: 1, Include: 1})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.SpaceID, c.cfg.Environment, v.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, statusError{code: resp.StatusCode}
	}

	var out entriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, errNoEntries
	}
	return &out, nil
}

func merge(r *entriesResponse) SiteContent {
	out := Fallback()
	f := r.Items[0].Fields
	if f.AppName != "" {
		out.AppName = f.AppName
	}
	if f.HeroTitle != "" {
		out.HeroTitle = f.HeroTitle
	}
	if f.HeroSubtitle != "" {
		out.HeroSubtitle = f.HeroSubtitle
	}
	if len(f.NavLinks) == 0 {
		return out
	}

	byID := make(map[string]NavLink, len(r.Includes.Entry))
	for _, e := range r.Includes.Entry {
		byID[e.Sys.ID] = e.Fields
	}
	links := make([]NavLink, 0, len(f.NavLinks))
	for _, l := range f.NavLinks {
		if nl, ok := byID[l.Sys.ID]; ok {
			links = append(links, nl)
		}
	}
	if len(links) > 0 {
		out.NavLinks = links
	}
	return out
}
