// Package idonethis is a session-authenticated client for the idonethis.com
// journal. The site has no public API: the client logs in through the
// website's own login form, keeps the resulting cookies in a per-user
// session store, and talks to the same endpoints the browser does.
package idonethis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"idonethis-client/lib/restyutil"
	"idonethis-client/lib/sessionstore"
)

var tracer = otel.Tracer("scrapers/idonethis")

const DefaultBaseUrl = "https://idonethis.com"

var ErrWrongCredentials = errors.New("Failed to login: wrong username/password?")
var ErrMissingText = errors.New("you must provide the text of the entry to submit")

// Client is bound to a single account. It owns its transport and session
// store and is not safe for concurrent use.
type Client struct {
	// Username and Calendar start out as whatever the caller supplied and
	// are overwritten with the canonical identifier the server reveals
	// during login. Root follows Calendar.
	Username string
	Calendar string
	BaseUrl  *url.URL
	Root     *url.URL

	http  *resty.Client
	store *sessionstore.Store
}

type ClientOptions struct {
	Username string
	Password string
	// Calendar overrides the journal identifier when it differs from the
	// username.
	Calendar string
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Http substitutes a preconstructed transport. The caller owns its
	// cookie jar: set it to Store.Jar() (or the default store's jar) if the
	// session should persist, otherwise Save writes an empty session.
	Http *resty.Client
	// Store substitutes a preconstructed session store.
	Store *sessionstore.Store
}

// NewClient establishes a usable session before returning: a previously
// persisted session is probed with a harmless read of today's entries, and
// any failure at all falls back to a fresh interactive login. A freshly
// logged-in session is saved to the store before NewClient returns.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	ctx, span := tracer.Start(ctx, "NewClient")
	defer span.End()

	if opts.Username == "" {
		return nil, fmt.Errorf("you must provide a username")
	}

	base := opts.BaseUrl
	if base == "" {
		base = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		store, err = sessionstore.Open(opts.Username)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to open session store")
			return nil, err
		}
	}

	httpc := opts.Http
	if httpc == nil {
		httpc = resty.New()
		httpc.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpc.GetClient().Transport)
		httpc.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
		httpc.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
		httpc.SetTimeout(time.Second * 30)
		// unconditionally: resty.New installs a throwaway in-memory jar,
		// which would swallow the session cookies Save is meant to persist
		httpc.SetCookieJar(store.Jar())
		restyutil.InstrumentClient(httpc, "scrapers/idonethis/http", restyOutput)
	}

	calendar := opts.Calendar
	if calendar == "" {
		calendar = opts.Username
	}

	c := &Client{
		Username: opts.Username,
		BaseUrl:  baseUrl,
		http:     httpc,
		store:    store,
	}
	c.setCalendar(calendar)

	// probe with a real read so an expired cookie, an endpoint outage and
	// a never-seen user all take the same fallback path. the fetched
	// entries are thrown away.
	_, err = c.GetToday(ctx)
	if err == nil {
		span.AddEvent("restored session")
		return c, nil
	}
	slog.InfoContext(
		ctx, "session not usable, logging in",
		"username", opts.Username,
		"probe_err", err,
	)

	err = c.login(ctx, opts.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to login")
		return nil, err
	}

	// saved right away rather than at shutdown so an abnormal exit can't
	// lose a fresh session
	err = store.Save()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist session")
		return nil, err
	}
	return c, nil
}

// setCalendar points the resource root at the given journal identifier.
func (c *Client) setCalendar(id string) {
	c.Calendar = id
	c.Root = c.BaseUrl.ResolveReference(&url.URL{Path: "/cal/" + id + "/"})
}

// Close flushes the session to the store one final time. A fresh login is
// already saved by NewClient, this picks up cookies the server rotated
// during later requests.
func (c *Client) Close() error {
	return c.store.Save()
}
