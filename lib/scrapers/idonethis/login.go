package idonethis

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"idonethis-client/lib/htmlutil"
)

const loginPath = "/accounts/login/"

// login drives the website's interactive login form and works out from the
// final URL whether it succeeded. On success the canonical calendar
// identifier from the server's redirect overwrites whatever the caller
// guessed.
func (c *Client) login(ctx context.Context, password string) error {
	ctx, span := tracer.Start(ctx, "client:login")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.BaseUrl.ResolveReference(&url.URL{Path: loginPath}).String())
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		return err
	}

	form := doc.Find("form#register")
	if form.Length() == 0 {
		span.SetStatus(codes.Error, "failed to find login form")
		return fmt.Errorf("could not find login form")
	}

	// carry every field the form declares (csrfmiddlewaretoken among
	// them), only username and password are ours to fill in
	fields := map[string]string{}
	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		fields[name] = input.AttrOr("value", "")
	})
	fields["username"] = c.Username
	fields["password"] = password

	pageUrl := res.RawResponse.Request.URL
	action, err := url.Parse(form.AttrOr("action", loginPath))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse form action")
		return err
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetFormData(fields).
		Post(pageUrl.ResolveReference(action).String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit login form")
		return err
	}

	final := res.RawResponse.Request.URL
	loc := classifyLocation(final)

	if loc.outcome == atLoginPage {
		span.SetStatus(codes.Error, ErrWrongCredentials.Error())
		return ErrWrongCredentials
	}
	if loc.outcome == atHome {
		// logged in but landed on the dashboard, the journal is one link
		// away
		final, err = c.followCalendarLink(ctx, res.Body(), final)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to follow calendar link")
			return err
		}
		loc = classifyLocation(final)
	}
	if loc.outcome != atCalendarRoot {
		err := fmt.Errorf("login failed: unexpected URL %q", final.String())
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// the server's redirect is authoritative over the caller's guess
	c.Username = loc.calendar
	c.setCalendar(loc.calendar)
	return nil
}

// followCalendarLink looks for an anchor on the dashboard whose visible
// text names the calendar and follows it. When no such link exists the
// dashboard URL is returned unchanged and the caller's classification
// reports it.
func (c *Client) followCalendarLink(ctx context.Context, body []byte, pageUrl *url.URL) (*url.URL, error) {
	ctx, span := tracer.Start(ctx, "client:followCalendarLink")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse dashboard html")
		return nil, err
	}

	anchor, ok := htmlutil.FindWholeWord(
		htmlutil.Anchors(doc.Find("a")),
		c.Calendar,
	)
	if !ok {
		span.SetStatus(codes.Error, "no calendar link on dashboard")
		return pageUrl, nil
	}

	href, err := url.Parse(anchor.Href)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse calendar link")
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(pageUrl.ResolveReference(href).String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch calendar link")
		return nil, err
	}
	return res.RawResponse.Request.URL, nil
}
