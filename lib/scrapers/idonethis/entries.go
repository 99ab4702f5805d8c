package idonethis

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/codes"

	"idonethis-client/lib/timezone"
)

type Calendar struct {
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

type Entry struct {
	Id          int64    `json:"id"`
	Owner       string   `json:"owner"`
	AvatarUrl   string   `json:"avatar_url"`
	Created     string   `json:"created"`
	Modified    string   `json:"modified"`
	DoneDate    string   `json:"done_date"`
	Text        *string  `json:"text"`
	Calendar    Calendar `json:"calendar"`
	DisplayName string   `json:"display_name"`
	Type        string   `json:"type"`
}

// decodeEntries parses the json array the service returns. Entry text comes
// back html-escaped ("&gt;" for ">") and is decoded in place; a missing
// text field stays nil.
func decodeEntries(body []byte) ([]Entry, error) {
	var entries []Entry
	err := json.Unmarshal(body, &entries)
	if err != nil {
		return nil, fmt.Errorf("parse entries json: %w", err)
	}
	for _, e := range entries {
		if e.Text != nil && *e.Text != "" {
			*e.Text = html.UnescapeString(*e.Text)
		}
	}
	return entries, nil
}

// submission is the write subset of Entry. The service expects the three
// trailing fields to be present and null.
type submission struct {
	Calendar      string  `json:"calendar"`
	Owner         string  `json:"owner"`
	Created       string  `json:"created"`
	Modified      string  `json:"modified"`
	DoneDate      string  `json:"done_date"`
	Text          string  `json:"text"`
	TotalComments *int64  `json:"total_comments"`
	TotalLikes    *int64  `json:"total_likes"`
	Url           *string `json:"url"`
}

func (c *Client) newSubmission(text, date string) submission {
	if date == "" {
		date = timezone.Today()
	}
	now := timezone.Now().Format(time.RFC3339)
	return submission{
		Calendar: c.Calendar,
		Owner:    c.Username,
		Created:  now,
		Modified: now,
		DoneDate: date,
		Text:     text,
	}
}

// GetRange fetches the entries with done dates between start and end
// inclusive, both formatted YYYY-MM-DD.
func (c *Client) GetRange(ctx context.Context, start, end string) ([]Entry, error) {
	ctx, span := tracer.Start(ctx, "client:GetRange")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"start": start,
			"end":   end,
		}).
		Get(c.Root.JoinPath("dailydone").String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch entries")
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("get entries: status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	entries, err := decodeEntries(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode entries")
		return nil, err
	}
	return entries, nil
}

func (c *Client) GetDay(ctx context.Context, date string) ([]Entry, error) {
	return c.GetRange(ctx, date, date)
}

func (c *Client) GetToday(ctx context.Context) ([]Entry, error) {
	today := timezone.Today()
	return c.GetRange(ctx, today, today)
}

// SubmitEntry records a new entry. An empty date means today. Empty text is
// rejected before any network traffic happens.
func (c *Client) SubmitEntry(ctx context.Context, text, date string) error {
	ctx, span := tracer.Start(ctx, "client:SubmitEntry")
	defer span.End()

	if text == "" {
		span.SetStatus(codes.Error, ErrMissingText.Error())
		return ErrMissingText
	}

	body, err := json.Marshal(c.newSubmission(text, date))
	if err != nil {
		return err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json, text/javascript, */*; q=0.01").
		SetHeader("X-CSRFToken", c.csrfToken()).
		SetBody(body).
		Post(c.Root.JoinPath("dailydone").String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post entry")
		return err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := fmt.Errorf("submit entry: status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// the service rejects writes that don't echo the anti-forgery token from
// its csrftoken cookie back as a header
func (c *Client) csrfToken() string {
	jar := c.http.GetClient().Jar
	if jar == nil {
		return ""
	}
	for _, cookie := range jar.Cookies(c.BaseUrl) {
		if cookie.Name == "csrftoken" {
			return cookie.Value
		}
	}
	return ""
}
