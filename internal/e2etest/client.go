package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/ceotarot/ceotarot/internal/errors"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client with a cookie jar so that the session and the CSRF cookie survive
// between requests.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{ //nolint:exhaustruct // defaults are fine
			Jar: jar,
			// Redirects are asserted on, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		url: url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Get(ctx, urlPath)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Do sends a request to urlPath on the server.
func (c *Client) Do(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
	header http.Header,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request", slog.String("method", method), slog.String("path", urlPath))
	}
	return resp, nil
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, urlPath, nil, nil)
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	return readDoc(resp)
}

func readDoc(resp *http.Response) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// ExtractCSRFToken returns the CSRF token of the form posting to formActionURLPath.
func ExtractCSRFToken(doc *goquery.Document, formActionURLPath string) (string, error) {
	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	form := doc.Find(formSelector)
	if form.Length() == 0 {
		return "", errors.New("form not found", slog.String("selector", formSelector))
	}
	csrfToken, ok := form.Find("input[name=csrf_token]").Attr("value")
	if !ok {
		return "", errors.New("csrf_token not found in form", slog.String("selector", formSelector))
	}
	return csrfToken, nil
}

// PostForm posts form values to urlPath. With hx set the request looks like it came from htmx.
func (c *Client) PostForm(ctx context.Context, urlPath string, values neturl.Values, hx bool) (*http.Response, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	if hx {
		header.Set("HX-Request", "true")
	}
	return c.Do(ctx, http.MethodPost, urlPath, strings.NewReader(values.Encode()), header)
}

// SubmitForm loads formURLPath, fills the form posting to formActionURLPath with extra and its
// CSRF token, submits it and returns the response document.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	extra neturl.Values,
	hx bool,
) (*goquery.Document, error) {
	var (
		doc       *goquery.Document
		csrfToken string
		resp      *http.Response
		err       error
	)
	if doc, err = c.GetDoc(ctx, formURLPath); err != nil {
		return nil, errors.Wrap(err, "get document")
	}
	if csrfToken, err = ExtractCSRFToken(doc, formActionURLPath); err != nil {
		return nil, errors.Wrap(err, "extract CSRF token")
	}
	formData := neturl.Values{}
	for k, v := range extra {
		formData[k] = v
	}
	formData.Set("csrf_token", csrfToken)
	if resp, err = c.PostForm(ctx, formActionURLPath, formData, hx); err != nil {
		return nil, errors.Wrap(err, "post form")
	}
	return readDoc(resp)
}

// PostJSON sends v as a JSON body with the given method.
func (c *Client) PostJSON(ctx context.Context, method, urlPath string, v any) (*http.Response, error) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(v); err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return c.Do(ctx, method, urlPath, &body, header)
}
