package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

type HTTPClient struct {
	http *http.Client
}

func NewHTTPClient(timeout, connectTimeout time.Duration) *HTTPClient {
	return &HTTPClient{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
	}
}

func (c *HTTPClient) Parse(ctx context.Context, target string, pdf []byte, filename string, opts Options) (json.RawMessage, int, error) {
	log.Printf("[parser] posting %d bytes to %s", len(pdf), target)

	resp, err := c.post(ctx, target, "files", pdf, filename, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("call parser: %v: %w", err, ErrUpstream)
	}
	log.Printf("[parser] response (files): status=%d, content-type=%s", resp.StatusCode, resp.Header.Get("Content-Type"))

	// Some file_parse deployments want the part named "file" instead.
	if resp.StatusCode >= 400 {
		retry, err := c.post(ctx, target, "file", pdf, filename, opts)
		if err == nil {
			log.Printf("[parser] response (file): status=%d, content-type=%s", retry.StatusCode, retry.Header.Get("Content-Type"))
			if retry.StatusCode < 300 {
				resp.Body.Close()
				resp = retry
			} else {
				retry.Body.Close()
			}
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read parser response: %v: %w", err, ErrUpstream)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("parser bad status %d: %s: %w", resp.StatusCode, snippet(body), ErrUpstream)
	}

	if !json.Valid(body) {
		log.Printf("[parser] non-JSON body, status=%d", resp.StatusCode)
		return nil, resp.StatusCode, fmt.Errorf("parser returned non-JSON (status %d): %s: %w", resp.StatusCode, snippet(body), ErrUpstream)
	}

	return json.RawMessage(body), resp.StatusCode, nil
}

func (c *HTTPClient) post(ctx context.Context, target, field string, pdf []byte, filename string, opts Options) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, err
	}
	for k, v := range opts.FormFields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if len(opts.QueryParams) > 0 {
		q := u.Query()
		for k, v := range opts.QueryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.http.Do(req)
}

func snippet(body []byte) string {
	const max = 1000
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
