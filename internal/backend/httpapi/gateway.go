package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskhub/internal/service"
	"taskhub/internal/session"
)

// Gateway is the authenticated HTTP transport. It attaches the bearer
// credential, encodes and decodes payloads, and maps failures to
// *service.Error. It never retries and never caches.
type Gateway struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	logger  *log.Logger
}

// NewGateway creates a gateway for baseURL. tokens may be nil, and may return
// session.ErrNoSession; either way requests go out without Authorization.
func NewGateway(baseURL string, httpClient *http.Client, tokens oauth2.TokenSource, logger *log.Logger) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

// Call sends a JSON request and decodes a JSON response into out.
// body and out may be nil. An empty response body leaves out untouched.
func (g *Gateway) Call(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, err := g.send(op, req)
	if err != nil {
		return err
	}
	return decode(op, data, out)
}

// Upload sends a multipart form with one file part followed by the given
// text fields, and decodes the JSON response into out.
func (g *Gateway) Upload(ctx context.Context, path string, fileField, fileName string, content io.Reader, fields map[string]string, out any) error {
	op := http.MethodPost + " " + path

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("%s: read file: %w", op, err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())

	data, err := g.send(op, req)
	if err != nil {
		return err
	}
	return decode(op, data, out)
}

// DownloadBlob fetches a binary payload.
func (g *Gateway) DownloadBlob(ctx context.Context, path string) ([]byte, error) {
	op := http.MethodGet + " " + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "*/*")

	return g.send(op, req)
}

// send performs the request and returns the body of a 2xx response.
func (g *Gateway) send(op string, req *http.Request) ([]byte, error) {
	if err := g.authorize(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	res, err := g.http.Do(req)
	if err != nil {
		g.logger.Printf("%s: %v", op, err)
		return nil, &service.Error{Kind: service.NetworkFailure, Op: op, Err: err}
	}
	defer googleapi.CloseBody(res)

	g.logger.Printf("%s -> %d (%s)", op, res.StatusCode, time.Since(start).Round(time.Millisecond))

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, rejected(op, res.StatusCode, err)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &service.Error{Kind: service.NetworkFailure, Op: op, Err: err}
	}
	return data, nil
}

// authorize attaches the bearer credential if a session exists.
func (g *Gateway) authorize(req *http.Request) error {
	if g.tokens == nil {
		return nil
	}
	tok, err := g.tokens.Token()
	if errors.Is(err, session.ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil
	}
	tok.SetAuthHeader(req)
	return nil
}

func decode(op string, data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.Error{Kind: service.MalformedResponse, Op: op, Err: err}
	}
	return nil
}

// rejected converts a non-2xx response into a *service.Error, pulling the
// optional {message} out of the captured body.
func rejected(op string, status int, err error) *service.Error {
	e := &service.Error{Kind: service.Rejected, Op: op, Status: status, Err: err}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		e.Message = serverMessage(gerr.Body)
		if e.Message == "" {
			e.Message = strings.TrimSpace(gerr.Message)
		}
	}
	return e
}

// serverMessage extracts "message" from an error body. The field may be a
// string or a list of strings; anything else yields "".
func serverMessage(body string) string {
	var reply struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil || len(reply.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(reply.Message, &single); err == nil {
		return strings.TrimSpace(single)
	}

	var many []string
	if err := json.Unmarshal(reply.Message, &many); err == nil {
		return strings.TrimSpace(strings.Join(many, "; "))
	}
	return ""
}
