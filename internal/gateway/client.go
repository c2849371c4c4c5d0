package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/otel"
)

// Envelope is the shape of every backend response.
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(cl *Client) { cl.httpClient = httpClient }
}

func WithTokenSource(tokens TokenSource) Option {
	return func(cl *Client) { cl.tokens = tokens }
}

func WithTimeout(timeout time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = timeout }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed parsing gateway base url=%s with error=%w", baseURL, err)
	}
	cl := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		tokens: StaticToken(""),
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl, nil
}

func (cl *Client) url(path string, query url.Values) string {
	u := *cl.baseURL
	u.Path = u.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do sends body as json to path and decodes the envelope data into out.
func (cl *Client) Do(
	c context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
	out interface{},
) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return newAPIError(0, "", fmt.Errorf("failed marshaling request body with error=%w", err))
		}
		reader = bytes.NewReader(raw)
	}
	return cl.send(c, method, path, query, reader, inHttp.VALUE_HEADER_APPLICATION_JSON, out)
}

// DoMultipart posts fields and files as multipart/form-data. Every path in
// files is uploaded under the same form key.
func (cl *Client) DoMultipart(
	c context.Context,
	path string,
	fields map[string]string,
	fileKey string,
	files []string,
	out interface{},
) error {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return newAPIError(0, "", fmt.Errorf("failed writing field=%s with error=%w", key, err))
		}
	}
	for _, filePath := range files {
		if err := attachFile(writer, fileKey, filePath); err != nil {
			return newAPIError(0, "", err)
		}
	}
	if err := writer.Close(); err != nil {
		return newAPIError(0, "", fmt.Errorf("failed closing multipart writer with error=%w", err))
	}
	return cl.send(c, http.MethodPost, path, nil, &buffer, writer.FormDataContentType(), out)
}

func attachFile(writer *multipart.Writer, key string, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed opening file=%s with error=%w", filePath, err)
	}
	defer file.Close()
	part, err := writer.CreateFormFile(key, filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("failed creating form file with error=%w", err)
	}
	if _, err = io.Copy(part, file); err != nil {
		return fmt.Errorf("failed copying file=%s with error=%w", filePath, err)
	}
	return nil
}

func (cl *Client) send(
	c context.Context,
	method string,
	path string,
	query url.Values,
	body io.Reader,
	contentType string,
	out interface{},
) error {
	c, span := otel.Tracer.Start(c, "gateway Client send")
	defer span.End()

	target := cl.url(path, query)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "gateway Client send").
		Str(log.KeyRequestMethod, method).
		Str(log.KeyRequestURL, target).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "creating request").Logger()
	logger.Trace().Msg("creating request")
	req, err := http.NewRequestWithContext(c, method, target, body)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return newAPIError(0, "", err)
	}
	if body != nil {
		req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, contentType)
	}
	req.Header.Set("Accept", inHttp.VALUE_HEADER_APPLICATION_JSON)
	if requestId := log.RequestIDFromContext(c); requestId != "" {
		req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, requestId)
	}
	token, err := cl.tokens.Token(c)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return newAPIError(0, "", err)
	}
	if token != "" {
		req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, "Bearer "+token)
	}
	logger.Trace().Msg("created request")

	logger = logger.With().Str(log.KeyProcess, "sending request").Logger()
	logger.Debug().Msg("sending request")
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return newAPIError(0, "", err)
	}
	defer resp.Body.Close()
	logger = logger.With().Int(log.KeyResponseStatus, resp.StatusCode).Logger()
	logger.Debug().Msg("sent request")

	logger = logger.With().Str(log.KeyProcess, "decoding envelope").Logger()
	envelope := Envelope{}
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = newAPIError(resp.StatusCode, envelope.Message, unexpectedStatus(resp.StatusCode))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if decodeErr != nil {
		err = fmt.Errorf("failed decoding envelope with error=%w", decodeErr)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return newAPIError(resp.StatusCode, "", err)
	}
	if !envelope.Success {
		statusCode := envelope.StatusCode
		if statusCode == 0 {
			statusCode = resp.StatusCode
		}
		err = newAPIError(statusCode, envelope.Message, nil)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("decoded envelope")

	if out == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err = json.Unmarshal(envelope.Data, out); err != nil {
		err = fmt.Errorf("failed decoding response data with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return newAPIError(resp.StatusCode, "", err)
	}
	return nil
}
