package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"land-registry/internal/config"

	"go.uber.org/zap"
)

// Client talks to a content-addressed pinning service. Stored content
// is immutable and retrievable by its CID through the read gateway.
type Client struct {
	logger      *zap.Logger
	apiAddr     string
	gatewayAddr string
	client      *http.Client
}

func NewClient(logger *zap.Logger, apiAddr, gatewayAddr string) *Client {
	return &Client{
		logger:      logger,
		apiAddr:     apiAddr,
		gatewayAddr: gatewayAddr,
		client:      &http.Client{Timeout: config.GetRequestTimeout()},
	}
}

type pinResponse struct {
	CID string `json:"cid"`
}

// PinJSON stores the value as a JSON document and returns its CID.
func (c *Client) PinJSON(ctx context.Context, value interface{}) (string, error) {
	content, err := json.Marshal(value)
	if err != nil {
		return "", errors.New("failed to marshal the metadata document: " + err.Error())
	}

	body, err := c.sendRequest(ctx, http.MethodPost, apiURL(c.apiAddr, "pins/json"), "application/json", bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	return parsePinResponse(body)
}

// PinFile stores raw file content and returns its CID.
func (c *Client) PinFile(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return "", errors.New("failed to build the upload form: " + err.Error())
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", errors.New("failed to copy the file content: " + err.Error())
	}
	if err := form.Close(); err != nil {
		return "", errors.New("failed to finish the upload form: " + err.Error())
	}

	body, err := c.sendRequest(ctx, http.MethodPost, apiURL(c.apiAddr, "pins/file"), form.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	return parsePinResponse(body)
}

// FetchJSON retrieves the JSON document stored under the CID.
func (c *Client) FetchJSON(ctx context.Context, cid string, out interface{}) error {
	body, err := c.sendRequest(ctx, http.MethodGet, apiURL(c.gatewayAddr, cid), "", nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.New("failed to unmarshal the content of " + cid + ": " + err.Error())
	}

	return nil
}

// Fetch retrieves the raw content stored under the CID.
func (c *Client) Fetch(ctx context.Context, cid string) ([]byte, error) {
	return c.sendRequest(ctx, http.MethodGet, apiURL(c.gatewayAddr, cid), "", nil)
}

func (c *Client) sendRequest(ctx context.Context, method, url, contentType string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.New("failed to build the request: " + err.Error())
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return nil, errors.New("failed to connect to the metadata store: " + err.Error())
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.New("error reading the metadata store response: " + err.Error())
	}

	if response.StatusCode >= 400 {
		c.logger.Debug("metadata store error response", zap.Int("status", response.StatusCode), zap.String("url", url))
		return nil, errors.New(fmt.Sprintf("metadata store error %d: %s", response.StatusCode, response.Status))
	}

	return responseBody, nil
}

func parsePinResponse(body []byte) (string, error) {
	var parsed pinResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.New("failed to unmarshal the pin response: " + err.Error())
	}
	if parsed.CID == "" {
		return "", errors.New("pin response is missing the cid")
	}

	return parsed.CID, nil
}

func apiURL(addr, suffix string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return fmt.Sprintf("%s/%s", addr, suffix)
	}

	return fmt.Sprintf("http://%s/%s", addr, suffix)
}
