package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lalallama/proposaldesk/model"
	"github.com/pkg/errors"

	log "github.com/sirupsen/logrus"
)

type chatMessageRequest struct {
	Message string `json:"message"`
}

// APISource calls the evaluation backend. Each operation is exactly one HTTP
// request.
type APISource struct {
	baseURL    string
	apiKey     string
	HTTPClient *http.Client
}

func NewAPISource(apiKey string, baseURL url.URL) *APISource {
	return &APISource{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL.String(), "/"),
		HTTPClient: http.DefaultClient,
	}
}

func (c *APISource) Mode() model.Mode {
	return model.ModeLive
}

func (c *APISource) CreateEvaluation(ctx context.Context, files EvaluationPayload) (Document, error) {
	return c.callAPI(ctx, http.MethodPost, "/evaluations", files)
}

func (c *APISource) GetReport(ctx context.Context, proposalID string) (Document, error) {
	return c.callAPI(ctx, http.MethodGet, fmt.Sprintf("/reports/%s", url.PathEscape(proposalID)), nil)
}

func (c *APISource) DownloadReportPDF(ctx context.Context, proposalID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/reports/%s/pdf", url.PathEscape(proposalID)), nil, false)
}

// SendChatMessage does not send questionCount; the backend keeps track of the
// conversation itself.
func (c *APISource) SendChatMessage(ctx context.Context, proposalID string, message string, questionCount int) (Document, error) {
	endpoint := fmt.Sprintf("/chat/%s/messages", url.PathEscape(proposalID))
	reqBody, err := json.Marshal(chatMessageRequest{Message: message})
	if err != nil {
		return Document{}, newFetchError(endpoint, 0, err)
	}
	return c.callAPI(ctx, http.MethodPost, endpoint, reqBody)
}

func (c *APISource) GetChatHistory(ctx context.Context, proposalID string) (Document, error) {
	return c.callAPI(ctx, http.MethodGet, fmt.Sprintf("/chat/%s/history", url.PathEscape(proposalID)), nil)
}

func (c *APISource) callAPI(ctx context.Context, method string, endpoint string, reqBody []byte) (Document, error) {
	respBody, err := c.do(ctx, method, endpoint, reqBody, true)
	if err != nil {
		return Document{}, err
	}
	doc, err := decodeDocument(respBody)
	if err != nil {
		return Document{}, newFetchError(endpoint, 0, errors.Wrap(err, "decoding response"))
	}
	return doc, nil
}

func (c *APISource) do(ctx context.Context, method string, endpoint string, reqBody []byte, sendJSON bool) ([]byte, error) {
	var body io.Reader
	if reqBody != nil {
		body = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, newFetchError(endpoint, 0, err)
	}
	if sendJSON {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Add("X-API-KEY", c.apiKey)
	}

	log.WithField("method", method).WithField("endpoint", endpoint).Debug("calling API")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, newFetchError(endpoint, 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newFetchError(endpoint, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newFetchError(endpoint, resp.StatusCode, errors.Errorf("unexpected status %d", resp.StatusCode))
	}
	return respBody, nil
}
