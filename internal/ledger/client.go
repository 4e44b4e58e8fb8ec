package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"land-registry/internal/config"
	"land-registry/internal/keymanager"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	transactionsAPI         = "transactions"
	contentTypeJSON         = "application/json"
	statusSuccess           = "SUCCESS"
	statusPending           = "PENDING"
	statusAlreadyAssociated = "TOKEN_ALREADY_ASSOCIATED_TO_ACCOUNT"

	wait = 5 * time.Second
)

// ErrAlreadyAssociated is reported when the account is already
// associated with the token class. Callers treat association as
// idempotent and swallow it.
var ErrAlreadyAssociated = errors.New("account is already associated with the token")

// Config identifies the token class and the treasury account that
// custodies newly minted tokens.
type Config struct {
	TokenID      string
	TreasuryID   string
	TreasuryKeys keymanager.UserKeys
}

// Client submits signed transactions to the ledger gateway REST API.
type Client struct {
	logger *zap.Logger
	url    string
	conf   Config
	client *http.Client
}

func NewClient(logger *zap.Logger, gatewayAddr string, conf Config) *Client {
	return &Client{
		logger: logger,
		url:    gatewayAddr,
		conf:   conf,
		client: &http.Client{Timeout: config.GetRequestTimeout()},
	}
}

// submitTransaction posts the envelope and polls its status until the
// gateway leaves the PENDING state or the wait window elapses.
func (c *Client) submitTransaction(ctx context.Context, transaction Transaction) (map[string]interface{}, error) {
	body, err := json.Marshal(transaction)
	if err != nil {
		return nil, errors.New("failed to marshal the transaction: " + err.Error())
	}

	response, err := c.sendRequest(ctx, transactionsAPI, body, contentTypeJSON)
	if err != nil {
		return nil, err
	}

	data, err := unmarshalGatewayData(response)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	for fmt.Sprint(data["status"]) == statusPending {
		if time.Since(startTime) > wait {
			return data, errors.New("transaction " + transaction.GetTransactionID() + " is still pending")
		}

		data, err = c.getStatus(ctx, transaction.GetTransactionID())
		if err != nil {
			return nil, err
		}
	}

	return data, nil
}

func (c *Client) getStatus(ctx context.Context, transactionID string) (map[string]interface{}, error) {
	apiSuffix := fmt.Sprintf("%s/%s?wait=%d", transactionsAPI, transactionID, int(wait.Seconds()))
	response, err := c.sendRequest(ctx, apiSuffix, nil, "")
	if err != nil {
		return nil, err
	}

	return unmarshalGatewayData(response)
}

func (c *Client) sendRequest(ctx context.Context, apiSuffix string, data []byte, contentType string) (string, error) {
	var url string
	if strings.HasPrefix(c.url, "http://") || strings.HasPrefix(c.url, "https://") {
		url = fmt.Sprintf("%s/%s", c.url, apiSuffix)
	} else {
		url = fmt.Sprintf("http://%s/%s", c.url, apiSuffix)
	}

	var request *http.Request
	var err error
	if len(data) > 0 {
		request, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
		if err == nil {
			request.Header.Set("Content-Type", contentType)
		}
	} else {
		request, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
	if err != nil {
		return "", errors.New("failed to build the gateway request: " + err.Error())
	}

	response, err := c.client.Do(request)
	if err != nil {
		return "", errors.New(fmt.Sprintf("failed to connect to the ledger gateway: %v", err))
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", errors.New(fmt.Sprintf("error reading the gateway response: %v", err))
	}

	if response.StatusCode == 404 {
		c.logger.Debug(fmt.Sprintf("%v", response))
		return "", errors.New("gateway responded with status 404")
	} else if response.StatusCode >= 400 {
		return "", errors.New(fmt.Sprintf("gateway error %d: %s", response.StatusCode, string(responseBody)))
	}

	return string(responseBody), nil
}

// the gateway responds with JSON, parsed here as its YAML superset the
// same way the validator status endpoints are parsed
func unmarshalGatewayData(response string) (map[string]interface{}, error) {
	responseMap := make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(response), &responseMap); err != nil {
		return nil, errors.New(fmt.Sprintf("error reading gateway response: %v", err))
	}

	data, ok := responseMap["data"].(map[string]interface{})
	if !ok {
		return nil, errors.New("gateway response is missing the data entry")
	}

	return data, nil
}
