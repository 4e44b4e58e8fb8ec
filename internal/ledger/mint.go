package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// MintResult is the gateway's confirmation of a committed mint.
type MintResult struct {
	Serial        int64  `json:"serial"`
	TransactionID string `json:"transactionId"`
}

// MintNFT mints a new serial under the configured token class with the
// metadata CID attached, signed by the treasury. The mint is not
// committed until the gateway returns the serial.
func (c *Client) MintNFT(ctx context.Context, metadataCID string) (MintResult, error) {
	if metadataCID == "" {
		return MintResult{}, errors.New("metadata CID is required to mint")
	}
	if c.conf.TokenID == "" {
		return MintResult{}, errors.New("token ID is not configured")
	}

	payload := make(map[string]interface{})
	payload["type"] = "token_mint"
	payload["tokenId"] = c.conf.TokenID
	payload["metadata"] = metadataCID

	transaction, err := NewTransaction(payload, c.conf.TreasuryKeys)
	if err != nil {
		return MintResult{}, err
	}

	c.logger.Info("submitting a mint transaction", zap.String("tokenID", c.conf.TokenID), zap.String("metadataCID", metadataCID), zap.String("transactionID", transaction.GetTransactionID()))

	data, err := c.submitTransaction(ctx, transaction)
	if err != nil {
		return MintResult{}, err
	}

	if status := fmt.Sprint(data["status"]); status != statusSuccess {
		return MintResult{}, errors.New("mint transaction failed with status " + status)
	}

	serial, err := parseSerial(data["serial"])
	if err != nil {
		return MintResult{}, errors.New("mint receipt is invalid: " + err.Error())
	}

	c.logger.Info("mint committed", zap.Int64("serial", serial), zap.String("transactionID", transaction.GetTransactionID()))

	return MintResult{
		Serial:        serial,
		TransactionID: transaction.GetTransactionID(),
	}, nil
}

func parseSerial(raw interface{}) (int64, error) {
	switch serial := raw.(type) {
	case int:
		return int64(serial), nil
	case int64:
		return serial, nil
	case uint64:
		return int64(serial), nil
	case float64:
		return int64(serial), nil
	case string:
		parsed, err := strconv.ParseInt(serial, 10, 64)
		if err != nil {
			return 0, errors.New("serial is not a number: " + serial)
		}
		return parsed, nil
	case nil:
		return 0, errors.New("receipt is missing the serial")
	default:
		return 0, errors.New(fmt.Sprintf("unexpected serial type %T", raw))
	}
}
