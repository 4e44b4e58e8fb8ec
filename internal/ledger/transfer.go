package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"land-registry/internal/keymanager"

	"go.uber.org/zap"
)

// TransferRequest describes the atomic purchase transaction: the
// currency legs between buyer and seller and the NFT leg from the
// treasury to the buyer. Both the buyer and the treasury sign.
type TransferRequest struct {
	Serial   int64
	BuyerID  string
	SellerID string
	Price    int64

	BuyerKeys keymanager.UserKeys
}

// Receipt confirms a committed transfer.
type Receipt struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

// AssociateToken registers the account with the configured token class.
// Returns ErrAlreadyAssociated when the registration already exists.
func (c *Client) AssociateToken(ctx context.Context, accountID string, keys keymanager.UserKeys) error {
	payload := make(map[string]interface{})
	payload["type"] = "token_associate"
	payload["tokenId"] = c.conf.TokenID
	payload["account"] = accountID

	transaction, err := NewTransaction(payload, keys)
	if err != nil {
		return err
	}

	data, err := c.submitTransaction(ctx, transaction)
	if err != nil {
		if strings.Contains(err.Error(), statusAlreadyAssociated) {
			return ErrAlreadyAssociated
		}
		return err
	}

	status := fmt.Sprint(data["status"])
	if status == statusAlreadyAssociated {
		return ErrAlreadyAssociated
	}
	if status != statusSuccess {
		return errors.New("associate transaction failed with status " + status)
	}

	return nil
}

// TransferParcel submits the purchase as one atomic transaction, all
// legs commit or none does. The composed envelope is submitted exactly
// once.
func (c *Client) TransferParcel(ctx context.Context, request TransferRequest) (Receipt, error) {
	if c.conf.TokenID == "" {
		return Receipt{}, errors.New("token ID is not configured")
	}
	if !c.conf.TreasuryKeys.Valid() {
		return Receipt{}, errors.New("treasury keys are not configured")
	}

	payload := make(map[string]interface{})
	payload["type"] = "crypto_transfer"
	payload["tokenId"] = c.conf.TokenID
	payload["serial"] = request.Serial
	payload["nftTransfer"] = map[string]interface{}{
		"from": c.conf.TreasuryID,
		"to":   request.BuyerID,
	}
	payload["currencyTransfers"] = []interface{}{
		map[string]interface{}{"account": request.BuyerID, "amount": -request.Price},
		map[string]interface{}{"account": request.SellerID, "amount": request.Price},
	}

	transaction, err := NewTransaction(payload, request.BuyerKeys, c.conf.TreasuryKeys)
	if err != nil {
		return Receipt{}, err
	}

	c.logger.Info("submitting a transfer transaction",
		zap.Int64("serial", request.Serial),
		zap.String("buyer", request.BuyerID),
		zap.String("seller", request.SellerID),
		zap.String("transactionID", transaction.GetTransactionID()))

	data, err := c.submitTransaction(ctx, transaction)
	if err != nil {
		return Receipt{}, err
	}

	status := fmt.Sprint(data["status"])
	if status != statusSuccess {
		return Receipt{}, errors.New("transfer transaction failed with status " + status)
	}

	return Receipt{
		Status:        status,
		TransactionID: transaction.GetTransactionID(),
	}, nil
}
