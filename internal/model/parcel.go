package model

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type ParcelStatus string

const (
	ParcelStatusPending  ParcelStatus = "pending"
	ParcelStatusVerified ParcelStatus = "verified"
	ParcelStatusMinted   ParcelStatus = "minted"
	ParcelStatusSold     ParcelStatus = "sold"
)

// statusRank defines the forward-only ordering of parcel statuses.
var statusRank = map[ParcelStatus]int{
	ParcelStatusPending:  0,
	ParcelStatusVerified: 1,
	ParcelStatusMinted:   2,
	ParcelStatusSold:     3,
}

func (status ParcelStatus) IsValid() bool {
	_, ok := statusRank[status]
	return ok
}

func (status ParcelStatus) String() string {
	return string(status)
}

// Parcel is a land listing tracked through verification, minting and sale.
type Parcel struct {
	ID       string `json:"parcelId"`
	SellerID string `json:"sellerId,omitempty"`

	Size     string `json:"size"`
	Price    string `json:"price"`
	Location string `json:"location"`

	// content identifier of the immutable metadata document,
	// set at creation
	MetadataCID string `json:"metadataCid"`

	Approvals []Approval   `json:"approvals"`
	Verified  bool         `json:"verified"`
	Status    ParcelStatus `json:"status"`

	NFTMinted bool  `json:"nftMinted"`
	NFTSerial int64 `json:"nftSerial,omitempty"`

	BuyerID string     `json:"buyerId,omitempty"`
	SoldAt  *time.Time `json:"soldAt,omitempty"`

	SubmittedAt time.Time `json:"submittedAt"`

	// advisory snapshot of this record in the metadata store,
	// empty when archiving failed
	ArchiveCID string `json:"archiveCid,omitempty"`
}

func (parcel *Parcel) Complete() {
	parcel.ID = uuid.NewString()
	parcel.Status = ParcelStatusPending
	parcel.Approvals = []Approval{}
	parcel.SubmittedAt = time.Now().UTC()
}

func (parcel Parcel) Validate() error {
	var err error

	if parcel.Size == "" {
		err = multierr.Append(err, NewValidationError("size is missing"))
	}
	if parcel.Price == "" {
		err = multierr.Append(err, NewValidationError("price is missing"))
	}
	if parcel.Location == "" {
		err = multierr.Append(err, NewValidationError("location is missing"))
	}
	if parcel.MetadataCID == "" {
		err = multierr.Append(err, NewValidationError("metadataCid is missing"))
	}

	return err
}

// AddApproval appends the approval unless the role already signed off.
// First write wins: a repeated role is ignored and doesn't count twice
// towards the quorum.
func (parcel *Parcel) AddApproval(role ApprovalRole, name string, at time.Time) (added bool) {
	for _, approval := range parcel.Approvals {
		if approval.Role == role {
			return false
		}
	}

	parcel.Approvals = append(parcel.Approvals, Approval{
		Role:       role,
		Name:       name,
		ApprovedAt: at.UTC(),
	})
	return true
}

// QuorumMet reports whether every required role has signed off.
func (parcel Parcel) QuorumMet() bool {
	for _, required := range RequiredRoles() {
		found := false
		for _, approval := range parcel.Approvals {
			if approval.Role == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// RecomputeVerified derives the verified flag from the approval set.
// The flag is monotonic: once set it is never cleared.
func (parcel *Parcel) RecomputeVerified() (flipped bool) {
	if parcel.Verified {
		return false
	}

	if parcel.QuorumMet() {
		// only the flag flips here: the status advances to minted
		// when the mint commits, a failed mint leaves the parcel
		// re-enterable as verified-but-pending
		parcel.Verified = true
		return true
	}

	return false
}

// MarkMinted records the ledger-assigned serial. The mint is committed
// at most once and only for a verified parcel.
func (parcel *Parcel) MarkMinted(serial int64) error {
	if !parcel.Verified {
		return NewValidationError("parcel is not verified yet")
	}
	if parcel.NFTMinted {
		return NewConflictError("parcel NFT is already minted")
	}

	parcel.NFTMinted = true
	parcel.NFTSerial = serial
	parcel.Status = ParcelStatusMinted
	return nil
}

// MarkSold finalizes the sale. Requires a minted parcel, rejects
// a second sale.
func (parcel *Parcel) MarkSold(buyerID string, at time.Time) error {
	if !parcel.NFTMinted || parcel.NFTSerial == 0 {
		return NewValidationError("parcel must be minted before it can be sold")
	}
	if parcel.Status == ParcelStatusSold {
		return NewConflictError("parcel is already sold")
	}

	soldAt := at.UTC()
	parcel.Status = ParcelStatusSold
	parcel.BuyerID = buyerID
	parcel.SoldAt = &soldAt
	return nil
}
