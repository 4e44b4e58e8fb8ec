package model_test

import (
	"land-registry/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingParcel() model.Parcel {
	parcel := model.Parcel{
		Size:        "2.5",
		Price:       "5000000",
		Location:    "Kiambu",
		MetadataCID: "QmTestMetadata",
	}
	parcel.Complete()
	return parcel
}

func TestCompleteAssignsIDAndPendingStatus(t *testing.T) {
	parcel := newPendingParcel()

	assert.NotEmpty(t, parcel.ID)
	assert.Equal(t, model.ParcelStatusPending, parcel.Status)
	assert.False(t, parcel.Verified)
	assert.Empty(t, parcel.Approvals)
}

func TestValidateMissingFields(t *testing.T) {
	parcel := model.Parcel{}
	err := parcel.Validate()
	require.Error(t, err)

	var validationErr model.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAddApprovalDedupsPerRole(t *testing.T) {
	parcel := newPendingParcel()
	now := time.Now()

	assert.True(t, parcel.AddApproval(model.RoleChief, "chief wanjiku", now))
	assert.False(t, parcel.AddApproval(model.RoleChief, "someone else", now))

	require.Len(t, parcel.Approvals, 1)
	// first write wins
	assert.Equal(t, "chief wanjiku", parcel.Approvals[0].Name)
}

func TestQuorumNeedsEveryRequiredRole(t *testing.T) {
	parcel := newPendingParcel()
	now := time.Now()

	parcel.AddApproval(model.RoleChief, "chief", now)
	assert.False(t, parcel.QuorumMet())
	assert.False(t, parcel.RecomputeVerified())

	parcel.AddApproval(model.RoleSurveyor, "surveyor", now)
	assert.True(t, parcel.QuorumMet())
	assert.True(t, parcel.RecomputeVerified())
	assert.True(t, parcel.Verified)
	// the status only advances when the mint commits
	assert.Equal(t, model.ParcelStatusPending, parcel.Status)
}

func TestVerifiedIsMonotonic(t *testing.T) {
	parcel := newPendingParcel()
	now := time.Now()
	parcel.AddApproval(model.RoleChief, "chief", now)
	parcel.AddApproval(model.RoleSurveyor, "surveyor", now)
	require.True(t, parcel.RecomputeVerified())

	// repeated recomputes and approvals never clear the flag
	assert.False(t, parcel.RecomputeVerified())
	parcel.AddApproval(model.RoleChief, "another chief", now)
	assert.False(t, parcel.RecomputeVerified())
	assert.True(t, parcel.Verified)
}

func TestMarkMintedRequiresVerified(t *testing.T) {
	parcel := newPendingParcel()

	err := parcel.MarkMinted(7)
	require.Error(t, err)
	var validationErr model.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.False(t, parcel.NFTMinted)
}

func TestMarkMintedAtMostOnce(t *testing.T) {
	parcel := newPendingParcel()
	now := time.Now()
	parcel.AddApproval(model.RoleChief, "chief", now)
	parcel.AddApproval(model.RoleSurveyor, "surveyor", now)
	parcel.RecomputeVerified()

	require.NoError(t, parcel.MarkMinted(7))
	assert.True(t, parcel.NFTMinted)
	assert.EqualValues(t, 7, parcel.NFTSerial)
	assert.Equal(t, model.ParcelStatusMinted, parcel.Status)

	err := parcel.MarkMinted(8)
	require.Error(t, err)
	var conflictErr model.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	assert.EqualValues(t, 7, parcel.NFTSerial)
}

func TestMarkSoldRequiresMinted(t *testing.T) {
	parcel := newPendingParcel()

	err := parcel.MarkSold("0.0.2002", time.Now())
	require.Error(t, err)
	var validationErr model.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, model.ParcelStatusPending, parcel.Status)
}

func TestStatusOnlyMovesForward(t *testing.T) {
	parcel := newPendingParcel()
	now := time.Now()
	parcel.AddApproval(model.RoleChief, "chief", now)
	parcel.AddApproval(model.RoleSurveyor, "surveyor", now)
	parcel.RecomputeVerified()
	require.NoError(t, parcel.MarkMinted(3))
	require.NoError(t, parcel.MarkSold("0.0.2002", now))

	assert.Equal(t, model.ParcelStatusSold, parcel.Status)
	assert.Equal(t, "0.0.2002", parcel.BuyerID)
	require.NotNil(t, parcel.SoldAt)

	// terminal state: a second sale is rejected
	err := parcel.MarkSold("0.0.3003", now)
	var conflictErr model.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "0.0.2002", parcel.BuyerID)
}

func TestApprovalRoleValidity(t *testing.T) {
	assert.True(t, model.RoleChief.IsValid())
	assert.True(t, model.RoleSurveyor.IsValid())
	assert.False(t, model.ApprovalRole("Clerk").IsValid())
	assert.False(t, model.ApprovalRole("").IsValid())
}

func TestParcelStatusValidity(t *testing.T) {
	assert.True(t, model.ParcelStatusPending.IsValid())
	assert.True(t, model.ParcelStatusSold.IsValid())
	assert.False(t, model.ParcelStatus("archived").IsValid())
}
