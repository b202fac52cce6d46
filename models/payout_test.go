package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommissionFee(t *testing.T) {
	assert.Equal(t, int64(1000), CommissionFee(10000, 1000))
	assert.Equal(t, int64(99), CommissionFee(999, 1000), "fee rounds down")
	assert.Equal(t, int64(0), CommissionFee(0, 1000))
	assert.Equal(t, int64(0), CommissionFee(9, 1000))
	assert.Equal(t, int64(10000), CommissionFee(10000, 10000), "full-rate fee equals gross")
}

func TestInviteCodeRedeemable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	redeemer := "acct-1"

	assert.True(t, InviteCode{}.Redeemable(now), "open-ended code")
	assert.True(t, InviteCode{ExpiresAt: &future}.Redeemable(now))
	assert.False(t, InviteCode{ExpiresAt: &past}.Redeemable(now), "expired")
	assert.False(t, InviteCode{RedeemedBy: &redeemer}.Redeemable(now), "already used")
	assert.False(t, InviteCode{RedeemedBy: &redeemer, ExpiresAt: &future}.Redeemable(now))
}
