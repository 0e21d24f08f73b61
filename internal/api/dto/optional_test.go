package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalInt64DistinguishesAbsentAndNull(t *testing.T) {
	var absent UpdateInquiryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Completed"}`), &absent))
	assert.False(t, absent.AssignedUserID.Present)

	var cleared UpdateInquiryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assigned_user_id":null}`), &cleared))
	assert.True(t, cleared.AssignedUserID.Present)
	assert.Nil(t, cleared.AssignedUserID.Value)

	var set UpdateInquiryRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assigned_user_id":12}`), &set))
	assert.True(t, set.AssignedUserID.Present)
	require.NotNil(t, set.AssignedUserID.Value)
	assert.Equal(t, int64(12), *set.AssignedUserID.Value)
}

func TestOptionalInt64RejectsNonInteger(t *testing.T) {
	var req UpdateInquiryRequest
	assert.Error(t, json.Unmarshal([]byte(`{"assigned_user_id":"twelve"}`), &req))
}
