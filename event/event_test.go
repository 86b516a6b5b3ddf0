package event_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/fungible/event"
	"github.com/xraph/fungible/types"
)

func TestTopics(t *testing.T) {
	assert.Equal(t,
		common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		event.TransferTopic)
	assert.Equal(t,
		common.HexToHash("0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925"),
		event.ApprovalTopic)
}

func TestTransferLog(t *testing.T) {
	from := types.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	to := types.MustParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	log := (&event.Transfer{From: from, To: to, Value: types.NewAmount(256)}).Log()

	require.Len(t, log.Topics, 3)
	assert.Equal(t, event.TransferTopic, log.Topics[0])
	assert.Equal(t, from, common.BytesToAddress(log.Topics[1].Bytes()))
	assert.Equal(t, to, common.BytesToAddress(log.Topics[2].Bytes()))
	assert.Equal(t, make([]byte, 12), log.Topics[1].Bytes()[:12], "addresses are left-padded")

	require.Len(t, log.Data, 32)
	assert.Equal(t, byte(0x01), log.Data[30])
	assert.Equal(t, byte(0x00), log.Data[31])
}

func TestApprovalLog(t *testing.T) {
	owner := types.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	spender := types.MustParseAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")

	log := (&event.Approval{Owner: owner, Spender: spender, Value: types.ZeroAmount()}).Log()

	require.Len(t, log.Topics, 3)
	assert.Equal(t, event.ApprovalTopic, log.Topics[0])
	assert.Equal(t, owner, common.BytesToAddress(log.Topics[1].Bytes()))
	assert.Equal(t, spender, common.BytesToAddress(log.Topics[2].Bytes()))
	assert.Equal(t, make([]byte, 32), log.Data)
}
