// Package event defines the notifications a ledger emits after a successful
// mutation. Payloads follow the ERC-20 Transfer and Approval events and can
// be encoded as EVM-style logs for consumers that index them that way.
package event

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/xraph/fungible/types"
)

// Event signatures as declared by ERC-20.
const (
	TransferSignature = "Transfer(address,address,uint256)"
	ApprovalSignature = "Approval(address,address,uint256)"
)

// Topic hashes (topic 0) of the event signatures.
var (
	TransferTopic = crypto.Keccak256Hash([]byte(TransferSignature))
	ApprovalTopic = crypto.Keccak256Hash([]byte(ApprovalSignature))
)

// Log is an EVM-style encoding of an event: indexed arguments become topics
// and the non-indexed value is the 32-byte big-endian data word.
type Log struct {
	Topics []common.Hash `json:"topics"`
	Data   []byte        `json:"data"`
}

// Transfer is emitted when Value moves from From to To, including zero-value
// and self transfers.
type Transfer struct {
	Seq   uint64        `json:"seq"`
	From  types.Address `json:"from"`
	To    types.Address `json:"to"`
	Value types.Amount  `json:"value"`
}

// Log encodes the event as Transfer(address indexed, address indexed, uint256).
func (t *Transfer) Log() *Log {
	data := t.Value.Bytes32()
	return &Log{
		Topics: []common.Hash{
			TransferTopic,
			common.BytesToHash(t.From.Bytes()),
			common.BytesToHash(t.To.Bytes()),
		},
		Data: data[:],
	}
}

// Approval is emitted when the allowance of Spender over Owner's balance is
// set to Value, either by approve or by a delegated transfer spending it.
type Approval struct {
	Seq     uint64        `json:"seq"`
	Owner   types.Address `json:"owner"`
	Spender types.Address `json:"spender"`
	Value   types.Amount  `json:"value"`
}

// Log encodes the event as Approval(address indexed, address indexed, uint256).
func (a *Approval) Log() *Log {
	data := a.Value.Bytes32()
	return &Log{
		Topics: []common.Hash{
			ApprovalTopic,
			common.BytesToHash(a.Owner.Bytes()),
			common.BytesToHash(a.Spender.Bytes()),
		},
		Data: data[:],
	}
}
