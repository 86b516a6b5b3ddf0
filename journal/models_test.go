package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xraph/fungible/journal"
)

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name  string
		entry journal.Entry
		ok    bool
	}{
		{"genesis", journal.Entry{Seq: 1, Kind: journal.KindGenesis}, true},
		{"transfer", journal.Entry{Seq: 2, Kind: journal.KindTransfer}, true},
		{"approve", journal.Entry{Seq: 9, Kind: journal.KindApprove}, true},
		{"transfer from", journal.Entry{Seq: 3, Kind: journal.KindTransferFrom}, true},
		{"missing seq", journal.Entry{Kind: journal.KindTransfer}, false},
		{"unknown kind", journal.Entry{Seq: 2, Kind: "mint"}, false},
		{"late genesis", journal.Entry{Seq: 2, Kind: journal.KindGenesis}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
