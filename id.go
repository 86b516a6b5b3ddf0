package fungible

import "github.com/xraph/fungible/id"

// ID is the identifier type for persisted ledger records.
type ID = id.ID

// Prefix identifies the record type encoded in a TypeID.
type Prefix = id.Prefix
