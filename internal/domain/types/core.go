package types

// AccountID uniquely identifies a local wallet account.
type AccountID string

// String returns the string form of the account identifier.
func (id AccountID) String() string { return string(id) }

// DID is a decentralized identifier of the form "did:<method>:<identifier>".
type DID string

// String returns the string form of the DID.
func (d DID) String() string { return string(d) }

// Address is the on-chain address of an account.
type Address string

// String returns the string form of the address.
func (a Address) String() string { return string(a) }
