package types

// Account is a local wallet identity. The address is derived from the
// account's public key and never changes.
type Account struct {
	ID         AccountID `json:"id"`
	Name       string    `json:"name"`
	Address    Address   `json:"address"`
	CreatedUTC int64     `json:"created_utc"`
}
