package types

// MigrationState is the position of the legacy layout migration.
type MigrationState int

const (
	// MigrationNotNeeded means registration never completed; nothing to move.
	MigrationNotNeeded MigrationState = iota
	// MigrationNeeded means a registered legacy account exists and no
	// namespaced account does.
	MigrationNeeded
	// MigrationDone is terminal.
	MigrationDone
)

// String returns the state name.
func (s MigrationState) String() string {
	switch s {
	case MigrationNotNeeded:
		return "NOT_NEEDED"
	case MigrationNeeded:
		return "NEEDS_MIGRATION"
	case MigrationDone:
		return "MIGRATED"
	default:
		return "UNKNOWN"
	}
}

// LegacyCredentials is everything the single-account layout stored.
type LegacyCredentials struct {
	RegistrationComplete bool
	Name                 string
	Address              Address
	MigrationStatus      string
	Mnemonic             string
	KeyPair              *KeyPair
}
