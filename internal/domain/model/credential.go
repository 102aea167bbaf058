package model

// Credential is a stored credential entry. Category and Application are
// free-form labels grouping the entry and naming the target system. Secret
// holds whatever the configured codec produced; at rest it is never the
// caller-supplied plaintext.
type Credential struct {
	ID          int64  `db:"id"`
	Category    string `db:"category"`
	Application string `db:"application"`
	Username    string `db:"username"`
	Secret      string `db:"secret"`
}
