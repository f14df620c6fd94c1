package domain

// Otp is the one-time code minted for a user at registration. Nothing in the
// API reads it back; it is persisted for an out-of-band verification flow.
type Otp struct {
	ID      int64  `db:"id" json:"id"`
	UserID  int64  `db:"user_id" json:"user_id"`
	OTPCode string `db:"otp_code" json:"-"`
}
