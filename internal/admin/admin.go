package admin

// User is a back-office account. Password holds the bcrypt hash and is
// blanked before any response leaves the handler.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	FullName  string `json:"full_name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
