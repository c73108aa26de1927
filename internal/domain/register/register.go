package register

// Register is an admin account record. Password is stored as found and never
// serialized.
type Register struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
