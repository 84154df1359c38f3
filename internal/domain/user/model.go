package user

// Principal is the authenticated caller attached to a request. Premium
// callers get the higher daily analysis quota.
type Principal struct {
	UserID  string
	Email   string
	Premium bool
}
