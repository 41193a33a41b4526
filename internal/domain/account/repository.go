package account

// Repository defines account storage operations. Lookups are by account
// number; listings preserve the order in which accounts were opened.
type Repository interface {
	Create(account Account) error
	GetByNumber(number string) (Account, error)
	List() []Account
	ListByOwner(ownerID string) []Account
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	Number string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.Number
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	// If the target Number is empty, consider it a match for any ErrAccountNotFound
	if t.Number == "" {
		return true
	}
	return e.Number == t.Number
}

// ErrDuplicateAccount indicates account number uniqueness violation
type ErrDuplicateAccount struct {
	Number string
}

func (e ErrDuplicateAccount) Error() string {
	return "account already exists: " + e.Number
}

// Is implements the errors.Is interface for ErrDuplicateAccount
func (e ErrDuplicateAccount) Is(target error) bool {
	t, ok := target.(ErrDuplicateAccount)
	if !ok {
		return false
	}
	if t.Number == "" {
		return true
	}
	return e.Number == t.Number
}
