package customer

import (
	"fmt"
	"sync"
)

// Customer is a registered bank customer. Values are immutable once created.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ErrCustomerNotFound indicates an unknown customer id
type ErrCustomerNotFound struct {
	CustomerID string
}

func (e ErrCustomerNotFound) Error() string {
	return "customer not found: " + e.CustomerID
}

// Is implements the errors.Is interface for ErrCustomerNotFound
func (e ErrCustomerNotFound) Is(target error) bool {
	t, ok := target.(ErrCustomerNotFound)
	if !ok {
		return false
	}
	// An empty target id matches any ErrCustomerNotFound
	if t.CustomerID == "" {
		return true
	}
	return e.CustomerID == t.CustomerID
}

// Registry owns customer identity for the lifetime of the process.
//
// Ids are the customer's name followed by the registry size after insertion,
// zero-padded to four digits. The suffix is a running count, not a hash: two
// customers sharing a name differ only because they registered at different
// counts. From the tenth customer on this differs from a literal "000"
// prefix: the tenth Alice is Alice0010, not Alice00010.
type Registry struct {
	mu        sync.RWMutex
	customers []Customer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Create registers a new customer and returns it with its generated id
func (r *Registry) Create(name, email, phone string) Customer {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Customer{
		ID:    fmt.Sprintf("%s%04d", name, len(r.customers)+1),
		Name:  name,
		Email: email,
		Phone: phone,
	}
	r.customers = append(r.customers, c)
	return c
}

// Lookup finds a customer by id with a linear scan
func (r *Registry) Lookup(id string) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return Customer{}, ErrCustomerNotFound{CustomerID: id}
}

// List returns all customers in registration order
func (r *Registry) List() []Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Customer, len(r.customers))
	copy(out, r.customers)
	return out
}

// Len returns the number of registered customers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers)
}
