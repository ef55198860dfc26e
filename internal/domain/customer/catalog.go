package customer

import (
	"context"
	"fmt"
	"sort"

	"origination-engine/internal/pkg/apperrors"
)

// Catalog is the read-only customer data source. Implementations are fixed at
// process start; Lookup and List must be safe for concurrent readers.
type Catalog interface {
	Lookup(ctx context.Context, customerID string) (*Profile, error)

	List(ctx context.Context) ([]*Profile, error)
}

type staticCatalog struct {
	profiles map[string]*Profile
}

// NewStaticCatalog builds an in-memory catalog from the given profiles. The
// map is never written to after construction, so no locking is needed.
func NewStaticCatalog(profiles []*Profile) (Catalog, error) {
	byID := make(map[string]*Profile, len(profiles))
	for _, p := range profiles {
		if p == nil {
			return nil, fmt.Errorf("%w: nil profile in catalog", apperrors.ErrInvalidInput)
		}
		if _, exists := byID[p.CustomerID]; exists {
			return nil, fmt.Errorf("%w: duplicate customer id %s in catalog", apperrors.ErrInvalidInput, p.CustomerID)
		}
		byID[p.CustomerID] = p
	}
	return &staticCatalog{profiles: byID}, nil
}

func (c *staticCatalog) Lookup(_ context.Context, customerID string) (*Profile, error) {
	p, ok := c.profiles[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCustomer, customerID)
	}
	return p, nil
}

func (c *staticCatalog) List(_ context.Context) ([]*Profile, error) {
	out := make([]*Profile, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out, nil
}

// SeedProfiles returns the demo customer book used when the catalog source is
// "static". Salaries are self-declared, not employer-verified.
func SeedProfiles() []*Profile {
	return []*Profile{
		{CustomerID: "C001", Name: "Rahul Verma", City: "Bengaluru", CreditScore: 760, PreapprovedLimit: 300000, MonthlySalary: 65000},
		{CustomerID: "C002", Name: "Ananya Sharma", City: "Delhi", CreditScore: 810, PreapprovedLimit: 500000, MonthlySalary: 85000},
		{CustomerID: "C003", Name: "Mohit Gupta", City: "Jaipur", CreditScore: 690, PreapprovedLimit: 200000, MonthlySalary: 45000},
		{CustomerID: "C004", Name: "Sneha Iyer", City: "Chennai", CreditScore: 735, PreapprovedLimit: 250000, MonthlySalary: 72000},
		{CustomerID: "C005", Name: "Arjun Mehta", City: "Mumbai", CreditScore: 840, PreapprovedLimit: 700000, MonthlySalary: 120000},
	}
}
