package dto

import (
	"origination-engine/internal/domain/customer"
)

type CustomerResponse struct {
	CustomerID       string `json:"customerId"`
	Name             string `json:"name"`
	City             string `json:"city"`
	CreditScore      int    `json:"creditScore"`
	PreapprovedLimit string `json:"preapprovedLimit"`
	MonthlySalary    string `json:"monthlySalary,omitempty"`
	SalaryVerified   bool   `json:"salaryVerified"`
}

func NewCustomerResponse(profile *customer.Profile) CustomerResponse {
	resp := CustomerResponse{
		CustomerID:       profile.CustomerID,
		Name:             profile.Name,
		City:             profile.City,
		CreditScore:      profile.CreditScore,
		PreapprovedLimit: formatMoney(profile.PreapprovedLimit),
		SalaryVerified:   profile.SalaryVerified,
	}
	if profile.HasDeclaredSalary() {
		resp.MonthlySalary = formatMoney(profile.MonthlySalary)
	}
	return resp
}

func NewCustomerListResponse(profiles []*customer.Profile) []CustomerResponse {
	out := make([]CustomerResponse, len(profiles))
	for i, p := range profiles {
		out[i] = NewCustomerResponse(p)
	}
	return out
}
