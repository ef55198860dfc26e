package event

import "time"

type LoanDecisionEvent struct {
	JourneyID  string    `json:"journeyId"`
	CustomerID string    `json:"customerId"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason"`
	EMI        float64   `json:"emi"`
	Timestamp  time.Time `json:"timestamp"`
}

type SanctionIssuedEvent struct {
	JourneyID    string    `json:"journeyId"`
	CustomerID   string    `json:"customerId"`
	Principal    float64   `json:"principal"`
	TenureMonths int       `json:"tenureMonths"`
	EMI          float64   `json:"emi"`
	Timestamp    time.Time `json:"timestamp"`
}
