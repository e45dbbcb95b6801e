// Package models defines the data types exchanged with the PayShield API.
package models

import "time"

// TransactionMode is the payment channel a transaction was made through.
type TransactionMode string

const (
	ModeUPI        TransactionMode = "UPI"
	ModeCard       TransactionMode = "CARD"
	ModeNetbanking TransactionMode = "NETBANKING"
)

// Valid reports whether m is one of the modes the API accepts.
func (m TransactionMode) Valid() bool {
	switch m {
	case ModeUPI, ModeCard, ModeNetbanking:
		return true
	}
	return false
}

// Decision is the risk engine's verdict for a transaction.
type Decision string

const (
	DecisionAllow       Decision = "ALLOW"
	DecisionFlag        Decision = "FLAG"
	DecisionBlock       Decision = "BLOCK"
	DecisionMFARequired Decision = "MFA_REQUIRED"
)

// Transaction is a scored transaction record as returned by the API.
type Transaction struct {
	ID                      int64           `json:"id"`
	UserID                  int64           `json:"user_id"`
	Amount                  float64         `json:"amount"`
	Mode                    TransactionMode `json:"mode"`
	RiskScore               float64         `json:"risk_score"`
	TriggeredFactors        []string        `json:"triggered_factors"`
	Decision                Decision        `json:"decision"`
	AmountDeviationScore    *float64        `json:"amount_deviation_score,omitempty"`
	FrequencyDeviationScore *float64        `json:"frequency_deviation_score,omitempty"`
	ModeDeviationScore      *float64        `json:"mode_deviation_score,omitempty"`
	TimeDeviationScore      *float64        `json:"time_deviation_score,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// CreateResult is the scoring outcome returned when a single transaction
// is submitted.
type CreateResult struct {
	ID               int64      `json:"id"`
	Decision         Decision   `json:"decision"`
	RiskScore        float64    `json:"risk_score"`
	TriggeredFactors []string   `json:"triggered_factors"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
}

// Summary aggregates scoring results across the user's transactions.
type Summary struct {
	TotalTransactions         int            `json:"total_transactions"`
	AllowedTransactions       int            `json:"allowed_transactions"`
	FlaggedTransactions       int            `json:"flagged_transactions"`
	BlockedTransactions       int            `json:"blocked_transactions"`
	TriggeredFactorsBreakdown map[string]int `json:"triggered_factors_breakdown"`
	RecentDailyActivity       map[string]int `json:"recent_daily_activity"`
}
