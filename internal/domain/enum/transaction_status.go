package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionStatus represents the status of a sale transaction.
// Voided and Refunded are terminal: a transaction never leaves either state.
type TransactionStatus int

const (
	TransactionStatusPending   TransactionStatus = 0
	TransactionStatusCompleted TransactionStatus = 1
	TransactionStatusVoided    TransactionStatus = 2
	TransactionStatusRefunded  TransactionStatus = 3
)

func (s TransactionStatus) String() string {
	names := [...]string{"Pending", "Completed", "Voided", "Refunded"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

// IsTerminal reports whether the status permits no further transitions.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusVoided || s == TransactionStatusRefunded
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = TransactionStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = TransactionStatusPending
	case "Completed":
		*s = TransactionStatusCompleted
	case "Voided":
		*s = TransactionStatusVoided
	case "Refunded":
		*s = TransactionStatusRefunded
	}
	return nil
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TransactionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TransactionStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = TransactionStatus(v)
	case int:
		*s = TransactionStatus(v)
	}
	return nil
}
