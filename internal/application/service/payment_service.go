package service

import (
	"strings"
	"sync"

	"github.com/kiprotich/tillpoint-api/internal/domain/enum"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
	"github.com/kiprotich/tillpoint-api/pkg/money"
)

// PaymentDetails is the per-register payment state collected before checkout.
// Amounts are cents.
type PaymentDetails struct {
	Method         enum.PaymentMethod `json:"payment_method"`
	AmountTendered int64              `json:"-"`
	Change         int64              `json:"-"`
	PrintReceipt   bool               `json:"print_receipt"`

	// Card and transfer confirmations arrive as separate events from the
	// terminal or the banking hop; the sale cannot complete without them.
	// A declined card keeps CardConfirmed false and records the provider's
	// error so Confirm can surface it.
	CardConfirmed     bool   `json:"card_confirmed"`
	CardError         string `json:"card_error,omitempty"`
	TransferInitiated bool   `json:"transfer_initiated"`
	TransferURL       string `json:"transfer_url,omitempty"`
	TransferEmailSent bool   `json:"transfer_email_sent"`
}

// PaymentService tracks in-flight payment details per register and enforces
// the per-method completion guards: cash must cover the total, card needs a
// terminal approval, transfer needs an initiated banking hop.
type PaymentService struct {
	mu       sync.Mutex
	payments map[string]*PaymentDetails
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{
		payments: make(map[string]*PaymentDetails),
	}
}

// BeginInput captures the cashier's payment selection for a register.
type BeginInput struct {
	Method         string
	AmountTendered float64
	PrintReceipt   bool
}

// Begin records the selected payment method and tendered amount for a
// register. Selecting a method resets any confirmation state from a previous
// selection, so switching CASH -> CARD never inherits a stale approval.
func (s *PaymentService) Begin(registerNumber string, input *BeginInput) (*PaymentDetails, error) {
	method, err := enum.ParsePaymentMethod(input.Method)
	if err != nil {
		return nil, apperror.NewBadRequestError("Unknown payment method: " + input.Method)
	}
	if input.AmountTendered < 0 {
		return nil, apperror.NewBadRequestError("Amount tendered cannot be negative")
	}

	details := &PaymentDetails{
		Method:         method,
		AmountTendered: money.ToCents(input.AmountTendered),
		PrintReceipt:   input.PrintReceipt,
	}

	s.mu.Lock()
	s.payments[strings.TrimSpace(registerNumber)] = details
	s.mu.Unlock()
	return details, nil
}

// CardResultInput carries the charge outcome reported by the card terminal.
type CardResultInput struct {
	Approved      bool
	ProviderError string
}

// RecordCardResult records the terminal's charge outcome for a register. An
// approval unblocks Confirm; a decline keeps it blocked and stores the
// provider's error. Rejected when the current method is not CARD.
func (s *PaymentService) RecordCardResult(registerNumber string, input *CardResultInput) (*PaymentDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	details := s.payments[strings.TrimSpace(registerNumber)]
	if details == nil {
		return nil, apperror.NewNotFoundError("Pending payment")
	}
	if details.Method != enum.PaymentMethodCard {
		return nil, apperror.NewInvalidStateError("Current payment method is not card")
	}

	if input.Approved {
		details.CardConfirmed = true
		details.CardError = ""
	} else {
		details.CardConfirmed = false
		details.CardError = input.ProviderError
		if details.CardError == "" {
			details.CardError = "Card charge was declined"
		}
	}
	return details, nil
}

// TransferInitiatedInput carries the banking hop handoff details.
type TransferInitiatedInput struct {
	URL       string
	EmailSent bool
}

// MarkTransferInitiated records that the banking hop for a transfer payment
// has been started. Rejected when the current method is not TRANSFER.
func (s *PaymentService) MarkTransferInitiated(registerNumber string, input *TransferInitiatedInput) (*PaymentDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	details := s.payments[strings.TrimSpace(registerNumber)]
	if details == nil {
		return nil, apperror.NewNotFoundError("Pending payment")
	}
	if details.Method != enum.PaymentMethodTransfer {
		return nil, apperror.NewInvalidStateError("Current payment method is not transfer")
	}
	details.TransferInitiated = true
	details.TransferURL = input.URL
	details.TransferEmailSent = input.EmailSent
	return details, nil
}

// Confirm validates the pending payment against the amount due and returns
// the finalized details. For card and transfer the tendered amount is forced
// to the exact total: change only ever exists for cash.
func (s *PaymentService) Confirm(registerNumber string, total int64) (*PaymentDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	details := s.payments[strings.TrimSpace(registerNumber)]
	if details == nil {
		return nil, apperror.NewInvalidStateError("No payment has been started for this register")
	}

	switch details.Method {
	case enum.PaymentMethodCash:
		if details.AmountTendered < total {
			return nil, apperror.NewInvalidStateError("Amount tendered is less than the total due")
		}
		details.Change = money.Change(details.AmountTendered, total)
	case enum.PaymentMethodCard:
		if !details.CardConfirmed {
			if details.CardError != "" {
				return nil, apperror.NewInvalidStateError("Card payment failed: " + details.CardError)
			}
			return nil, apperror.NewInvalidStateError("Card payment has not been confirmed by the terminal")
		}
		details.AmountTendered = total
		details.Change = 0
	case enum.PaymentMethodTransfer:
		if !details.TransferInitiated {
			return nil, apperror.NewInvalidStateError("Transfer payment has not been initiated")
		}
		details.AmountTendered = total
		details.Change = 0
	default:
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	return details, nil
}

// Get returns the pending payment details for a register, or nil.
func (s *PaymentService) Get(registerNumber string) *PaymentDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[strings.TrimSpace(registerNumber)]
}

// Clear drops the pending payment state for a register. Called after a sale
// completes or a cart is abandoned.
func (s *PaymentService) Clear(registerNumber string) {
	s.mu.Lock()
	delete(s.payments, strings.TrimSpace(registerNumber))
	s.mu.Unlock()
}
