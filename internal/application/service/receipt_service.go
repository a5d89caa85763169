package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
	"github.com/kiprotich/tillpoint-api/pkg/money"
	"github.com/kiprotich/tillpoint-api/pkg/printer"
)

// ReceiptService composes printable receipts from recorded transactions and
// drives the thermal printer. Receipts are derived on demand, never stored.
type ReceiptService struct {
	txnRepo  repository.TransactionRepository
	userRepo repository.UserRepository
	device   printer.Printer
	header   entity.ReceiptHeader
}

// NewReceiptService creates a new receipt service
func NewReceiptService(txnRepo repository.TransactionRepository, userRepo repository.UserRepository, device printer.Printer, header entity.ReceiptHeader) *ReceiptService {
	return &ReceiptService{
		txnRepo:  txnRepo,
		userRepo: userRepo,
		device:   device,
		header:   header,
	}
}

// BuildReceipt composes a receipt value object for a recorded transaction.
func (s *ReceiptService) BuildReceipt(ctx context.Context, transactionID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.txnRepo.GetWithItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	cashier := ""
	if user, err := s.userRepo.GetByID(ctx, txn.CashierID); err == nil && user != nil {
		cashier = user.FirstName + " " + user.LastName
	}

	items := make([]entity.ReceiptItem, len(txn.Items))
	for i, item := range txn.Items {
		items[i] = entity.ReceiptItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: money.ToDecimal(item.UnitPrice),
			Total:     money.ToDecimal(item.TotalPrice),
		}
	}

	return &entity.Receipt{
		Header:            s.header,
		TransactionNumber: txn.TransactionNumber,
		Date:              txn.Date.Format("2006-01-02 15:04:05"),
		Register:          txn.RegisterNumber,
		Cashier:           cashier,
		PaymentMethod:     txn.PaymentMethod.String(),
		Items:             items,
		SubTotal:          money.ToDecimal(txn.SubTotal),
		TaxTotal:          money.ToDecimal(txn.TaxTotal),
		Discount:          money.ToDecimal(txn.Discount),
		Total:             money.ToDecimal(txn.Total),
		Tendered:          money.ToDecimal(txn.AmountTendered),
		Change:            money.ToDecimal(txn.Change),
		Offline:           txn.Offline,
	}, nil
}

// PrintReceipt renders a transaction's receipt to the configured printer.
func (s *ReceiptService) PrintReceipt(ctx context.Context, transactionID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.device.Print(render(receipt)); err != nil {
		return nil, apperror.NewAppError(503, "Printer unavailable: "+err.Error())
	}
	return receipt, nil
}

// PrinterConnected reports whether the configured printer is reachable.
func (s *ReceiptService) PrinterConnected() bool {
	return s.device.IsConnected()
}

func render(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text("Tel: " + r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.Text("Tax ID: " + r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).Separator('-').
		KeyValue("Receipt", r.TransactionNumber).
		KeyValue("Date", r.Date).
		KeyValue("Register", r.Register)
	if r.Cashier != "" {
		doc.KeyValue("Cashier", r.Cashier)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
	}

	doc.Separator('-').
		KeyValue("Subtotal", fmt.Sprintf("%.2f", r.SubTotal)).
		KeyValue("Tax", fmt.Sprintf("%.2f", r.TaxTotal))
	if r.Discount > 0 {
		doc.KeyValue("Discount", fmt.Sprintf("-%.2f", r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false).
		KeyValue(r.PaymentMethod, fmt.Sprintf("%.2f", r.Tendered))
	if r.Change > 0 {
		doc.KeyValue("Change", fmt.Sprintf("%.2f", r.Change))
	}

	if r.Offline {
		doc.LineFeed().SetAlign(printer.AlignCenter).Text("* RECORDED OFFLINE *")
	}

	doc.LineFeed().SetAlign(printer.AlignCenter).
		Text("Thank you for shopping with us").
		FeedLines(3).Cut()

	return doc.Bytes()
}
