package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/firo1919/e-commerce-sub000/models"
)

// -------- Errors --------

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrGatewayInit        = errors.New("payment gateway initialization failed")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderFinalized     = errors.New("order already finalized")
	ErrPaymentInitialized = errors.New("payment already initialized for order")
)

// LimitedStockError reports a cart line whose quantity exceeds the product's
// current stock at placement time.
type LimitedStockError struct {
	ProductID uint
	Name      string
	Available int
	Requested int
}

func (e *LimitedStockError) Error() string {
	return fmt.Sprintf("limited stock for product %q: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// -------- Gateway port --------

// PaymentRequest is what the hosted-checkout gateway needs to start a
// transaction.
type PaymentRequest struct {
	Amount    float64
	Currency  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	TxRef     string
}

type PaymentSession struct {
	CheckoutURL string
}

// PaymentGateway starts a hosted-checkout transaction and returns the URL the
// shopper is redirected to. Implemented by the chapa client.
type PaymentGateway interface {
	Initialize(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
}

// -------- Service --------

// Receipt is the response to a successful placement or payment retry.
type Receipt struct {
	Order       models.Order   `json:"order"`
	CheckoutURL string         `json:"checkout_url"`
	Address     models.Address `json:"shipping_address"`
}

type Service struct {
	DB       *gorm.DB
	Gateway  PaymentGateway
	Log      *zap.Logger
	Currency string

	// Injected so order creation and tx_ref minting are deterministic in tests.
	Now      func() time.Time
	NewTxRef func() string
}

func NewService(db *gorm.DB, gateway PaymentGateway, log *zap.Logger, currency string) *Service {
	return &Service{
		DB:       db,
		Gateway:  gateway,
		Log:      log,
		Currency: currency,
		Now:      time.Now,
		NewTxRef: generateTxRef,
	}
}

// generateTxRef mints a unique gateway transaction reference.
// Example: tx-20250908130500-<uuid4>
func generateTxRef() string {
	return "tx-" + time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// PlaceOrder converts the user's cart into a pending order and asks the
// gateway for a checkout session.
//
// The order, its items and the cart deletion commit in one transaction before
// the gateway is ever contacted: a gateway failure leaves a durable pending
// order with no tx_ref, which the user can retry via RetryPayment. Stock is
// only pre-checked here; the authoritative decrement happens when the payment
// webhook confirms (stock can change between placement and payment).
func (s *Service) PlaceOrder(ctx context.Context, userID string) (*Receipt, error) {
	address, err := models.DefaultAddress(s.DB, userID)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("added_at ASC").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var total float64
		var orderItems []models.OrderItem
		for _, line := range lines {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < line.Quantity {
				return &LimitedStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: product.Stock,
					Requested: line.Quantity,
				}
			}

			total += product.Price * float64(line.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:       product.ID,
				ProductName:     product.Name,
				PriceAtPurchase: product.Price,
				Quantity:        line.Quantity,
			})
		}

		order = models.Order{
			UserID:      userID,
			Items:       orderItems,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			CreatedAt:   s.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// The cart is consumed exactly once per successful placement.
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total_amount", order.TotalAmount))
	broadcastOrderUpdate(order)

	checkoutURL, err := s.initializePayment(ctx, &order)
	if err != nil {
		s.Log.Error("payment initialization failed",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayInit, err)
	}

	return &Receipt{Order: order, CheckoutURL: checkoutURL, Address: *address}, nil
}

// RetryPayment re-initializes payment for a pending order whose first
// initialization failed. An order that already holds a tx_ref is refused:
// the ref is immutable once persisted, and replacing it would orphan any
// webhook the gateway sends for the original reference.
func (s *Service) RetryPayment(ctx context.Context, userID string, orderID uint) (*Receipt, error) {
	var order models.Order
	err := s.DB.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, ErrOrderFinalized
	}
	if order.TxRef != nil {
		return nil, ErrPaymentInitialized
	}

	address, err := models.DefaultAddress(s.DB, userID)
	if err != nil {
		return nil, err
	}

	checkoutURL, err := s.initializePayment(ctx, &order)
	if err != nil {
		s.Log.Error("payment re-initialization failed",
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayInit, err)
	}

	return &Receipt{Order: order, CheckoutURL: checkoutURL, Address: *address}, nil
}

// initializePayment asks the gateway for a checkout session and persists the
// minted tx_ref on the order. The order row is only touched after the gateway
// accepted the reference.
func (s *Service) initializePayment(ctx context.Context, order *models.Order) (string, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", order.UserID).Error; err != nil {
		return "", err
	}

	txRef := s.NewTxRef()
	session, err := s.Gateway.Initialize(ctx, PaymentRequest{
		Amount:    order.TotalAmount,
		Currency:  s.Currency,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		TxRef:     txRef,
	})
	if err != nil {
		return "", err
	}

	if err := s.DB.Model(order).Update("tx_ref", txRef).Error; err != nil {
		return "", err
	}
	order.TxRef = &txRef
	return session.CheckoutURL, nil
}

// -------- Reconciliation --------

// Reconcile applies a verified payment-result notification to the order
// holding txRef. Safe under at-least-once, out-of-order webhook delivery:
// the order row is locked for the whole transition, and terminal orders
// no-op so duplicate deliveries never re-decrement stock.
func (s *Service) Reconcile(txRef, status string) error {
	var transitioned *models.Order

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := models.LockForUpdate(tx).Where("tx_ref = ?", txRef).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if order.Status.Terminal() {
			s.Log.Info("duplicate webhook delivery, order already finalized",
				zap.Uint("order_id", order.ID),
				zap.String("tx_ref", txRef),
				zap.String("status", string(order.Status)))
			return nil
		}

		switch classifyWebhookStatus(status) {
		case models.OrderStatusPaid:
			if err := tx.Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
				return err
			}
			if err := models.DecrementAll(tx, order.Items); err != nil {
				return err
			}
			order.Status = models.OrderStatusPaid

		case models.OrderStatusCancelled:
			order.Status = models.OrderStatusCancelled

		default:
			// Neither success nor failure: do not guess, leave the order alone.
			s.Log.Warn("unrecognized webhook status",
				zap.String("tx_ref", txRef),
				zap.String("status", status))
			return nil
		}

		if err := tx.Model(&order).Update("status", order.Status).Error; err != nil {
			return err
		}
		transitioned = &order
		return nil
	})

	if err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			// The gateway already captured the money; the order stays pending
			// for ops follow-up instead of being cancelled behind the buyer's
			// back.
			s.Log.Error("insufficient stock at reconciliation, order left pending",
				zap.String("tx_ref", txRef))
		}
		return err
	}

	if transitioned != nil {
		s.Log.Info("order reconciled",
			zap.Uint("order_id", transitioned.ID),
			zap.String("tx_ref", txRef),
			zap.String("status", string(transitioned.Status)))
		broadcastOrderUpdate(*transitioned)
	}
	return nil
}

// classifyWebhookStatus maps the gateway's status string onto an order
// transition. Anything unrecognized maps to the zero value.
func classifyWebhookStatus(status string) models.OrderStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "successful":
		return models.OrderStatusPaid
	case "failed", "cancelled", "failed/cancelled":
		return models.OrderStatusCancelled
	default:
		return ""
	}
}
