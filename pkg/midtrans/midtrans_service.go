package midtrans

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/entities"
	"MeatSafe-Backend/internal/utils"
	"MeatSafe-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

const (
	PlanPremiumMonthly = "premium_monthly"
	PlanPremiumYearly  = "premium_yearly"

	priceMonthly int64 = 29000
	priceYearly  int64 = 299000
)

type (
	MidtransService interface {
		CreateSubscription(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error)
		HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error
	}

	midtransService struct {
		midtransRepository MidtransRepository
		userRepository     user.UserRepository
		snapClient         snap.Client
	}
)

func NewMidtransService(midtransRepository MidtransRepository, userRepository user.UserRepository) MidtransService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(utils.GetConfig("SERVER_KEY"), env)

	return &midtransService{
		midtransRepository: midtransRepository,
		userRepository:     userRepository,
		snapClient:         client,
	}
}

func planPrice(plan string) (int64, error) {
	switch plan {
	case PlanPremiumMonthly:
		return priceMonthly, nil
	case PlanPremiumYearly:
		return priceYearly, nil
	default:
		return 0, domain.ErrInvalidPlan
	}
}

func planDuration(plan string) time.Duration {
	if plan == PlanPremiumYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

func (s *midtransService) CreateSubscription(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error) {
	amount, err := planPrice(req.Plan)
	if err != nil {
		return domain.SubscribeResponse{}, err
	}

	usr, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscribeResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscribeResponse{}, err
	}

	email := req.Email
	if email == "" {
		email = usr.Email
	}

	orderID := fmt.Sprintf("MEATSAFE-%s-%d", uuid.New().String()[:8], time.Now().Unix())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.Plan,
				Name:  "MeatSafe " + req.Plan,
				Price: amount,
				Qty:   1,
			},
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.SubscribeResponse{}, domain.ErrPaymentFailed
	}

	tx := &entities.Transaction{
		ID:       uuid.New(),
		UserID:   usr.ID,
		OrderID:  orderID,
		Amount:   amount,
		Plan:     req.Plan,
		Status:   "pending",
		SnapURL:  snapResp.RedirectURL,
		Currency: "IDR",
	}

	if err := s.midtransRepository.CreateTransaction(ctx, tx); err != nil {
		return domain.SubscribeResponse{}, err
	}

	return domain.SubscribeResponse{
		OrderID: orderID,
		SnapURL: snapResp.RedirectURL,
	}, nil
}

func (s *midtransService) HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error {
	tx, err := s.midtransRepository.GetTransactionByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionMissing
		}
		return err
	}

	switch req.TransactionStatus {
	case "capture":
		if req.FraudStatus != "accept" {
			tx.Status = "challenge"
			return s.midtransRepository.UpdateTransaction(ctx, tx)
		}
		fallthrough
	case "settlement":
		tx.Status = "paid"
		if err := s.midtransRepository.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		return s.activatePremium(ctx, tx)
	case "deny", "cancel", "expire":
		tx.Status = "failed"
		return s.midtransRepository.UpdateTransaction(ctx, tx)
	default:
		tx.Status = req.TransactionStatus
		return s.midtransRepository.UpdateTransaction(ctx, tx)
	}
}

func (s *midtransService) activatePremium(ctx context.Context, tx *entities.Transaction) error {
	usr, err := s.userRepository.GetUserByID(ctx, tx.UserID.String())
	if err != nil {
		return err
	}

	// Stack onto the remaining premium window when one is still active.
	start := time.Now()
	if usr.IsPremium && usr.PremiumExpiry != nil && usr.PremiumExpiry.After(start) {
		start = *usr.PremiumExpiry
	}
	expiry := start.Add(planDuration(tx.Plan))

	usr.IsPremium = true
	usr.PremiumExpiry = &expiry

	return s.userRepository.UpdateUser(ctx, usr)
}
