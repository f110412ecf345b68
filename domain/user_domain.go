package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister  = "user registered successfully"
	MessageSuccessLogin     = "login success"
	MessageSuccessGetMe     = "user profile retrieved successfully"
	MessageSuccessUpdate    = "user updated successfully"
	MessageSuccessSubscribe = "subscription transaction created"

	MessageFailedRegister  = "failed to register user"
	MessageFailedLogin     = "failed to login"
	MessageFailedGetMe     = "failed to retrieve user profile"
	MessageFailedUpdate    = "failed to update user"
	MessageFailedSubscribe = "failed to create subscription transaction"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrPaymentFailed      = errors.New("payment gateway rejected the transaction")
	ErrInvalidPlan        = errors.New("unknown subscription plan")
	ErrTransactionMissing = errors.New("transaction not found")
)

type (
	UserRegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UserRegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	UserLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UserLoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UserResponse struct {
		ID            string     `json:"id"`
		Name          string     `json:"name"`
		Email         string     `json:"email"`
		IsPremium     bool       `json:"is_premium"`
		PremiumExpiry *time.Time `json:"premium_expiry,omitempty"`
	}

	UserUpdateRequest struct {
		Name           string `json:"name" validate:"omitempty,min=2"`
		ReminderOptOut *bool  `json:"reminder_opt_out" validate:"omitempty"`
	}

	SubscribeRequest struct {
		Plan  string `json:"plan" validate:"required,oneof=premium_monthly premium_yearly"`
		Email string `json:"email" validate:"omitempty,email"`
	}

	SubscribeResponse struct {
		OrderID string `json:"order_id"`
		SnapURL string `json:"snap_url"`
	}

	MidtransNotificationRequest struct {
		OrderID           string `json:"order_id" validate:"required"`
		TransactionStatus string `json:"transaction_status" validate:"required"`
		FraudStatus       string `json:"fraud_status"`
	}
)
