package handlers

import (
	"errors"

	"fintrack/internal/middleware"
	"fintrack/internal/services/ledger"
	"fintrack/internal/services/wallet"
	"fintrack/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService wallet.Service
	ledgerService ledger.Service
}

func NewWalletHandler(walletService wallet.Service, ledgerService ledger.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		ledgerService: ledgerService,
	}
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	var req struct {
		Name                  string `json:"name"`
		Type                  string `json:"type"`
		Currency              string `json:"currency"`
		Balance               string `json:"balance"`
		ExchangeRateToDefault string `json:"exchange_rate_to_default"`
		IsDefault             bool   `json:"is_default"`
		IsFlexible            bool   `json:"is_flexible"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	input := wallet.CreateInput{
		Name:       req.Name,
		Type:       req.Type,
		Currency:   req.Currency,
		IsDefault:  req.IsDefault,
		IsFlexible: req.IsFlexible,
	}
	if req.Balance != "" {
		balance, err := decimal.NewFromString(req.Balance)
		if err != nil {
			return response.BadRequest(c, "balance must be a decimal string")
		}
		input.Balance = balance
	}
	if req.ExchangeRateToDefault != "" {
		rate, err := decimal.NewFromString(req.ExchangeRateToDefault)
		if err != nil {
			return response.BadRequest(c, "exchange_rate_to_default must be a decimal string")
		}
		input.ExchangeRateToDefault = rate
	}

	created, err := h.walletService.Create(c.Context(), middleware.OwnerID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidName),
			errors.Is(err, wallet.ErrInvalidType),
			errors.Is(err, wallet.ErrInvalidCurrency):
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to create wallet")
	}
	return response.Created(c, created)
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid wallet id")
	}

	w, err := h.walletService.Get(c.Context(), middleware.OwnerID(c), uint(id))
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.ServerError(c, "Failed to get wallet")
	}
	return response.Success(c, w)
}

func (h *WalletHandler) ListWallets(c *fiber.Ctx) error {
	wallets, err := h.walletService.List(c.Context(), middleware.OwnerID(c))
	if err != nil {
		return response.ServerError(c, "Failed to list wallets")
	}
	return response.Success(c, wallets)
}

func (h *WalletHandler) DeleteWallet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid wallet id")
	}

	if err := h.walletService.Delete(c.Context(), middleware.OwnerID(c), uint(id)); err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.ServerError(c, "Failed to delete wallet")
	}
	return response.Success(c, fiber.Map{"deleted": true})
}

func (h *WalletHandler) CorrectBalance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid wallet id")
	}

	var req struct {
		Method string `json:"method"`
		Target string `json:"target"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	target, err := decimal.NewFromString(req.Target)
	if err != nil {
		return response.BadRequest(c, "target must be a decimal string")
	}

	w, err := h.ledgerService.CorrectBalance(c.Context(), middleware.OwnerID(c), uint(id), req.Method, target)
	if err != nil {
		return respondLedgerError(c, err)
	}
	return response.Success(c, w)
}

func (h *WalletHandler) AuditWallet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid wallet id")
	}

	opening := decimal.Zero
	if raw := c.Query("opening_balance"); raw != "" {
		opening, err = decimal.NewFromString(raw)
		if err != nil {
			return response.BadRequest(c, "opening_balance must be a decimal string")
		}
	}

	report, err := h.ledgerService.Audit(c.Context(), middleware.OwnerID(c), uint(id), opening)
	if err != nil {
		return respondLedgerError(c, err)
	}
	return response.Success(c, report)
}
