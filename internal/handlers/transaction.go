package handlers

import (
	"errors"
	"time"

	"fintrack/internal/middleware"
	"fintrack/internal/services/ledger"
	"fintrack/internal/services/rates"
	"fintrack/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	ledgerService ledger.Service
}

func NewTransactionHandler(ledgerService ledger.Service) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// transactionRequest carries amounts as decimal strings to avoid float
// drift between client and ledger.
type transactionRequest struct {
	Type           string     `json:"type"`
	Amount         string     `json:"amount"`
	Currency       string     `json:"currency"`
	ExchangeRate   *string    `json:"exchange_rate"`
	WalletID       uint       `json:"wallet_id"`
	ToWalletID     *uint      `json:"to_wallet_id"`
	ToWalletAmount *string    `json:"to_wallet_amount"`
	CategoryID     *uint      `json:"category_id"`
	Date           *time.Time `json:"date"`
}

func (r transactionRequest) toPayload() (ledger.Payload, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return ledger.Payload{}, errors.New("amount must be a decimal string")
	}

	p := ledger.Payload{
		Type:       r.Type,
		Amount:     amount,
		Currency:   r.Currency,
		WalletID:   r.WalletID,
		ToWalletID: r.ToWalletID,
		CategoryID: r.CategoryID,
	}
	if r.ExchangeRate != nil {
		rate, err := decimal.NewFromString(*r.ExchangeRate)
		if err != nil {
			return ledger.Payload{}, errors.New("exchange_rate must be a decimal string")
		}
		p.ExchangeRate = &rate
	}
	if r.ToWalletAmount != nil {
		toAmount, err := decimal.NewFromString(*r.ToWalletAmount)
		if err != nil {
			return ledger.Payload{}, errors.New("to_wallet_amount must be a decimal string")
		}
		p.ToWalletAmount = &toAmount
	}
	if r.Date != nil {
		p.Date = *r.Date
	}
	return p, nil
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	payload, err := req.toPayload()
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	tx, err := h.ledgerService.CreateTransaction(c.Context(), middleware.OwnerID(c), payload)
	if err != nil {
		return respondLedgerError(c, err)
	}
	return response.Created(c, tx)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid transaction id")
	}

	tx, err := h.ledgerService.GetTransaction(c.Context(), middleware.OwnerID(c), uint(id))
	if err != nil {
		return respondLedgerError(c, err)
	}
	return response.Success(c, tx)
}

func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	var walletID *uint
	if raw := c.QueryInt("wallet_id", 0); raw > 0 {
		id := uint(raw)
		walletID = &id
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	txs, err := h.ledgerService.ListTransactions(c.Context(), middleware.OwnerID(c), walletID, limit, offset)
	if err != nil {
		return respondLedgerError(c, err)
	}
	return response.Success(c, txs)
}

func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid transaction id")
	}

	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	payload, err := req.toPayload()
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	tx, err := h.ledgerService.UpdateTransaction(c.Context(), middleware.OwnerID(c), uint(id), payload)
	if err != nil {
		return respondLedgerError(c, err)
	}
	return response.Success(c, tx)
}

func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid transaction id")
	}

	if err := h.ledgerService.DeleteTransaction(c.Context(), middleware.OwnerID(c), uint(id)); err != nil {
		return respondLedgerError(c, err)
	}
	return response.Success(c, fiber.Map{"deleted": true})
}

// respondLedgerError maps the engine's error taxonomy onto HTTP statuses:
// validation failures to 400, unknown ids to 404, an unavailable rate to 422
// so the client can prompt for a manual rate, anything else to 500.
func respondLedgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidType),
		errors.Is(err, ledger.ErrMissingDestination),
		errors.Is(err, ledger.ErrSameWalletTransfer),
		errors.Is(err, ledger.ErrMissingDestinationAmount),
		errors.Is(err, ledger.ErrInvalidExchangeRate),
		errors.Is(err, ledger.ErrInvalidCorrectionMethod):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, ledger.ErrWalletNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, rates.ErrRateUnavailable):
		return response.UnprocessableEntity(c, "exchange rate unavailable, supply a manual rate")
	}
	return response.ServerError(c, "operation failed")
}
