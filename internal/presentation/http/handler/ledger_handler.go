package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/application/service"
	"github.com/sangkips/folio-api/internal/domain/billing"
	"github.com/sangkips/folio-api/internal/domain/enum"
	"github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/internal/infrastructure/export"
	"github.com/sangkips/folio-api/internal/presentation/http/dto/request"
	"github.com/sangkips/folio-api/internal/presentation/http/dto/response"
	"github.com/sangkips/folio-api/pkg/apperror"
	"github.com/sangkips/folio-api/pkg/pagination"
)

// LedgerHandler handles folio HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Create opens a new folio
// @Summary Create ledger
// @Tags ledgers
// @Security BearerAuth
// @Param request body request.CreateLedgerRequest true "Guest details"
// @Success 201 {object} response.APIResponse
// @Router /ledgers [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	accountID, ok := GetAccountID(c)
	if !ok {
		return
	}

	var req request.CreateLedgerRequest
	if !bindJSON(c, &req) {
		return
	}

	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), &service.CreateLedgerInput{
		OwnerID:    accountID,
		GuestName:  req.GuestName,
		GuestState: req.GuestState,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Ledger created", ledger)
}

// List returns the account's folios
// @Summary List ledgers
// @Tags ledgers
// @Security BearerAuth
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Param search query string false "Bill number or guest name"
// @Param only_due query bool false "Only ledgers with money due"
// @Param bill_paid query bool false "Filter by bill_paid"
// @Param cancelled query bool false "Filter by cancelled"
// @Param start_date query string false "Created on or after (YYYY-MM-DD)"
// @Param end_date query string false "Created on or before (YYYY-MM-DD)"
// @Router /ledgers [get]
func (h *LedgerHandler) List(c *gin.Context) {
	accountID, ok := GetAccountID(c)
	if !ok {
		return
	}

	var pag pagination.PaginationParams
	if err := c.ShouldBindQuery(&pag); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	params := &repository.LedgerFilterParams{
		Pagination: &pag,
		Search:     c.Query("search"),
		BillPaid:   queryBool(c, "bill_paid"),
		Cancelled:  queryBool(c, "cancelled"),
		SortBy:     c.DefaultQuery("sort_by", "created_at"),
		SortOrder:  c.DefaultQuery("sort_order", "desc"),
	}
	if onlyDue := queryBool(c, "only_due"); onlyDue != nil {
		params.OnlyDue = *onlyDue
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		params.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &end
	}

	result, err := h.ledgerService.ListLedgers(c.Request.Context(), accountID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Ledgers retrieved", result)
}

// Get returns one folio
// @Summary Get ledger
// @Tags ledgers
// @Security BearerAuth
// @Router /ledgers/{id} [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.GetLedger(c.Request.Context(), accountID, ledgerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved", ledger)
}

// Delete removes a folio
// @Summary Delete ledger
// @Tags ledgers
// @Security BearerAuth
// @Router /ledgers/{id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteLedger(c.Request.Context(), accountID, ledgerID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// WriteRoomSlot writes the sequences of one room slot
// @Summary Write room slot
// @Description Fields present in the body replace the whole sequence; absent fields are kept.
// @Tags ledgers
// @Security BearerAuth
// @Param index path int true "Room index, starting at 0"
// @Param request body request.RoomSlotRequest true "Room sequences"
// @Router /ledgers/{id}/rooms/{index} [put]
func (h *LedgerHandler) WriteRoomSlot(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, apperror.NewInvalidIndexTextError(c.Param("index")))
		return
	}

	var req request.RoomSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	ledger, err := h.ledgerService.WriteRoomSlot(c.Request.Context(), accountID, ledgerID, index, req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Room updated", ledger)
}

// ApplyPayment records a part-payment
// @Summary Apply payment
// @Tags ledgers
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param request body request.PaymentRequest true "Payment"
// @Failure 422 {object} response.APIResponse "PaymentExceedsTotal"
// @Router /ledgers/{id}/payments [post]
func (h *LedgerHandler) ApplyPayment(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	amount, err := billing.ParseAmount(string(req.Amount))
	if err != nil {
		response.Error(c, apperror.NewInvalidPaymentError("amount must be a positive number"))
		return
	}
	date, err := req.ParseDate()
	if err != nil {
		response.Error(c, apperror.NewInvalidPaymentError("date must be YYYY-MM-DD or RFC 3339"))
		return
	}

	ledger, err := h.ledgerService.ApplyPayment(c.Request.Context(), &service.ApplyPaymentInput{
		OwnerID:  accountID,
		LedgerID: ledgerID,
		Amount:   amount,
		Mode:     req.Mode,
		Date:     date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded", ledger)
}

// SetStatus sets or clears bill_paid or cancelled
// @Summary Set status flag
// @Tags ledgers
// @Security BearerAuth
// @Param request body request.StatusFlagRequest true "Flag"
// @Router /ledgers/{id}/status [put]
func (h *LedgerHandler) SetStatus(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	var req request.StatusFlagRequest
	if !bindJSON(c, &req) {
		return
	}
	flag, err := enum.ParseStatusFlag(req.Flag)
	if err != nil {
		response.Error(c, apperror.NewBadRequestError(err.Error()))
		return
	}

	ledger, err := h.ledgerService.SetStatusFlag(c.Request.Context(), accountID, ledgerID, flag, *req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Status updated", ledger)
}

// AppendRemarks adds remarks to a ledger
// @Summary Append remarks
// @Tags ledgers
// @Security BearerAuth
// @Param request body request.RemarksRequest true "Remarks"
// @Router /ledgers/{id}/remarks [post]
func (h *LedgerHandler) AppendRemarks(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	var req request.RemarksRequest
	if !bindJSON(c, &req) {
		return
	}
	field := enum.RemarkFieldGeneral
	if req.Field != "" {
		parsed, err := enum.ParseRemarkField(req.Field)
		if err != nil {
			response.Error(c, apperror.NewBadRequestError(err.Error()))
			return
		}
		field = parsed
	}

	ledger, err := h.ledgerService.AppendRemarks(c.Request.Context(), accountID, ledgerID, field, req.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Remarks added", ledger)
}

// Recompute re-derives the ledger totals
// @Summary Recompute ledger
// @Tags ledgers
// @Security BearerAuth
// @Router /ledgers/{id}/recompute [post]
func (h *LedgerHandler) Recompute(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.Recompute(c.Request.Context(), accountID, ledgerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger recomputed", ledger)
}

// Invoice presents the folio with the tax split for its jurisdiction
// @Summary Invoice view
// @Tags ledgers
// @Security BearerAuth
// @Router /ledgers/{id}/invoice [get]
func (h *LedgerHandler) Invoice(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	inv, err := h.ledgerService.GetInvoice(c.Request.Context(), accountID, ledgerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved", inv)
}

// ExportInvoice downloads the invoice as a spreadsheet
// @Summary Invoice spreadsheet
// @Tags ledgers
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /ledgers/{id}/invoice.xlsx [get]
func (h *LedgerHandler) ExportInvoice(c *gin.Context) {
	accountID, ledgerID, ok := h.ids(c)
	if !ok {
		return
	}

	data, filename, err := h.ledgerService.ExportInvoice(c.Request.Context(), accountID, ledgerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, export.ContentTypeXLSX, filename, data)
}

func (h *LedgerHandler) ids(c *gin.Context) (accountID, ledgerID uuid.UUID, ok bool) {
	accountID, ok = GetAccountID(c)
	if !ok {
		return
	}
	ledgerID, ok = pathUUID(c, "id")
	return
}
