package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/billing"
	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/internal/domain/enum"
	"github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/internal/infrastructure/export"
	"github.com/sangkips/folio-api/pkg/apperror"
	"github.com/sangkips/folio-api/pkg/logger"
	"github.com/sangkips/folio-api/pkg/pagination"
	"github.com/sangkips/folio-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const ledgerModule = "LedgerService"

// LedgerService handles folio operations. Every mutation runs as one
// lock, load, change, save cycle on the whole ledger.
type LedgerService struct {
	ledgerRepo  repository.LedgerRepository
	accountRepo repository.AccountRepository
	locker      repository.LedgerLocker
	engine      *billing.Engine
	log         logrus.FieldLogger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	accountRepo repository.AccountRepository,
	locker repository.LedgerLocker,
	engine *billing.Engine,
	log logrus.FieldLogger,
) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		locker:      locker,
		engine:      engine,
		log:         log,
	}
}

// CreateLedgerInput represents the create ledger input
type CreateLedgerInput struct {
	OwnerID    uuid.UUID
	GuestName  string
	GuestState string
}

// CreateLedger opens an empty folio with a fresh bill number
func (s *LedgerService) CreateLedger(ctx context.Context, input *CreateLedgerInput) (*entity.Ledger, error) {
	ledger := &entity.Ledger{
		OwnerID:        input.OwnerID,
		BillNo:         utils.GenerateBillNo(),
		GuestName:      strings.TrimSpace(input.GuestName),
		GuestState:     strings.TrimSpace(input.GuestState),
		RoomSlots:      []entity.RoomCharge{},
		PaymentHistory: []entity.Payment{},
		Remarks:        []string{},
	}
	s.engine.Recompute(ledger)

	if err := s.ledgerRepo.Create(ctx, ledger); err != nil {
		logger.LogError(s.log, ledgerModule, "CreateLedger", "create ledger", input.OwnerID, err)
		return nil, fmt.Errorf("create ledger: %w", err)
	}

	s.log.WithFields(logrus.Fields{"ledger_id": ledger.ID, "bill_no": ledger.BillNo}).Info("ledger created")
	return ledger, nil
}

// GetLedger returns a ledger owned by ownerID
func (s *LedgerService) GetLedger(ctx context.Context, ownerID, ledgerID uuid.UUID) (*entity.Ledger, error) {
	return s.load(ctx, ownerID, ledgerID)
}

// ListLedgers returns a page of the owner's ledgers
func (s *LedgerService) ListLedgers(ctx context.Context, ownerID uuid.UUID, params *repository.LedgerFilterParams) (*pagination.PaginatedResult[entity.Ledger], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	ledgers, total, err := s.ledgerRepo.List(ctx, ownerID, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(ledgers, p), nil
}

// WriteRoomSlot applies patch to one room slot, growing the ledger if the
// index is new, then recomputes the whole ledger.
func (s *LedgerService) WriteRoomSlot(ctx context.Context, ownerID, ledgerID uuid.UUID, roomIndex int, patch billing.RoomPatch) (*entity.Ledger, error) {
	if roomIndex < 0 {
		return nil, apperror.NewInvalidIndexError(roomIndex)
	}
	return s.mutate(ctx, ownerID, ledgerID, "WriteRoomSlot", func(l *entity.Ledger) error {
		if err := billing.WriteSlot(l, roomIndex, patch); err != nil {
			return err
		}
		s.engine.Recompute(l)
		return nil
	})
}

// ApplyPaymentInput represents a part-payment against a ledger
type ApplyPaymentInput struct {
	OwnerID  uuid.UUID
	LedgerID uuid.UUID
	Amount   decimal.Decimal
	Mode     string
	Date     time.Time
}

// ApplyPayment records a payment. The ledger is recomputed first so the bound
// is checked against the current total.
func (s *LedgerService) ApplyPayment(ctx context.Context, input *ApplyPaymentInput) (*entity.Ledger, error) {
	return s.mutate(ctx, input.OwnerID, input.LedgerID, "ApplyPayment", func(l *entity.Ledger) error {
		s.engine.Recompute(l)
		return s.engine.ApplyPayment(l, input.Amount, input.Mode, input.Date)
	})
}

// SetStatusFlag sets or clears bill_paid or cancelled
func (s *LedgerService) SetStatusFlag(ctx context.Context, ownerID, ledgerID uuid.UUID, flag enum.StatusFlag, value bool) (*entity.Ledger, error) {
	if !flag.Valid() {
		return nil, apperror.NewBadRequestError("unknown status flag")
	}
	return s.mutate(ctx, ownerID, ledgerID, "SetStatusFlag", func(l *entity.Ledger) error {
		return s.engine.SetStatusFlag(l, flag, value)
	})
}

// AppendRemarks adds remarks to the general or cancellation remark list
func (s *LedgerService) AppendRemarks(ctx context.Context, ownerID, ledgerID uuid.UUID, field enum.RemarkField, remarks []string) (*entity.Ledger, error) {
	return s.mutate(ctx, ownerID, ledgerID, "AppendRemarks", func(l *entity.Ledger) error {
		return billing.AppendRemarks(l, field, remarks...)
	})
}

// Recompute re-derives the ledger's amounts from its slots
func (s *LedgerService) Recompute(ctx context.Context, ownerID, ledgerID uuid.UUID) (*entity.Ledger, error) {
	return s.mutate(ctx, ownerID, ledgerID, "Recompute", func(l *entity.Ledger) error {
		s.engine.Recompute(l)
		return nil
	})
}

// GetInvoice presents the ledger for the jurisdiction between the guest and
// the owning account
func (s *LedgerService) GetInvoice(ctx context.Context, ownerID, ledgerID uuid.UUID) (*billing.Invoice, error) {
	ledger, err := s.load(ctx, ownerID, ledgerID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}

	inv := billing.BuildInvoice(ledger, account.RegisteredState)
	return &inv, nil
}

// ExportInvoice renders the invoice as an xlsx workbook and returns its bytes
// along with a download file name
func (s *LedgerService) ExportInvoice(ctx context.Context, ownerID, ledgerID uuid.UUID) ([]byte, string, error) {
	inv, err := s.GetInvoice(ctx, ownerID, ledgerID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := export.WriteInvoice(&buf, *inv); err != nil {
		logger.LogError(s.log, ledgerModule, "ExportInvoice", "write workbook", ledgerID, err)
		return nil, "", err
	}
	return buf.Bytes(), inv.BillNo + ".xlsx", nil
}

// DeleteLedger removes a ledger for good
func (s *LedgerService) DeleteLedger(ctx context.Context, ownerID, ledgerID uuid.UUID) error {
	release, err := s.locker.Acquire(ctx, ledgerID)
	if err != nil {
		return err
	}
	defer s.release(ctx, ledgerID, release)

	if _, err := s.load(ctx, ownerID, ledgerID); err != nil {
		return err
	}
	if err := s.ledgerRepo.Delete(ctx, ledgerID); err != nil {
		logger.LogError(s.log, ledgerModule, "DeleteLedger", "delete ledger", ledgerID, err)
		return fmt.Errorf("delete ledger: %w", err)
	}

	s.log.WithField("ledger_id", ledgerID).Info("ledger deleted")
	return nil
}

// load fetches a ledger and hides ledgers of other accounts behind NotFound
func (s *LedgerService) load(ctx context.Context, ownerID, ledgerID uuid.UUID) (*entity.Ledger, error) {
	ledger, err := s.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if ledger == nil || ledger.OwnerID != ownerID {
		return nil, apperror.NewNotFoundError("Ledger")
	}
	return ledger, nil
}

// mutate runs change on a freshly loaded ledger while holding its lock and
// saves the result. When change fails nothing is saved.
func (s *LedgerService) mutate(ctx context.Context, ownerID, ledgerID uuid.UUID, op string, change func(*entity.Ledger) error) (*entity.Ledger, error) {
	release, err := s.locker.Acquire(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, ledgerID, release)

	ledger, err := s.load(ctx, ownerID, ledgerID)
	if err != nil {
		return nil, err
	}

	if err := change(ledger); err != nil {
		s.log.WithFields(logrus.Fields{
			"ledger_id": ledgerID,
			"op":        op,
			"kind":      apperror.KindOf(err),
		}).Info("ledger change rejected")
		return nil, err
	}

	if err := s.ledgerRepo.Update(ctx, ledger); err != nil {
		logger.LogError(s.log, ledgerModule, op, "save ledger", ledgerID, err)
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"ledger_id":    ledgerID,
		"op":           op,
		"total_amount": ledger.TotalAmount.String(),
		"due_amount":   ledger.DueAmount.String(),
	}).Info("ledger updated")
	return ledger, nil
}

func (s *LedgerService) release(ctx context.Context, ledgerID uuid.UUID, release func(context.Context) error) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.log.WithField("ledger_id", ledgerID).WithError(err).Warn("failed to release ledger lock")
	}
}
