package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/garajesoft/taller-api/internal/application/dto"
	"github.com/garajesoft/taller-api/internal/domain"
	domainbilling "github.com/garajesoft/taller-api/internal/domain/billing"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// CreateDocument crea un presupuesto o factura: resuelve tienda y cliente,
// congela los snapshots de las líneas, calcula impuestos, asigna número de
// documento y persiste todo de forma atómica. Si el estado inicial es
// "issued" (solo facturas), el consumo de inventario ocurre en la misma
// transacción.
func (uc *DocumentUseCase) CreateDocument(ctx context.Context, actorStoreID string, in dto.CreateBillingRequest) (*dto.BillingDocResponse, error) {
	kind := in.Kind
	if kind == "" {
		kind = entity.KindInvoice
	}
	if kind != entity.KindInvoice && kind != entity.KindEstimate {
		return nil, fmt.Errorf("%w: kind %q", domain.ErrInvalidInput, kind)
	}
	status := in.Status
	if status == "" {
		status = entity.StatusDraft
	}
	switch status {
	case entity.StatusDraft:
	case entity.StatusIssued:
		if kind != entity.KindInvoice {
			return nil, fmt.Errorf("%w: un presupuesto no puede emitirse", domain.ErrInvalidTransition)
		}
	default:
		return nil, fmt.Errorf("%w: estado inicial %q", domain.ErrInvalidInput, status)
	}

	// Scoping de tenant: el store del token manda; el del body solo se
	// acepta cuando el token no trae ninguno.
	storeID := actorStoreID
	if storeID == "" {
		storeID = in.StoreID
	}
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, storeID)
	}

	customerID, customerName, err := uc.resolveCustomer(storeID, in.CustomerID, in.CustomerName)
	if err != nil {
		return nil, err
	}

	taxCfg, err := uc.taxSettingsFor(in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	docID := uuid.New().String()
	var doc *entity.BillingDocument
	var lines []*entity.BillingLine

	err = uc.txRunner.RunBilling(ctx, func(
		docRepo repository.BillingDocumentRepository,
		seqRepo repository.BillingSequenceRepository,
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
	) error {
		lines, err = resolveLines(workRepo, storeID, docID, in.Lines, now)
		if err != nil {
			return err
		}
		subtotal, taxTotal, total, err := domainbilling.Totals(lines, taxCfg)
		if err != nil {
			return err
		}

		// El lock de numeración queda tomado hasta el commit de esta tx.
		docNo, err := seqRepo.AllocateDocNo(storeID, kind, now.Year())
		if err != nil {
			return err
		}

		doc = &entity.BillingDocument{
			ID:           docID,
			StoreID:      storeID,
			CustomerID:   customerID,
			CustomerName: customerName,
			Kind:         kind,
			Status:       status,
			DocNo:        docNo,
			Subtotal:     subtotal,
			TaxTotal:     taxTotal,
			Total:        total,
			TaxRate:      taxCfg.Rate,
			TaxMode:      taxCfg.Mode,
			TaxRounding:  taxCfg.Rounding,
			Meta:         in.Meta,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if status == entity.StatusIssued {
			doc.IssuedAt = &now
		}
		if err := docRepo.Create(doc); err != nil {
			return err
		}
		if err := docRepo.ReplaceLines(docID, lines); err != nil {
			return err
		}
		if status == entity.StatusIssued {
			return uc.engine.ConsumeForIssueInTx(itemRepo, moveRepo, workRepo, doc, lines, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDocResponse(doc, lines), nil
}
