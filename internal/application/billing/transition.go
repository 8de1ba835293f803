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

// UpdateDocument edita un documento mutable (draft o issued). Reemplazar
// líneas es borrar-y-reinsertar con re-snapshot de trabajos y recálculo de
// totales; sobre un documento emitido dispara la conciliación de inventario
// (delta contra el libro, no re-consumo). Un patch de status solo admite
// draft -> issued (equivalente a emitir); anular va por VoidDocument.
func (uc *DocumentUseCase) UpdateDocument(ctx context.Context, storeID, id string, in dto.UpdateBillingRequest) (*dto.BillingDocResponse, error) {
	var doc *entity.BillingDocument
	var lines []*entity.BillingLine

	err := uc.txRunner.RunBilling(ctx, func(
		docRepo repository.BillingDocumentRepository,
		seqRepo repository.BillingSequenceRepository,
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
	) error {
		var err error
		doc, err = lockScoped(docRepo, storeID, id)
		if err != nil {
			return err
		}
		if !doc.IsMutable() {
			return fmt.Errorf("%w: un documento anulado no se edita", domain.ErrInvalidTransition)
		}

		wantIssue := false
		if in.Status != nil && *in.Status != doc.Status {
			if doc.Status != entity.StatusDraft || *in.Status != entity.StatusIssued {
				return fmt.Errorf("%w: %s -> %s (usar void/delete)", domain.ErrInvalidTransition, doc.Status, *in.Status)
			}
			if doc.Kind != entity.KindInvoice {
				return fmt.Errorf("%w: solo las facturas se emiten", domain.ErrInvalidTransition)
			}
			wantIssue = true
		}

		if in.CustomerID != nil || in.CustomerName != nil {
			reqID := doc.CustomerID
			if in.CustomerID != nil {
				reqID = *in.CustomerID
			}
			reqName := doc.CustomerName
			if in.CustomerName != nil {
				reqName = *in.CustomerName
			}
			doc.CustomerID, doc.CustomerName, err = uc.resolveCustomer(doc.StoreID, reqID, reqName)
			if err != nil {
				return err
			}
		}
		if in.Meta != nil {
			doc.Meta = in.Meta
		}

		now := time.Now()
		linesReplaced := false
		if in.Lines != nil {
			lines, err = resolveLines(workRepo, doc.StoreID, doc.ID, *in.Lines, now)
			if err != nil {
				return err
			}
			taxCfg := entity.TaxSettings{Rate: doc.TaxRate, Mode: doc.TaxMode, Rounding: doc.TaxRounding}
			doc.Subtotal, doc.TaxTotal, doc.Total, err = domainbilling.Totals(lines, taxCfg)
			if err != nil {
				return err
			}
			if err := docRepo.ReplaceLines(doc.ID, lines); err != nil {
				return err
			}
			linesReplaced = true
		} else {
			lines, err = docRepo.GetLines(doc.ID)
			if err != nil {
				return err
			}
		}

		switch {
		case wantIssue:
			if doc.StoreID == "" {
				return domain.ErrStoreRequired
			}
			doc.Status = entity.StatusIssued
			doc.IssuedAt = &now
			if err := uc.engine.ConsumeForIssueInTx(itemRepo, moveRepo, workRepo, doc, lines, now); err != nil {
				return err
			}
		case doc.Status == entity.StatusIssued && linesReplaced:
			if err := uc.engine.ReconcileLinesInTx(itemRepo, moveRepo, workRepo, doc, lines, now); err != nil {
				return err
			}
		}

		doc.UpdatedAt = now
		return docRepo.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocResponse(doc, lines), nil
}

// IssueDocument emite una factura: draft -> issued con consumo de inventario
// en la misma transacción. Idempotente: emitir una factura ya emitida
// devuelve éxito sin efecto (reintentos de red seguros).
func (uc *DocumentUseCase) IssueDocument(ctx context.Context, storeID, id string) (*dto.BillingDocResponse, error) {
	var doc *entity.BillingDocument
	var lines []*entity.BillingLine

	err := uc.txRunner.RunBilling(ctx, func(
		docRepo repository.BillingDocumentRepository,
		seqRepo repository.BillingSequenceRepository,
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
	) error {
		var err error
		doc, err = lockScoped(docRepo, storeID, id)
		if err != nil {
			return err
		}
		if doc.Kind != entity.KindInvoice {
			return fmt.Errorf("%w: solo las facturas se emiten", domain.ErrInvalidTransition)
		}
		lines, err = docRepo.GetLines(doc.ID)
		if err != nil {
			return err
		}
		switch doc.Status {
		case entity.StatusIssued:
			return nil // ya emitida: no-op
		case entity.StatusVoid:
			return fmt.Errorf("%w: una factura anulada no se re-emite", domain.ErrInvalidTransition)
		}
		if doc.StoreID == "" {
			return domain.ErrStoreRequired
		}

		now := time.Now()
		doc.Status = entity.StatusIssued
		doc.IssuedAt = &now
		doc.UpdatedAt = now
		if err := uc.engine.ConsumeForIssueInTx(itemRepo, moveRepo, workRepo, doc, lines, now); err != nil {
			return err
		}
		return docRepo.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocResponse(doc, lines), nil
}

// VoidDocument anula una factura emitida: issued -> void con reversa del
// neto consumido. Idempotente (re-anular es no-op). El motivo se guarda en
// meta, nunca como columna tipada. Un borrador no se anula: se elimina.
func (uc *DocumentUseCase) VoidDocument(ctx context.Context, storeID, id, reason string) (*dto.BillingDocResponse, error) {
	var doc *entity.BillingDocument
	var lines []*entity.BillingLine

	err := uc.txRunner.RunBilling(ctx, func(
		docRepo repository.BillingDocumentRepository,
		seqRepo repository.BillingSequenceRepository,
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
	) error {
		var err error
		doc, err = lockScoped(docRepo, storeID, id)
		if err != nil {
			return err
		}
		if doc.Kind != entity.KindInvoice {
			return fmt.Errorf("%w: solo las facturas se anulan", domain.ErrInvalidTransition)
		}
		lines, err = docRepo.GetLines(doc.ID)
		if err != nil {
			return err
		}
		switch doc.Status {
		case entity.StatusVoid:
			return nil // ya anulada: no-op
		case entity.StatusDraft:
			return fmt.Errorf("%w: un borrador se elimina, no se anula", domain.ErrInvalidTransition)
		}

		now := time.Now()
		if err := uc.engine.ReverseForVoidInTx(itemRepo, moveRepo, doc, now); err != nil {
			return err
		}
		doc.Status = entity.StatusVoid
		if reason != "" {
			if doc.Meta == nil {
				doc.Meta = map[string]any{}
			}
			doc.Meta[entity.MetaVoidReason] = reason
		}
		doc.UpdatedAt = now
		return docRepo.Update(doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocResponse(doc, lines), nil
}

// ConvertToInvoice crea una factura borrador a partir de un presupuesto:
// copia las líneas tal cual (snapshots congelados, sin re-resolver el
// maestro para respetar el precio cotizado) y asigna numeración INV propia.
// El presupuesto origen no se toca.
func (uc *DocumentUseCase) ConvertToInvoice(ctx context.Context, storeID, estimateID string) (*dto.BillingDocResponse, error) {
	var doc *entity.BillingDocument
	var lines []*entity.BillingLine

	err := uc.txRunner.RunBilling(ctx, func(
		docRepo repository.BillingDocumentRepository,
		seqRepo repository.BillingSequenceRepository,
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
	) error {
		src, err := docRepo.GetByID(estimateID)
		if err != nil {
			return err
		}
		if src == nil || (storeID != "" && src.StoreID != storeID) {
			return domain.ErrNotFound
		}
		if src.Kind != entity.KindEstimate {
			return fmt.Errorf("%w: solo los presupuestos se convierten", domain.ErrInvalidTransition)
		}
		if src.StoreID == "" {
			return domain.ErrStoreRequired
		}
		srcLines, err := docRepo.GetLines(src.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		docNo, err := seqRepo.AllocateDocNo(src.StoreID, entity.KindInvoice, now.Year())
		if err != nil {
			return err
		}
		doc = &entity.BillingDocument{
			ID:           uuid.New().String(),
			StoreID:      src.StoreID,
			CustomerID:   src.CustomerID,
			CustomerName: src.CustomerName,
			Kind:         entity.KindInvoice,
			Status:       entity.StatusDraft,
			DocNo:        docNo,
			Subtotal:     src.Subtotal,
			TaxTotal:     src.TaxTotal,
			Total:        src.Total,
			TaxRate:      src.TaxRate,
			TaxMode:      src.TaxMode,
			TaxRounding:  src.TaxRounding,
			SourceDocID:  src.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := docRepo.Create(doc); err != nil {
			return err
		}
		lines = make([]*entity.BillingLine, 0, len(srcLines))
		for _, l := range srcLines {
			copied := *l
			copied.ID = uuid.New().String()
			copied.BillingID = doc.ID
			copied.CreatedAt = now
			lines = append(lines, &copied)
		}
		return docRepo.ReplaceLines(doc.ID, lines)
	})
	if err != nil {
		return nil, err
	}
	return toDocResponse(doc, lines), nil
}

// DeleteDocument elimina un borrador. Un documento emitido no se elimina
// (afectó inventario y numeración: se anula), preservando la pista de
// auditoría.
func (uc *DocumentUseCase) DeleteDocument(ctx context.Context, storeID, id string) error {
	return uc.txRunner.RunBilling(ctx, func(
		docRepo repository.BillingDocumentRepository,
		seqRepo repository.BillingSequenceRepository,
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
	) error {
		doc, err := lockScoped(docRepo, storeID, id)
		if err != nil {
			return err
		}
		if doc.Status != entity.StatusDraft {
			return fmt.Errorf("%w: un documento %s se anula, no se elimina", domain.ErrInvalidTransition, doc.Status)
		}
		return docRepo.Delete(id)
	})
}

// lockScoped bloquea el documento y aplica scoping de tienda (ajeno = 404).
func lockScoped(docRepo repository.BillingDocumentRepository, storeID, id string) (*entity.BillingDocument, error) {
	doc, err := docRepo.GetForUpdate(id)
	if err != nil {
		return nil, err
	}
	if doc == nil || (storeID != "" && doc.StoreID != storeID) {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}
