package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/garajesoft/taller-api/internal/application/dto"
	"github.com/garajesoft/taller-api/internal/domain"
	domainbilling "github.com/garajesoft/taller-api/internal/domain/billing"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// DocumentUseCase implementa el ciclo de vida de presupuestos y facturas:
// creación, edición, emisión, anulación, conversión y borrado, con la
// numeración y el inventario dentro de la misma transacción.
type DocumentUseCase struct {
	txRunner     BillingTxRunner
	engine       StockEngine
	docRepo      repository.BillingDocumentRepository
	storeRepo    repository.StoreRepository
	customerRepo repository.CustomerRepository
	settingsRepo repository.SettingsRepository
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner BillingTxRunner,
	engine StockEngine,
	docRepo repository.BillingDocumentRepository,
	storeRepo repository.StoreRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner:     txRunner,
		engine:       engine,
		docRepo:      docRepo,
		storeRepo:    storeRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
	}
}

// GetDocument obtiene un documento con sus líneas (ajeno a la tienda = 404).
func (uc *DocumentUseCase) GetDocument(ctx context.Context, storeID, id string) (*dto.BillingDocResponse, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil || (storeID != "" && doc.StoreID != storeID) {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.docRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toDocResponse(doc, lines), nil
}

// ListDocuments lista documentos de la tienda con filtros opcionales.
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, storeID, kind, status string, limit, offset int) ([]*dto.BillingDocResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	docs, err := uc.docRepo.List(storeID, kind, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BillingDocResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocResponse(d, nil))
	}
	return out, nil
}

// taxSettingsFor parte de la configuración "tax" guardada y aplica los
// overrides del request. La validación fina (modo/redondeo) la hace Totals.
func (uc *DocumentUseCase) taxSettingsFor(in dto.CreateBillingRequest) (entity.TaxSettings, error) {
	cfg, err := uc.settingsRepo.TaxSettings()
	if err != nil {
		return entity.TaxSettings{}, err
	}
	if in.TaxRate != nil {
		cfg.Rate = *in.TaxRate
	}
	if in.TaxMode != "" {
		cfg.Mode = in.TaxMode
	}
	if in.TaxRounding != "" {
		cfg.Rounding = in.TaxRounding
	}
	return cfg, nil
}

// resolveCustomer devuelve (customerID, snapshot de nombre). El nombre del
// maestro gana salvo override explícito en el request.
func (uc *DocumentUseCase) resolveCustomer(storeID, customerID, customerName string) (string, string, error) {
	if customerID == "" {
		return "", strings.TrimSpace(customerName), nil
	}
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return "", "", err
	}
	if customer == nil || customer.StoreID != storeID {
		return "", "", fmt.Errorf("%w: cliente %s", domain.ErrNotFound, customerID)
	}
	name := customer.Name
	if strings.TrimSpace(customerName) != "" {
		name = strings.TrimSpace(customerName)
	}
	return customer.ID, name, nil
}

// resolveLines materializa las líneas entrantes: las que traen work_id
// copian name/unit/unit_price/cost_price del maestro de trabajos en este
// instante y quedan congeladas (el maestro nunca se relee para esta línea).
func resolveLines(
	workRepo repository.WorkRepository,
	storeID, billingID string,
	in []dto.BillingLineRequest,
	now time.Time,
) ([]*entity.BillingLine, error) {
	lines := make([]*entity.BillingLine, 0, len(in))
	for i, req := range in {
		if req.Qty.IsNegative() {
			return nil, fmt.Errorf("%w: qty negativa en línea %d", domain.ErrInvalidInput, i)
		}
		line := &entity.BillingLine{
			ID:        uuid.New().String(),
			BillingID: billingID,
			Qty:       req.Qty,
			SortOrder: req.SortOrder,
			CreatedAt: now,
		}
		if line.SortOrder == 0 {
			line.SortOrder = i
		}
		if req.WorkID != "" {
			work, err := workRepo.GetByID(req.WorkID)
			if err != nil {
				return nil, err
			}
			if work == nil || work.StoreID != storeID {
				return nil, fmt.Errorf("%w: trabajo %s", domain.ErrNotFound, req.WorkID)
			}
			line.WorkID = work.ID
			line.Name = work.Name
			line.Unit = work.Unit
			line.UnitPrice = work.UnitPrice
			line.CostPrice = work.CostPrice
		} else {
			name := strings.TrimSpace(req.Name)
			if name == "" {
				return nil, fmt.Errorf("%w: línea %d sin nombre", domain.ErrInvalidInput, i)
			}
			if req.UnitPrice < 0 || req.CostPrice < 0 {
				return nil, fmt.Errorf("%w: precio negativo en línea %d", domain.ErrInvalidInput, i)
			}
			line.Name = name
			line.Unit = strings.TrimSpace(req.Unit)
			line.UnitPrice = req.UnitPrice
			line.CostPrice = req.CostPrice
		}
		line.Amount = domainbilling.LineAmount(line.Qty, line.UnitPrice)
		lines = append(lines, line)
	}
	return lines, nil
}

func toDocResponse(doc *entity.BillingDocument, lines []*entity.BillingLine) *dto.BillingDocResponse {
	resp := &dto.BillingDocResponse{
		ID:           doc.ID,
		StoreID:      doc.StoreID,
		CustomerID:   doc.CustomerID,
		CustomerName: doc.CustomerName,
		Kind:         doc.Kind,
		Status:       doc.Status,
		DocNo:        doc.DocNo,
		Subtotal:     doc.Subtotal,
		TaxTotal:     doc.TaxTotal,
		Total:        doc.Total,
		TaxRate:      doc.TaxRate,
		TaxMode:      doc.TaxMode,
		TaxRounding:  doc.TaxRounding,
		IssuedAt:     doc.IssuedAt,
		SourceDocID:  doc.SourceDocID,
		Meta:         doc.Meta,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, toLineResponse(l))
	}
	return resp
}

func toLineResponse(l *entity.BillingLine) dto.BillingLineResponse {
	return dto.BillingLineResponse{
		ID:        l.ID,
		BillingID: l.BillingID,
		WorkID:    l.WorkID,
		Name:      l.Name,
		Qty:       l.Qty,
		Unit:      l.Unit,
		UnitPrice: l.UnitPrice,
		CostPrice: l.CostPrice,
		Amount:    l.Amount,
		SortOrder: l.SortOrder,
		CreatedAt: l.CreatedAt,
	}
}
