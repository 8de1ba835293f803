package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/garajesoft/taller-api/internal/application/billing"
	"github.com/garajesoft/taller-api/internal/application/dto"
	"github.com/garajesoft/taller-api/internal/application/inventory"
	"github.com/garajesoft/taller-api/internal/domain"
	domainbilling "github.com/garajesoft/taller-api/internal/domain/billing"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El runner toma un snapshot antes de cada "transacción" y
// lo restaura si fn falla, para poder verificar atomicidad (un fallo de stock
// no debe dejar ni el documento ni descuentos parciales).
// ──────────────────────────────────────────────────────────────────────────────

type memDB struct {
	docs      map[string]*entity.BillingDocument
	lines     map[string][]*entity.BillingLine
	items     map[string]*entity.InventoryItem
	moves     []*entity.StockMove
	works     map[string]*entity.Work
	materials map[string][]*entity.WorkMaterial
	stores    map[string]*entity.Store
	customers map[string]*entity.Customer
	tax       entity.TaxSettings
}

func newMemDB() *memDB {
	return &memDB{
		docs:      map[string]*entity.BillingDocument{},
		lines:     map[string][]*entity.BillingLine{},
		items:     map[string]*entity.InventoryItem{},
		works:     map[string]*entity.Work{},
		materials: map[string][]*entity.WorkMaterial{},
		stores:    map[string]*entity.Store{},
		customers: map[string]*entity.Customer{},
		tax:       entity.DefaultTaxSettings(),
	}
}

func (db *memDB) snapshot() memDB {
	s := memDB{
		docs:      map[string]*entity.BillingDocument{},
		lines:     map[string][]*entity.BillingLine{},
		items:     map[string]*entity.InventoryItem{},
		works:     db.works,
		materials: db.materials,
		stores:    db.stores,
		customers: db.customers,
		tax:       db.tax,
	}
	for id, d := range db.docs {
		cp := *d
		s.docs[id] = &cp
	}
	for id, ls := range db.lines {
		cps := make([]*entity.BillingLine, len(ls))
		for i, l := range ls {
			cp := *l
			cps[i] = &cp
		}
		s.lines[id] = cps
	}
	for id, it := range db.items {
		cp := *it
		s.items[id] = &cp
	}
	s.moves = make([]*entity.StockMove, len(db.moves))
	copy(s.moves, db.moves)
	return s
}

type memTxRunner struct{ db *memDB }

func (r *memTxRunner) RunBilling(ctx context.Context, fn func(
	docRepo repository.BillingDocumentRepository,
	seqRepo repository.BillingSequenceRepository,
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
	workRepo repository.WorkRepository,
) error) error {
	snap := r.db.snapshot()
	err := fn(&memDocRepo{r.db}, &memSeqRepo{r.db}, &memItemRepo{r.db}, &memMoveRepo{r.db}, &memWorkRepo{r.db})
	if err != nil {
		*r.db = snap
	}
	return err
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
) error) error {
	snap := r.db.snapshot()
	err := fn(&memItemRepo{r.db}, &memMoveRepo{r.db})
	if err != nil {
		*r.db = snap
	}
	return err
}

type memDocRepo struct{ db *memDB }

func (r *memDocRepo) Create(doc *entity.BillingDocument) error {
	for _, d := range r.db.docs {
		if d.StoreID == doc.StoreID && d.DocNo == doc.DocNo {
			return domain.ErrDuplicate
		}
	}
	cp := *doc
	r.db.docs[doc.ID] = &cp
	return nil
}

func (r *memDocRepo) Update(doc *entity.BillingDocument) error {
	cp := *doc
	r.db.docs[doc.ID] = &cp
	return nil
}

func (r *memDocRepo) GetByID(id string) (*entity.BillingDocument, error) {
	d, ok := r.db.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *memDocRepo) GetForUpdate(id string) (*entity.BillingDocument, error) {
	return r.GetByID(id)
}

func (r *memDocRepo) List(storeID, kind, status string, limit, offset int) ([]*entity.BillingDocument, error) {
	var out []*entity.BillingDocument
	for _, d := range r.db.docs {
		if d.StoreID != storeID {
			continue
		}
		if kind != "" && d.Kind != kind {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memDocRepo) Delete(id string) error {
	delete(r.db.docs, id)
	delete(r.db.lines, id)
	return nil
}

func (r *memDocRepo) ReplaceLines(billingID string, lines []*entity.BillingLine) error {
	cps := make([]*entity.BillingLine, len(lines))
	for i, l := range lines {
		cp := *l
		cps[i] = &cp
	}
	r.db.lines[billingID] = cps
	return nil
}

func (r *memDocRepo) GetLines(billingID string) ([]*entity.BillingLine, error) {
	ls := r.db.lines[billingID]
	out := make([]*entity.BillingLine, len(ls))
	for i, l := range ls {
		cp := *l
		out[i] = &cp
	}
	return out, nil
}

type memSeqRepo struct{ db *memDB }

func (r *memSeqRepo) AllocateDocNo(storeID, kind string, year int) (string, error) {
	prefix, err := domainbilling.PrefixForKind(kind)
	if err != nil {
		return "", err
	}
	var existing []string
	for _, d := range r.db.docs {
		if d.StoreID == storeID {
			existing = append(existing, d.DocNo)
		}
	}
	n := domainbilling.NextNumber(existing, prefix, year)
	return domainbilling.FormatDocNo(prefix, year, n), nil
}

type memItemRepo struct{ db *memDB }

func (r *memItemRepo) Create(item *entity.InventoryItem) error {
	cp := *item
	r.db.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) Update(item *entity.InventoryItem) error {
	cp := *item
	r.db.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.db.items, id)
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	it, ok := r.db.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) UpdateQty(id string, qty decimal.Decimal, now time.Time) error {
	it := r.db.items[id]
	it.QtyOnHand = qty
	it.UpdatedAt = now
	return nil
}

func (r *memItemRepo) ListByStore(storeID, q string, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.db.items {
		if it.StoreID == storeID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memMoveRepo struct{ db *memDB }

func (r *memMoveRepo) Create(mv *entity.StockMove) error {
	cp := *mv
	r.db.moves = append(r.db.moves, &cp)
	return nil
}

func (r *memMoveRepo) ListByRef(refID string, refTypes ...string) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, mv := range r.db.moves {
		if mv.RefID != refID {
			continue
		}
		for _, rt := range refTypes {
			if mv.RefType == rt {
				cp := *mv
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (r *memMoveRepo) HasRef(refID, refType string) (bool, error) {
	for _, mv := range r.db.moves {
		if mv.RefID == refID && mv.RefType == refType {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMoveRepo) ListByStore(storeID, itemID string, limit, offset int) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, mv := range r.db.moves {
		if mv.StoreID != storeID {
			continue
		}
		if itemID != "" && mv.ItemID != itemID {
			continue
		}
		cp := *mv
		out = append(out, &cp)
	}
	return out, nil
}

type memWorkRepo struct{ db *memDB }

func (r *memWorkRepo) GetByID(id string) (*entity.Work, error) {
	w, ok := r.db.works[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *memWorkRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Work, error) {
	var out []*entity.Work
	for _, w := range r.db.works {
		if w.StoreID == storeID {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memWorkRepo) MaterialsByWork(workID string) ([]*entity.WorkMaterial, error) {
	return r.db.materials[workID], nil
}

func (r *memWorkRepo) MaterialsByWorks(workIDs []string) (map[string][]*entity.WorkMaterial, error) {
	out := map[string][]*entity.WorkMaterial{}
	for _, id := range workIDs {
		if ms, ok := r.db.materials[id]; ok {
			out[id] = ms
		}
	}
	return out, nil
}

type memStoreRepo struct{ db *memDB }

func (r *memStoreRepo) GetByID(id string) (*entity.Store, error) {
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type memCustomerRepo struct{ db *memDB }

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.db.customers[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.db.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.db.customers {
		if c.StoreID == storeID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memSettingsRepo struct{ db *memDB }

func (r *memSettingsRepo) TaxSettings() (entity.TaxSettings, error) {
	return r.db.tax, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Mundo de prueba: taller con cambio de aceite (4 L de aceite + 1 filtro por
// trabajo), 10 L de aceite y 5 filtros en stock.
// ──────────────────────────────────────────────────────────────────────────────

const (
	storeA    = "store-a"
	storeB    = "store-b"
	workOil   = "work-oil-change"
	itemOil   = "item-oil"
	itemFilt  = "item-filter"
	custMaria = "cust-maria"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type world struct {
	db *memDB
	uc *appbilling.DocumentUseCase
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := newMemDB()
	db.stores[storeA] = &entity.Store{ID: storeA, Name: "Taller Centro"}
	db.stores[storeB] = &entity.Store{ID: storeB, Name: "Taller Norte"}
	db.customers[custMaria] = &entity.Customer{ID: custMaria, StoreID: storeA, Name: "María García"}
	db.works[workOil] = &entity.Work{
		ID: workOil, StoreID: storeA, Name: "Cambio de aceite", Unit: "servicio",
		UnitPrice: 5000, CostPrice: 2000,
	}
	db.materials[workOil] = []*entity.WorkMaterial{
		{ID: uuid.New().String(), StoreID: storeA, WorkID: workOil, ItemID: itemOil, QtyPerWork: dec("4")},
		{ID: uuid.New().String(), StoreID: storeA, WorkID: workOil, ItemID: itemFilt, QtyPerWork: dec("1")},
	}
	db.items[itemOil] = &entity.InventoryItem{
		ID: itemOil, StoreID: storeA, Name: "Aceite 10W-40", Unit: "L",
		CostPrice: dec("900"), QtyOnHand: dec("10"),
	}
	db.items[itemFilt] = &entity.InventoryItem{
		ID: itemFilt, StoreID: storeA, Name: "Filtro de aceite", Unit: "unidad",
		CostPrice: dec("600"), QtyOnHand: dec("5"),
	}

	runner := &memTxRunner{db: db}
	stockUC := inventory.NewStockUseCase(runner, &memItemRepo{db}, &memMoveRepo{db})
	uc := appbilling.NewDocumentUseCase(
		runner, stockUC,
		&memDocRepo{db}, &memStoreRepo{db}, &memCustomerRepo{db}, &memSettingsRepo{db},
	)
	return &world{db: db, uc: uc}
}

func (w *world) qty(itemID string) decimal.Decimal {
	return w.db.items[itemID].QtyOnHand
}

func (w *world) movesFor(docID string, refType string) []*entity.StockMove {
	var out []*entity.StockMove
	for _, mv := range w.db.moves {
		if mv.RefID == docID && mv.RefType == refType {
			out = append(out, mv)
		}
	}
	return out
}

func oilChangeRequest() dto.CreateBillingRequest {
	return dto.CreateBillingRequest{
		Kind:       entity.KindInvoice,
		CustomerID: custMaria,
		Lines: []dto.BillingLineRequest{
			{WorkID: workOil, Qty: dec("1")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDocument_BorradorConNumeroYTotales(t *testing.T) {
	w := newWorld(t)

	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-"+time.Now().Format("2006")+"-00001", doc.DocNo,
		"el número se asigna al crear, también para borradores")
	assert.Equal(t, entity.StatusDraft, doc.Status)
	assert.Equal(t, "María García", doc.CustomerName, "snapshot del maestro de clientes")
	// 1 x 5000 con 10% exclusive floor
	assert.Equal(t, int64(5000), doc.Subtotal)
	assert.Equal(t, int64(500), doc.TaxTotal)
	assert.Equal(t, int64(5500), doc.Total)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "Cambio de aceite", doc.Lines[0].Name, "snapshot del maestro de trabajos")
	assert.Equal(t, int64(5000), doc.Lines[0].UnitPrice)

	// Crear en borrador no toca inventario
	assert.True(t, w.qty(itemOil).Equal(dec("10")))
	assert.Empty(t, w.db.moves)
}

func TestCreateDocument_PresupuestoUsaSeriePropia(t *testing.T) {
	w := newWorld(t)

	in := oilChangeRequest()
	in.Kind = entity.KindEstimate
	doc, err := w.uc.CreateDocument(context.Background(), storeA, in)
	require.NoError(t, err)
	assert.Contains(t, doc.DocNo, "EST-")

	// La serie INV arranca en 1 aunque ya exista EST-...-00001
	inv, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	assert.Contains(t, inv.DocNo, "INV-")
	assert.Contains(t, inv.DocNo, "-00001")
}

func TestCreateDocument_PresupuestoNoPuedeNacerEmitido(t *testing.T) {
	w := newWorld(t)

	in := oilChangeRequest()
	in.Kind = entity.KindEstimate
	in.Status = entity.StatusIssued
	_, err := w.uc.CreateDocument(context.Background(), storeA, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateDocument_EmitidoDirectoConsumeEnLaMismaTx(t *testing.T) {
	w := newWorld(t)

	in := oilChangeRequest()
	in.Status = entity.StatusIssued
	doc, err := w.uc.CreateDocument(context.Background(), storeA, in)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusIssued, doc.Status)
	require.NotNil(t, doc.IssuedAt)
	assert.True(t, w.qty(itemOil).Equal(dec("6")), "10 - 4 L de aceite")
	assert.True(t, w.qty(itemFilt).Equal(dec("4")), "5 - 1 filtro")
	assert.Len(t, w.movesFor(doc.ID, entity.RefTypeBillingIssue), 2)
}

func TestCreateDocument_SinTiendaRechazado(t *testing.T) {
	w := newWorld(t)

	_, err := w.uc.CreateDocument(context.Background(), "", dto.CreateBillingRequest{Kind: entity.KindInvoice})
	assert.ErrorIs(t, err, domain.ErrStoreRequired)
}

func TestCreateDocument_NumerosConsecutivosPorTienda(t *testing.T) {
	w := newWorld(t)

	a, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	b, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	assert.NotEqual(t, a.DocNo, b.DocNo)
	assert.Contains(t, b.DocNo, "-00002")
}

func TestCreateDocument_SnapshotInmuneACambiosDelMaestro(t *testing.T) {
	w := newWorld(t)

	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	// Subir el precio del trabajo después de crear el borrador
	w.db.works[workOil].UnitPrice = 9999

	got, err := w.uc.GetDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got.Lines[0].UnitPrice, "la línea quedó congelada al crear")
	assert.Equal(t, int64(5000), got.Subtotal)
}

// ──────────────────────────────────────────────────────────────────────────────
// Emisión
// ──────────────────────────────────────────────────────────────────────────────

func TestIssueDocument_DescuentaStockYRegistraMovimientos(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	issued, err := w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusIssued, issued.Status)
	require.NotNil(t, issued.IssuedAt)
	assert.True(t, w.qty(itemOil).Equal(dec("6")))
	assert.True(t, w.qty(itemFilt).Equal(dec("4")))

	moves := w.movesFor(doc.ID, entity.RefTypeBillingIssue)
	require.Len(t, moves, 2)
	for _, mv := range moves {
		assert.Equal(t, entity.MoveTypeOut, mv.MoveType)
	}
}

func TestIssueDocument_ReintentoEsNoOp(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)
	again, err := w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err, "re-emitir una factura emitida es éxito sin efecto")

	assert.Equal(t, entity.StatusIssued, again.Status)
	assert.True(t, w.qty(itemOil).Equal(dec("6")), "el stock no se descuenta dos veces")
	assert.Len(t, w.movesFor(doc.ID, entity.RefTypeBillingIssue), 2)
}

func TestIssueDocument_StockInsuficienteDejaTodoIntacto(t *testing.T) {
	w := newWorld(t)
	w.db.items[itemOil].QtyOnHand = dec("3") // se requieren 4

	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := w.uc.GetDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, got.Status, "la emisión fallida no cambia el estado")
	assert.True(t, w.qty(itemOil).Equal(dec("3")))
	assert.True(t, w.qty(itemFilt).Equal(dec("5")), "ningún artículo se descuenta parcialmente")
	assert.Empty(t, w.db.moves)
}

func TestIssueDocument_SoloFacturas(t *testing.T) {
	w := newWorld(t)
	in := oilChangeRequest()
	in.Kind = entity.KindEstimate
	est, err := w.uc.CreateDocument(context.Background(), storeA, in)
	require.NoError(t, err)

	_, err = w.uc.IssueDocument(context.Background(), storeA, est.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestIssueDocument_TiendaAjenaEs404(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	_, err = w.uc.IssueDocument(context.Background(), storeB, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func TestVoidDocument_RestauraElNetoConsumido(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)

	voided, err := w.uc.VoidDocument(context.Background(), storeA, doc.ID, "cliente desistió")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusVoid, voided.Status)
	assert.Equal(t, "cliente desistió", voided.Meta[entity.MetaVoidReason])
	assert.True(t, w.qty(itemOil).Equal(dec("10")), "el aceite vuelve al stock")
	assert.True(t, w.qty(itemFilt).Equal(dec("5")))

	reversals := w.movesFor(doc.ID, entity.RefTypeBillingVoid)
	require.Len(t, reversals, 2)
	for _, mv := range reversals {
		assert.Equal(t, entity.MoveTypeIn, mv.MoveType, "la reversa son movimientos in, no borrado de filas")
	}
}

func TestVoidDocument_ReintentoEsNoOp(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)
	_, err = w.uc.VoidDocument(context.Background(), storeA, doc.ID, "error de captura")
	require.NoError(t, err)

	again, err := w.uc.VoidDocument(context.Background(), storeA, doc.ID, "otro motivo")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusVoid, again.Status)
	assert.True(t, w.qty(itemOil).Equal(dec("10")), "la reversa no se aplica dos veces")
	assert.Len(t, w.movesFor(doc.ID, entity.RefTypeBillingVoid), 2)
}

func TestVoidDocument_BorradorNoSeAnula(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	_, err = w.uc.VoidDocument(context.Background(), storeA, doc.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestVoidDocument_PresupuestoNoSeAnula(t *testing.T) {
	w := newWorld(t)
	in := oilChangeRequest()
	in.Kind = entity.KindEstimate
	est, err := w.uc.CreateDocument(context.Background(), storeA, in)
	require.NoError(t, err)

	_, err = w.uc.VoidDocument(context.Background(), storeA, est.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición y conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateDocument_ReemplazoDeLineasRecalculaTotales(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	newLines := []dto.BillingLineRequest{
		{WorkID: workOil, Qty: dec("2")},
	}
	updated, err := w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{Lines: &newLines})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), updated.Subtotal)
	assert.Equal(t, int64(1000), updated.TaxTotal)
	assert.Equal(t, int64(11000), updated.Total)
	// Sobre borrador no hay inventario involucrado
	assert.Empty(t, w.db.moves)
}

func TestUpdateDocument_SobreEmitidoConciliaPorDelta(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)
	require.True(t, w.qty(itemOil).Equal(dec("6")))

	// Subir de 1 a 2 servicios: delta de +4 L y +1 filtro
	newLines := []dto.BillingLineRequest{{WorkID: workOil, Qty: dec("2")}}
	_, err = w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{Lines: &newLines})
	require.NoError(t, err)

	assert.True(t, w.qty(itemOil).Equal(dec("2")), "solo se descuenta el delta, no se re-consume todo")
	assert.True(t, w.qty(itemFilt).Equal(dec("3")))
	assert.Len(t, w.movesFor(doc.ID, entity.RefTypeBillingUpdate), 2)

	// Bajar de vuelta a 1: el delta negativo devuelve stock
	backLines := []dto.BillingLineRequest{{WorkID: workOil, Qty: dec("1")}}
	_, err = w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{Lines: &backLines})
	require.NoError(t, err)
	assert.True(t, w.qty(itemOil).Equal(dec("6")))
	assert.True(t, w.qty(itemFilt).Equal(dec("4")))
}

func TestUpdateDocument_GuardarSinCambiosNoMueveInventario(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)
	movesBefore := len(w.db.moves)

	sameLines := []dto.BillingLineRequest{{WorkID: workOil, Qty: dec("1")}}
	_, err = w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{Lines: &sameLines})
	require.NoError(t, err)

	assert.Len(t, w.db.moves, movesBefore, "delta cero no escribe filas en el libro")
	assert.True(t, w.qty(itemOil).Equal(dec("6")))
}

func TestUpdateDocument_StatusDraftAIssuedEquivaleAEmitir(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	issued := entity.StatusIssued
	updated, err := w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{Status: &issued})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusIssued, updated.Status)
	assert.True(t, w.qty(itemOil).Equal(dec("6")))
}

func TestUpdateDocument_TransicionInvalidaPorStatus(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)

	// issued -> draft y issued -> void vía update se rechazan
	draft := entity.StatusDraft
	_, err = w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{Status: &draft})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	void := entity.StatusVoid
	_, err = w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{Status: &void})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateDocument_AnuladoEsInmutable(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)
	_, err = w.uc.VoidDocument(context.Background(), storeA, doc.ID, "")
	require.NoError(t, err)

	name := "Otro cliente"
	_, err = w.uc.UpdateDocument(context.Background(), storeA, doc.ID, dto.UpdateBillingRequest{CustomerName: &name})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestConvertToInvoice_CopiaLineasYNumeraEnSerieINV(t *testing.T) {
	w := newWorld(t)
	in := oilChangeRequest()
	in.Kind = entity.KindEstimate
	est, err := w.uc.CreateDocument(context.Background(), storeA, in)
	require.NoError(t, err)

	inv, err := w.uc.ConvertToInvoice(context.Background(), storeA, est.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.KindInvoice, inv.Kind)
	assert.Equal(t, entity.StatusDraft, inv.Status)
	assert.Contains(t, inv.DocNo, "INV-")
	assert.Equal(t, est.ID, inv.SourceDocID)
	assert.Equal(t, est.Subtotal, inv.Subtotal)
	require.Len(t, inv.Lines, 1)
	assert.NotEqual(t, est.Lines[0].ID, inv.Lines[0].ID, "las líneas copiadas tienen id propio")
	assert.Equal(t, est.Lines[0].UnitPrice, inv.Lines[0].UnitPrice, "se respeta el precio cotizado")

	// El presupuesto origen sigue como estaba
	src, err := w.uc.GetDocument(context.Background(), storeA, est.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.KindEstimate, src.Kind)
	assert.Equal(t, entity.StatusDraft, src.Status)

	// Conversión no toca inventario; emitir la factura sí
	assert.Empty(t, w.db.moves)
	_, err = w.uc.IssueDocument(context.Background(), storeA, inv.ID)
	require.NoError(t, err)
	assert.True(t, w.qty(itemOil).Equal(dec("6")))
}

func TestConvertToInvoice_RespetaPrecioCotizadoAunqueElMaestroCambie(t *testing.T) {
	w := newWorld(t)
	in := oilChangeRequest()
	in.Kind = entity.KindEstimate
	est, err := w.uc.CreateDocument(context.Background(), storeA, in)
	require.NoError(t, err)

	w.db.works[workOil].UnitPrice = 9999

	inv, err := w.uc.ConvertToInvoice(context.Background(), storeA, est.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), inv.Lines[0].UnitPrice)
}

func TestConvertToInvoice_SoloPresupuestos(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	_, err = w.uc.ConvertToInvoice(context.Background(), storeA, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDeleteDocument_SoloBorradores(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	require.NoError(t, w.uc.DeleteDocument(context.Background(), storeA, doc.ID))
	_, err = w.uc.GetDocument(context.Background(), storeA, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument_EmitidoNoSeElimina(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)
	_, err = w.uc.IssueDocument(context.Background(), storeA, doc.ID)
	require.NoError(t, err)

	err = w.uc.DeleteDocument(context.Background(), storeA, doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Scoping de tienda
// ──────────────────────────────────────────────────────────────────────────────

func TestGetDocument_TiendaAjenaEs404(t *testing.T) {
	w := newWorld(t)
	doc, err := w.uc.CreateDocument(context.Background(), storeA, oilChangeRequest())
	require.NoError(t, err)

	_, err = w.uc.GetDocument(context.Background(), storeB, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "ajeno se responde como inexistente, no como prohibido")
}

func TestCreateDocument_ClienteDeOtraTiendaEs404(t *testing.T) {
	w := newWorld(t)
	in := oilChangeRequest()
	_, err := w.uc.CreateDocument(context.Background(), storeB, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
