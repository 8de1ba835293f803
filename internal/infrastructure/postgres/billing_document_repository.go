package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

var _ repository.BillingDocumentRepository = (*BillingDocumentRepo)(nil)

// BillingDocumentRepo implementación de BillingDocumentRepository (usable con pool o tx).
type BillingDocumentRepo struct {
	q Querier
}

// NewBillingDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillingDocumentRepository(q Querier) *BillingDocumentRepo {
	return &BillingDocumentRepo{q: q}
}

const billingDocColumns = `
	id, store_id, customer_id, customer_name, kind, status, doc_no,
	subtotal, tax_total, total, tax_rate, tax_mode, tax_rounding,
	issued_at, source_doc_id, meta, created_at, updated_at`

// Create persiste la cabecera del documento.
func (r *BillingDocumentRepo) Create(doc *entity.BillingDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	meta, err := marshalMeta(doc.Meta)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO billing_documents (id, store_id, customer_id, customer_name, kind, status, doc_no,
			subtotal, tax_total, total, tax_rate, tax_mode, tax_rounding,
			issued_at, source_doc_id, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.q.Exec(context.Background(), query,
		doc.ID, doc.StoreID, nullIfEmpty(doc.CustomerID), doc.CustomerName, doc.Kind, doc.Status, doc.DocNo,
		doc.Subtotal, doc.TaxTotal, doc.Total, doc.TaxRate, doc.TaxMode, doc.TaxRounding,
		doc.IssuedAt, nullIfEmpty(doc.SourceDocID), meta, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: doc_no %s", domain.ErrDuplicate, doc.DocNo)
		}
		return fmt.Errorf("insert billing document: %w", err)
	}
	return nil
}

// Update actualiza los campos mutables del documento (el doc_no nunca cambia).
func (r *BillingDocumentRepo) Update(doc *entity.BillingDocument) error {
	meta, err := marshalMeta(doc.Meta)
	if err != nil {
		return err
	}
	query := `
		UPDATE billing_documents
		SET customer_id   = $2,
		    customer_name = $3,
		    status        = $4,
		    subtotal      = $5,
		    tax_total     = $6,
		    total         = $7,
		    issued_at     = $8,
		    meta          = $9,
		    updated_at    = $10
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		doc.ID, nullIfEmpty(doc.CustomerID), doc.CustomerName, doc.Status,
		doc.Subtotal, doc.TaxTotal, doc.Total,
		doc.IssuedAt, meta, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update billing document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por ID (nil si no existe).
func (r *BillingDocumentRepo) GetByID(id string) (*entity.BillingDocument, error) {
	query := `SELECT ` + billingDocColumns + ` FROM billing_documents WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila del documento para serializar transiciones.
func (r *BillingDocumentRepo) GetForUpdate(id string) (*entity.BillingDocument, error) {
	query := `SELECT ` + billingDocColumns + ` FROM billing_documents WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// List devuelve los documentos de una tienda, filtros kind/status opcionales.
func (r *BillingDocumentRepo) List(storeID, kind, status string, limit, offset int) ([]*entity.BillingDocument, error) {
	query := `
		SELECT ` + billingDocColumns + `
		FROM billing_documents
		WHERE store_id = $1
		  AND ($2 = '' OR kind = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC, doc_no DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, storeID, kind, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list billing documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillingDocument
	for rows.Next() {
		doc, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

// Delete elimina el documento; las líneas caen por ON DELETE CASCADE.
func (r *BillingDocumentRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM billing_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete billing document: %w", err)
	}
	return nil
}

// ReplaceLines borra las líneas del documento y reinserta las nuevas.
func (r *BillingDocumentRepo) ReplaceLines(billingID string, lines []*entity.BillingLine) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM billing_lines WHERE billing_id = $1`, billingID); err != nil {
		return fmt.Errorf("delete billing lines: %w", err)
	}
	query := `
		INSERT INTO billing_lines (id, billing_id, work_id, name, qty, unit, unit_price, cost_price, amount, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, query,
			l.ID, billingID, nullIfEmpty(l.WorkID), l.Name, l.Qty, l.Unit,
			l.UnitPrice, l.CostPrice, l.Amount, l.SortOrder, l.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert billing line: %w", err)
		}
	}
	return nil
}

// GetLines obtiene las líneas del documento en su orden.
func (r *BillingDocumentRepo) GetLines(billingID string) ([]*entity.BillingLine, error) {
	query := `
		SELECT id, billing_id, work_id, name, qty, unit, unit_price, cost_price, amount, sort_order, created_at
		FROM billing_lines WHERE billing_id = $1 ORDER BY sort_order, id`
	rows, err := r.q.Query(context.Background(), query, billingID)
	if err != nil {
		return nil, fmt.Errorf("list billing lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillingLine
	for rows.Next() {
		var l entity.BillingLine
		var workID *string
		if err := rows.Scan(&l.ID, &l.BillingID, &workID, &l.Name, &l.Qty, &l.Unit,
			&l.UnitPrice, &l.CostPrice, &l.Amount, &l.SortOrder, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan billing line: %w", err)
		}
		l.WorkID = derefStr(workID)
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *BillingDocumentRepo) scanOne(row pgx.Row) (*entity.BillingDocument, error) {
	var doc entity.BillingDocument
	var customerID, sourceDocID *string
	var meta []byte
	err := row.Scan(
		&doc.ID, &doc.StoreID, &customerID, &doc.CustomerName, &doc.Kind, &doc.Status, &doc.DocNo,
		&doc.Subtotal, &doc.TaxTotal, &doc.Total, &doc.TaxRate, &doc.TaxMode, &doc.TaxRounding,
		&doc.IssuedAt, &sourceDocID, &meta, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing document: %w", err)
	}
	doc.CustomerID = derefStr(customerID)
	doc.SourceDocID = derefStr(sourceDocID)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &doc.Meta); err != nil {
			return nil, fmt.Errorf("decode meta: %w", err)
		}
	}
	return &doc, nil
}

func marshalMeta(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte(`{}`), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	return b, nil
}
