package postgres

import (
	"context"
	"fmt"

	domainbilling "github.com/garajesoft/taller-api/internal/domain/billing"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

var _ repository.BillingSequenceRepository = (*BillingSequenceRepo)(nil)

// BillingSequenceRepo asigna números de documento serializando por
// (prefijo, año) con un advisory lock transaccional. Debe usarse dentro de
// la tx que persistirá el documento: el lock se libera recién en el commit,
// de modo que dos escritores nunca ven el mismo máximo.
type BillingSequenceRepo struct {
	q Querier
}

// NewBillingSequenceRepository construye el adaptador. Pasar la tx (Querier).
func NewBillingSequenceRepository(q Querier) *BillingSequenceRepo {
	return &BillingSequenceRepo{q: q}
}

// AllocateDocNo devuelve el siguiente doc_no para (store, kind, año):
// toma el lock, relee los doc_no persistidos y calcula max(sufijo)+1.
// Una tx revertida deja un hueco en la numeración; eso es aceptable y
// preferible a reutilizar números.
func (r *BillingSequenceRepo) AllocateDocNo(storeID, kind string, year int) (string, error) {
	prefix, err := domainbilling.PrefixForKind(kind)
	if err != nil {
		return "", err
	}
	ctx := context.Background()

	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, domainbilling.LockKey(prefix, year)); err != nil {
		return "", fmt.Errorf("advisory lock numeración: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT doc_no FROM billing_documents WHERE store_id = $1 AND doc_no LIKE $2`,
		storeID, fmt.Sprintf("%s-%d-%%", prefix, year),
	)
	if err != nil {
		return "", fmt.Errorf("leer doc_no existentes: %w", err)
	}
	defer rows.Close()
	var existing []string
	for rows.Next() {
		var docNo string
		if err := rows.Scan(&docNo); err != nil {
			return "", fmt.Errorf("scan doc_no: %w", err)
		}
		existing = append(existing, docNo)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	n := domainbilling.NextNumber(existing, prefix, year)
	return domainbilling.FormatDocNo(prefix, year, n), nil
}
