package billing

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
)

// Prefijos de numeración por tipo de documento.
const (
	PrefixInvoice  = "INV"
	PrefixEstimate = "EST"
)

// PrefixForKind devuelve el prefijo de numeración para el tipo de documento.
func PrefixForKind(kind string) (string, error) {
	switch kind {
	case entity.KindInvoice:
		return PrefixInvoice, nil
	case entity.KindEstimate:
		return PrefixEstimate, nil
	default:
		return "", fmt.Errorf("%w: kind %q", domain.ErrInvalidInput, kind)
	}
}

// FormatDocNo arma el número de documento: {PREFIX}-{YEAR}-{00001}.
func FormatDocNo(prefix string, year, n int) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n)
}

// ParseSuffix extrae el sufijo numérico de un doc_no para el prefijo/año
// dados. Devuelve false si el formato no corresponde (se ignora la fila).
func ParseSuffix(docNo, prefix string, year int) (int, bool) {
	rest, ok := strings.CutPrefix(docNo, prefix+"-"+strconv.Itoa(year)+"-")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextNumber calcula el siguiente consecutivo a partir de los doc_no ya
// persistidos: max(sufijo) + 1. El contador ES la realidad: huecos por
// transacciones revertidas se toleran y no hay deriva contra una tabla
// de secuencias aparte.
func NextNumber(existing []string, prefix string, year int) int {
	max := 0
	for _, docNo := range existing {
		if n, ok := ParseSuffix(docNo, prefix, year); ok && n > max {
			max = n
		}
	}
	return max + 1
}

// LockKey deriva la clave del advisory lock transaccional que serializa la
// numeración por (prefix, year). Hash estable de 64 bits; pgx lo recibe
// como int64.
func LockKey(prefix string, year int) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(prefix + "-" + strconv.Itoa(year)))
	return int64(h.Sum64())
}
