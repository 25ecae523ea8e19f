// Package estoque holds the stock item reconciliation rules: how box counts,
// units per box, units on hand and the two sale prices are derived from each
// other when a caller supplies only some of them.
//
// Nothing in this package touches the database; the service layer feeds it
// request fields and the currently stored values and persists the result.
package estoque

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Campo is a request field that remembers whether the caller sent it.
//
//	Definido == false                  key absent from the body
//	Definido == true,  Valido == false key present but null or unparseable
//	Definido == true,  Valido == true  key present with a usable Valor
type Campo[T any] struct {
	Definido bool
	Valido   bool
	Valor    T
}

// Com builds a present, valid field. Mostly useful in tests and internal callers.
func Com[T any](v T) Campo[T] {
	return Campo[T]{Definido: true, Valido: true, Valor: v}
}

// Invalido builds a field that was sent but carries no usable value.
func Invalido[T any]() Campo[T] {
	return Campo[T]{Definido: true}
}

// UnmarshalJSON never fails: a value that does not decode into T is kept as
// present-but-invalid so the reconcilers can fall back per field.
func (c *Campo[T]) UnmarshalJSON(data []byte) error {
	c.Definido = true
	c.Valido = false
	var zero T
	c.Valor = zero

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	// "" is treated like null for every field type.
	if bytes.Equal(trimmed, []byte(`""`)) {
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil
	}
	c.Valor = v
	c.Valido = true
	return nil
}

// MarshalJSON writes null for absent or invalid fields.
func (c Campo[T]) MarshalJSON() ([]byte, error) {
	if !c.Definido || !c.Valido {
		return []byte("null"), nil
	}
	return json.Marshal(c.Valor)
}

// Ou returns the value when usable, otherwise fallback.
func (c Campo[T]) Ou(fallback T) T {
	if c.Definido && c.Valido {
		return c.Valor
	}
	return fallback
}

// Numero is the raw form of every numeric request field.
type Numero = Campo[decimal.Decimal]

// Texto is the raw form of free-text request fields.
type Texto = Campo[string]

// NumeroDe builds a present numeric field from an int, for callers that are
// not decoding JSON (spreadsheet import, tests).
func NumeroDe(v int64) Numero {
	return Com(decimal.NewFromInt(v))
}

// NumeroDeTexto parses s the way the JSON decoder would for a quoted number.
// Blank text is absent; unparseable text is present but invalid.
func NumeroDeTexto(s string) Numero {
	s = strings.TrimSpace(s)
	if s == "" {
		return Numero{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Invalido[decimal.Decimal]()
	}
	return Com(d)
}

// Column limits. Counts are stored as integers and prices as decimal(12,2).
const MaxContagem = math.MaxInt32

var MaxPreco = decimal.RequireFromString("9999999999.99")

var maxContagemDecimal = decimal.NewFromInt(MaxContagem)

// inteiroNaoNegativo returns the truncated integer value of a numeric field
// and whether it is usable as a count (present, valid, 0..MaxContagem).
func inteiroNaoNegativo(n Numero) (int, bool) {
	if !n.Definido || !n.Valido || n.Valor.IsNegative() || n.Valor.GreaterThan(maxContagemDecimal) {
		return 0, false
	}
	return int(n.Valor.IntPart()), true
}

// precoNaoNegativo returns the value rounded to cents and whether it is usable
// (present, valid, 0..MaxPreco).
func precoNaoNegativo(n Numero) (decimal.Decimal, bool) {
	if !n.Definido || !n.Valido || n.Valor.IsNegative() {
		return decimal.Zero, false
	}
	v := n.Valor.Round(2)
	if v.GreaterThan(MaxPreco) {
		return decimal.Zero, false
	}
	return v, true
}

// NormalizarTexto trims a free-text field; absent or invalid becomes "".
func NormalizarTexto(t Texto) string {
	return strings.TrimSpace(t.Ou(""))
}
