// Package textnorm compara nombres escritos a mano (ubicaciones, pisos) sin depender de
// acentos, mayúsculas ni espacios repetidos: "Entrepôt  Nord" == "entrepot nord".
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve la forma canónica de s para comparaciones.
func Fold(s string) string {
	// transform.Chain guarda estado: se construye en cada llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Equal compara a y b en su forma canónica.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
