package entries

import (
	"testing"

	"github.com/Veraticus/journal-sift/internal/model"
)

// SampleMateriality is the threshold the sample journal is designed around.
const SampleMateriality = 170000.0

// SampleJournal returns a small ledger export with known outcomes at
// SampleMateriality and the default catalog:
//
//	row 0: material payment to a lawyer posted on a Saturday; 5 criteria, 3 irregularities
//	row 1: material import of a round amount; 3 criteria, 2 irregularities
//	row 2: small balanced invoice collection; 1 criterion
//	row 3: material closing adjustment posted on a holiday; 3 criteria, 2 irregularities
//	row 4: unparsable amount and date; nothing matches
//	row 5: material deposit from an affiliate; 4 criteria, 2 irregularities
func SampleJournal(t testing.TB) *model.Table {
	t.Helper()
	return NewBuilder(t, "Fecha", "Comentario", "Cuenta", "Debe", "Haber").
		WithSource("sample.xlsx").
		Row("2022-01-08", "Pago honorarios abogado", "Gastos legales", 250000.0, 50000.0).
		Row("2022-03-02", "Importación mercadería", "Compras del exterior", 300000.0, 0.0).
		Row("2022-03-03", "Cobro factura 123", "Clientes", 1500.0, 1500.0).
		Row("2022-12-25", "Ajuste de cierre", "Resultados", 180000.5, 0.0).
		Row("sin fecha", "Registro manual", "Caja", "n/a", nil).
		Row("2022-06-01", "Depósito compañía afiliada", "Bancos", 400000.0, 0.0).
		Build()
}

// SampleColumns are the headers used by SampleJournal.
func SampleColumns() []string {
	return []string{"Fecha", "Comentario", "Cuenta", "Debe", "Haber"}
}
