package audit

import (
	"fmt"

	"github.com/Veraticus/journal-sift/internal/model"
)

// Criterion keys, in catalog order.
const (
	KeyPayments              = "5.1_Payments"
	KeyCollectionsSales      = "5.2_CollectionsSales"
	KeyImports               = "5.3_Imports"
	KeyInventoryWriteOffs    = "5.4_InventoryWriteOffs"
	KeyProvisionsAdjustments = "5.5_ProvisionsAdjustments"
	KeyWithholdingsDeposits  = "5.6_WithholdingsDeposits"
	KeyWeekendsHolidays      = "5.7_WeekendsHolidays"
	KeyRelatedParties        = "5.8_RelatedParties"
	KeyLegalAdvisors         = "5.9_LegalAdvisors"
	KeySuspiciousAmounts     = "5.10_SuspiciousAmounts"
	KeyBalanceDifferences    = "5.11_BalanceDifferences"
)

// CatalogSize is the number of criteria every audit evaluates.
const CatalogSize = 11

// Text columns searched by the keyword criteria. English and Spanish
// headers are paired so either export language resolves.
var (
	wideTextColumns = []string{
		"Comment", "Comentario",
		"Type", "Tipo",
		"Account", "Cuenta",
		"Description", "Descripción",
		"Entry", "Asiento",
		"Saltos",
	}
	detailTextColumns = []string{
		"Comment", "Comentario",
		"Type", "Tipo",
		"Description", "Descripción",
		"Entry", "Asiento",
	}
	counterpartyColumns = []string{
		"Comment", "Comentario",
		"Account", "Cuenta",
		"Description", "Descripción",
		"Entry", "Asiento",
	}
)

var defaultCriteria = []model.Criterion{
	{
		Key:         KeyPayments,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"pago", "payment", "pagó", "pagado", "cheque", "transferencia", "abono", "remesa"},
		Columns:     wideTextColumns,
		Description: "Entries whose detail mentions a payment",
		Risk:        model.RiskMedium,
	},
	{
		Key:         KeyCollectionsSales,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"cobro", "venta", "facturación", "factura", "sale", "invoice", "ingreso", "recibo", "cliente"},
		Columns:     wideTextColumns,
		Description: "Entries recording collections on sales and invoicing",
		Risk:        model.RiskLow,
	},
	{
		Key:         KeyImports,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"importación", "importacion", "import", "custom", "aduana", "arancel", "impuesto importación"},
		Columns:     detailTextColumns,
		Description: "Entries whose type involves imports",
		Risk:        model.RiskHigh,
	},
	{
		Key:         KeyInventoryWriteOffs,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"baja inventario", "baja de inventario", "inventory write-off", "low inventory", "obsolescencia", "deterioro"},
		Columns:     detailTextColumns,
		Description: "Entries whose detail records an inventory write-off",
		Risk:        model.RiskHigh,
	},
	{
		Key:         KeyProvisionsAdjustments,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"provisión", "provision", "cierre", "ajuste", "reclassificación", "reclasificacion", "adjustment", "closing"},
		Columns:     detailTextColumns,
		Description: "Provisions, closings, adjustments and reclassifications",
		Risk:        model.RiskMedium,
	},
	{
		Key:         KeyWithholdingsDeposits,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"retención", "retencion", "depósito", "deposito", "withholding", "deposit", "retiene", "consignación"},
		Columns:     detailTextColumns,
		Description: "Entries mentioning withholdings or deposits",
		Risk:        model.RiskMedium,
	},
	{
		Key:         KeyWeekendsHolidays,
		Kind:        model.RuleCalendar,
		Description: "Entries posted on weekends or public holidays",
		Risk:        model.RiskHigh,
	},
	{
		Key:         KeyRelatedParties,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"parte relacionada", "related party", "afiliada", "affiliate", "subsidiaria", "matriz", "controladora"},
		Columns:     counterpartyColumns,
		Description: "Money moving in or out through related-party transactions",
		Risk:        model.RiskHigh,
	},
	{
		Key:         KeyLegalAdvisors,
		Kind:        model.RuleKeyword,
		Keywords:    []string{"asesor legal", "abogado", "lawyer", "legal counsel", "attorney", "honorario legal", "consultoría legal"},
		Columns:     counterpartyColumns,
		Description: "Disbursements for legal advisors",
		Risk:        model.RiskHigh,
	},
	{
		Key:         KeySuspiciousAmounts,
		Kind:        model.RuleRoundAmount,
		Description: "Amounts that are exact multiples of round figures (e.g. exactly 10,000)",
		Risk:        model.RiskMedium,
	},
	{
		Key:         KeyBalanceDifferences,
		Kind:        model.RuleBalance,
		Description: "Significant differences between debit and credit",
		Risk:        model.RiskHigh,
	},
}

// Catalog is the ordered, read-only list of audit criteria.
type Catalog []model.Criterion

// DefaultCatalog returns a copy of the fixed eleven-criterion catalog.
func DefaultCatalog() Catalog {
	c := make(Catalog, len(defaultCriteria))
	copy(c, defaultCriteria)
	return c
}

// Keys returns the criterion keys in evaluation order.
func (c Catalog) Keys() []string {
	keys := make([]string, len(c))
	for i, crit := range c {
		keys[i] = crit.Key
	}
	return keys
}

// Get looks up a criterion by key.
func (c Catalog) Get(key string) (model.Criterion, bool) {
	for _, crit := range c {
		if crit.Key == key {
			return crit, true
		}
	}
	return model.Criterion{}, false
}

// Validate checks the catalog is well formed.
func (c Catalog) Validate() error {
	if len(c) != CatalogSize {
		return fmt.Errorf("catalog must have %d criteria, got %d", CatalogSize, len(c))
	}

	seen := make(map[string]bool, len(c))
	for _, crit := range c {
		if seen[crit.Key] {
			return fmt.Errorf("duplicate criterion key %q", crit.Key)
		}
		seen[crit.Key] = true

		switch crit.Risk {
		case model.RiskLow, model.RiskMedium, model.RiskHigh:
		default:
			return fmt.Errorf("criterion %s: invalid risk level %q", crit.Key, crit.Risk)
		}

		switch crit.Kind {
		case model.RuleKeyword:
			if len(crit.Keywords) == 0 || len(crit.Columns) == 0 {
				return fmt.Errorf("criterion %s: keyword rule needs keywords and columns", crit.Key)
			}
		case model.RuleCalendar, model.RuleRoundAmount, model.RuleBalance:
		default:
			return fmt.Errorf("criterion %s: unknown rule kind %q", crit.Key, crit.Kind)
		}
	}

	return nil
}
