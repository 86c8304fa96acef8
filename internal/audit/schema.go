package audit

import (
	"fmt"
	"strings"

	"github.com/Veraticus/journal-sift/internal/common"
	"github.com/Veraticus/journal-sift/internal/model"
)

// Role is the meaning an input column carries for the audit.
type Role string

// Audit roles.
const (
	RoleDebit  Role = "debit"
	RoleCredit Role = "credit"
	RoleDate   Role = "date"
)

// Accepted header names per role, tried in order. The first exact,
// case-sensitive match wins.
var (
	DebitCandidates  = []string{"Sum of Debit", "Suma de Debe", "Debit", "Debe", "Amount", "Monto", "Importe", "Value", "Valor"}
	CreditCandidates = []string{"Sum of Credit", "Suma de Haber", "Credit", "Haber"}
	DateCandidates   = []string{"Posting Date", "Fecha de contabilización", "Date", "Fecha", "Accounting Date", "Fecha contable"}
)

// ConfigurationError reports a role that must resolve but did not.
type ConfigurationError struct {
	Role      Role
	Tried     []string
	Available []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no %s column found: tried %s; available columns: %s",
		e.Role, quoteList(e.Tried), quoteList(e.Available))
}

func (e *ConfigurationError) Unwrap() error {
	return common.ErrNoAmountColumn
}

// ResolveSchema picks the debit, credit and date columns from the given headers.
// A missing debit column is fatal; credit and date are optional.
func ResolveSchema(columns []string) (model.Schema, error) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	schema := model.Schema{
		Debit:  firstPresent(present, DebitCandidates),
		Credit: firstPresent(present, CreditCandidates),
		Date:   firstPresent(present, DateCandidates),
	}

	if schema.Debit == "" {
		return model.Schema{}, &ConfigurationError{
			Role:      RoleDebit,
			Tried:     DebitCandidates,
			Available: columns,
		}
	}

	return schema, nil
}

func firstPresent(present map[string]bool, candidates []string) string {
	for _, name := range candidates {
		if present[name] {
			return name
		}
	}
	return ""
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
