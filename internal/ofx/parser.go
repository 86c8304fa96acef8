// Package ofx turns OFX/QFX bank and credit card statements into journal
// tables the audit engine can read.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/journal-sift/internal/model"
)

// Column headers of the tables produced by the parser. Inflows land in the
// debit column and outflows in the credit column, the way the cash account
// of a ledger records them.
const (
	ColumnDate        = "Date"
	ColumnDescription = "Description"
	ColumnComment     = "Comment"
	ColumnType        = "Type"
	ColumnAccount     = "Account"
	ColumnCheckNumber = "Check Number"
	ColumnDebit       = "Debit"
	ColumnCredit      = "Credit"
)

// Columns lists the headers in table order.
var Columns = []string{
	ColumnDate,
	ColumnDescription,
	ColumnComment,
	ColumnType,
	ColumnAccount,
	ColumnCheckNumber,
	ColumnDebit,
	ColumnCredit,
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tag alone on its line with no closing bracket.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in exported OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile reads every bank and credit card statement in the file and
// returns one entry per statement transaction, in file order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, source string) (*model.Table, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	table := &model.Table{
		Source:  source,
		Columns: append([]string(nil), Columns...),
	}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			p.appendTransactions(table, stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
		}
	}

	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			p.appendTransactions(table, stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
		}
	}

	slog.Info("Parsed OFX file",
		"source", source,
		"entries", len(table.Entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return table, nil
}

func (p *Parser) appendTransactions(table *model.Table, txns []ofxgo.Transaction, accountID string) {
	for _, tx := range txns {
		id := model.EntryID(len(table.Entries))
		ref := string(tx.FiTID)
		if ref == "" {
			ref = fmt.Sprintf("%s:%d", table.Source, id+1)
		}
		table.Entries = append(table.Entries, model.RawEntry{
			ID:     id,
			Ref:    ref,
			Values: p.convertTransaction(tx, accountID),
		})
	}
}

// convertTransaction maps one statement line onto the table columns.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, accountID string) map[string]any {
	amount, _ := tx.TrnAmt.Float64()

	debit, credit := 0.0, 0.0
	if amount >= 0 {
		debit = amount
	} else {
		credit = -amount
	}

	values := map[string]any{
		ColumnDate:        tx.DtPosted.Time,
		ColumnDescription: p.extractDescription(tx),
		ColumnType:        tx.TrnType.String(),
		ColumnAccount:     accountID,
		ColumnDebit:       debit,
		ColumnCredit:      credit,
	}
	if tx.Memo != "" {
		values[ColumnComment] = strings.TrimSpace(string(tx.Memo))
	}
	if tx.CheckNum != "" {
		values[ColumnCheckNumber] = string(tx.CheckNum)
	}

	return values
}

// extractDescription prefers the payee, then the name, and falls back to
// the memo when the name says nothing about the counterparty.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "", "DEBIT", "CREDIT", "DEPOSIT", "WITHDRAWAL", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	default:
		return false
	}
}
