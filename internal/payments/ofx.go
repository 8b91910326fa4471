package payments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/tiffin/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// An SGML opening tag alone on its line with the closing bracket missing.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	// A leading "MM/DD " card-processor date stamp.
	postedDateRegex = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

// Card processors prepend these to the payee text.
var descriptionPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH CREDIT ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
	"ZELLE PAYMENT FROM ",
	"ZELLE FROM ",
}

// OFXLoader reads OFX/QFX bank and credit-card statements.
type OFXLoader struct{}

// NewOFXLoader creates an OFX loader.
func NewOFXLoader() *OFXLoader {
	return &OFXLoader{}
}

// Load parses every statement in the file. Amounts keep the sign the bank
// reports, so incoming payments are positive.
func (l *OFXLoader) Load(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			transactions = append(transactions, convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			transactions = append(transactions, convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	sortByDate(transactions)

	slog.Debug("Parsed OFX payment export",
		"transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// preprocessOFX fixes formatting issues some banks ship that ofxgo rejects.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

func convertList(list *ofxgo.TransactionList, accountID string) []model.Transaction {
	if list == nil {
		return nil
	}

	transactions := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
		if err != nil {
			slog.Warn("Skipping OFX transaction with unreadable amount",
				"fitid", string(ofxTx.FiTID),
				"account", accountID,
				"error", err)
			continue
		}

		transactions = append(transactions, model.Transaction{
			Date:        model.DateOf(ofxTx.DtPosted.Time),
			Amount:      amount,
			Description: describe(ofxTx),
			ID:          string(ofxTx.FiTID),
			Source:      "ofx",
		})
	}
	return transactions
}

// describe picks the most readable counterparty text: the payee when present,
// otherwise NAME (or MEMO when NAME is generic) with processor noise removed.
func describe(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range descriptionPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	return strings.TrimSpace(postedDateRegex.ReplaceAllString(name, ""))
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "", "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "DEPOSIT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
