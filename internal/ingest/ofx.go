package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/ledgerlens/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in bank exports.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of bare opening tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseOFX reads a bank or credit-card statement into a REVENUE table. Only
// credits are kept: each becomes a transaction-level row with its posting
// date, the transaction type as category, and the amount as both
// revenue_total and amount.
func ParseOFX(r io.Reader) (model.Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	table := model.Table{Pack: model.PackRevenue}
	var statements, skipped int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			statements++
			skipped += appendCredits(&table, stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			statements++
			skipped += appendCredits(&table, stmt.BankTranList.Transactions)
		}
	}

	slog.Debug("Parsed OFX statement",
		"statements", statements,
		"credits", len(table.Rows),
		"skipped_debits", skipped)
	return table, nil
}

func appendCredits(table *model.Table, txns []ofxgo.Transaction) int {
	skipped := 0
	for _, tx := range txns {
		amount, _ := tx.TrnAmt.Float64()
		if amount <= 0 {
			skipped++
			continue
		}
		posted := tx.DtPosted.Time.UTC()
		table.Rows = append(table.Rows, model.Row{
			Month:    model.MonthOf(posted),
			Date:     posted,
			Category: strings.ToLower(fmt.Sprintf("%v", tx.TrnType)),
			Values: map[string]float64{
				model.ColRevenue: amount,
				model.ColAmount:  amount,
			},
		})
	}
	return skipped
}
