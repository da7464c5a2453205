package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelPosting converts the seq-th row of a transaction to a model Posting.
// The posting id is left for the repository to assign.
func ToModelPosting(d domain.Posting, seq int) models.Posting {
	return models.Posting{
		GroupID:            d.GroupID,
		Seq:                seq,
		Date:               d.Date,
		Account:            toNullAccount(d.Account),
		CounterAccount:     toNullAccount(d.CounterAccount),
		Currency:           toNullString(d.Currency),
		Amount:             d.Amount,
		BaseCurrencyAmount: d.BaseCurrencyAmount,
		TargetBalance:      d.TargetBalance,
		TaxCode:            toNullString(d.TaxCode),
		Description:        toNullString(d.Description),
		Document:           toNullString(d.Document),
	}
}

// ToDomainPosting converts a model Posting to a domain Posting
func ToDomainPosting(m models.Posting) domain.Posting {
	return domain.Posting{
		GroupID:            m.GroupID,
		Date:               domain.TruncateDate(m.Date),
		Account:            fromNullAccount(m.Account),
		CounterAccount:     fromNullAccount(m.CounterAccount),
		Currency:           fromNullString(m.Currency),
		Amount:             m.Amount,
		BaseCurrencyAmount: m.BaseCurrencyAmount,
		TargetBalance:      m.TargetBalance,
		TaxCode:            fromNullString(m.TaxCode),
		Description:        fromNullString(m.Description),
		Document:           fromNullString(m.Document),
	}
}
