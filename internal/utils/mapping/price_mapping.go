package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelPrice converts a domain Price to a model Price
func ToModelPrice(d domain.Price) models.Price {
	return models.Price{
		Ticker:   d.Ticker,
		Currency: d.Currency,
		Date:     d.Date,
		Price:    d.Price,
	}
}

// ToDomainPrice converts a model Price to a domain Price
func ToDomainPrice(m models.Price) domain.Price {
	return domain.Price{
		Ticker:   m.Ticker,
		Currency: m.Currency,
		Date:     domain.TruncateDate(m.Date),
		Price:    m.Price,
	}
}

// ToModelFxAdjustment converts a domain FxAdjustment to a model FxAdjustment
func ToModelFxAdjustment(d domain.FxAdjustment) models.FxAdjustment {
	return models.FxAdjustment{
		Date:          d.Date,
		AccountRange:  d.Range,
		CreditAccount: d.CreditAccount,
		DebitAccount:  d.DebitAccount,
		Description:   toNullString(d.Description),
	}
}

// ToDomainFxAdjustment converts a model FxAdjustment to a domain FxAdjustment
func ToDomainFxAdjustment(m models.FxAdjustment) domain.FxAdjustment {
	return domain.FxAdjustment{
		Date:          domain.TruncateDate(m.Date),
		Range:         m.AccountRange,
		CreditAccount: m.CreditAccount,
		DebitAccount:  m.DebitAccount,
		Description:   fromNullString(m.Description),
	}
}
