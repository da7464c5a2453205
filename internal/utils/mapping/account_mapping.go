package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Number:         d.Number,
		Currency:       d.Currency,
		Description:    toNullString(d.Description),
		DefaultTaxCode: toNullString(d.DefaultTaxCode),
		AccountGroup:   toNullString(d.Group),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Number:         m.Number,
		Currency:       m.Currency,
		Description:    fromNullString(m.Description),
		DefaultTaxCode: fromNullString(m.DefaultTaxCode),
		Group:          fromNullString(m.AccountGroup),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelTaxCode converts a domain TaxCode to a model TaxCode
func ToModelTaxCode(d domain.TaxCode) models.TaxCode {
	return models.TaxCode{
		ID:             d.ID,
		Description:    toNullString(d.Description),
		Rate:           d.Rate,
		Inclusive:      d.Inclusive,
		Account:        toNullAccount(d.Account),
		InverseAccount: toNullAccount(d.InverseAccount),
	}
}

// ToDomainTaxCode converts a model TaxCode to a domain TaxCode
func ToDomainTaxCode(m models.TaxCode) domain.TaxCode {
	return domain.TaxCode{
		ID:             m.ID,
		Description:    fromNullString(m.Description),
		Rate:           m.Rate,
		Inclusive:      m.Inclusive,
		Account:        fromNullAccount(m.Account),
		InverseAccount: fromNullAccount(m.InverseAccount),
	}
}
