package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/adapters/memory"
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Add(ctx context.Context, rows []domain.Account) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockAccountRepository) Modify(ctx context.Context, rows []domain.Account) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, keys []string, allowMissing bool) error {
	args := m.Called(ctx, keys, allowMissing)
	return args.Error(0)
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	repos   portsrepo.RepositoryProvider
	sink    *diagnostics.Collector
	service *services.LedgerService
	ctx     context.Context
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.sink = &diagnostics.Collector{}
	suite.repos = memory.NewRepositoryProvider(memory.Seed{
		Accounts: testChart(),
		TaxCodes: testTaxCodes(),
		Prices: []domain.Price{
			{Ticker: "EUR", Currency: "USD", Date: day(2024, time.January, 1), Price: dec("1.1")},
		},
		FxAdjustments: []domain.FxAdjustment{
			{Date: day(2024, time.June, 30), Range: "1100", CreditAccount: 7000, DebitAccount: 6000},
		},
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.January, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("1000")},
			{GroupID: "2", Date: day(2024, time.March, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("500")},
		},
	})
	suite.service = services.NewLedgerService(suite.repos, testSettings(), services.WithDiagnosticsSink(suite.sink))
}

func (suite *LedgerServiceTestSuite) bankBalance() string {
	b, err := suite.service.Balance(suite.ctx, "1000", time.Time{})
	suite.Require().NoError(err)
	return b.Get("USD").String()
}

func (suite *LedgerServiceTestSuite) TestBalance() {
	b, err := suite.service.Balance(suite.ctx, "1000", day(2024, time.February, 1))
	suite.Require().NoError(err)
	suite.Equal("1000", b.Get("USD").String())
	suite.Equal("1500", suite.bankBalance())
}

func (suite *LedgerServiceTestSuite) TestBalance_InvalidRange() {
	_, err := suite.service.Balance(suite.ctx, "9000:9999", time.Time{})
	suite.ErrorIs(err, apperrors.ErrInvalidRange)
}

func (suite *LedgerServiceTestSuite) TestPeriodBalance() {
	b, err := suite.service.PeriodBalance(suite.ctx, "1000", "2024-03")
	suite.Require().NoError(err)
	suite.Equal("500", b.Get("USD").String())

	_, err = suite.service.PeriodBalance(suite.ctx, "1000", "2024-13")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestHistory() {
	history, err := suite.service.History(suite.ctx, "1000", nil)
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal("1500", history[1].Balance.String())
}

func (suite *LedgerServiceTestSuite) TestInterest() {
	accruals, err := suite.service.Interest(suite.ctx, "1000", nil, dec("0.1"), domain.Act365)
	suite.Require().NoError(err)
	suite.Require().Len(accruals, 1)
	suite.Equal(60, accruals[0].Days)
	suite.True(dec("1000").Mul(dec("0.1")).Mul(ratio(60, 365)).Equal(accruals[0].Amount))

	_, err = suite.service.Interest(suite.ctx, "1000", nil, dec("0.1"), "nope")
	suite.ErrorIs(err, apperrors.ErrUnsupportedDayCount)
}

func (suite *LedgerServiceTestSuite) TestParseRange() {
	rng, err := suite.service.ParseRange(suite.ctx, "1000:2200-1100")
	suite.Require().NoError(err)
	suite.Equal([]int{1000, 1100, 2200}, rng.Add)
	suite.Equal([]int{1100}, rng.Subtract)
}

func (suite *LedgerServiceTestSuite) TestSerializedJournal_Cached() {
	first, err := suite.service.SerializedJournal(suite.ctx)
	suite.Require().NoError(err)

	// a write behind the service's back stays invisible until Invalidate
	_, err = suite.repos.JournalRepo.AddTransaction(suite.ctx, []domain.Posting{
		{Date: day(2024, time.April, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("1")},
	})
	suite.Require().NoError(err)

	cached, err := suite.service.SerializedJournal(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(cached, len(first))

	suite.service.Invalidate()
	fresh, err := suite.service.SerializedJournal(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(fresh, len(first)+2)
}

func (suite *LedgerServiceTestSuite) TestMirrorJournal_InvalidatesCache() {
	suite.Equal("1500", suite.bankBalance())

	current, err := suite.service.Journal(suite.ctx)
	suite.Require().NoError(err)
	target := append(current, domain.Posting{
		GroupID: "new", Date: day(2024, time.May, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("25"),
	})

	res, err := suite.service.MirrorJournal(suite.ctx, target, true)
	suite.Require().NoError(err)
	suite.Equal(1, res.Added)
	suite.Equal("1525", suite.bankBalance())
}

func (suite *LedgerServiceTestSuite) TestMirrorAccounts() {
	target := append(testChart(), domain.Account{Number: 5000, Currency: "USD", Description: "Expenses"})

	res, err := suite.service.MirrorAccounts(suite.ctx, target, false)
	suite.Require().NoError(err)
	suite.Equal(domain.MirrorResult{Initial: 7, Target: 8, Added: 1}, res)

	accounts, err := suite.service.Accounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(accounts, 8)
}

func (suite *LedgerServiceTestSuite) TestMirrorPricesAndRules() {
	res, err := suite.service.MirrorPrices(suite.ctx, []domain.Price{
		{Ticker: "EUR", Currency: "USD", Date: day(2024, time.January, 1), Price: dec("1.2")},
	}, true)
	suite.Require().NoError(err)
	suite.Equal(1, res.Updated)

	res, err = suite.service.MirrorFxAdjustments(suite.ctx, nil, true)
	suite.Require().NoError(err)
	suite.Equal(1, res.Deleted)

	res, err = suite.service.MirrorTaxCodes(suite.ctx, testTaxCodes(), true)
	suite.Require().NoError(err)
	suite.Zero(res.Added + res.Deleted + res.Updated)
}

func (suite *LedgerServiceTestSuite) TestValidateAccounts() {
	suite.NoError(suite.service.ValidateAccounts(suite.ctx))
}

func (suite *LedgerServiceTestSuite) TestValidateAccounts_UndefinedDefaultTaxCode() {
	_, err := suite.service.MirrorAccounts(suite.ctx, []domain.Account{
		{Number: 1000, Currency: "USD", DefaultTaxCode: "GONE"},
	}, false)
	suite.Require().NoError(err)

	err = suite.service.ValidateAccounts(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)
	suite.Contains(err.Error(), "GONE")
}

func (suite *LedgerServiceTestSuite) TestValidateAccounts_RateWithoutAccount() {
	_, err := suite.service.MirrorTaxCodes(suite.ctx, []domain.TaxCode{{ID: "VAT77", Rate: dec("0.077")}}, true)
	suite.Require().NoError(err)

	suite.ErrorIs(suite.service.ValidateAccounts(suite.ctx), apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestValidateAccounts_UndefinedFxAccount() {
	_, err := suite.service.MirrorFxAdjustments(suite.ctx, []domain.FxAdjustment{
		{Date: day(2024, time.June, 30), Range: "1100", CreditAccount: 7999, DebitAccount: 6000},
	}, true)
	suite.Require().NoError(err)

	err = suite.service.ValidateAccounts(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)
	suite.Contains(err.Error(), "7999")
}

func (suite *LedgerServiceTestSuite) TestRepositoryError() {
	accountRepo := new(MockAccountRepository)
	accountRepo.On("List", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	repos := suite.repos
	repos.AccountRepo = accountRepo
	svc := services.NewLedgerService(repos, testSettings())

	_, err := svc.SerializedJournal(suite.ctx)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "failed to list accounts")
	accountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestMirrorError() {
	accountRepo := new(MockAccountRepository)
	accountRepo.On("List", mock.Anything).Return([]domain.Account{}, nil).Once()
	accountRepo.On("Add", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	repos := suite.repos
	repos.AccountRepo = accountRepo
	svc := services.NewLedgerService(repos, testSettings())

	_, err := svc.MirrorAccounts(suite.ctx, testChart(), false)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	accountRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestNewServiceContainer() {
	cfg := &config.Config{
		CacheTTL: time.Minute,
		Ledger: config.LedgerConfig{
			BaseCurrency: "USD",
			Precision:    testSettings().Precision,
		},
	}
	container := services.NewServiceContainer(cfg, suite.repos)
	suite.Require().NotNil(container.Ledger)

	b, err := container.Ledger.Balance(suite.ctx, 1000, time.Time{})
	suite.Require().NoError(err)
	suite.Equal("1500", b.Get("USD").String())
}

// --- Run Test Suite ---
func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
