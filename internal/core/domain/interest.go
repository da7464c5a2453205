package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayCountConvention determines the fraction of a year between two dates.
type DayCountConvention string

const (
	Act365    DayCountConvention = "ACT/365"
	Act360    DayCountConvention = "ACT/360"
	Thirty360 DayCountConvention = "30/360"
	ActAct    DayCountConvention = "ACT/ACT"
)

// DayCountConventions lists the supported conventions.
var DayCountConventions = []DayCountConvention{Act365, Act360, Thirty360, ActAct}

// PrincipalBalance is one point of a principal balance history.
type PrincipalBalance struct {
	Date        time.Time       `json:"date"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
}

// InterestAccrual is the interest earned on the balance of one interval.
type InterestAccrual struct {
	Date        time.Time       `json:"date"` // Interval end
	Amount      decimal.Decimal `json:"amount"`
	Days        int             `json:"days"`
	Description string          `json:"description"`
}
