package dto

import "github.com/SscSPs/bizbooks/internal/core/domain"

// WindowParams defines the date window of a ledger or report query.
type WindowParams struct {
	From string `form:"from" binding:"omitempty,isodate"`
	To   string `form:"to" binding:"omitempty,isodate"`
}

// DayParams selects a single day, defaulting to today.
type DayParams struct {
	Date string `form:"date" binding:"omitempty,isodate"`
}

// AsOfParams defines the as-of date of a report, defaulting to today.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,isodate"`
}

// DayBookResponse is the cash and bank books of one day.
type DayBookResponse struct {
	Date string                 `json:"date"`
	Cash *domain.LedgerSnapshot `json:"cash"`
	Bank *domain.LedgerSnapshot `json:"bank"`
}
