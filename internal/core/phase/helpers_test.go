package phase

import (
	"github.com/shopspring/decimal"
)

func d(s string) Date { return MustParseDate(s) }

func goal(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ph(key string, number int, start string, days int, amount string) Phase {
	return Phase{
		Key:          key,
		Number:       number,
		StartDate:    d(start),
		DurationDays: days,
		FundingGoal:  goal(amount),
	}
}

func input(start string, days int, amount string) Input {
	s := d(start)
	g := goal(amount)
	return Input{StartDate: &s, DurationDays: &days, FundingGoal: &g}
}
