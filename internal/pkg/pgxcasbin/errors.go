package pgxcasbin

import "errors"

var (
	// ErrRuleTooLong indicates a rule exceeds the six value columns.
	ErrRuleTooLong = errors.New("pgxcasbin: rule length exceeds field count")
	// ErrRuleEmpty indicates an empty rule row.
	ErrRuleEmpty = errors.New("pgxcasbin: rule is empty")
	// ErrArgsTooLong indicates a filter longer than the remaining columns.
	ErrArgsTooLong = errors.New("pgxcasbin: args length exceeds field count")
	// ErrQuery wraps database failures.
	ErrQuery = errors.New("pgxcasbin: query failed")
)
