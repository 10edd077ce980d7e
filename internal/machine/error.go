package machine

import (
	"github.com/juju/errors"
)

const (
	MsgNoProduct         = "No product was inserted."
	MsgWrongDenomination = "You inserted money in the wrong denomination."
	MsgProductNotFound   = "The product choice could not be found."
	MsgInsufficientFunds = "Not enough money inserted to buy the product."
)

// insufficientFunds follows juju/errors kinds like NotFound, NotValid.
type insufficientFunds struct {
	errors.Err
}

func newInsufficientFunds() error {
	err := &insufficientFunds{errors.NewErr(MsgInsufficientFunds)}
	err.SetLocation(1)
	return err
}

// IsInsufficientFunds reports whether err was caused by purchase
// with credit below product price.
func IsInsufficientFunds(err error) bool {
	_, ok := errors.Cause(err).(*insufficientFunds)
	return ok
}
