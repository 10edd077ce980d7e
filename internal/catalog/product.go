// Package catalog defines products sold by the machine.
package catalog

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/coinvend/currency"
)

const MsgPriceNegative = "The price can not be less than zero!"

// examine labels are padded to this width
const labelWidth = 20

type Kind uint8

const (
	KindInvalid Kind = iota
	KindCandy
	KindBeverage
	KindFood
)

var kindNames = map[Kind]string{
	KindCandy:    "candy",
	KindBeverage: "beverage",
	KindFood:     "food",
}

var kindVerbs = map[Kind]string{
	KindCandy:    "being eaten",
	KindBeverage: "being drunk",
	KindFood:     "being eaten",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Verb is what happens to product of this kind when it's used.
func (k Kind) Verb() string {
	if v, ok := kindVerbs[k]; ok {
		return v
	}
	return "being used"
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindInvalid, errors.NotValidf("product kind=%q", s)
}

// Product is immutable, pass by value.
type Product struct {
	kind  Kind
	name  string
	info  string
	price currency.Amount
}

func NewProduct(kind Kind, name, information string, price int) (Product, error) {
	if price < 0 {
		return Product{}, errors.NewNotValid(nil, MsgPriceNegative)
	}
	return Product{
		kind:  kind,
		name:  name,
		info:  information,
		price: currency.Amount(price),
	}, nil
}

func NewCandy(name, information string, price int) (Product, error) {
	return NewProduct(KindCandy, name, information, price)
}
func NewBeverage(name, information string, price int) (Product, error) {
	return NewProduct(KindBeverage, name, information, price)
}
func NewFood(name, information string, price int) (Product, error) {
	return NewProduct(KindFood, name, information, price)
}

func (p Product) Kind() Kind             { return p.kind }
func (p Product) Name() string           { return p.name }
func (p Product) Information() string    { return p.info }
func (p Product) Price() currency.Amount { return p.price }

func (p Product) Equal(other Product) bool { return p == other }

// Examine formats product for inventory display.
//   Product:            Snickers
//   Information:        Chocolate bar
//   Price:              15
func (p Product) Examine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s%s\n", labelWidth, "Product:", p.name)
	fmt.Fprintf(&b, "%-*s%s\n", labelWidth, "Information:", p.info)
	fmt.Fprintf(&b, "%-*s%d\n", labelWidth, "Price:", p.price)
	return b.String()
}

func (p Product) Use() string {
	return fmt.Sprintf("The %s is %s.", p.name, p.kind.Verb())
}

func (p Product) String() string {
	return fmt.Sprintf("%s:%s(%d)", p.kind, p.name, p.price)
}
