package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Amount is integer counting lowest currency unit.
// Negative values only appear as invalid input and are rejected by validators.
type Amount int

func (self Amount) String() string { return fmt.Sprint(int(self)) }

// Nominal is value of one coin or bill
type Nominal Amount

var (
	ErrNominalInvalid = errors.New("Nominal is not valid for this group")
	ErrAmountNegative = errors.New("Amount is negative")
)

// denominations is the fixed table of nominals accepted by the machine,
// ascending. Never exposed directly, see Denominations().
var denominations = [...]Nominal{1, 5, 10, 20, 50, 100, 500, 1000}

// Denominations returns a copy of accepted nominals, ascending.
func Denominations() []Nominal {
	ns := make([]Nominal, len(denominations))
	copy(ns, denominations[:])
	return ns
}

func IsDenomination(a Amount) bool {
	for _, n := range denominations {
		if Amount(n) == a {
			return true
		}
	}
	return false
}

// MakeChange breaks amount into denominations, largest first.
// Supply of every nominal is unlimited and the smallest one is 1,
// so the result always sums exactly to amount.
func MakeChange(amount Amount) (*NominalGroup, error) {
	if amount < 0 {
		return nil, errors.Annotatef(ErrAmountNegative, "MakeChange(a=%s)", amount)
	}
	ng := NewNominalGroup()
	for i := len(denominations) - 1; i >= 0 && amount > 0; i-- {
		n := denominations[i]
		if count := amount / Amount(n); count > 0 {
			ng.values[n] += uint(count)
			amount -= count * Amount(n)
		}
	}
	return ng, nil
}

// NominalGroup operates money comprised of multiple nominals, like coins or bills.
// coin1 : 3
// coin5 : 1
// coin10: 4
// total : 48
type NominalGroup struct {
	values map[Nominal]uint
}

// NewNominalGroup returns group valid for the machine denominations.
func NewNominalGroup() *NominalGroup {
	ng := &NominalGroup{}
	ng.SetValid(denominations[:])
	return ng
}

func (self *NominalGroup) Copy() *NominalGroup {
	ng2 := &NominalGroup{
		values: make(map[Nominal]uint, len(self.values)),
	}
	for k, v := range self.values {
		ng2.values[k] = v
	}
	return ng2
}

func (self *NominalGroup) SetValid(valid []Nominal) {
	self.values = make(map[Nominal]uint, len(valid))
	for _, n := range valid {
		if n != 0 {
			self.values[n] = 0
		}
	}
}

func (self *NominalGroup) Add(n Nominal, count uint) error {
	if _, ok := self.values[n]; !ok {
		return errors.Annotatef(ErrNominalInvalid, "Add(n=%s, c=%d)", Amount(n), count)
	}
	self.values[n] += count
	return nil
}

func (self *NominalGroup) Clear() {
	for n := range self.values {
		self.values[n] = 0
	}
}

func (self *NominalGroup) Get(n Nominal) (uint, error) {
	stored, ok := self.values[n]
	if !ok {
		return 0, ErrNominalInvalid
	}
	return stored, nil
}

// Iter walks nominals in descending order, zero counts included.
func (self *NominalGroup) Iter(f func(nominal Nominal, count uint) error) error {
	for _, nominal := range self.order() {
		if err := f(nominal, self.values[nominal]); err != nil {
			return err
		}
	}
	return nil
}

func (self *NominalGroup) Total() Amount {
	sum := Amount(0)
	for nominal, count := range self.values {
		sum += Amount(nominal) * Amount(count)
	}
	return sum
}

// ToMap returns nominals with non-zero count.
func (self *NominalGroup) ToMap() map[Nominal]uint {
	m := make(map[Nominal]uint, len(self.values))
	for nominal, count := range self.values {
		if count > 0 {
			m[nominal] = count
		}
	}
	return m
}

func (self *NominalGroup) String() string {
	parts := make([]string, 0, len(self.values)+1)
	sum := Amount(0)
	for _, nominal := range self.order() {
		if count := self.values[nominal]; count > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", Amount(nominal), count))
			sum += Amount(nominal) * Amount(count)
		}
	}
	parts = append(parts, fmt.Sprintf("total:%s", sum))
	return strings.Join(parts, ",")
}

func (self *NominalGroup) order() []Nominal {
	order := make([]Nominal, 0, len(self.values))
	for n := range self.values {
		order = append(order, n)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] > order[j] })
	return order
}
