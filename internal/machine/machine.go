// Package machine is the vending machine controller.
// Overview:
// - operator loads products into inventory
// - customer inserts coins one at a time, only known denominations
// - customer buys product by name, price is taken from credit
// - customer ends transaction, remaining credit is returned as change
package machine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/temoto/coinvend/currency"
	"github.com/temoto/coinvend/internal/catalog"
	"github.com/temoto/coinvend/internal/inventory"
	inventory_config "github.com/temoto/coinvend/internal/inventory/config"
	"github.com/temoto/coinvend/internal/tele"
	"github.com/temoto/coinvend/log2"
)

// VendingMachine is safe for concurrent use.
// Single lock guards credit and inventory together, so purchase is atomic
// with respect to concurrent purchases and money changes.
type VendingMachine struct { //nolint:maligned
	Log  *log2.Log
	Tele tele.Teler

	lk       sync.Mutex
	credit   currency.Amount
	accepted *currency.NominalGroup // coins inserted during current transaction
	inv      *inventory.Inventory
	txid     uuid.UUID
}

func New(log *log2.Log, teler tele.Teler) *VendingMachine {
	if teler == nil {
		teler = tele.NewStub()
	}
	return &VendingMachine{
		Log:      log,
		Tele:     teler,
		accepted: currency.NewNominalGroup(),
		inv:      inventory.New(log),
		txid:     uuid.New(),
	}
}

// Load stocks inventory from config, all or nothing.
func (self *VendingMachine) Load(c *inventory_config.Config) error {
	self.lk.Lock()
	defer self.lk.Unlock()
	return errors.Annotate(self.inv.Init(c), "machine.load")
}

func (self *VendingMachine) InsertProduct(p *catalog.Product) error {
	const tag = "machine.insert-product"
	if p == nil {
		self.Log.Infof("%s rejected: no product", tag)
		return errors.NewNotValid(nil, MsgNoProduct)
	}

	self.lk.Lock()
	defer self.lk.Unlock()
	self.inv.Add(*p)
	self.Log.Debugf("%s product=%s len=%d", tag, p.String(), self.inv.Len())
	return nil
}

// InsertMoney accepts exactly one coin or bill.
func (self *VendingMachine) InsertMoney(amount int) error {
	const tag = "machine.insert-money"
	a := currency.Amount(amount)
	if !currency.IsDenomination(a) {
		self.Log.Infof("%s rejected amount=%d", tag, amount)
		return errors.NewNotValid(nil, MsgWrongDenomination)
	}

	self.lk.Lock()
	defer self.lk.Unlock()
	if err := self.accepted.Add(currency.Nominal(a), 1); err != nil {
		// denomination table and accepted group out of sync
		return errors.Annotate(err, tag)
	}
	self.credit += a
	self.Log.Debugf("%s tx=%s amount=%s credit=%s", tag, self.txid, a, self.credit)
	return nil
}

// Purchase takes first inserted product with exact name.
// On error credit and inventory are unchanged.
func (self *VendingMachine) Purchase(name string) (catalog.Product, error) {
	const tag = "machine.purchase"

	self.lk.Lock()
	p, ok := self.inv.Find(name)
	if !ok {
		self.lk.Unlock()
		self.Log.Infof("%s name=%q not found", tag, name)
		return catalog.Product{}, errors.NewNotFound(nil, MsgProductNotFound)
	}
	if self.credit < p.Price() {
		credit := self.credit
		self.lk.Unlock()
		self.Log.Infof("%s product=%s credit=%s need more money", tag, p.String(), credit)
		return catalog.Product{}, newInsufficientFunds()
	}
	p, _ = self.inv.Take(name)
	self.credit -= p.Price()
	tx := &tele.Telemetry_Transaction{
		TxId:    self.txid.String(),
		Kind:    tele.Telemetry_Transaction_Purchase,
		Product: p.Name(),
		Price:   uint32(p.Price()),
		Credit:  uint32(self.credit),
	}
	self.lk.Unlock()

	self.Log.Debugf("%s tx=%s product=%s credit=%d", tag, tx.TxId, p.String(), tx.Credit)
	self.Tele.Transaction(tx)
	return p, nil
}

// ShowAll formats inventory grouped by identical products.
func (self *VendingMachine) ShowAll() string {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.inv.Report()
}

// EndTransaction returns whole credit as change, largest nominals first.
// Result contains only nominals with non-zero count, empty for zero credit.
func (self *VendingMachine) EndTransaction() map[currency.Nominal]uint {
	const tag = "machine.end-transaction"

	self.lk.Lock()
	change, err := currency.MakeChange(self.credit)
	if err != nil {
		// credit is never negative, guarded by InsertMoney and Purchase
		self.lk.Unlock()
		panic("code error " + errors.ErrorStack(err))
	}
	accepted := self.accepted.String()
	txid := self.txid
	self.credit = 0
	self.accepted.Clear()
	self.txid = uuid.New()
	self.lk.Unlock()

	tx := &tele.Telemetry_Transaction{
		TxId: txid.String(),
		Kind: tele.Telemetry_Transaction_End,
	}
	_ = change.Iter(func(n currency.Nominal, c uint) error {
		if c > 0 {
			tx.Change = append(tx.Change, &tele.Telemetry_Coin{Nominal: uint32(n), Count: uint32(c)})
		}
		return nil
	})
	self.Log.Debugf("%s tx=%s accepted=(%s) change=(%s)", tag, txid, accepted, change.String())
	self.Tele.Transaction(tx)
	return change.ToMap()
}

func (self *VendingMachine) InsertedMoney() currency.Amount {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.credit
}

func (self *VendingMachine) Len() int {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.inv.Len()
}

// Products returns inventory copy in insertion order.
func (self *VendingMachine) Products() []catalog.Product {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.inv.Snapshot()
}

// TxId identifies current transaction in logs and telemetry.
func (self *VendingMachine) TxId() string {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.txid.String()
}
