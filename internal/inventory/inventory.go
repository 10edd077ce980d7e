// Package inventory keeps products loaded into the machine.
package inventory

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/coinvend/helpers"
	"github.com/temoto/coinvend/internal/catalog"
	inventory_config "github.com/temoto/coinvend/internal/inventory/config"
	"github.com/temoto/coinvend/log2"
)

// Inventory is ordered, duplicate names are normal.
// Take removes the first inserted match (FIFO).
// Not safe for concurrent use, owner must synchronize.
type Inventory struct {
	log *log2.Log
	ps  []catalog.Product
}

func New(log *log2.Log) *Inventory {
	return &Inventory{log: log}
}

// Init appends products from config.
// Either all entries are valid and added or none.
func (self *Inventory) Init(c *inventory_config.Config) error {
	errs := make([]error, 0)
	loaded := make([]catalog.Product, 0, len(c.Products))
	for i := range c.Products {
		pc := &c.Products[i]
		kind, err := catalog.ParseKind(pc.Kind)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "product=%s", pc.Name))
			continue
		}
		p, err := catalog.NewProduct(kind, pc.Name, pc.Info, pc.Price)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "product=%s", pc.Name))
			continue
		}
		count := pc.Count
		switch {
		case count < 0:
			errs = append(errs, errors.Errorf("product=%s invalid count=%d", pc.Name, pc.Count))
			continue
		case count == 0:
			count = 1
		}
		for j := 0; j < count; j++ {
			loaded = append(loaded, p)
		}
		self.log.Debugf("inventory loaded %s", pc.String())
	}
	if err := helpers.FoldErrors(errs); err != nil {
		return err
	}
	self.ps = append(self.ps, loaded...)
	return nil
}

func (self *Inventory) Add(p catalog.Product) {
	self.ps = append(self.ps, p)
}

func (self *Inventory) Len() int { return len(self.ps) }

func (self *Inventory) Find(name string) (catalog.Product, bool) {
	if i := self.index(name); i >= 0 {
		return self.ps[i], true
	}
	return catalog.Product{}, false
}

// Take removes and returns first product with exact name.
func (self *Inventory) Take(name string) (catalog.Product, bool) {
	i := self.index(name)
	if i < 0 {
		return catalog.Product{}, false
	}
	p := self.ps[i]
	copy(self.ps[i:], self.ps[i+1:])
	self.ps[len(self.ps)-1] = catalog.Product{}
	self.ps = self.ps[:len(self.ps)-1]
	return p, true
}

func (self *Inventory) Iter(fun func(p catalog.Product)) {
	for _, p := range self.ps {
		fun(p)
	}
}

func (self *Inventory) Snapshot() []catalog.Product {
	ps := make([]catalog.Product, len(self.ps))
	copy(ps, self.ps)
	return ps
}

// Report groups identical products by Examine() text,
// groups go in order of first occurrence.
func (self *Inventory) Report() string {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, p := range self.ps {
		key := p.Examine()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}

	var b strings.Builder
	for _, key := range order {
		b.WriteString(key)
		fmt.Fprintf(&b, "%-20s%d\n\n", "Items left:", counts[key])
	}
	return b.String()
}

func (self *Inventory) index(name string) int {
	for i, p := range self.ps {
		if p.Name() == name {
			return i
		}
	}
	return -1
}
