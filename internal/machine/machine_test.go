package machine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/coinvend/currency"
	"github.com/temoto/coinvend/internal/catalog"
	inventory_config "github.com/temoto/coinvend/internal/inventory/config"
	"github.com/temoto/coinvend/internal/tele"
	tele_config "github.com/temoto/coinvend/internal/tele/config"
	"github.com/temoto/coinvend/log2"
)

type teleMock struct {
	mu  sync.Mutex
	txs []*tele.Telemetry_Transaction
}

func (*teleMock) Init(context.Context, *log2.Log, tele_config.Config) error { return nil }
func (*teleMock) Close()                                                    {}
func (*teleMock) Error(error)                                               {}
func (self *teleMock) Transaction(tx *tele.Telemetry_Transaction) {
	self.mu.Lock()
	self.txs = append(self.txs, tx)
	self.mu.Unlock()
}

func newTestMachine(t testing.TB) (*VendingMachine, *teleMock) {
	tm := &teleMock{}
	return New(log2.NewTest(t, log2.LDebug), tm), tm
}

// 10 each of Candy, Beverage, Food priced 10
func testProducts(t testing.TB) []catalog.Product {
	ps := make([]catalog.Product, 0, 30)
	for i := 0; i < 10; i++ {
		c, err := catalog.NewCandy("Candy", "Candy information", 10)
		require.NoError(t, err)
		b, err := catalog.NewBeverage("Beverage", "Beverage information", 10)
		require.NoError(t, err)
		f, err := catalog.NewFood("Food", "Food information", 10)
		require.NoError(t, err)
		ps = append(ps, c, b, f)
	}
	return ps
}

func insertProducts(t testing.TB, m *VendingMachine, ps []catalog.Product) {
	for i := range ps {
		require.NoError(t, m.InsertProduct(&ps[i]))
	}
}

func TestInsertProductNil(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t)
	err := m.InsertProduct(nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
	assert.Equal(t, "No product was inserted.", err.Error())
	assert.Equal(t, 0, m.Len())
}

func TestInsertMoney(t *testing.T) {
	t.Parallel()

	for _, n := range currency.Denominations() {
		n := n
		t.Run(currency.Amount(n).String(), func(t *testing.T) {
			m, _ := newTestMachine(t)
			require.NoError(t, m.InsertMoney(int(n)))
			assert.Equal(t, currency.Amount(n), m.InsertedMoney())
			require.NoError(t, m.InsertMoney(int(n)))
			assert.Equal(t, 2*currency.Amount(n), m.InsertedMoney())
		})
	}
}

func TestInsertMoneyWrongDenomination(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t)
	require.NoError(t, m.InsertMoney(5))
	for _, amount := range []int{347, -1, 0, 15, 2000} {
		err := m.InsertMoney(amount)
		require.Error(t, err, "amount=%d", amount)
		assert.True(t, errors.IsNotValid(err))
		assert.Equal(t, "You inserted money in the wrong denomination.", err.Error())
		assert.Equal(t, currency.Amount(5), m.InsertedMoney())
	}
}

func TestPurchaseExistingProducts(t *testing.T) {
	t.Parallel()

	m, tm := newTestMachine(t)
	ps := testProducts(t)
	insertProducts(t, m, ps)
	require.NoError(t, m.InsertMoney(100))
	require.NoError(t, m.InsertMoney(100))
	require.NoError(t, m.InsertMoney(100))
	require.Equal(t, currency.Amount(300), m.InsertedMoney())

	for _, p := range ps {
		bought, err := m.Purchase(p.Name())
		require.NoError(t, err)
		assert.Equal(t, p.Name(), bought.Name())
	}
	assert.Equal(t, currency.Amount(0), m.InsertedMoney())
	assert.Equal(t, 0, m.Len())
	assert.Len(t, tm.txs, len(ps))
	assert.Equal(t, tele.Telemetry_Transaction_Purchase, tm.txs[0].Kind)
	assert.Equal(t, uint32(290), tm.txs[0].Credit)
}

func TestPurchaseScenario(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t)
	insertProducts(t, m, testProducts(t)[:3])
	for i := 0; i < 3; i++ {
		require.NoError(t, m.InsertMoney(100))
	}
	for _, name := range []string{"Candy", "Beverage", "Food"} {
		p, err := m.Purchase(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	assert.Equal(t, currency.Amount(270), m.InsertedMoney())
	assert.Equal(t, map[currency.Nominal]uint{100: 2, 50: 1, 20: 1}, m.EndTransaction())
}

func TestPurchaseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		product     string
		money       int
		expectMsg   string
		expectCheck func(error) bool
	}{
		{"not-found", "Product that do not exist", 10, "The product choice could not be found.", errors.IsNotFound},
		{"insufficient", "Candy", 0, "Not enough money inserted to buy the product.", IsInsufficientFunds},
		{"insufficient-partial", "Candy", 5, "Not enough money inserted to buy the product.", IsInsufficientFunds},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			m, tm := newTestMachine(t)
			insertProducts(t, m, testProducts(t))
			if c.money != 0 {
				require.NoError(t, m.InsertMoney(c.money))
			}
			before := m.Products()

			_, err := m.Purchase(c.product)
			require.Error(t, err)
			assert.Equal(t, c.expectMsg, err.Error())
			assert.True(t, c.expectCheck(err))
			assert.Equal(t, currency.Amount(c.money), m.InsertedMoney())
			assert.Equal(t, before, m.Products())
			assert.Len(t, tm.txs, 0)
		})
	}
}

func TestPurchaseFIFO(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t)
	old, err := catalog.NewCandy("Candy", "old batch", 10)
	require.NoError(t, err)
	fresh, err := catalog.NewCandy("Candy", "fresh batch", 20)
	require.NoError(t, err)
	require.NoError(t, m.InsertProduct(&old))
	require.NoError(t, m.InsertProduct(&fresh))
	require.NoError(t, m.InsertMoney(50))

	p, err := m.Purchase("Candy")
	require.NoError(t, err)
	assert.True(t, old.Equal(p))
	assert.Equal(t, currency.Amount(40), m.InsertedMoney())
	assert.Equal(t, []catalog.Product{fresh}, m.Products())
}

func TestEndTransaction(t *testing.T) {
	t.Parallel()

	m, tm := newTestMachine(t)
	change := m.EndTransaction()
	assert.NotNil(t, change)
	assert.Empty(t, change)

	txid := m.TxId()
	for _, n := range []int{1000, 500, 50, 20, 10, 5, 1} {
		require.NoError(t, m.InsertMoney(n))
	}
	require.Equal(t, currency.Amount(1586), m.InsertedMoney())
	change = m.EndTransaction()
	assert.Equal(t, map[currency.Nominal]uint{1000: 1, 500: 1, 50: 1, 20: 1, 10: 1, 5: 1, 1: 1}, change)
	assert.Equal(t, currency.Amount(0), m.InsertedMoney())
	assert.NotEqual(t, txid, m.TxId())

	require.NoError(t, m.InsertMoney(100))
	assert.Equal(t, map[currency.Nominal]uint{100: 1}, m.EndTransaction())

	require.Len(t, tm.txs, 3)
	endTx := tm.txs[1]
	assert.Equal(t, tele.Telemetry_Transaction_End, endTx.Kind)
	assert.Equal(t, txid, endTx.TxId)
	assert.Len(t, endTx.Change, 7)
	assert.Equal(t, uint32(1000), endTx.Change[0].Nominal)
}

func TestShowAll(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t)
	assert.Equal(t, "", m.ShowAll())
	insertProducts(t, m, testProducts(t))

	report := m.ShowAll()
	for _, name := range []string{"Candy", "Beverage", "Food"} {
		block := "Product:            " + name + "\n" +
			"Information:        " + name + " information\n" +
			"Price:              10\n" +
			"Items left:         10\n\n"
		assert.Equal(t, 1, strings.Count(report, block), "name=%s", name)
	}
	assert.Equal(t, 3, strings.Count(report, "Items left:"))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	m, _ := newTestMachine(t)
	err := m.Load(&inventory_config.Config{Products: []inventory_config.Product{
		{Name: "Cola", Kind: "beverage", Info: "Soda", Price: 25, Count: 2},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	err = m.Load(&inventory_config.Config{Products: []inventory_config.Product{
		{Name: "Soup", Kind: "food", Price: -5},
	}})
	require.Error(t, err)
	assert.True(t, errors.IsNotValid(err))
	assert.Equal(t, 2, m.Len())
}

func TestConcurrent(t *testing.T) {
	t.Parallel()

	const workers = 8
	const perWorker = 25
	m, _ := newTestMachine(t)
	p, err := catalog.NewFood("Food", "", 5)
	require.NoError(t, err)
	for i := 0; i < workers*perWorker; i++ {
		require.NoError(t, m.InsertProduct(&p))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	bought := 0
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := m.InsertMoney(10); err != nil {
					t.Error(err)
					return
				}
				if _, err := m.Purchase("Food"); err == nil {
					mu.Lock()
					bought++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	inserted := currency.Amount(workers * perWorker * 10)
	assert.Equal(t, workers*perWorker, bought)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, inserted-currency.Amount(bought)*5, m.InsertedMoney())
}
