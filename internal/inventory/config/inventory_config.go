// Separate package is workaround to import cycles.
package inventory_config

import "fmt"

type Config struct {
	Products []Product `hcl:"product"`
}

type Product struct { //nolint:maligned
	Name  string `hcl:"name,key"`
	Kind  string `hcl:"kind"` // candy|beverage|food
	Info  string `hcl:"info"`
	Price int    `hcl:"price"`
	Count int    `hcl:"count"` // 0 means 1
}

func (self *Product) String() string {
	return fmt.Sprintf("inventory.%s kind=%s price=%d count=%d", self.Name, self.Kind, self.Price, self.Count)
}
