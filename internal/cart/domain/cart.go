package domain

// Line is one product held in a cart pending checkout. StockSnapshot is the
// product's stock at the moment the line was created; quantity increases are
// bounded by it, not by live stock.
type Line struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	PriceCents    int64  `json:"price_cents"`
	Image         string `json:"image"`
	StockSnapshot int    `json:"stock_snapshot"`
	Quantity      int    `json:"quantity"`
}

// Cart is a user's line list. Mutations that would push a line past its stock
// snapshot leave the cart unchanged rather than failing; callers detect the
// no-op by comparing state.
type Cart struct {
	Lines []Line
}

// Add merges line into the cart. For an existing product the quantity is
// increased, unless the new total would exceed that line's stock snapshot, in
// which case nothing changes. A new product is inserted with the caller's
// quantity as-is. Non-positive quantities never change the cart. Reports
// whether the cart changed.
func (c *Cart) Add(line Line) bool {
	if line.Quantity <= 0 {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			next := c.Lines[i].Quantity + line.Quantity
			if next > c.Lines[i].StockSnapshot {
				return false
			}
			c.Lines[i].Quantity = next
			return true
		}
	}
	c.Lines = append(c.Lines, line)
	return true
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the line;
// a value above the line's stock snapshot is a no-op. Reports whether the
// cart changed.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
		if quantity > c.Lines[i].StockSnapshot {
			return false
		}
		if c.Lines[i].Quantity == quantity {
			return false
		}
		c.Lines[i].Quantity = quantity
		return true
	}
	return false
}

// Remove deletes a line if present. Idempotent.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalCents is the sum of price times quantity over all lines.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.PriceCents * int64(l.Quantity)
	}
	return total
}

// Count is the sum of quantities, used for the badge display.
func (c *Cart) Count() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
