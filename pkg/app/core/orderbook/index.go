package orderbook

// indexEntry locates a resting order without scanning the book.
type indexEntry struct {
	side  Side
	price int64
}

// orderIndex maps every resting order to its side and price.
type orderIndex map[OrderID]indexEntry

func (ix orderIndex) put(o *Order) {
	ix[o.ID] = indexEntry{side: o.Side, price: o.Price}
}

func (ix orderIndex) lookup(id OrderID) (indexEntry, bool) {
	e, ok := ix[id]
	return e, ok
}

func (ix orderIndex) remove(id OrderID) {
	delete(ix, id)
}
