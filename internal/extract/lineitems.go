package extract

import "github.com/sells-group/order-inbox/internal/model"

// MapLineItems normalizes extracted line items. It always returns a non-nil
// slice.
func MapLineItems(raw model.RawLineItems) []model.LineItem {
	out := make([]model.LineItem, 0, len(raw))
	for _, li := range raw {
		out = append(out, mapLineItem(li))
	}
	return out
}

func mapLineItem(li model.RawLineItem) model.LineItem {
	field := func(name string) (string, float64) {
		f := li[name]
		return f.Text(), f.Score()
	}

	var it model.LineItem
	c := &it.Confidence
	it.Description, c.Description = field("description")
	it.NetAmount, c.NetAmount = field("netAmount")
	it.Quantity, c.Quantity = field("quantity")
	it.UnitPrice, c.UnitPrice = field("unitPrice")
	it.DocumentDate, c.DocumentDate = field("documentDate")
	it.ItemNumber, c.ItemNumber = field("itemNumber")
	it.CurrencyCode, c.CurrencyCode = field("currencyCode")
	it.SupplierMaterialNumber, c.SupplierMaterialNumber = field("supplierMaterialNumber")
	it.CustomerMaterialNumber, c.CustomerMaterialNumber = field("customerMaterialNumber")
	it.UnitOfMeasure, c.UnitOfMeasure = field("unitOfMeasure")
	return it
}
