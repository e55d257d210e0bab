package model

import "strings"

// BomLine is one material quantity produced by BOM generation.
type BomLine struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	UOM           string  `json:"uom"`
	SourceItemSet string  `json:"source_item_set"`
}

// Consolidate merges lines that share SKU and unit of measure. When bySet
// is true, lines from different item sets stay separate. The first line of
// each group fixes its position and display name. SKUs compare
// case-insensitively.
func Consolidate(lines []BomLine, bySet bool) []BomLine {
	type key struct {
		sku, uom, set string
	}
	index := make(map[key]int, len(lines))
	out := make([]BomLine, 0, len(lines))
	for _, l := range lines {
		k := key{sku: strings.ToLower(l.SKU), uom: l.UOM}
		if bySet {
			k.set = l.SourceItemSet
		}
		if i, ok := index[k]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[k] = len(out)
		if !bySet {
			l.SourceItemSet = ""
		}
		out = append(out, l)
	}
	return out
}

// TotalQuantity sums the quantity of every line with the given SKU.
func TotalQuantity(lines []BomLine, sku string) float64 {
	var total float64
	for _, l := range lines {
		if strings.EqualFold(l.SKU, sku) {
			total += l.Quantity
		}
	}
	return total
}
