package store

import "sort"

// orderDocs returns docs sorted per the requested order. Insertion order is
// returned as-is: no client-side re-sort beyond what was asked for.
func orderDocs(docs []Document, order Order) []Document {
	if order == OrderInsertion || len(docs) < 2 {
		return docs
	}

	out := make([]Document, len(docs))
	copy(out, docs)

	switch order {
	case OrderCreatedDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case OrderCreatedAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}

	return out
}
