// Package ordering merges a persisted ordering with an authoritative catalog.
package ordering

// Reconcile orders the catalog by the imported keys.
//
// Entries named by imported come first, in imported order. Duplicate keys and
// keys that are not in the catalog are skipped. Catalog entries that were not
// named follow in catalog order. The result is always a permutation of the
// catalog.
func Reconcile[E any, K comparable](imported []K, catalog []E, key func(E) K) []E {
	index := make(map[K]int, len(catalog))
	for i, entry := range catalog {
		k := key(entry)
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}

	placed := make([]bool, len(catalog))
	out := make([]E, 0, len(catalog))

	for _, k := range imported {
		i, ok := index[k]
		if !ok || placed[i] {
			continue
		}
		placed[i] = true
		out = append(out, catalog[i])
	}

	for i, entry := range catalog {
		if !placed[i] {
			out = append(out, entry)
		}
	}

	return out
}

// Keys returns the key of every entry in order.
func Keys[E any, K comparable](entries []E, key func(E) K) []K {
	out := make([]K, len(entries))
	for i, entry := range entries {
		out[i] = key(entry)
	}
	return out
}
