package scoring

// ParetoOptimal reports, for every row of the normalized matrix, whether no
// other row dominates it. After normalization every column is
// higher-is-better, so a row dominates another if it is >= on every
// criterion and strictly > on at least one.
// The check is O(n^2) in the number of candidates.
func ParetoOptimal(n *NormalizedMatrix) []bool {
	rows := make([][]float64, n.Rows())
	for i := range rows {
		rows[i] = n.Row(i)
	}

	out := make([]bool, len(rows))
	for i := range rows {
		out[i] = true
		for j := range rows {
			if i != j && dominates(rows[j], rows[i]) {
				out[i] = false
				break
			}
		}
	}
	return out
}

// dominates returns true if a dominates b.
func dominates(a, b []float64) bool {
	strictly := false
	for k := range a {
		if a[k] < b[k] {
			return false
		}
		if a[k] > b[k] {
			strictly = true
		}
	}
	return strictly
}
