package brackets

// SeedingOrder returns the standard bracket placement of seeds 1..2^rounds,
// built by iterative doubling: the order for two slots is [1, 2], and each
// doubling step interleaves every seed s with its mirror size+1-s. Pairing
// consecutive entries gives the first-round matchups, so seeds 1 and 2 can
// only meet in the final and the lowest seeds face the byes first.
//
// For rounds=3 (8 slots): [1, 8, 4, 5, 2, 7, 3, 6].
func SeedingOrder(rounds int) []int {
	order := []int{1, 2}
	for r := 2; r <= rounds; r++ {
		size := 1 << uint(r)
		doubled := make([]int, 0, size)
		for _, seed := range order {
			doubled = append(doubled, seed, size+1-seed)
		}
		order = doubled
	}
	return order
}
