package solve

// ---------------------------------------------------------------------------
// Coin monument: _ + _ * _^2 + _^3 - _ = 399
// ---------------------------------------------------------------------------

const coinTarget = 399

// coinValues are the dot counts of the five coins found in the ruins.
var coinValues = [5]int{2, 3, 5, 7, 9}

var coinNames = map[int]string{
	2: "red coin",
	3: "corroded coin",
	5: "shiny coin",
	7: "concave coin",
	9: "blue coin",
}

// CoinOrder finds the arrangement of the five coins satisfying the
// monument equation and returns their names in slot order.
func CoinOrder() ([]string, bool) {
	coins := make([]int, len(coinValues))
	copy(coins, coinValues[:])

	ok := findPermutation(coins, func(c []int) bool {
		return c[0]+c[1]*c[2]*c[2]+c[3]*c[3]*c[3]-c[4] == coinTarget
	})
	if !ok {
		return nil, false
	}

	names := make([]string, len(coins))
	for i, v := range coins {
		names[i] = coinNames[v]
	}
	return names, true
}

// findPermutation runs Heap's algorithm over arr in place, stopping at the
// first permutation pred accepts. arr is left holding that permutation.
func findPermutation(arr []int, pred func([]int) bool) bool {
	p := make([]int, len(arr)+1)
	for i := range p {
		p[i] = i
	}

	if pred(arr) {
		return true
	}

	for i := 1; i < len(arr); {
		p[i]--
		j := 0
		if i%2 == 1 {
			j = p[i]
		}
		arr[i], arr[j] = arr[j], arr[i]

		if pred(arr) {
			return true
		}

		i = 1
		for p[i] == 0 {
			p[i] = i
			i++
		}
	}

	return false
}
