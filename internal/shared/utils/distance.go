package utils

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Closest returns the unique candidate nearest to word within maxDistance.
// Ties and exact matches report ok=false.
func Closest(word string, candidates []string, maxDistance int) (string, bool) {
	best, bestDist, tied := "", maxDistance+1, false
	for _, c := range candidates {
		d := Levenshtein(word, c)
		if d == 0 {
			return "", false
		}
		switch {
		case d < bestDist:
			best, bestDist, tied = c, d, false
		case d == bestDist:
			tied = true
		}
	}
	if best == "" || tied || bestDist > maxDistance {
		return "", false
	}
	return best, true
}
