package usecase

import "unicode/utf8"

// Similarity scores two strings on a 0-100 scale using the normalized indel distance
// (insertions and deletions only): 100 * (1 - dist / (len(a) + len(b))).
// Two empty strings score 100.
func Similarity(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la+lb == 0 {
		return 100
	}
	if a == b {
		return 100
	}

	dist := indelDistance(a, b)
	return 100 * (1 - float64(dist)/float64(la+lb))
}

// similarityUpperBound is the best score two strings of the given rune lengths can reach
func similarityUpperBound(la, lb int) float64 {
	if la+lb == 0 {
		return 100
	}
	return 200 * float64(min(la, lb)) / float64(la+lb)
}

// indelDistance calculates the edit distance between two strings when only
// insertions and deletions are allowed (a substitution costs 2)
func indelDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Two rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if r1[i-1] == r2[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = min(
				prev[j]+1,   // deletion
				curr[j-1]+1, // insertion
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
