// Package align measures how far apart two ordered point sequences are.
//
// # Dynamic Time Warping
//
// The canonical aligner is full dynamic-programming DTW with squared
// Euclidean point distance as the local cost:
//
//	D[0][0] = cost(A[0], B[0])
//	D[i][0] = D[i-1][0] + cost(A[i], B[0])
//	D[0][j] = D[0][j-1] + cost(A[0], B[j])
//	D[i][j] = cost(A[i], B[j]) + min(D[i-1][j], D[i][j-1], D[i-1][j-1])
//
// The distance is D[n-1][m-1]. Only two rows of D are kept, each the length
// of the shorter sequence, so memory is O(min(n, m)) and time is O(n·m).
//
// # Greedy alignment
//
// ModeGreedy walks both sequences with two cursors, at each step taking the
// cheapest of the three DTW moves and adding its cost. When one sequence is
// exhausted the remaining points of the other are charged against the last
// point reached. The walk is a valid warping path, so the greedy distance is
// never smaller than the DTW distance; it trades optimality for speed and
// must be selected explicitly.
//
// # Degenerate input
//
// If either sequence is empty the distance is 0. The condition is reported
// to Options.Diagnostics rather than returned as an error so a batch over a
// corpus with one bad entry keeps going.
package align
