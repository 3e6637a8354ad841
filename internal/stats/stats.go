// Package stats holds the small numeric routines shared by the data
// processor, the insight generator and the model engines.
package stats

import (
	"errors"
	"math"
	"sort"
)

// ErrSingular is returned by Solve when the system has no unique solution.
var ErrSingular = errors.New("singular matrix")

func Sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// Finite reports whether x is neither NaN nor an infinity.
func Finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Mean returns 0 for an empty slice. It is computed as a running mean and
// stays finite when the plain sum would overflow.
func Mean(xs []float64) float64 {
	var m float64
	for i, x := range xs {
		n := float64(i + 1)
		m += x/n - m/n
	}
	return m
}

// StdDev is the sample standard deviation; it is 0 below two values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Median does not modify xs.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return s[n/2-1]/2 + s[n/2]/2
}

// Pearson returns the correlation coefficient of two equally long series.
// ok is false when either series has zero variance or fewer than two points.
func Pearson(xs, ys []float64) (r float64, ok bool) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0, false
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	r = sxy / (math.Sqrt(sxx) * math.Sqrt(syy))
	if !Finite(r) {
		return 0, false
	}
	return r, true
}

// Solve solves a·x = b by Gaussian elimination with partial pivoting.
// a and b are not modified.
func Solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	if len(a) != n {
		return nil, errors.New("matrix is not square")
	}
	m := make([][]float64, n)
	for i := range a {
		if len(a[i]) != n {
			return nil, errors.New("matrix is not square")
		}
		m[i] = append(append(make([]float64, 0, n+1), a[i]...), b[i])
	}
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, ErrSingular
		}
		m[col], m[pivot] = m[pivot], m[col]
		for row := col + 1; row < n; row++ {
			f := m[row][col] / m[col][col]
			for k := col; k <= n; k++ {
				m[row][k] -= f * m[col][k]
			}
		}
	}
	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		s := m[row][n]
		for k := row + 1; k < n; k++ {
			s -= m[row][k] * x[k]
		}
		x[row] = s / m[row][row]
	}
	return x, nil
}

// MaxDecimals is the largest precision Round honours.
const MaxDecimals = 15

// Round rounds x to the given number of decimals, capped at MaxDecimals.
// Non-finite inputs and values too large to scale are returned unchanged.
func Round(x float64, decimals int) float64 {
	if !Finite(x) {
		return x
	}
	if decimals > MaxDecimals {
		decimals = MaxDecimals
	}
	p := math.Pow(10, float64(decimals))
	r := math.Round(x*p) / p
	if !Finite(r) {
		return x
	}
	return r
}
