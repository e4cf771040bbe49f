package analytics

import (
	"fmt"
	"math"

	"pairs-analytics-go/market"
)

// minADFObservations is the smallest clean sample the augmented regression
// can be fit on. Callers gate user-facing results with their own, larger
// minimums.
const minADFObservations = 15

// ADFResult is the outcome of an augmented Dickey-Fuller unit-root test.
type ADFResult struct {
	Statistic float64 `json:"adf_stat"`
	PValue    float64 `json:"p_value"`
	UsedLag   int     `json:"used_lag"`
	NObs      int     `json:"n_obs"`
}

// Stationary reports whether the series is classified mean-reverting at the
// 5% level.
func (r ADFResult) Stationary() bool {
	return r.PValue < 0.05
}

// ADF runs the augmented Dickey-Fuller test on a spread series:
//
//	d(s)_t = alpha + beta*s_{t-1} + sum_i gamma_i*d(s)_{t-i} + e_t
//
// The statistic is the t-statistic on beta; its p-value comes from the
// MacKinnon (1994) response surface for the constant-only regression. The
// augmentation lag is chosen by minimizing AIC over 0..Schwert's maximum,
// as the usual library default does.
func ADF(s market.Series) (ADFResult, error) {
	return ADFValues(s.Values())
}

// ADFValues is ADF on a bare float slice. NaN and Inf entries are dropped
// before fitting.
func ADFValues(values []float64) (ADFResult, error) {
	v := make([]float64, 0, len(values))
	for _, x := range values {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			v = append(v, x)
		}
	}
	n := len(v)
	if n < minADFObservations {
		return ADFResult{}, fmt.Errorf("adf: %d observations: %w", n, ErrInsufficientData)
	}

	// First differences.
	d := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		d[i] = v[i+1] - v[i]
	}

	maxLag := int(math.Ceil(12.0 * math.Pow(float64(n)/100.0, 0.25)))
	if hi := (n-1)/2 - 2; maxLag > hi {
		maxLag = hi
	}
	if maxLag < 0 {
		maxLag = 0
	}

	// Lag selection on a fixed sample so AIC values are comparable.
	bestLag, bestAIC := 0, math.Inf(1)
	for lag := 0; lag <= maxLag; lag++ {
		fit, err := adfFit(v, d, lag, maxLag)
		if err != nil {
			continue
		}
		if fit.aic < bestAIC {
			bestAIC = fit.aic
			bestLag = lag
		}
	}

	// Final fit with the chosen lag over the maximal available sample.
	fit, err := adfFit(v, d, bestLag, bestLag)
	if err != nil {
		return ADFResult{}, err
	}
	stat := fit.tStat
	return ADFResult{
		Statistic: stat,
		PValue:    mackinnonP(stat),
		UsedLag:   bestLag,
		NObs:      fit.nobs,
	}, nil
}

type adfFitResult struct {
	tStat float64
	aic   float64
	nobs  int
}

// adfFit regresses d[i] on [v[i], d[i-1..i-lag], 1] for i in startLag..len(d)-1.
func adfFit(v, d []float64, lag, startLag int) (adfFitResult, error) {
	nobs := len(d) - startLag
	k := lag + 2
	if nobs <= k {
		return adfFitResult{}, fmt.Errorf("adf fit: %d observations for %d params: %w", nobs, k, ErrInsufficientData)
	}

	y := make([]float64, nobs)
	X := make([][]float64, nobs)
	for r := 0; r < nobs; r++ {
		i := startLag + r
		row := make([]float64, k)
		row[0] = v[i] // lagged level
		for j := 1; j <= lag; j++ {
			row[j] = d[i-j]
		}
		row[k-1] = 1 // constant
		X[r] = row
		y[r] = d[i]
	}

	coefs, stderrs, ssr, err := olsFit(y, X)
	if err != nil {
		return adfFitResult{}, err
	}
	if stderrs[0] == 0 {
		return adfFitResult{}, fmt.Errorf("adf fit: zero standard error: %w", ErrDegenerateInput)
	}

	nf := float64(nobs)
	loglike := -nf / 2.0 * (math.Log(2*math.Pi) + math.Log(ssr/nf) + 1)
	return adfFitResult{
		tStat: coefs[0] / stderrs[0],
		aic:   -2*loglike + 2*float64(k),
		nobs:  nobs,
	}, nil
}

// olsFit solves ordinary least squares via the normal equations; the design
// matrices here are tiny (a dozen columns at most).
func olsFit(y []float64, X [][]float64) (coefs, stderrs []float64, ssr float64, err error) {
	n := len(X)
	k := len(X[0])

	xtx := make([][]float64, k)
	xty := make([]float64, k)
	for i := 0; i < k; i++ {
		xtx[i] = make([]float64, k)
	}
	for r := 0; r < n; r++ {
		row := X[r]
		for i := 0; i < k; i++ {
			xty[i] += row[i] * y[r]
			for j := i; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	inv, err := invert(xtx)
	if err != nil {
		return nil, nil, 0, err
	}

	coefs = make([]float64, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			coefs[i] += inv[i][j] * xty[j]
		}
	}

	for r := 0; r < n; r++ {
		pred := 0.0
		for i := 0; i < k; i++ {
			pred += X[r][i] * coefs[i]
		}
		resid := y[r] - pred
		ssr += resid * resid
	}

	dof := n - k
	if dof <= 0 {
		return nil, nil, 0, fmt.Errorf("ols: no residual degrees of freedom: %w", ErrInsufficientData)
	}
	sigma2 := ssr / float64(dof)
	stderrs = make([]float64, k)
	for i := 0; i < k; i++ {
		stderrs[i] = math.Sqrt(sigma2 * inv[i][i])
	}
	return coefs, stderrs, ssr, nil
}

// invert performs Gauss-Jordan elimination with partial pivoting.
func invert(m [][]float64) ([][]float64, error) {
	k := len(m)
	a := make([][]float64, k)
	inv := make([][]float64, k)
	for i := 0; i < k; i++ {
		a[i] = append([]float64(nil), m[i]...)
		inv[i] = make([]float64, k)
		inv[i][i] = 1
	}
	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular design matrix: %w", ErrDegenerateInput)
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		p := a[col][col]
		for j := 0; j < k; j++ {
			a[col][j] /= p
			inv[col][j] /= p
		}
		for r := 0; r < k; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for j := 0; j < k; j++ {
				a[r][j] -= f * a[col][j]
				inv[r][j] -= f * inv[col][j]
			}
		}
	}
	return inv, nil
}

// MacKinnon (1994) response surface for the tau distribution with constant.
var (
	tauStarC  = -1.61
	tauMinC   = -18.83
	tauMaxC   = 2.74
	tauSmallC = []float64{2.1659, 1.4412, 0.038269}
	tauLargeC = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

// mackinnonP approximates the p-value of an ADF tau statistic against the
// non-standard Dickey-Fuller distribution (constant-only regression).
func mackinnonP(stat float64) float64 {
	switch {
	case stat > tauMaxC:
		return 1.0
	case stat < tauMinC:
		return 0.0
	}
	coefs := tauLargeC
	if stat <= tauStarC {
		coefs = tauSmallC
	}
	z := 0.0
	for i := len(coefs) - 1; i >= 0; i-- {
		z = z*stat + coefs[i]
	}
	return normCDF(z)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
