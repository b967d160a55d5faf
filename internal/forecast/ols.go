package forecast

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var errZeroVariance = errors.New("series has no variance")

// fitLeastSquares solves the ordinary least squares problem for the given
// design matrix rows and observations, returning the coefficient vector and
// the population standard deviation of the in-sample residuals. A singular or
// near-singular design surfaces as an error, which the cascade treats as a
// strategy failure.
func fitLeastSquares(rows [][]float64, y []float64) ([]float64, float64, error) {
	n := len(rows)
	if n == 0 || n != len(y) {
		return nil, 0, fmt.Errorf("least squares: %d rows for %d observations", n, len(y))
	}
	cols := len(rows[0])
	if n <= cols {
		return nil, 0, fmt.Errorf("least squares: %d observations cannot determine %d coefficients", n, cols)
	}

	design := mat.NewDense(n, cols, nil)
	for i, row := range rows {
		design.SetRow(i, row)
	}
	obs := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, obs); err != nil {
		return nil, 0, fmt.Errorf("least squares solve: %w", err)
	}

	coeffs := make([]float64, cols)
	for i := range coeffs {
		coeffs[i] = beta.AtVec(i)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)

	resid := make([]float64, n)
	copy(resid, y)
	floats.Sub(resid, fitted.RawVector().Data)

	return coeffs, stat.PopStdDev(resid, nil), nil
}
