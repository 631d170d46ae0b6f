package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// seasonality is a Fourier series component with a period in days.
type seasonality struct {
	name   string
	period float64
	order  int
}

const oneDay = 24 * time.Hour

// seasonalPenalty is the ridge weight on Fourier coefficients, in scaled units.
const seasonalPenalty = 0.01

var (
	weeklySeasonality = seasonality{name: "weekly", period: 7, order: 3}
	yearlySeasonality = seasonality{name: "yearly", period: 365.25, order: 10}
)

// additiveModel is y(t) = trend(t) + Σ seasonality(t), fitted by least squares.
// Time is scaled to [0, 1] over the history and y by its largest magnitude.
type additiveModel struct {
	start         time.Time
	span          float64
	yScale        float64
	seasonalities []seasonality

	beta  []float64
	sigma float64
}

func newAdditiveModel(history []Observation) *additiveModel {
	start := history[0].DS
	span := history[len(history)-1].DS.Sub(start)
	spacing := minSpacing(history)

	yScale := 0.0
	for _, obs := range history {
		yScale = math.Max(yScale, math.Abs(obs.Y))
	}
	if yScale == 0 {
		yScale = 1
	}

	m := &additiveModel{
		start:  start,
		span:   span.Seconds(),
		yScale: yScale,
	}
	// A seasonality needs a long enough history and samples finer than its period.
	if span >= 14*oneDay && spacing < 7*oneDay {
		m.seasonalities = append(m.seasonalities, weeklySeasonality)
	}
	if span >= 730*oneDay && spacing < 365*oneDay {
		m.seasonalities = append(m.seasonalities, yearlySeasonality)
	}
	// Keep more rows than coefficients.
	for len(m.seasonalities) > 0 && m.columns() >= len(history) {
		m.seasonalities = m.seasonalities[:len(m.seasonalities)-1]
	}
	return m
}

// minSpacing is the smallest positive gap between consecutive sorted dates.
func minSpacing(history []Observation) time.Duration {
	var spacing time.Duration
	for i := 1; i < len(history); i++ {
		gap := history[i].DS.Sub(history[i-1].DS)
		if gap > 0 && (spacing == 0 || gap < spacing) {
			spacing = gap
		}
	}
	return spacing
}

func (m *additiveModel) columns() int {
	p := 2
	for _, s := range m.seasonalities {
		p += 2 * s.order
	}
	return p
}

// scaledTime is 0 at the first observation and 1 at the last.
func (m *additiveModel) scaledTime(ds time.Time) float64 {
	return ds.Sub(m.start).Seconds() / m.span
}

func (m *additiveModel) features(ds time.Time) []float64 {
	row := make([]float64, 0, m.columns())
	row = append(row, 1, m.scaledTime(ds))

	days := float64(ds.Unix()) / 86400
	for _, s := range m.seasonalities {
		for k := 1; k <= s.order; k++ {
			x := 2 * math.Pi * float64(k) * days / s.period
			row = append(row, math.Sin(x), math.Cos(x))
		}
	}
	return row
}

// fit solves the penalised least-squares problem. A rank-deficient design
// sheds its seasonalities one at a time before giving up.
func (m *additiveModel) fit(history []Observation) error {
	for {
		err := m.solve(history)
		if err == nil {
			return nil
		}
		var cond mat.Condition
		if !errors.As(err, &cond) || len(m.seasonalities) == 0 {
			return fmt.Errorf("failed to fit forecast model: %w", err)
		}
		m.seasonalities = m.seasonalities[:len(m.seasonalities)-1]
	}
}

// solve fits beta with a ridge penalty on every seasonal column so that
// near-collinear Fourier terms stay bounded.
func (m *additiveModel) solve(history []Observation) error {
	n, p := len(history), m.columns()
	penalised := p - 2

	x := mat.NewDense(n+penalised, p, nil)
	y := mat.NewVecDense(n+penalised, nil)
	for i, obs := range history {
		x.SetRow(i, m.features(obs.DS))
		y.SetVec(i, obs.Y/m.yScale)
	}
	weight := math.Sqrt(seasonalPenalty)
	for j := 0; j < penalised; j++ {
		x.Set(n+j, 2+j, weight)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return err
	}

	m.beta = make([]float64, p)
	sse := 0.0
	for i := range m.beta {
		m.beta[i] = beta.AtVec(i)
	}
	for _, obs := range history {
		r := obs.Y/m.yScale - floats.Dot(m.features(obs.DS), m.beta)
		sse += r * r
	}
	m.sigma = 0
	if dof := n - p; dof > 0 {
		m.sigma = math.Sqrt(sse/float64(dof)) * m.yScale
	}
	return nil
}

func (m *additiveModel) predict(ds time.Time) float64 {
	return floats.Dot(m.features(ds), m.beta) * m.yScale
}

// intervalScale widens the interval for points beyond the history.
func (m *additiveModel) intervalScale(ds time.Time) float64 {
	t := m.scaledTime(ds)
	if t <= 1 {
		return 1
	}
	return math.Sqrt(t)
}
