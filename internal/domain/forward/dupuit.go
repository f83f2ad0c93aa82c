package forward

import (
	"math"

	"github.com/okian/drawdown/internal/domain/model"
)

// DupuitForchheimer is the steady unconfined head profile around a well
// balanced by areal recharge.
type DupuitForchheimer struct {
	Discharge    float64
	Recharge     float64
	Conductivity float64
	InitialHead  float64
}

// NewDupuitForchheimer builds the profile from test parameters.
func NewDupuitForchheimer(t model.TestParameters) DupuitForchheimer {
	return DupuitForchheimer{
		Discharge:    t.Discharge,
		Recharge:     t.Recharge,
		Conductivity: t.Conductivity,
		InitialHead:  t.InitialHead,
	}
}

// RadiusOfInfluence returns r0 = sqrt((Q/R)/π).
func (d DupuitForchheimer) RadiusOfInfluence() float64 {
	return math.Sqrt((d.Discharge / d.Recharge) / math.Pi)
}

// Head returns h(r) = sqrt(h0² − Q·ln(r0/r)/(Kπ)) for 0 < r < r0 and h0
// otherwise, including r = 0. The second value is true when the radicand is
// negative, in which case the head is clamped to zero.
func (d DupuitForchheimer) Head(r float64) (float64, bool) {
	r0 := d.RadiusOfInfluence()
	if r >= r0 || r <= 0 {
		return d.InitialHead, false
	}
	sq := d.InitialHead*d.InitialHead - d.Discharge*math.Log(r0/r)/(d.Conductivity*math.Pi)
	if sq < 0 {
		return 0, true
	}
	return math.Sqrt(sq), false
}

// Drawdown returns h0 − h(r).
func (d DupuitForchheimer) Drawdown(r float64) float64 {
	h, _ := d.Head(r)
	return d.InitialHead - h
}
