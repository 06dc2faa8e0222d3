package service

import "lukechampine.com/frand"

type frandSource struct{}

// NewRandom returns a Random backed by frand.
func NewRandom() Random {
	return frandSource{}
}

func (frandSource) Intn(n int) int {
	return frand.Intn(n)
}
