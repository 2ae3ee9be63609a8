package main

import (
	"math/rand"
	"time"
)

// osRNG is the zscreen.RNG implementation backed by math/rand, grounded on
// the teacher's rand.Rand field in ZMachine.
type osRNG struct {
	r *rand.Rand
}

func newOSRNG() *osRNG {
	return &osRNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (o *osRNG) Seed(value int64) {
	o.r = rand.New(rand.NewSource(value))
}

func (o *osRNG) ReseedOS() {
	o.r = rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (o *osRNG) Next(rangeN uint16) uint16 {
	return uint16(o.r.Int31n(int32(rangeN))) + 1
}
