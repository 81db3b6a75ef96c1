package gateway

import (
	"context"
	"math/rand"
	"time"

	"order-desk/internal/domain"
)

// PaymentProcessor settles a pending payment and reports the resulting status.
type PaymentProcessor interface {
	Process(ctx context.Context, payment *domain.Payment) (domain.PaymentStatus, error)
}

// SimulatedProcessor stands in for a real gateway: it blocks for a random
// delay below maxDelay and always completes the payment.
type SimulatedProcessor struct {
	maxDelay time.Duration
	sleep    func(time.Duration)
}

func NewSimulatedProcessor(maxDelay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{maxDelay: maxDelay, sleep: time.Sleep}
}

var _ PaymentProcessor = (*SimulatedProcessor)(nil)

// Process ignores ctx on purpose: the simulated settlement cannot be cancelled.
func (p *SimulatedProcessor) Process(_ context.Context, _ *domain.Payment) (domain.PaymentStatus, error) {
	p.sleep(p.delay())
	return domain.PaymentCompleted, nil
}

func (p *SimulatedProcessor) delay() time.Duration {
	if p.maxDelay <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(p.maxDelay)))
}
