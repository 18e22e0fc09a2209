// Package earnings derives delivery economics from the order total.
package earnings

const (
	baseFee         = 30.0
	feeThreshold    = 500.0
	feeRate         = 0.02
	baseEarning     = 10.0
	feeShare        = 0.8
	bonusThreshold  = 1000.0
	largeOrderBonus = 20.0
)

// DeliveryFee returns the fee charged for delivering an order of the given total.
func DeliveryFee(orderTotal float64) float64 {
	if orderTotal > feeThreshold {
		return baseFee + orderTotal*feeRate
	}
	return baseFee
}

// CourierEarning returns the courier payout for a delivery.
func CourierEarning(deliveryFee, orderTotal float64) float64 {
	earning := baseEarning + deliveryFee*feeShare
	if orderTotal > bonusThreshold {
		earning += largeOrderBonus
	}
	return earning
}

// Calculator freezes economics at assignment time.
type Calculator interface {
	Compute(orderTotal float64) (fee, earning float64)
}

// Default is the current fee policy.
type Default struct{}

// Compute returns the delivery fee and courier earning for the total.
func (Default) Compute(orderTotal float64) (float64, float64) {
	fee := DeliveryFee(orderTotal)
	return fee, CourierEarning(fee, orderTotal)
}
