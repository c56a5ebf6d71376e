package recycle

import (
	"math"

	"github.com/ajitpratap0/recycle/pkg/errors"
)

// DefaultBucketSize is the bucket length used when no growth option is given.
const DefaultBucketSize = 128

// ArrayProducer returns the backing array for bucket number x. The stack
// calls it with a monotonically increasing index (0 for the first bucket),
// so implementations control how bucket sizes grow without the stack knowing
// the curve. Produced arrays must have length >= 1.
type ArrayProducer[T any] func(x int) []T

// ConstantProducer returns a producer whose buckets all have the same length.
func ConstantProducer[T any](bucketSize int) (ArrayProducer[T], error) {
	if bucketSize < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "bucket size must be at least 1").
			WithDetail("bucket_size", bucketSize)
	}
	return func(int) []T {
		return make([]T, bucketSize)
	}, nil
}

// LinearProducer returns a producer whose bucket lengths grow linearly:
// the bucket at index x has length slope*x + intercept.
func LinearProducer[T any](slope, intercept int) (ArrayProducer[T], error) {
	if slope < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "slope must be at least 1").
			WithDetail("slope", slope)
	}
	if intercept < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "intercept must be at least 1").
			WithDetail("intercept", intercept)
	}
	return func(x int) []T {
		return make([]T, slope*x+intercept)
	}, nil
}

// ExponentialProducer returns a producer whose bucket lengths grow
// exponentially: the bucket at index x has length coefficient * base^x,
// truncated to an int.
func ExponentialProducer[T any](coefficient int, base float64) (ArrayProducer[T], error) {
	if coefficient < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "coefficient must be at least 1").
			WithDetail("coefficient", coefficient)
	}
	if base < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "base must be at least 1").
			WithDetail("base", base)
	}
	return func(x int) []T {
		return make([]T, int(float64(coefficient)*math.Pow(base, float64(x))))
	}, nil
}
