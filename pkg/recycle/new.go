package recycle

// settings collects New's configuration before the recycler is built.
// Option constructors that validate eagerly park their error here so New can
// surface it.
type settings[T any] struct {
	producer ArrayProducer[T]
	policy   RetentionPolicy
	err      error
}

// Option configures a recycler created by New.
type Option[T any] func(*settings[T])

// WithBucketSize sets a constant bucket length. The default is
// DefaultBucketSize.
func WithBucketSize[T any](size int) Option[T] {
	return func(s *settings[T]) {
		p, err := ConstantProducer[T](size)
		if err != nil {
			s.err = err
			return
		}
		s.producer = p
	}
}

// WithLinearGrowth makes bucket lengths grow linearly: slope*x + intercept
// for bucket index x.
func WithLinearGrowth[T any](slope, intercept int) Option[T] {
	return func(s *settings[T]) {
		p, err := LinearProducer[T](slope, intercept)
		if err != nil {
			s.err = err
			return
		}
		s.producer = p
	}
}

// WithExponentialGrowth makes bucket lengths grow exponentially:
// coefficient * base^x for bucket index x.
func WithExponentialGrowth[T any](coefficient int, base float64) Option[T] {
	return func(s *settings[T]) {
		p, err := ExponentialProducer[T](coefficient, base)
		if err != nil {
			s.err = err
			return
		}
		s.producer = p
	}
}

// WithProducer supplies a custom bucket array producer.
func WithProducer[T any](producer ArrayProducer[T]) Option[T] {
	return func(s *settings[T]) {
		s.producer = producer
	}
}

// WithPolicy sets the retention policy. The default is RetainAll.
func WithPolicy[T any](policy RetentionPolicy) Option[T] {
	return func(s *settings[T]) {
		s.policy = policy
	}
}

// New creates a recycler whose empty Gets are satisfied by supplier.
// Without options it uses constant buckets of DefaultBucketSize and the
// RetainAll policy.
func New[T any](supplier func() T, opts ...Option[T]) (Recycler[T], error) {
	s := settings[T]{policy: RetainAll}
	s.producer, s.err = ConstantProducer[T](DefaultBucketSize)

	for _, opt := range opts {
		opt(&s)
	}
	if s.err != nil {
		return nil, s.err
	}

	return NewRecycler(s.producer, s.policy, supplier)
}
