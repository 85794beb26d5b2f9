package dyngeo

import (
	"log/slog"

	"golang.org/x/time/rate"
)

// Defaults mirror the attribute layout documented in doc.go.
const (
	DefaultHashKeyAttributeName  = "hashKey"
	DefaultRangeKeyAttributeName = "rangeKey"
	DefaultGeohashAttributeName  = "geohash"
	DefaultGeoJSONAttributeName  = "geoJson"
	DefaultGeohashIndexName      = "geohash-index"

	// DefaultHashKeyLength is the number of leading geohash digits kept as
	// the hash key.
	DefaultHashKeyLength = 6

	// DefaultMaxFanOut caps the number of parallel store queries a single
	// radius/rectangle query may issue.
	DefaultMaxFanOut = 128
)

type options struct {
	hashKeyAttributeName  string
	rangeKeyAttributeName string
	geohashAttributeName  string
	geoJSONAttributeName  string
	geohashIndexName      string
	hashKeyLength         int
	maxFanOut             int
	consistentRead        bool
	pageLimiter           *rate.Limiter
	logger                *Logger
	metrics               MetricsCollector
}

// Option configures a DynGeo at construction time. The resulting
// configuration is immutable; mutating it afterwards is not supported.
type Option func(*options)

// WithAttributeNames overrides the managed attribute names. Empty strings
// keep the corresponding default.
func WithAttributeNames(hashKey, rangeKey, geohash, geoJSON string) Option {
	return func(o *options) {
		if hashKey != "" {
			o.hashKeyAttributeName = hashKey
		}
		if rangeKey != "" {
			o.rangeKeyAttributeName = rangeKey
		}
		if geohash != "" {
			o.geohashAttributeName = geohash
		}
		if geoJSON != "" {
			o.geoJSONAttributeName = geoJSON
		}
	}
}

// WithGeohashIndexName sets the name of the secondary index keyed by the
// geohash attribute.
func WithGeohashIndexName(name string) Option {
	return func(o *options) {
		o.geohashIndexName = name
	}
}

// WithHashKeyLength sets how many leading decimal digits of the geohash form
// the hash key. Longer hash keys mean more partitions and smaller range scans
// per partition, but a query region then splits into more parallel queries.
//
// The hash key length must match the one the table was populated with;
// changing it on an existing table orphans previously written rows.
func WithHashKeyLength(length int) Option {
	return func(o *options) {
		o.hashKeyLength = length
	}
}

// WithMaxFanOut sets the ceiling on parallel store queries per radius or
// rectangle query. Queries whose covering needs more plans fail with
// *ErrFanOutExceeded before any store call is issued. Zero disables the
// cap.
func WithMaxFanOut(n int) Option {
	return func(o *options) {
		o.maxFanOut = n
	}
}

// WithConsistentRead toggles strongly consistent reads on queries and gets.
// Consistent reads require the geohash index to be a local secondary index.
func WithConsistentRead(consistent bool) Option {
	return func(o *options) {
		o.consistentRead = consistent
	}
}

// WithPageRateLimit limits the rate of store page requests issued by fan-out
// queries, across all plans of all in-flight queries. Zero or negative qps
// disables limiting.
//
// Retries and timeouts are the SDK client's concern; this limiter only
// paces dyngeo's own request rate.
func WithPageRateLimit(qps float64, burst int) Option {
	return func(o *options) {
		if qps <= 0 {
			o.pageLimiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.pageLimiter = rate.NewLimiter(rate.Limit(qps), burst)
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		hashKeyAttributeName:  DefaultHashKeyAttributeName,
		rangeKeyAttributeName: DefaultRangeKeyAttributeName,
		geohashAttributeName:  DefaultGeohashAttributeName,
		geoJSONAttributeName:  DefaultGeoJSONAttributeName,
		geohashIndexName:      DefaultGeohashIndexName,
		hashKeyLength:         DefaultHashKeyLength,
		maxFanOut:             DefaultMaxFanOut,
		consistentRead:        true,
		logger:                NoopLogger(),
		metrics:               NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
