package mtransport

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// amqpHeaderCarrier adapts an amqp091-go header table to otel's TextMapCarrier
// so trace context can ride along with a published message, per spec.md §6
// ("Headers carry a text-map trace context").
type amqpHeaderCarrier map[string]any

func (c amqpHeaderCarrier) Get(key string) string {
	v, ok := c[key]
	if !ok {
		return ""
	}

	s, _ := v.(string)

	return s
}

func (c amqpHeaderCarrier) Set(key, value string) {
	c[key] = value
}

func (c amqpHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}

	return keys
}

// InjectHeaders writes the current span context from ctx into an AMQP
// header table, reusing the same propagation context across a fan-out.
func InjectHeaders(ctx context.Context, headers map[string]any) map[string]any {
	if headers == nil {
		headers = map[string]any{}
	}

	otel.GetTextMapPropagator().Inject(ctx, amqpHeaderCarrier(headers))

	return headers
}

// ExtractContext rebuilds a trace-carrying context from an inbound
// message's AMQP header table.
func ExtractContext(ctx context.Context, headers map[string]any) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, amqpHeaderCarrier(headers))
}
