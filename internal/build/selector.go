// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
)

type (
	// Selector resolves the builder for a strategy. Containerized builders need an
	// engine, so resolution happens only once the strategy is known.
	Selector interface {
		Builder(ctx context.Context, s Strategy) (Builder, error)
	}

	// SelectorFunc adapts a function to the Selector interface.
	SelectorFunc func(ctx context.Context, s Strategy) (Builder, error)

	// Static is a Selector over builders constructed up front.
	Static struct {
		Containerized Builder
		Local         Builder
	}
)

// Builder calls f.
func (f SelectorFunc) Builder(ctx context.Context, s Strategy) (Builder, error) {
	return f(ctx, s)
}

// Builder returns the configured builder for s.
func (st Static) Builder(_ context.Context, s Strategy) (Builder, error) {
	var b Builder
	switch s {
	case StrategyContainerized:
		b = st.Containerized
	case StrategyLocal:
		b = st.Local
	}
	if b == nil {
		return nil, fmt.Errorf("no builder configured for %s strategy", s)
	}
	return b, nil
}
