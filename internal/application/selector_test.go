package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-mcp/internal/domain/entity"
	"vision-mcp/internal/domain/port"
)

func TestProviderSelector_Primary(t *testing.T) {
	anthropic := &fakeDescriber{name: "anthropic"}
	sel := NewProviderSelector(
		entity.ProviderChoice{Primary: "Anthropic"},
		map[string]port.DescriberFactory{"anthropic": factoryOf(anthropic)},
		nil, testLogger(),
	)

	d, err := sel.Select(context.Background())
	require.NoError(t, err)
	require.Equal(t, "anthropic", d.Name())
}

func TestProviderSelector_UnknownProviderWithoutFallback(t *testing.T) {
	sel := NewProviderSelector(
		entity.ProviderChoice{Primary: "badvalue"},
		map[string]port.DescriberFactory{"openai": factoryOf(&fakeDescriber{name: "openai"})},
		nil, testLogger(),
	)

	_, err := sel.Select(context.Background())
	require.ErrorIs(t, err, entity.ErrConfiguration)
	require.Contains(t, err.Error(), "badvalue")
}

func TestProviderSelector_UnknownProviderWithFallback(t *testing.T) {
	var logs bytes.Buffer
	recorder := newFakeRecorder()
	sel := NewProviderSelector(
		entity.ProviderChoice{Primary: "badvalue", Fallback: "openai"},
		map[string]port.DescriberFactory{"openai": factoryOf(&fakeDescriber{name: "openai"})},
		recorder, bufferLogger(&logs),
	)

	d, err := sel.Select(context.Background())
	require.NoError(t, err)
	require.Equal(t, "openai", d.Name())
	require.Contains(t, logs.String(), "attempting fallback provider")
	require.Contains(t, logs.String(), "level=WARN")
	require.Equal(t, []string{"badvalue->openai"}, recorder.fallbacks)
}

func TestProviderSelector_ConstructionFailureUsesFallback(t *testing.T) {
	sel := NewProviderSelector(
		entity.ProviderChoice{Primary: "anthropic", Fallback: "openai"},
		map[string]port.DescriberFactory{
			"anthropic": failingFactory(errors.New("missing key")),
			"openai":    factoryOf(&fakeDescriber{name: "openai"}),
		},
		nil, testLogger(),
	)

	d, err := sel.Select(context.Background())
	require.NoError(t, err)
	require.Equal(t, "openai", d.Name())
}

func TestProviderSelector_FallbackFailureReturnsPrimaryError(t *testing.T) {
	primaryErr := errors.New("anthropic: missing key")
	sel := NewProviderSelector(
		entity.ProviderChoice{Primary: "anthropic", Fallback: "openai"},
		map[string]port.DescriberFactory{
			"anthropic": failingFactory(primaryErr),
			"openai":    failingFactory(errors.New("openai: missing key")),
		},
		nil, testLogger(),
	)

	_, err := sel.Select(context.Background())
	require.ErrorIs(t, err, primaryErr)
}

func TestProviderSelector_SameFallbackIsIgnored(t *testing.T) {
	calls := 0
	factory := func() (port.ImageDescriber, error) {
		calls++
		return nil, errors.New("boom")
	}
	sel := NewProviderSelector(
		entity.ProviderChoice{Primary: "openai", Fallback: "OpenAI"},
		map[string]port.DescriberFactory{"openai": factory},
		nil, testLogger(),
	)

	_, err := sel.Select(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestProviderSelector_BuildsFreshEachCall(t *testing.T) {
	calls := 0
	factory := func() (port.ImageDescriber, error) {
		calls++
		return &fakeDescriber{name: "anthropic"}, nil
	}
	sel := NewProviderSelector(
		entity.ProviderChoice{Primary: "anthropic"},
		map[string]port.DescriberFactory{"anthropic": factory},
		nil, testLogger(),
	)

	for i := 0; i < 3; i++ {
		_, err := sel.Select(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 3, calls)
}
