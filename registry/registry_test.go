package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoddemus/lima/registry"
)

type stubDefinition struct{ name string }

func (d *stubDefinition) Name() string { return d.name }

func TestRegisterAndGet(t *testing.T) {
	r := registry.New()
	def := &stubDefinition{name: "pkg.Schema"}

	require.NoError(t, r.Register("pkg.Schema", def))

	got, err := r.Get("pkg.Schema")
	require.NoError(t, err)
	assert.Same(t, def, got)
}

func TestGetUnknownName(t *testing.T) {
	r := registry.New()

	_, err := r.Get("pkg.NeverRegistered")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRegisterTwice(t *testing.T) {
	r := registry.New()

	require.NoError(t, r.Register("pkg.Schema", &stubDefinition{name: "pkg.Schema"}))

	err := r.Register("pkg.Schema", &stubDefinition{name: "pkg.Schema"})
	assert.ErrorIs(t, err, registry.ErrAlreadyRegistered)
}

func TestRegisterEmptyName(t *testing.T) {
	r := registry.New()

	err := r.Register("", &stubDefinition{})
	assert.ErrorIs(t, err, registry.ErrEmptyName)
}

func TestNames(t *testing.T) {
	r := registry.New()

	require.NoError(t, r.Register("a.One", &stubDefinition{name: "a.One"}))
	require.NoError(t, r.Register("a.Two", &stubDefinition{name: "a.Two"}))

	assert.ElementsMatch(t, []string{"a.One", "a.Two"}, r.Names())
}

func TestConcurrentAccess(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register("pkg.Schema", &stubDefinition{name: "pkg.Schema"}))

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				_, err := r.Get("pkg.Schema")
				assert.NoError(t, err)
			}
		}()
	}

	wg.Wait()
}
