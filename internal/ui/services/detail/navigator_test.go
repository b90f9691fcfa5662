package detail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgrip/internal/backend"
	"assetgrip/internal/domain"
	"assetgrip/internal/ui/services/browse"
)

func obj(id int) domain.AssetRef {
	return domain.AssetRef{Category: domain.CategoryObjects, ID: id}
}

func setup(t *testing.T, invoker backend.Invoker, mem *backend.MemoryCatalog, n int) (*Navigator, *browse.Service) {
	t.Helper()
	apps := make([]domain.Appearance, n)
	for i := range apps {
		apps[i] = domain.Appearance{ID: 1 + i, Name: "thing"}
	}
	mem.AddAppearances(domain.CategoryObjects, apps...)

	client := backend.NewClient(invoker)
	b := browse.NewService(client, nil, nil, nil, 10)
	require.NoError(t, b.OpenCategory(context.Background(), domain.CategoryObjects))
	return NewNavigator(b, client, nil), b
}

func TestNavigateWithinPageDoesNotRefetch(t *testing.T) {
	mem := backend.NewMemoryCatalog()
	nav, _ := setup(t, mem, mem, 25)
	ctx := context.Background()

	require.NoError(t, nav.Open(ctx, obj(3)))
	calls := mem.Calls(backend.CmdListAppearancesByCategory)

	ok, err := nav.NavigateAdjacent(ctx, Next)
	require.NoError(t, err)
	assert.True(t, ok)
	cur, _ := nav.Current()
	assert.Equal(t, obj(4), cur)

	ok, err = nav.NavigateAdjacent(ctx, Previous)
	require.NoError(t, err)
	assert.True(t, ok)
	cur, _ = nav.Current()
	assert.Equal(t, obj(3), cur)

	assert.Equal(t, calls, mem.Calls(backend.CmdListAppearancesByCategory))
}

func TestNavigateCrossesPageBoundaries(t *testing.T) {
	mem := backend.NewMemoryCatalog()
	nav, b := setup(t, mem, mem, 25)
	ctx := context.Background()

	require.NoError(t, nav.Open(ctx, obj(10)))
	ok, err := nav.NavigateAdjacent(ctx, Next)
	require.NoError(t, err)
	require.True(t, ok)
	cur, _ := nav.Current()
	assert.Equal(t, obj(11), cur, "first item of the next page")
	assert.Equal(t, 1, b.State().Page)

	ok, err = nav.NavigateAdjacent(ctx, Previous)
	require.NoError(t, err)
	require.True(t, ok)
	cur, _ = nav.Current()
	assert.Equal(t, obj(10), cur, "last item of the previous page")
	assert.Equal(t, 0, b.State().Page)
}

func TestNavigateStopsAtEnds(t *testing.T) {
	mem := backend.NewMemoryCatalog()
	nav, b := setup(t, mem, mem, 25)
	ctx := context.Background()

	require.NoError(t, nav.Open(ctx, obj(1)))
	ok, err := nav.NavigateAdjacent(ctx, Previous)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ButtonState{HasPrev: false, HasNext: true}, nav.Buttons())

	_, err = b.ChangePage(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, nav.Open(ctx, obj(25)))
	ok, err = nav.NavigateAdjacent(ctx, Next)
	require.NoError(t, err)
	assert.False(t, ok)
	cur, _ := nav.Current()
	assert.Equal(t, obj(25), cur)
	assert.Equal(t, ButtonState{HasPrev: true, HasNext: false}, nav.Buttons())
}

func TestNavigateSingleFlight(t *testing.T) {
	mem := backend.NewMemoryCatalog()
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	blocking := false
	invoker := backend.InvokerFunc(func(ctx context.Context, command string, args map[string]any, out any) error {
		if blocking && command == backend.CmdGetCompleteAppearance {
			entered <- struct{}{}
			<-release
		}
		return mem.Invoke(ctx, command, args, out)
	})
	nav, _ := setup(t, invoker, mem, 25)
	ctx := context.Background()
	require.NoError(t, nav.Open(ctx, obj(3)))

	blocking = true
	done := make(chan bool, 1)
	go func() {
		ok, _ := nav.NavigateAdjacent(ctx, Next)
		done <- ok
	}()
	<-entered
	assert.True(t, nav.IsNavigating())

	ok, err := nav.NavigateAdjacent(ctx, Next)
	require.NoError(t, err)
	assert.False(t, ok, "concurrent move is dropped")

	close(release)
	assert.True(t, <-done)
	assert.False(t, nav.IsNavigating())
	cur, _ := nav.Current()
	assert.Equal(t, obj(4), cur, "only one step taken")
}

func TestNavigateErrorKeepsPointer(t *testing.T) {
	mem := backend.NewMemoryCatalog()
	nav, b := setup(t, mem, mem, 25)
	ctx := context.Background()
	require.NoError(t, nav.Open(ctx, obj(10)))

	mem.FailOn(backend.CmdListAppearancesByCategory, errors.New("timeout"))
	ok, err := nav.NavigateAdjacent(ctx, Next)
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, nav.IsNavigating(), "flag released after failure")

	cur, _ := nav.Current()
	assert.Equal(t, obj(10), cur)
	assert.Equal(t, 0, b.State().Page)
	assert.Equal(t, ButtonState{HasPrev: true, HasNext: true}, nav.Buttons())

	mem.FailOn(backend.CmdListAppearancesByCategory, nil)
	mem.FailOn(backend.CmdGetCompleteAppearance, errors.New("corrupt"))
	ok, err = nav.NavigateAdjacent(ctx, Previous)
	require.Error(t, err)
	assert.False(t, ok)
	cur, _ = nav.Current()
	assert.Equal(t, obj(10), cur)

	// the next page loads but its first record does not
	ok, err = nav.NavigateAdjacent(ctx, Next)
	require.Error(t, err)
	assert.False(t, ok)
	cur, _ = nav.Current()
	assert.Equal(t, obj(10), cur)
	assert.Equal(t, 0, b.State().Page, "page turned back")
	assert.Contains(t, b.Rendered(), obj(10))
	assert.Equal(t, ButtonState{HasPrev: true, HasNext: true}, nav.Buttons())

	mem.FailOn(backend.CmdGetCompleteAppearance, nil)
	ok, err = nav.NavigateAdjacent(ctx, Next)
	require.NoError(t, err)
	assert.True(t, ok)
	cur, _ = nav.Current()
	assert.Equal(t, obj(11), cur)
}

func TestDeriveButtons(t *testing.T) {
	tests := []struct {
		name         string
		index        int
		length       int
		sameCategory bool
		page         int
		totalPages   int
		want         ButtonState
	}{
		{"middle of page", 4, 10, true, 0, 1, ButtonState{HasPrev: true, HasNext: true}},
		{"first of first page", 0, 10, true, 0, 3, ButtonState{HasPrev: false, HasNext: true}},
		{"first of later page", 0, 10, true, 1, 3, ButtonState{HasPrev: true, HasNext: true}},
		{"last of last page", 9, 10, true, 2, 3, ButtonState{HasPrev: true, HasNext: false}},
		{"last of earlier page", 9, 10, true, 1, 3, ButtonState{HasPrev: true, HasNext: true}},
		{"other category at edge", 9, 10, false, 1, 3, ButtonState{HasPrev: true, HasNext: false}},
		{"not rendered", -1, 10, true, 1, 3, ButtonState{HasPrev: true, HasNext: false}},
		{"single item", 0, 1, true, 0, 1, ButtonState{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveButtons(tt.index, tt.length, tt.sameCategory, tt.page, tt.totalPages))
		})
	}
}

func TestOpenSoundFromListing(t *testing.T) {
	mem := backend.NewDemoCatalog()
	client := backend.NewClient(mem)
	b := browse.NewService(client, nil, nil, nil, 10)
	ctx := context.Background()
	require.NoError(t, b.OpenCategoryWithSubcategory(ctx, domain.CategorySounds, domain.SubcategoryMusicTemplates))

	nav := NewNavigator(b, client, nil)
	require.NoError(t, nav.Open(ctx, domain.AssetRef{Category: domain.CategorySounds, ID: 2}))
	rec, ok := nav.Record()
	require.True(t, ok)
	assert.Equal(t, "music template 2", rec.Name)
	assert.Equal(t, 0, mem.Calls(backend.CmdGetNumericSoundEffectByID))

	require.NoError(t, b.SwitchSubcategory(ctx, domain.SubcategoryAll))
	require.NoError(t, nav.Open(ctx, domain.AssetRef{Category: domain.CategorySounds, ID: 7}))
	assert.Equal(t, 1, mem.Calls(backend.CmdGetNumericSoundEffectByID))
}
