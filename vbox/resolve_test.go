package vbox_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/vbox"
)

func webDirectory(t *testing.T) *vbox.Directory {
	t.Helper()
	d, err := vbox.ParseDirectory(inventory(line("web-1", id1), line("web-2", id2), line("Database", id3)))
	require.NoError(t, err)
	return d
}

func TestResolve(t *testing.T) {
	d := webDirectory(t)

	tests := []struct {
		name     string
		sel      vbox.Selector
		multi    bool
		wantIDs  []string
		pattern  bool
		wantErr  error
		wantAmbi []string
	}{
		{name: "by id", sel: vbox.Selector{ID: id2}, wantIDs: []string{id2}},
		{name: "unknown id", sel: vbox.Selector{ID: "ffffffff-ffff-4fff-8fff-ffffffffffff"}, wantErr: vbox.ErrNotFound},
		{name: "exact name", sel: vbox.Selector{Name: "web-1", Exact: true}, wantIDs: []string{id1}},
		{name: "exact name is not a pattern", sel: vbox.Selector{Name: "web", Exact: true}, wantErr: vbox.ErrNotFound},
		{name: "pattern single", sel: vbox.Selector{Name: "web-1"}, wantIDs: []string{id1}, pattern: true},
		{name: "pattern case insensitive", sel: vbox.Selector{Name: "DATA"}, wantIDs: []string{id3}, pattern: true},
		{name: "pattern ambiguous", sel: vbox.Selector{Name: "web"}, wantAmbi: []string{"web-1", "web-2"}},
		{name: "pattern multi", sel: vbox.Selector{Name: "web"}, multi: true, wantIDs: []string{id1, id2}, pattern: true},
		{name: "pattern nothing", sel: vbox.Selector{Name: "nonexistent"}, wantErr: vbox.ErrNoMatch},
		{name: "bad pattern", sel: vbox.Selector{Name: "web["}, wantErr: vbox.ErrBadPattern},
		{name: "both", sel: vbox.Selector{ID: id1, Name: "web-1"}, wantErr: vbox.ErrConflictingSelector},
		{name: "neither", sel: vbox.Selector{}, wantErr: vbox.ErrNoSelector},
		{name: "all", sel: vbox.Selector{All: true}, multi: true, wantIDs: []string{id1, id2, id3}},
		{name: "all with name", sel: vbox.Selector{All: true, Name: "web"}, wantErr: vbox.ErrConflictingSelector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Resolve(tt.sel, tt.multi)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAmbi != nil:
				var ambi *vbox.AmbiguousError
				require.True(t, errors.As(err, &ambi), "got %v", err)
				assert.Equal(t, tt.wantAmbi, ambi.Names)
				assert.Contains(t, err.Error(), "--exact")
			default:
				require.NoError(t, err)
				var ids []string
				for _, vm := range res.Targets {
					ids = append(ids, vm.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
				assert.Equal(t, tt.pattern, res.ViaPattern)
			}
		})
	}
}

func TestResolveConflictIgnoresDirectory(t *testing.T) {
	empty, err := vbox.NewDirectory(nil)
	require.NoError(t, err)
	for _, d := range []*vbox.Directory{empty, webDirectory(t)} {
		_, err := d.Resolve(vbox.Selector{ID: "x", Name: "y"}, true)
		assert.ErrorIs(t, err, vbox.ErrConflictingSelector)
	}
}

func TestResolveAllEmpty(t *testing.T) {
	empty, err := vbox.NewDirectory(nil)
	require.NoError(t, err)
	_, err = empty.Resolve(vbox.Selector{All: true}, true)
	assert.ErrorIs(t, err, vbox.ErrNoMatch)
}

func TestNeedsConfirmation(t *testing.T) {
	d := webDirectory(t)

	res, err := d.Resolve(vbox.Selector{ID: id1}, false)
	require.NoError(t, err)
	assert.False(t, res.NeedsConfirmation())

	res, err = d.Resolve(vbox.Selector{Name: "web-1"}, false)
	require.NoError(t, err)
	assert.True(t, res.NeedsConfirmation())

	res, err = d.Resolve(vbox.Selector{All: true}, true)
	require.NoError(t, err)
	assert.True(t, res.NeedsConfirmation())
}
