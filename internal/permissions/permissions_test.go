/*
 * MIT License
 *
 * Copyright (c) 2024 EASL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package permissions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	Set
}

func (f *failingStore) Load(_ context.Context) (Set, error) {
	return f.Set, nil
}

func (f *failingStore) Save(_ context.Context, _ Set) error {
	return errors.New("disk full")
}

func TestEmptySetAllowsEveryone(t *testing.T) {
	checker, err := NewChecker(context.Background(), &FileStore{Path: filepath.Join(t.TempDir(), "settings.json")})
	require.NoError(t, err)

	assert.True(t, checker.Allowed("1", nil))
	assert.False(t, checker.Authorized("1", nil))
}

func TestAllowedByUserOrRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"authorized_roles": [111], "authorized_users": [222]}`), 0600))

	checker, err := NewChecker(context.Background(), &FileStore{Path: path})
	require.NoError(t, err)

	assert.True(t, checker.Allowed("222", nil), "listed user")
	assert.True(t, checker.Allowed("999", []string{"5", "111"}), "listed role")
	assert.False(t, checker.Allowed("999", []string{"5"}), "unlisted user and roles")
	assert.False(t, checker.Allowed("not-a-number", nil))

	assert.True(t, checker.Authorized("222", nil))
	assert.True(t, checker.Authorized("999", []string{"111"}))
	assert.False(t, checker.Authorized("999", []string{"5"}))
}

func TestAddPersistsAndDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := &FileStore{Path: filepath.Join(t.TempDir(), "nested", "settings.json")}

	checker, err := NewChecker(ctx, store)
	require.NoError(t, err)

	require.NoError(t, checker.AddRoles(ctx, 10, 11, 10))
	require.NoError(t, checker.AddUsers(ctx, 20))
	require.NoError(t, checker.AddUsers(ctx, 20))

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, saved.RoleIDs)
	assert.Equal(t, []int64{20}, saved.UserIDs)
	assert.Equal(t, saved, checker.Snapshot())
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	ctx := context.Background()
	store := &FileStore{Path: filepath.Join(t.TempDir(), "settings.json")}

	checker, err := NewChecker(ctx, store)
	require.NoError(t, err)
	assert.True(t, checker.Allowed("7", nil))

	require.NoError(t, store.Save(ctx, Set{UserIDs: []int64{8}}))
	require.NoError(t, checker.Reload(ctx))

	assert.False(t, checker.Allowed("7", nil))
	assert.True(t, checker.Allowed("8", nil))
}

func TestFailedSaveKeepsPreviousSet(t *testing.T) {
	ctx := context.Background()

	checker, err := NewChecker(ctx, &failingStore{Set: Set{UserIDs: []int64{1}}})
	require.NoError(t, err)

	assert.Error(t, checker.AddUsers(ctx, 2))
	assert.False(t, checker.Allowed("2", nil))
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"authorized_roles": "x"`), 0600))

	_, err := NewChecker(context.Background(), &FileStore{Path: path})
	assert.Error(t, err)
}
