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
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// Set is the allow-list of chat roles and users. Discord snowflakes fit in
// an int64, so settings.json stores them as plain numbers.
type Set struct {
	RoleIDs []int64 `json:"authorized_roles"`
	UserIDs []int64 `json:"authorized_users"`
}

func (s Set) Empty() bool {
	return len(s.RoleIDs) == 0 && len(s.UserIDs) == 0
}

type Store interface {
	Load(ctx context.Context) (Set, error)
	Save(ctx context.Context, set Set) error
}

// Checker caches the permission set in memory and writes changes through to
// the store.
type Checker struct {
	store Store

	lock sync.RWMutex
	set  Set
}

func NewChecker(ctx context.Context, store Store) (*Checker, error) {
	c := &Checker{store: store}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// Allowed reports whether the user, or one of its roles, is on the list.
// An empty list lets everybody through.
func (c *Checker) Allowed(userID string, roleIDs []string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.set.Empty() || c.member(userID, roleIDs)
}

// Authorized is the strict variant of Allowed: an empty list authorizes
// nobody. Changes to the list itself are gated on it.
func (c *Checker) Authorized(userID string, roleIDs []string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.member(userID, roleIDs)
}

func (c *Checker) member(userID string, roleIDs []string) bool {
	if id, err := strconv.ParseInt(userID, 10, 64); err == nil && contains(c.set.UserIDs, id) {
		return true
	}

	for _, role := range roleIDs {
		if id, err := strconv.ParseInt(role, 10, 64); err == nil && contains(c.set.RoleIDs, id) {
			return true
		}
	}

	return false
}

func (c *Checker) AddRoles(ctx context.Context, ids ...int64) error {
	return c.update(ctx, func(set *Set) {
		set.RoleIDs = appendMissing(set.RoleIDs, ids)
	})
}

func (c *Checker) AddUsers(ctx context.Context, ids ...int64) error {
	return c.update(ctx, func(set *Set) {
		set.UserIDs = appendMissing(set.UserIDs, ids)
	})
}

func (c *Checker) Reload(ctx context.Context) error {
	set, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load permissions: %w", err)
	}

	c.lock.Lock()
	c.set = set
	c.lock.Unlock()

	logrus.Debugf("Loaded %d authorized roles and %d authorized users", len(set.RoleIDs), len(set.UserIDs))

	return nil
}

func (c *Checker) Snapshot() Set {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return Set{
		RoleIDs: append([]int64(nil), c.set.RoleIDs...),
		UserIDs: append([]int64(nil), c.set.UserIDs...),
	}
}

func (c *Checker) update(ctx context.Context, mutate func(*Set)) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	updated := Set{
		RoleIDs: append([]int64(nil), c.set.RoleIDs...),
		UserIDs: append([]int64(nil), c.set.UserIDs...),
	}
	mutate(&updated)

	if err := c.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("failed to save permissions: %w", err)
	}

	c.set = updated

	return nil
}

func contains(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}

	return false
}

func appendMissing(ids []int64, toAdd []int64) []int64 {
	for _, id := range toAdd {
		if !contains(ids, id) {
			ids = append(ids, id)
		}
	}

	return ids
}
