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
	"sort"
	"strconv"

	"droplet_manager/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps roles and users in two Redis sets.
type RedisStore struct {
	Client *redis.Client
}

func (r *RedisStore) Load(ctx context.Context) (Set, error) {
	roles, err := r.members(ctx, utils.PermissionRolesKey)
	if err != nil {
		return Set{}, err
	}

	users, err := r.members(ctx, utils.PermissionUsersKey)
	if err != nil {
		return Set{}, err
	}

	return Set{RoleIDs: roles, UserIDs: users}, nil
}

func (r *RedisStore) Save(ctx context.Context, set Set) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, utils.PermissionRolesKey, utils.PermissionUsersKey)

		if len(set.RoleIDs) > 0 {
			pipe.SAdd(ctx, utils.PermissionRolesKey, toMembers(set.RoleIDs)...)
		}
		if len(set.UserIDs) > 0 {
			pipe.SAdd(ctx, utils.PermissionUsersKey, toMembers(set.UserIDs)...)
		}

		return nil
	})

	return err
}

func (r *RedisStore) members(ctx context.Context, key string) ([]int64, error) {
	values, err := r.Client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	ids := make([]int64, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q in %s: %w", value, key, err)
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

func toMembers(ids []int64) []interface{} {
	res := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		res = append(res, strconv.FormatInt(id, 10))
	}

	return res
}
