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

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"droplet_manager/internal/core"
	"droplet_manager/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Event struct {
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Severity  core.Severity `json:"severity"`
	Timestamp time.Time     `json:"timestamp"`
}

// RedisQueueNotifier pushes notifications onto a capped Redis list so other
// tools can audit what the autoscaler did.
type RedisQueueNotifier struct {
	client *redis.Client
	key    string
	maxLen int64
}

func NewRedisQueueNotifier(client *redis.Client, key string, maxLen int64) *RedisQueueNotifier {
	if key == "" {
		key = utils.DefaultNotificationQueue
	}

	return &RedisQueueNotifier{
		client: client,
		key:    key,
		maxLen: maxLen,
	}
}

func (n *RedisQueueNotifier) Notify(title, body string, severity core.Severity) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.RedisTimeout)
	defer cancel()

	if err := n.Publish(ctx, Event{Title: title, Body: body, Severity: severity, Timestamp: time.Now()}); err != nil {
		logrus.Warnf("Failed to queue notification %q (error : %v)", title, err)
	}
}

func (n *RedisQueueNotifier) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	_, err = n.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, n.key, data)
		if n.maxLen > 0 {
			pipe.LTrim(ctx, n.key, 0, n.maxLen-1)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push notification to redis: %w", err)
	}

	return nil
}
