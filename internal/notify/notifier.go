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
	"droplet_manager/internal/core"

	"github.com/sirupsen/logrus"
)

type LogNotifier struct{}

func (LogNotifier) Notify(title, body string, severity core.Severity) {
	entry := logrus.WithField("notification", title)

	switch severity {
	case core.SeverityError:
		entry.Error(body)
	case core.SeverityWarning:
		entry.Warn(body)
	default:
		entry.Info(body)
	}
}

// Fanout delivers every notification to all of its notifiers in order.
type Fanout []core.Notifier

func (f Fanout) Notify(title, body string, severity core.Severity) {
	for _, n := range f {
		if n != nil {
			n.Notify(title, body, severity)
		}
	}
}
