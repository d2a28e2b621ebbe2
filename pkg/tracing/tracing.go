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

package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const transitionLogHeader = "timestamp,convergence,step,from,to,slug,success,duration_ms,detail\n"

type TransitionLogEntry struct {
	Timestamp     time.Time
	ConvergenceID string
	Step          string
	From          string
	To            string
	Slug          string
	Success       bool
	Duration      time.Duration
	Detail        string
}

type TracingService[T any] struct {
	OutputFile   string
	InputChannel chan T

	Header        string
	WriteFunction func(io.Writer, T)
}

// StartTracingService appends every received entry to the output file until
// the context is cancelled or the input channel is closed.
func (ts *TracingService[K]) StartTracingService(ctx context.Context) error {
	f, err := openForAppend(ts.OutputFile, ts.Header)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		select {
		case msg, ok := <-ts.InputChannel:
			if !ok {
				return nil
			}

			ts.WriteFunction(f, msg)
		case <-ctx.Done():
			return nil
		}
	}
}

// Offer enqueues an entry without blocking the caller; entries are dropped
// when the buffer is full.
func (ts *TracingService[K]) Offer(msg K) {
	select {
	case ts.InputChannel <- msg:
	default:
		logrus.Debug("Trace buffer full, dropping entry")
	}
}

func NewTransitionTracingService(outputFile string) *TracingService[TransitionLogEntry] {
	return &TracingService[TransitionLogEntry]{
		OutputFile:    outputFile,
		InputChannel:  make(chan TransitionLogEntry, 100),
		Header:        transitionLogHeader,
		WriteFunction: transitionWriteFunction,
	}
}

func openForAppend(path, header string) (*os.File, error) {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return nil, fmt.Errorf("unable to create trace folder: %w", err)
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open trace file: %w", err)
	}

	if isNew {
		_, _ = f.WriteString(header)
	}

	return f, nil
}

func transitionWriteFunction(w io.Writer, msg TransitionLogEntry) {
	_, _ = fmt.Fprintf(w, "%d,%s,%s,%s,%s,%s,%t,%d,%q\n",
		msg.Timestamp.UnixNano(),
		msg.ConvergenceID,
		msg.Step,
		msg.From,
		msg.To,
		msg.Slug,
		msg.Success,
		msg.Duration.Milliseconds(),
		msg.Detail,
	)
}
